package services

import (
	"context"

	"github.com/s3-uploads-api/internal/errs"
	"github.com/s3-uploads-api/internal/logger"
	"github.com/s3-uploads-api/internal/models"
)

// SettingsNotifier tells other processes that the stored settings changed.
type SettingsNotifier interface {
	PublishSettingsChanged(ctx context.Context) error
}

// MenuEntry is the navigation item contributed to the admin header.
var MenuEntry = models.MenuEntry{
	Route: "/plugins/s3-uploads",
	Icon:  "fa-envelope-o",
	Name:  "S3 Uploads",
}

type AdminService struct {
	store    SettingsStore
	resolver *SettingsResolver
	notifier SettingsNotifier
	log      *logger.Logger
}

// NewAdminService wires the settings page. notifier may be nil when running
// a single process.
func NewAdminService(store SettingsStore, resolver *SettingsResolver, notifier SettingsNotifier, log *logger.Logger) *AdminService {
	return &AdminService{
		store:    store,
		resolver: resolver,
		notifier: notifier,
		log:      log.Subsystem("admin"),
	}
}

// View returns the page data; credentials are only echoed when they came
// from the store.
func (s *AdminService) View(csrf string) models.AdminView {
	return models.NewAdminView(s.resolver.Current(), csrf)
}

func (s *AdminService) SaveS3Settings(ctx context.Context, req models.S3SettingsRequest) error {
	return s.save(ctx, req.Fields())
}

func (s *AdminService) SaveCredentials(ctx context.Context, req models.CredentialsRequest) error {
	return s.save(ctx, req.Fields())
}

// save persists fields, then reloads the full snapshot. A failed reload is
// logged but does not fail the save.
func (s *AdminService) save(ctx context.Context, fields map[string]string) error {
	if err := s.store.SetFields(ctx, models.Namespace, fields); err != nil {
		wrapped := errs.Wrap(errs.KindSettingsSave, "admin", "save settings", err)
		s.log.Error(wrapped.Error())
		return wrapped
	}

	if _, err := s.resolver.Refresh(ctx); err != nil {
		s.log.Warn("settings saved but refresh failed")
	}

	if s.notifier != nil {
		if err := s.notifier.PublishSettingsChanged(ctx); err != nil {
			s.log.ErrorWith("failed to publish settings change", err, nil)
		}
	}

	return nil
}

// AdminMenu appends this service's navigation entry to header.
func AdminMenu(header *models.AdminHeader) *models.AdminHeader {
	if header == nil {
		header = &models.AdminHeader{}
	}
	header.Plugins = append(header.Plugins, MenuEntry)
	return header
}
