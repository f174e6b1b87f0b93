package services

import (
	"context"
	"sync/atomic"

	"github.com/s3-uploads-api/internal/config"
	"github.com/s3-uploads-api/internal/errs"
	"github.com/s3-uploads-api/internal/logger"
	"github.com/s3-uploads-api/internal/models"
	"github.com/s3-uploads-api/internal/storage"
)

// SettingsStore is the persisted key-value settings backend.
type SettingsStore interface {
	GetFields(ctx context.Context, namespace string, keys []string) (map[string]string, error)
	SetFields(ctx context.Context, namespace string, values map[string]string) error
}

// SettingsResolver merges persisted settings with environment defaults and
// publishes the result as an immutable snapshot.
type SettingsResolver struct {
	store    SettingsStore
	defaults config.S3Defaults
	applier  storage.CredentialApplier
	log      *logger.Logger

	current atomic.Pointer[models.Settings]
}

// NewSettingsResolver seeds the snapshot from defaults. Credentials start
// unset until the first Refresh.
func NewSettingsResolver(store SettingsStore, defaults config.S3Defaults, applier storage.CredentialApplier, log *logger.Logger) *SettingsResolver {
	r := &SettingsResolver{
		store:    store,
		defaults: defaults,
		applier:  applier,
		log:      log.Subsystem("settings"),
	}
	r.current.Store(&models.Settings{
		Bucket: defaults.Bucket,
		Host:   defaults.Host,
		Path:   defaults.Path,
		Region: defaults.InitialRegion(),
	})
	return r
}

// Current returns the active snapshot. Callers must not modify it.
func (r *SettingsResolver) Current() *models.Settings {
	return r.current.Load()
}

// Refresh reloads every field from the store and swaps the snapshot in one
// step. On a fetch error the previous snapshot stays active.
func (r *SettingsResolver) Refresh(ctx context.Context) (*models.Settings, error) {
	stored, err := r.store.GetFields(ctx, models.Namespace, models.SettingFields)
	if err != nil {
		wrapped := errs.Wrap(errs.KindSettingsFetch, "settings", "fetch settings", err)
		r.log.Error(wrapped.Error())
		return nil, wrapped
	}

	next := r.resolve(stored)

	if next.HasCredentials() {
		r.applier.ApplyCredentials(next.AccessKeyID, next.SecretAccessKey)
	}
	if next.Region != "" {
		r.applier.ApplyRegion(next.Region)
	}

	r.current.Store(next)
	return next, nil
}

// resolve applies field precedence. Credentials never fall back to the
// environment.
func (r *SettingsResolver) resolve(stored map[string]string) *models.Settings {
	s := &models.Settings{}

	if v := stored[models.FieldAccessKeyID]; v != "" {
		s.AccessKeyID = v
		s.AccessKeyIDFromStore = true
	}
	if v := stored[models.FieldSecretAccessKey]; v != "" {
		s.SecretAccessKey = v
		s.SecretAccessKeyFromStore = true
	}

	s.Bucket = orDefault(stored[models.FieldBucket], r.defaults.Bucket)
	s.Host = orDefault(stored[models.FieldHost], r.defaults.Host)
	s.Path = orDefault(stored[models.FieldPath], r.defaults.Path)
	s.Region = orDefault(stored[models.FieldRegion], r.defaults.Region)

	return s
}

func orDefault(value, fallback string) string {
	if value != "" {
		return value
	}
	return fallback
}
