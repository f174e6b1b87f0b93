package services

import (
	"context"
	"os"

	"github.com/s3-uploads-api/internal/config"
	"github.com/s3-uploads-api/internal/errs"
	"github.com/s3-uploads-api/internal/logger"
	"github.com/s3-uploads-api/internal/models"
)

// SettingsSource yields the current effective settings.
type SettingsSource interface {
	Current() *models.Settings
}

// Transformer resizes a remote image into memory.
type Transformer interface {
	Transform(ctx context.Context, sourceURL string, dimension int) ([]byte, error)
}

// ObjectWriter stores a buffer and returns its public URL.
type ObjectWriter interface {
	Write(ctx context.Context, settings *models.Settings, key, filename string, body []byte) (string, error)
}

// UploadService runs validate -> size check -> read/transform -> key -> write.
type UploadService struct {
	settings    SettingsSource
	transformer Transformer
	writer      ObjectWriter
	limits      config.UploadsConfig
	log         *logger.Logger
}

func NewUploadService(settings SettingsSource, transformer Transformer, writer ObjectWriter, limits config.UploadsConfig, log *logger.Logger) *UploadService {
	return &UploadService{
		settings:    settings,
		transformer: transformer,
		writer:      writer,
		limits:      limits,
		log:         log.Subsystem("upload"),
	}
}

// UploadFile stores a staged generic file.
func (s *UploadService) UploadFile(ctx context.Context, file *models.LocalFile) (*models.UploadResult, error) {
	if file == nil {
		return nil, s.fail(errs.Validation("invalid file"))
	}
	if file.Path == "" {
		return nil, s.fail(errs.Validation("invalid file path"))
	}
	if err := s.checkSize(file.Size); err != nil {
		return nil, s.fail(err)
	}

	return s.uploadLocal(ctx, file)
}

// UploadImage stores a staged image, or fetches, resizes and stores a remote
// one. The size check runs before the source branch; a remote image carries
// size 0 and its transformed output is not checked.
func (s *UploadService) UploadImage(ctx context.Context, img *models.ImageRef) (*models.UploadResult, error) {
	if img == nil {
		return nil, s.fail(errs.Validation("invalid image"))
	}
	if err := s.checkSize(img.Size); err != nil {
		return nil, s.fail(err)
	}

	if !img.IsRemote() {
		if img.Path == "" {
			return nil, s.fail(errs.Validation("invalid image path"))
		}
		return s.uploadLocal(ctx, &img.LocalFile)
	}

	filename := NameFromURL(img.URL)
	body, err := s.transformer.Transform(ctx, img.URL, s.limits.ImageDimension())
	if err != nil {
		return nil, s.fail(err)
	}

	return s.store(ctx, filename, body)
}

func (s *UploadService) checkSize(size int64) error {
	if size > s.limits.MaxFileSizeBytes() {
		return errs.FileTooBig(s.limits.MaximumFileSize)
	}
	return nil
}

func (s *UploadService) uploadLocal(ctx context.Context, file *models.LocalFile) (*models.UploadResult, error) {
	body, err := os.ReadFile(file.Path)
	if err != nil {
		return nil, s.fail(errs.Wrap(errs.KindFileRead, "upload", "read "+file.Name, err))
	}

	return s.store(ctx, file.Name, body)
}

func (s *UploadService) store(ctx context.Context, filename string, body []byte) (*models.UploadResult, error) {
	settings := s.settings.Current()
	key := BuildKey(settings, filename)

	url, err := s.writer.Write(ctx, settings, key, filename, body)
	if err != nil {
		return nil, s.fail(err)
	}

	return &models.UploadResult{Name: filename, URL: url}, nil
}

func (s *UploadService) fail(err error) error {
	s.log.ErrorWith("upload failed", err, map[string]interface{}{"kind": errs.KindOf(err).String()})
	return err
}
