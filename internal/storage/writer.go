package storage

import (
	"context"
	"mime"
	"path/filepath"

	"github.com/s3-uploads-api/internal/errs"
	"github.com/s3-uploads-api/internal/models"
)

// Writer puts a buffer under a computed key and returns its public URL.
type Writer struct {
	store    ObjectStore
	urlStyle string
}

func NewWriter(store ObjectStore, urlStyle string) *Writer {
	return &Writer{store: store, urlStyle: urlStyle}
}

// Write stores body at key in the configured bucket. The content type comes
// from filename's extension.
func (w *Writer) Write(ctx context.Context, settings *models.Settings, key, filename string, body []byte) (string, error) {
	in := &PutInput{
		Bucket:      settings.Bucket,
		Key:         key,
		Body:        body,
		ContentType: ContentType(filename),
	}

	if err := w.store.PutObject(ctx, in); err != nil {
		return "", errs.Wrap(errs.KindStoreWrite, "storage", "put object "+key, err)
	}

	return PublicURL(w.urlStyle, settings.Bucket, settings.Host, key), nil
}

// ContentType looks up the MIME type for name's extension.
func ContentType(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "application/octet-stream"
}
