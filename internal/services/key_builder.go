package services

import (
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/s3-uploads-api/internal/models"
)

// KeyPrefix normalizes the configured path into an object key prefix: it
// ends in exactly one added "/" and never starts with "/".
func KeyPrefix(p string) string {
	s3Path := "/"
	if p != "" {
		s3Path = p
		if !strings.HasSuffix(s3Path, "/") {
			s3Path += "/"
		}
	}
	return strings.TrimPrefix(s3Path, "/")
}

// BuildKey returns prefix + random UUID + extension of filename. The original
// name is not part of the key.
func BuildKey(settings *models.Settings, filename string) string {
	return KeyPrefix(settings.Path) + uuid.NewString() + path.Ext(filename)
}

// NameFromURL takes everything after the last "/" of rawURL, unparsed.
func NameFromURL(rawURL string) string {
	return rawURL[strings.LastIndex(rawURL, "/")+1:]
}
