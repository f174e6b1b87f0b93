package storage

import (
	"fmt"
	"strings"

	"github.com/s3-uploads-api/internal/config"
)

// PublicURL derives the public link for key.
//
// protocol-relative: "//{host}/{key}", host defaulting to "{bucket}.s3.amazonaws.com".
// scheme-explicit:   "{scheme://host}/{key}", host defaulting to "https://{bucket}.s3.amazonaws.com";
// a configured host without a scheme gets "http://".
func PublicURL(style, bucket, host, key string) string {
	if style == config.URLStyleSchemeExplicit {
		base := fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
		if host != "" {
			base = host
			if !strings.HasPrefix(base, "http") {
				base = "http://" + base
			}
		}
		return base + "/" + key
	}

	base := bucket + ".s3.amazonaws.com/"
	if host != "" {
		base = host
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
	}
	return "//" + base + key
}
