package storage

import (
	"context"
)

// PutInput describes one object write. Body is sent in full with an exact
// Content-Length.
type PutInput struct {
	Bucket      string
	Key         string
	Body        []byte
	ContentType string
}

// ObjectStore writes objects. Every object is stored public-read.
type ObjectStore interface {
	PutObject(ctx context.Context, in *PutInput) error
}

// CredentialApplier receives credential and region updates from the
// settings resolver. The two are applied independently.
type CredentialApplier interface {
	ApplyCredentials(accessKeyID, secretAccessKey string)
	ApplyRegion(region string)
}
