package store

import (
	"context"
	"time"
)

type UploadParams struct {
	Name        string
	Data        []byte
	ContentType string
	Metadata    map[string]string
}

type Uploader interface {
	Upload(context.Context, UploadParams) error
}

type Object struct {
	Name     string
	Metadata map[string]string
	Updated  time.Time
}

type Lister interface {
	// List returns the stored objects whose names end with suffix.
	List(ctx context.Context, suffix string) ([]Object, error)
}

type Store interface {
	Uploader
	Lister
}
