package ports

import "context"

// ImageUpload describes an image staged on local disk by the transport layer.
type ImageUpload struct {
	Filename    string
	ContentType string
	Path        string
	Size        int64
}

// ImageStore forwards an uploaded image to its host and returns the opaque
// reference (URL) stored on the item.
type ImageStore interface {
	Save(ctx context.Context, upload ImageUpload) (string, error)
}
