package model

import "io"

// ImageUpload is an image attached to a request, streamed to object storage.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}
