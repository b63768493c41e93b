package entity

import "io"

// Upload is an image received with a request, not yet stored.
type Upload struct {
	Filename string
	Size     int64
	Content  io.Reader
}
