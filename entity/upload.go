package entity

import (
	"strings"
	"time"
)

// UploadCandidate is the file taken from the multipart body. It only lives for
// the duration of a request; only the validated, renamed copy is persisted.
type UploadCandidate struct {
	Data             []byte
	DeclaredMimeType string
	OriginalFileName string
	SizeBytes        int64
}

// Extension returns the lower-cased last dot-segment of the original name.
// A name without a dot is returned whole, lower-cased.
func (u *UploadCandidate) Extension() string {
	name := u.OriginalFileName
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(name)
}

type StoredObject struct {
	Path        string    `json:"path"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// ImageItem is a gallery entry.
type ImageItem struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Size      int64     `json:"size"`
}
