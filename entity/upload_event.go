package entity

// ImageUploadedEvent is published after a successful upload.
type ImageUploadedEvent struct {
	UserID       string `json:"user_id"`
	Path         string `json:"path"`
	URL          string `json:"url"`
	ContentType  string `json:"content_type"`
	Size         int64  `json:"size"`
	OriginalName string `json:"original_name"`
	Timestamp    int64  `json:"timestamp"`
}
