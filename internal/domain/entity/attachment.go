package entity

import "time"

// Attachment references an uploaded file tied to a document. The workflow
// stores only the reference; bytes live in file storage.
type Attachment struct {
	ID          int64     `json:"id"`
	DocumentID  int64     `json:"document_id"`
	FileName    string    `json:"file_name"`
	StoredPath  string    `json:"stored_path"`
	Size        int64     `json:"size"`
	ContentType string    `json:"content_type,omitempty"`
	UploadedBy  int64     `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}
