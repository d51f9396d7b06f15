package models

import (
	"time"
)

// FileRecord is the metadata row describing one uploaded file. The short
// random identifier doubles as the Mongo document key, which gives us the
// unique constraint that drives collision retries on upload.
type FileRecord struct {
	ID           string    `bson:"_id" json:"id"`
	Filename     string    `bson:"filename" json:"filename"`
	Size         int64     `bson:"size" json:"size"`
	MimeType     string    `bson:"mime_type" json:"mime_type"`
	UploadedAt   time.Time `bson:"uploaded_at" json:"uploaded_at"`
	ExpiresAt    time.Time `bson:"expires_at" json:"expires_at"`
	PasswordHash string    `bson:"password_hash,omitempty" json:"-"`
}

// HasPassword reports whether deletion of this file is password-gated.
func (f *FileRecord) HasPassword() bool {
	return f.PasswordHash != ""
}

// Expired reports whether the record is logically dead at the given time.
func (f *FileRecord) Expired(now time.Time) bool {
	return !f.ExpiresAt.After(now)
}
