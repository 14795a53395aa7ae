package model

// Attachment is a file reference owned by exactly one task. The core only
// stores the reference; resolving FilePath to content is a collaborator
// concern.
type Attachment struct {
	ID        uint   `gorm:"primaryKey"`
	TaskID    uint   `gorm:"index;not null"`
	FileName  string
	FilePath  string // opaque reference, typically a URI
	MimeType  string
	FileSize  int64 // bytes
	CreatedAt int64 `gorm:"autoCreateTime:milli"`
}
