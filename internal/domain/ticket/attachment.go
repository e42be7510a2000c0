package ticket

import (
	"fmt"
	"path"
	"strings"
	"time"
)

// MaxAttachmentSize caps the recorded file size (25 MiB).
const MaxAttachmentSize int64 = 25 << 20

// Attachment is metadata about an uploaded file; the bytes live elsewhere.
type Attachment struct {
	id          uint
	ticketID    uint
	uploaderID  uint
	fileName    string
	filePath    string
	contentType string
	fileSize    int64
	uploadedAt  time.Time
}

func newAttachment(ticketID, uploaderID uint, fileName, filePath, contentType string, size int64, now time.Time) (*Attachment, error) {
	fileName = path.Base(strings.TrimSpace(fileName))
	if fileName == "" || fileName == "." || fileName == "/" {
		return nil, validationErr("file name is required")
	}
	if len(fileName) > 255 {
		return nil, validationErr("file name must be at most 255 characters")
	}
	if strings.TrimSpace(filePath) == "" {
		return nil, validationErr("file path is required")
	}
	if size <= 0 {
		return nil, validationErr("file size must be positive")
	}
	if size > MaxAttachmentSize {
		return nil, validationErr(fmt.Sprintf("file size must not exceed %d bytes", MaxAttachmentSize))
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &Attachment{
		ticketID:    ticketID,
		uploaderID:  uploaderID,
		fileName:    fileName,
		filePath:    filePath,
		contentType: contentType,
		fileSize:    size,
		uploadedAt:  now,
	}, nil
}

func ReconstructAttachment(id, ticketID, uploaderID uint, fileName, filePath, contentType string, size int64, uploadedAt time.Time) *Attachment {
	return &Attachment{
		id:          id,
		ticketID:    ticketID,
		uploaderID:  uploaderID,
		fileName:    fileName,
		filePath:    filePath,
		contentType: contentType,
		fileSize:    size,
		uploadedAt:  uploadedAt,
	}
}

func (a *Attachment) ID() uint              { return a.id }
func (a *Attachment) TicketID() uint        { return a.ticketID }
func (a *Attachment) UploaderID() uint      { return a.uploaderID }
func (a *Attachment) FileName() string      { return a.fileName }
func (a *Attachment) FilePath() string      { return a.filePath }
func (a *Attachment) ContentType() string   { return a.contentType }
func (a *Attachment) FileSize() int64       { return a.fileSize }
func (a *Attachment) UploadedAt() time.Time { return a.uploadedAt }
func (a *Attachment) IsNew() bool           { return a.id == 0 }

func (a *Attachment) MarkPersisted(id, ticketID uint) {
	a.id = id
	a.ticketID = ticketID
}
