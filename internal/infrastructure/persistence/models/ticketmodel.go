package models

import "fastighet/internal/shared/constants"

type TicketModel struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:255;not null"`
	Description string `gorm:"type:text;not null"`
	CategoryID  *uint  `gorm:"index"`
	Priority    string `gorm:"size:20;not null;index"`
	Status      string `gorm:"size:20;not null;index"`
	ReporterID  uint   `gorm:"not null;index"`
	AssigneeID  *uint  `gorm:"index"`
	PropertyID  uint   `gorm:"not null;index"`
	UnitID      *uint  `gorm:"index"`
	Version     int    `gorm:"not null;default:1"`
	CreatedAt   int64  `gorm:"not null;index"`
	UpdatedAt   int64  `gorm:"not null"`
	ResolvedAt  *int64
	EscalatedAt *int64

	// Note: No foreign key constraints or associations.
	// All relationships are managed by application business logic.
}

func (TicketModel) TableName() string {
	return constants.TableTickets
}

type CommentModel struct {
	ID         uint   `gorm:"primaryKey"`
	TicketID   uint   `gorm:"not null;index"`
	AuthorID   uint   `gorm:"not null;index"`
	Content    string `gorm:"type:text;not null"`
	IsInternal bool   `gorm:"not null;default:false"`
	CreatedAt  int64  `gorm:"not null;index"`
}

func (CommentModel) TableName() string {
	return constants.TableTicketComments
}

type AttachmentModel struct {
	ID          uint   `gorm:"primaryKey"`
	TicketID    uint   `gorm:"not null;index"`
	UploaderID  uint   `gorm:"not null"`
	FileName    string `gorm:"size:255;not null"`
	FilePath    string `gorm:"size:500;not null"`
	ContentType string `gorm:"size:100"`
	FileSize    int64  `gorm:"not null;default:0"`
	UploadedAt  int64  `gorm:"not null"`
}

func (AttachmentModel) TableName() string {
	return constants.TableAttachments
}

// TicketHistoryModel rows are insert-only.
type TicketHistoryModel struct {
	ID          uint    `gorm:"primaryKey"`
	TicketID    uint    `gorm:"not null;index:idx_ticket_history_ticket,priority:1"`
	ActorID     *uint   `gorm:"index"`
	ChangeType  string  `gorm:"size:30;not null"`
	OldValue    *string `gorm:"size:500"`
	NewValue    *string `gorm:"size:500"`
	Description string  `gorm:"size:500;not null"`
	IsInternal  bool    `gorm:"not null;default:false"`
	ChangedAt   int64   `gorm:"not null;index:idx_ticket_history_ticket,priority:2"`
}

func (TicketHistoryModel) TableName() string {
	return constants.TableTicketHistory
}

type CategoryModel struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;size:100;not null"`
	Description string `gorm:"size:500"`
	Icon        string `gorm:"size:50"`
}

func (CategoryModel) TableName() string {
	return constants.TableCategories
}
