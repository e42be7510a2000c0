// Package ticket holds the maintenance ticket aggregate: its lifecycle,
// comments, attachment metadata and the append-only audit history.
package ticket

import (
	"fmt"
	"strconv"
	"time"

	vo "fastighet/internal/domain/ticket/valueobjects"
	"fastighet/internal/shared/biztime"
	"fastighet/internal/shared/errors"
)

type Ticket struct {
	id          uint
	title       string
	description string
	categoryID  *uint
	status      vo.TicketStatus
	priority    vo.Priority
	reporterID  uint
	assigneeID  *uint
	propertyID  uint
	unitID      *uint
	comments    []*Comment
	attachments []*Attachment
	history     auditLog
	version     int
	createdAt   time.Time
	updatedAt   time.Time
	resolvedAt  *time.Time
	escalatedAt *time.Time
}

// NewTicket reports a ticket in status NEW and records the CREATED entry
// with the reporter as actor. An empty priority defaults to MEDIUM.
func NewTicket(
	reporterID uint,
	propertyID uint,
	title string,
	description string,
	priority vo.Priority,
	categoryID *uint,
	unitID *uint,
) (*Ticket, error) {
	if reporterID == 0 {
		return nil, validationErr("reporter is required")
	}
	if propertyID == 0 {
		return nil, validationErr("property is required")
	}
	title, err := validateTitle(title)
	if err != nil {
		return nil, err
	}
	description, err = validateDescription(description)
	if err != nil {
		return nil, err
	}
	if priority == "" {
		priority = vo.DefaultPriority
	}
	if !priority.IsValid() {
		return nil, errors.NewValidationError("invalid priority", priority.String())
	}

	now := biztime.NowUTC()
	t := &Ticket{
		title:       title,
		description: description,
		categoryID:  categoryID,
		status:      vo.StatusNew,
		priority:    priority,
		reporterID:  reporterID,
		propertyID:  propertyID,
		unitID:      unitID,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}
	t.history.append(&HistoryEntry{
		actorID:     uintPtr(reporterID),
		changeType:  ChangeCreated,
		newValue:    strPtr(vo.StatusNew.String()),
		description: "Ticket created",
		changedAt:   now,
	})
	return t, nil
}

// ReconstructTicket rebuilds a persisted ticket without children; use
// RestoreChildren to attach comments, attachments and history.
func ReconstructTicket(
	id uint,
	title string,
	description string,
	categoryID *uint,
	status vo.TicketStatus,
	priority vo.Priority,
	reporterID uint,
	assigneeID *uint,
	propertyID uint,
	unitID *uint,
	version int,
	createdAt, updatedAt time.Time,
	resolvedAt, escalatedAt *time.Time,
) (*Ticket, error) {
	if id == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", priority)
	}
	if reporterID == 0 || propertyID == 0 {
		return nil, fmt.Errorf("ticket %d is missing reporter or property", id)
	}
	return &Ticket{
		id:          id,
		title:       title,
		description: description,
		categoryID:  categoryID,
		status:      status,
		priority:    priority,
		reporterID:  reporterID,
		assigneeID:  assigneeID,
		propertyID:  propertyID,
		unitID:      unitID,
		version:     version,
		createdAt:   createdAt,
		updatedAt:   updatedAt,
		resolvedAt:  resolvedAt,
		escalatedAt: escalatedAt,
	}, nil
}

func (t *Ticket) RestoreChildren(comments []*Comment, attachments []*Attachment, history []*HistoryEntry) {
	t.comments = append([]*Comment(nil), comments...)
	t.attachments = append([]*Attachment(nil), attachments...)
	t.history = auditLog{entries: append([]*HistoryEntry(nil), history...)}
}

func (t *Ticket) ID() uint                { return t.id }
func (t *Ticket) Title() string           { return t.title }
func (t *Ticket) Description() string     { return t.description }
func (t *Ticket) CategoryID() *uint       { return t.categoryID }
func (t *Ticket) Status() vo.TicketStatus { return t.status }
func (t *Ticket) Priority() vo.Priority   { return t.priority }
func (t *Ticket) ReporterID() uint        { return t.reporterID }
func (t *Ticket) AssigneeID() *uint       { return t.assigneeID }
func (t *Ticket) PropertyID() uint        { return t.propertyID }
func (t *Ticket) UnitID() *uint           { return t.unitID }
func (t *Ticket) Version() int            { return t.version }
func (t *Ticket) CreatedAt() time.Time    { return t.createdAt }
func (t *Ticket) UpdatedAt() time.Time    { return t.updatedAt }
func (t *Ticket) ResolvedAt() *time.Time  { return t.resolvedAt }
func (t *Ticket) EscalatedAt() *time.Time { return t.escalatedAt }
func (t *Ticket) IsOpen() bool            { return t.status.IsOpen() }

func (t *Ticket) IsAssignedTo(userID uint) bool {
	return t.assigneeID != nil && *t.assigneeID == userID
}

func (t *Ticket) Comments() []*Comment {
	return append([]*Comment(nil), t.comments...)
}

func (t *Ticket) Attachments() []*Attachment {
	return append([]*Attachment(nil), t.attachments...)
}

// History returns the audit trail oldest first.
func (t *Ticket) History() []*HistoryEntry {
	return t.history.chronological()
}

// RecentHistory returns up to limit audit entries newest first.
func (t *Ticket) RecentHistory(limit int) []*HistoryEntry {
	return t.history.recent(limit)
}

// PendingHistory returns entries appended since the ticket was loaded.
func (t *Ticket) PendingHistory() []*HistoryEntry {
	return t.history.pending()
}

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

// MarkPersisted records the version stored by the repository.
func (t *Ticket) MarkPersisted(version int) {
	t.version = version
}

// UpdateDetails edits the descriptive fields. Nil arguments are left
// untouched. These edits are not audited.
func (t *Ticket) UpdateDetails(title, description *string, categoryID *uint) error {
	newTitle, newDescription := t.title, t.description
	var err error
	if title != nil {
		if newTitle, err = validateTitle(*title); err != nil {
			return err
		}
	}
	if description != nil {
		if newDescription, err = validateDescription(*description); err != nil {
			return err
		}
	}

	changed := newTitle != t.title || newDescription != t.description
	t.title, t.description = newTitle, newDescription
	if categoryID != nil && (t.categoryID == nil || *t.categoryID != *categoryID) {
		t.categoryID = uintPtr(*categoryID)
		changed = true
	}
	if changed {
		t.touch(biztime.NowUTC())
	}
	return nil
}

// ChangeStatus moves the ticket to status and appends STATUS_CHANGED. It
// reports false when the ticket already has that status. resolvedAt is set
// the first time RESOLVED is entered and never overwritten.
func (t *Ticket) ChangeStatus(actorID uint, status vo.TicketStatus) (bool, error) {
	if !status.IsValid() {
		return false, errors.NewValidationError("invalid status", status.String())
	}
	if t.status == status {
		return false, nil
	}
	t.applyStatus(uintPtr(actorID), status, biztime.NowUTC())
	return true, nil
}

func (t *Ticket) applyStatus(actorID *uint, status vo.TicketStatus, now time.Time) {
	old := t.status
	t.status = status
	if status.IsResolved() && t.resolvedAt == nil {
		resolved := now
		t.resolvedAt = &resolved
	}
	t.history.append(&HistoryEntry{
		actorID:     actorID,
		changeType:  ChangeStatusChanged,
		oldValue:    strPtr(old.String()),
		newValue:    strPtr(status.String()),
		description: fmt.Sprintf("Status changed from %s to %s", old, status),
		changedAt:   now,
	})
	t.touch(now)
}

// ChangePriority appends PRIORITY_CHANGED; status is unaffected.
func (t *Ticket) ChangePriority(actorID uint, priority vo.Priority) (bool, error) {
	if !priority.IsValid() {
		return false, errors.NewValidationError("invalid priority", priority.String())
	}
	if t.priority == priority {
		return false, nil
	}
	now := biztime.NowUTC()
	old := t.priority
	t.priority = priority
	t.history.append(&HistoryEntry{
		actorID:     uintPtr(actorID),
		changeType:  ChangePriorityChanged,
		oldValue:    strPtr(old.String()),
		newValue:    strPtr(priority.String()),
		description: fmt.Sprintf("Priority changed from %s to %s", old, priority),
		changedAt:   now,
	})
	t.touch(now)
	return true, nil
}

// AssignTo sets the assignee and appends ASSIGNED. A ticket still in NEW
// then moves to IN_PROGRESS with its own STATUS_CHANGED entry, so history
// reads ASSIGNED followed by STATUS_CHANGED. The returned flag reports
// whether that automatic transition happened.
func (t *Ticket) AssignTo(actorID, assigneeID uint, assigneeName string) (bool, error) {
	if assigneeID == 0 {
		return false, validationErr("assignee is required")
	}
	if t.IsAssignedTo(assigneeID) {
		return false, validationErr("ticket is already assigned to this user")
	}

	now := biztime.NowUTC()
	var oldValue *string
	if t.assigneeID != nil {
		oldValue = strPtr(strconv.FormatUint(uint64(*t.assigneeID), 10))
	}
	t.assigneeID = uintPtr(assigneeID)
	t.history.append(&HistoryEntry{
		actorID:     uintPtr(actorID),
		changeType:  ChangeAssigned,
		oldValue:    oldValue,
		newValue:    strPtr(strconv.FormatUint(uint64(assigneeID), 10)),
		description: "Assigned to " + assigneeName,
		changedAt:   now,
	})
	t.touch(now)

	if !t.status.IsNew() {
		return false, nil
	}
	t.applyStatus(uintPtr(actorID), vo.StatusInProgress, now)
	return true, nil
}

// Unassign clears the assignee and appends UNASSIGNED.
func (t *Ticket) Unassign(actorID uint) error {
	if t.assigneeID == nil {
		return validationErr("ticket is not assigned")
	}
	now := biztime.NowUTC()
	old := *t.assigneeID
	t.assigneeID = nil
	t.history.append(&HistoryEntry{
		actorID:     uintPtr(actorID),
		changeType:  ChangeUnassigned,
		oldValue:    strPtr(strconv.FormatUint(uint64(old), 10)),
		description: "Assignee removed",
		changedAt:   now,
	})
	t.touch(now)
	return nil
}

// AddComment appends a comment and its COMMENT_ADDED entry. The entry
// inherits the comment's internal flag.
func (t *Ticket) AddComment(authorID uint, content string, internal bool) (*Comment, error) {
	now := biztime.NowUTC()
	c, err := newComment(t.id, authorID, content, internal, now)
	if err != nil {
		return nil, err
	}
	description := "Comment added"
	if internal {
		description = "Internal comment added"
	}
	t.comments = append(t.comments, c)
	t.history.append(&HistoryEntry{
		actorID:     uintPtr(authorID),
		changeType:  ChangeCommentAdded,
		newValue:    strPtr("comment added"),
		description: description,
		internal:    internal,
		changedAt:   now,
	})
	t.touch(now)
	return c, nil
}

// AddAttachment records file metadata and appends ATTACHMENT_ADDED.
func (t *Ticket) AddAttachment(uploaderID uint, fileName, filePath, contentType string, size int64) (*Attachment, error) {
	now := biztime.NowUTC()
	a, err := newAttachment(t.id, uploaderID, fileName, filePath, contentType, size, now)
	if err != nil {
		return nil, err
	}
	t.attachments = append(t.attachments, a)
	t.history.append(&HistoryEntry{
		actorID:     uintPtr(uploaderID),
		changeType:  ChangeAttachmentAdded,
		newValue:    strPtr(a.FileName()),
		description: "Attachment added: " + a.FileName(),
		changedAt:   now,
	})
	t.touch(now)
	return a, nil
}

// MarkEscalated flags an unresolved ticket as escalated. It returns false
// when the ticket was already escalated or is no longer open.
func (t *Ticket) MarkEscalated(now time.Time) bool {
	if t.escalatedAt != nil || !t.IsOpen() {
		return false
	}
	escalated := now
	t.escalatedAt = &escalated
	t.touch(now)
	return true
}

// VisibleComments returns the comments a viewer may read. Internal
// comments are dropped unless includeInternal is set.
func (t *Ticket) VisibleComments(includeInternal bool) []*Comment {
	out := make([]*Comment, 0, len(t.comments))
	for _, c := range t.comments {
		if c.IsInternal() && !includeInternal {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (t *Ticket) touch(now time.Time) {
	t.updatedAt = now
}
