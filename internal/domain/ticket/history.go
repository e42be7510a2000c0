package ticket

import "time"

// ChangeType classifies an audit entry.
type ChangeType string

const (
	ChangeCreated         ChangeType = "CREATED"
	ChangeStatusChanged   ChangeType = "STATUS_CHANGED"
	ChangePriorityChanged ChangeType = "PRIORITY_CHANGED"
	ChangeAssigned        ChangeType = "ASSIGNED"
	ChangeUnassigned      ChangeType = "UNASSIGNED"
	ChangeCommentAdded    ChangeType = "COMMENT_ADDED"
	ChangeAttachmentAdded ChangeType = "ATTACHMENT_ADDED"
)

func (c ChangeType) String() string { return string(c) }

// HistoryEntry is one immutable audit record. Entries produced by internal
// comments are flagged internal so resident-facing reads can hide them.
type HistoryEntry struct {
	id          uint
	ticketID    uint
	actorID     *uint
	changeType  ChangeType
	oldValue    *string
	newValue    *string
	description string
	internal    bool
	changedAt   time.Time
}

func ReconstructHistoryEntry(
	id, ticketID uint,
	actorID *uint,
	changeType ChangeType,
	oldValue, newValue *string,
	description string,
	internal bool,
	changedAt time.Time,
) *HistoryEntry {
	return &HistoryEntry{
		id:          id,
		ticketID:    ticketID,
		actorID:     actorID,
		changeType:  changeType,
		oldValue:    oldValue,
		newValue:    newValue,
		description: description,
		internal:    internal,
		changedAt:   changedAt,
	}
}

func (h *HistoryEntry) ID() uint               { return h.id }
func (h *HistoryEntry) TicketID() uint         { return h.ticketID }
func (h *HistoryEntry) ActorID() *uint         { return h.actorID }
func (h *HistoryEntry) ChangeType() ChangeType { return h.changeType }
func (h *HistoryEntry) OldValue() *string      { return h.oldValue }
func (h *HistoryEntry) NewValue() *string      { return h.newValue }
func (h *HistoryEntry) Description() string    { return h.description }
func (h *HistoryEntry) IsInternal() bool       { return h.internal }
func (h *HistoryEntry) ChangedAt() time.Time   { return h.changedAt }
func (h *HistoryEntry) IsNew() bool            { return h.id == 0 }

func (h *HistoryEntry) MarkPersisted(id, ticketID uint) {
	h.id = id
	h.ticketID = ticketID
}

// auditLog is the append-only history owned by a ticket.
type auditLog struct {
	entries []*HistoryEntry
}

func (l *auditLog) append(e *HistoryEntry) {
	l.entries = append(l.entries, e)
}

// chronological returns entries oldest first.
func (l *auditLog) chronological() []*HistoryEntry {
	out := make([]*HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// recent returns up to limit entries newest first; limit <= 0 means all.
func (l *auditLog) recent(limit int) []*HistoryEntry {
	n := len(l.entries)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]*HistoryEntry, 0, n)
	for i := len(l.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, l.entries[i])
	}
	return out
}

// pending returns entries not yet written to storage, in insertion order.
func (l *auditLog) pending() []*HistoryEntry {
	var out []*HistoryEntry
	for _, e := range l.entries {
		if e.IsNew() {
			out = append(out, e)
		}
	}
	return out
}

func strPtr(s string) *string {
	return &s
}

func uintPtr(v uint) *uint {
	return &v
}
