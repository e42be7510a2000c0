package valueobjects

import (
	"fmt"
	"strings"
)

// TicketStatus is the lifecycle state of a ticket. Any valid status may be
// requested; authorisation decides who may request it.
type TicketStatus string

const (
	StatusNew        TicketStatus = "NEW"
	StatusInProgress TicketStatus = "IN_PROGRESS"
	StatusWaiting    TicketStatus = "WAITING"
	StatusResolved   TicketStatus = "RESOLVED"
	StatusClosed     TicketStatus = "CLOSED"
)

var validTicketStatuses = map[TicketStatus]bool{
	StatusNew:        true,
	StatusInProgress: true,
	StatusWaiting:    true,
	StatusResolved:   true,
	StatusClosed:     true,
}

func (ts TicketStatus) String() string {
	return string(ts)
}

func (ts TicketStatus) IsValid() bool {
	return validTicketStatuses[ts]
}

func (ts TicketStatus) IsNew() bool {
	return ts == StatusNew
}

func (ts TicketStatus) IsResolved() bool {
	return ts == StatusResolved
}

func (ts TicketStatus) IsClosed() bool {
	return ts == StatusClosed
}

// IsOpen is true while the ticket still needs work.
func (ts TicketStatus) IsOpen() bool {
	return ts.IsValid() && !ts.IsResolved() && !ts.IsClosed()
}

// NewTicketStatus parses a status case-insensitively.
func NewTicketStatus(s string) (TicketStatus, error) {
	ts := TicketStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !ts.IsValid() {
		return "", fmt.Errorf("invalid ticket status: %s", s)
	}
	return ts, nil
}

// OpenStatuses lists the statuses counted as unresolved.
func OpenStatuses() []TicketStatus {
	return []TicketStatus{StatusNew, StatusInProgress, StatusWaiting}
}
