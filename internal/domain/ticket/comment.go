package ticket

import (
	"fmt"
	"time"
)

// Comment is a note on a ticket. The internal flag is fixed at creation.
type Comment struct {
	id         uint
	ticketID   uint
	authorID   uint
	content    string
	isInternal bool
	createdAt  time.Time
}

func newComment(ticketID, authorID uint, content string, isInternal bool, now time.Time) (*Comment, error) {
	if authorID == 0 {
		return nil, fmt.Errorf("author ID is required")
	}
	content, err := validateCommentContent(content)
	if err != nil {
		return nil, err
	}
	return &Comment{
		ticketID:   ticketID,
		authorID:   authorID,
		content:    content,
		isInternal: isInternal,
		createdAt:  now,
	}, nil
}

func ReconstructComment(id, ticketID, authorID uint, content string, isInternal bool, createdAt time.Time) *Comment {
	return &Comment{
		id:         id,
		ticketID:   ticketID,
		authorID:   authorID,
		content:    content,
		isInternal: isInternal,
		createdAt:  createdAt,
	}
}

func (c *Comment) ID() uint             { return c.id }
func (c *Comment) TicketID() uint       { return c.ticketID }
func (c *Comment) AuthorID() uint       { return c.authorID }
func (c *Comment) Content() string      { return c.content }
func (c *Comment) IsInternal() bool     { return c.isInternal }
func (c *Comment) CreatedAt() time.Time { return c.createdAt }

// IsNew reports whether the comment has not been persisted yet.
func (c *Comment) IsNew() bool { return c.id == 0 }

// MarkPersisted records the storage id and owning ticket after insert.
func (c *Comment) MarkPersisted(id, ticketID uint) {
	c.id = id
	c.ticketID = ticketID
}
