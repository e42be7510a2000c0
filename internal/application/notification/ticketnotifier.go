// Package notification turns published ticket events into e-mails for the
// people involved in a ticket.
package notification

import (
	"context"
	"fmt"
	"html"
	"strings"

	"fastighet/internal/domain/shared/events"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/shared/logger"
	"fastighet/internal/shared/services/markdown"
)

// Mailer is satisfied by the email package senders.
type Mailer interface {
	SendEmail(to, subject, plainBody, htmlBody string) error
}

// OutcomeRecorder counts delivery attempts; metrics.Metrics implements it.
type OutcomeRecorder interface {
	IncNotification(ok bool)
}

type Recipient struct {
	Name  string
	Email string
}

type TicketNotifier struct {
	mailer   Mailer
	markdown markdown.MarkdownService
	recorder OutcomeRecorder
	logger   logger.Interface
}

// NewTicketNotifier builds a notifier. markdownService and recorder may be nil.
func NewTicketNotifier(
	mailer Mailer,
	markdownService markdown.MarkdownService,
	recorder OutcomeRecorder,
	logger logger.Interface,
) *TicketNotifier {
	return &TicketNotifier{
		mailer:   mailer,
		markdown: markdownService,
		recorder: recorder,
		logger:   logger,
	}
}

// Handle mails every recipient of event. A failed delivery is logged and
// counted; the remaining recipients are still tried. The returned error
// reports how many deliveries failed.
func (n *TicketNotifier) Handle(ctx context.Context, event *ticket.TicketEvent) error {
	if event == nil {
		return fmt.Errorf("ticket event cannot be nil")
	}

	recipients := Recipients(event)
	if len(recipients) == 0 {
		n.logger.Debugw("ticket event has no recipients",
			"event_type", event.EventType,
			"ticket_id", event.TicketID)
		return nil
	}

	subject := Subject(event)
	plain := n.plainBody(event)
	htmlBody := n.htmlBody(event)

	failed := 0
	for _, r := range recipients {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := n.mailer.SendEmail(r.Email, subject, greeting(r.Name)+plain, htmlBody); err != nil {
			failed++
			n.record(false)
			n.logger.Warnw("failed to send ticket notification",
				"event_type", event.EventType,
				"event_id", event.EventID,
				"ticket_id", event.TicketID,
				"to", r.Email,
				"error", err)
			continue
		}
		n.record(true)
	}

	n.logger.Infow("ticket notification processed",
		"event_type", event.EventType,
		"event_id", event.EventID,
		"ticket_id", event.TicketID,
		"recipients", len(recipients),
		"failed", failed)

	if failed > 0 {
		return fmt.Errorf("%d of %d notifications for ticket %d failed", failed, len(recipients), event.TicketID)
	}
	return nil
}

func (n *TicketNotifier) record(ok bool) {
	if n.recorder != nil {
		n.recorder.IncNotification(ok)
	}
}

// Recipients lists who is told about event: the reporter and the assignee,
// minus whoever caused the change. A newly assigned ticket always reaches
// its assignee. Addresses are de-duplicated case-insensitively.
func Recipients(event *ticket.TicketEvent) []Recipient {
	var out []Recipient
	seen := make(map[string]struct{})
	add := func(id *uint, name, email string, always bool) {
		email = strings.TrimSpace(email)
		if email == "" {
			return
		}
		if !always && id != nil && event.ChangedByID != nil && *id == *event.ChangedByID {
			return
		}
		key := strings.ToLower(email)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, Recipient{Name: name, Email: email})
	}

	reporterID := event.ReporterID
	switch event.Type() {
	case ticket.EventTicketCreated:
		add(&reporterID, event.ReporterName, event.ReporterEmail, true)
	case ticket.EventTicketAssigned:
		add(event.AssigneeID, event.AssigneeName, event.AssigneeEmail, true)
		add(&reporterID, event.ReporterName, event.ReporterEmail, false)
	case ticket.EventTicketStatusChanged, ticket.EventTicketCommentAdded, ticket.EventTicketEscalated:
		add(&reporterID, event.ReporterName, event.ReporterEmail, false)
		add(event.AssigneeID, event.AssigneeName, event.AssigneeEmail, false)
	}
	return out
}

// Subject returns the e-mail subject line for event.
func Subject(event *ticket.TicketEvent) string {
	prefix := fmt.Sprintf("[%s] Ticket #%d", event.PropertyName, event.TicketID)
	if event.PropertyName == "" {
		prefix = fmt.Sprintf("Ticket #%d", event.TicketID)
	}

	switch event.Type() {
	case ticket.EventTicketCreated:
		return fmt.Sprintf("%s received: %s", prefix, event.TicketTitle)
	case ticket.EventTicketStatusChanged:
		return fmt.Sprintf("%s is now %s", prefix, event.NewStatus)
	case ticket.EventTicketAssigned:
		return fmt.Sprintf("%s assigned to %s", prefix, event.AssigneeName)
	case ticket.EventTicketCommentAdded:
		return fmt.Sprintf("%s has a new comment", prefix)
	case ticket.EventTicketEscalated:
		return fmt.Sprintf("%s has been escalated", prefix)
	default:
		return fmt.Sprintf("%s updated", prefix)
	}
}

func greeting(name string) string {
	if name == "" {
		return "Hello,\n\n"
	}
	return fmt.Sprintf("Hello %s,\n\n", name)
}

func (n *TicketNotifier) plainBody(event *ticket.TicketEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", summary(event))
	fmt.Fprintf(&b, "Ticket: #%d %s\n", event.TicketID, event.TicketTitle)
	if event.PropertyName != "" {
		fmt.Fprintf(&b, "Property: %s\n", event.PropertyName)
	}
	if event.Type() == ticket.EventTicketCommentAdded && event.Comment != "" {
		fmt.Fprintf(&b, "\n%s\n", event.Comment)
	}
	return b.String()
}

func (n *TicketNotifier) htmlBody(event *ticket.TicketEvent) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(summary(event)))
	fmt.Fprintf(&b, "<p><strong>#%d</strong> %s</p>", event.TicketID, html.EscapeString(event.TicketTitle))
	if event.Type() == ticket.EventTicketCommentAdded && event.Comment != "" {
		b.WriteString("<blockquote>")
		b.WriteString(n.renderComment(event))
		b.WriteString("</blockquote>")
	}
	b.WriteString("</body></html>")
	return b.String()
}

func (n *TicketNotifier) renderComment(event *ticket.TicketEvent) string {
	if n.markdown != nil {
		rendered, err := n.markdown.Render(event.Comment)
		if err == nil {
			return rendered
		}
		n.logger.Warnw("failed to render comment markdown", "ticket_id", event.TicketID, "error", err)
	}
	return "<p>" + html.EscapeString(event.Comment) + "</p>"
}

func summary(event *ticket.TicketEvent) string {
	by := event.ChangedByName
	if by == "" {
		by = "Someone"
	}

	switch event.Type() {
	case ticket.EventTicketCreated:
		return "Your maintenance request has been received."
	case ticket.EventTicketStatusChanged:
		return fmt.Sprintf("%s changed the status from %s to %s.", by, event.OldStatus, event.NewStatus)
	case ticket.EventTicketAssigned:
		return fmt.Sprintf("%s assigned the ticket to %s.", by, event.AssigneeName)
	case ticket.EventTicketCommentAdded:
		return fmt.Sprintf("%s added a comment.", by)
	case ticket.EventTicketEscalated:
		return "The ticket has been open longer than expected and was escalated."
	default:
		return "The ticket was updated."
	}
}

// AsEventHandler adapts the notifier to an in-process event bus. Delivery
// failures are logged by Handle and never reported back to the publisher.
func (n *TicketNotifier) AsEventHandler() events.EventHandler {
	return busHandler{notifier: n}
}

type busHandler struct {
	notifier *TicketNotifier
}

func (h busHandler) Handle(ctx context.Context, event events.DomainEvent) error {
	te, ok := event.(*ticket.TicketEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", event)
	}
	if err := h.notifier.Handle(ctx, te); err != nil {
		h.notifier.logger.Debugw("ticket notification incomplete, publish continues",
			"event_id", te.EventID,
			"ticket_id", te.TicketID,
			"error", err)
	}
	return nil
}

func (busHandler) CanHandle(eventType string) bool {
	return ticket.EventType(eventType).IsValid()
}
