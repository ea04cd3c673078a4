package content

import (
	"context"
	"sort"
	"strings"
)

// CreateContactMessage stores a contact form submission. No actor is needed.
// The profile email, when set, is logged as the notification target.
func (r *Repository) CreateContactMessage(ctx context.Context, input ContactMessage) (ContactMessage, error) {
	m := ContactMessage{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.TrimSpace(input.Email),
		Subject: strings.TrimSpace(input.Subject),
		Body:    strings.TrimSpace(input.Body),
	}
	if err := m.Validate(); err != nil {
		return ContactMessage{}, asValidationError(err)
	}
	now := r.now().UTC()
	m.ID = r.newID(ContactPrefix, now)
	m.Timestamp = now
	m.Status = StatusNew
	if err := r.save(ctx, m.ID, m); err != nil {
		return ContactMessage{}, err
	}
	if p, err := r.GetProfile(ctx); err == nil && p.Email != "" {
		r.logger.Infof("contact message %s from %s queued for %s", m.ID, m.Email, p.Email)
	}
	return m, nil
}

// ListContactMessages returns every message, newest first.
func (r *Repository) ListContactMessages(ctx context.Context, actor string) ([]ContactMessage, error) {
	if err := requireActor(actor); err != nil {
		return []ContactMessage{}, err
	}
	msgs, err := scan[ContactMessage](ctx, r, ContactPrefix)
	if err != nil {
		return msgs, err
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		if !msgs[i].Timestamp.Equal(msgs[j].Timestamp) {
			return msgs[i].Timestamp.After(msgs[j].Timestamp)
		}
		return msgs[i].ID > msgs[j].ID
	})
	return msgs, nil
}
