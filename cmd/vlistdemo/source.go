package main

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ayn2op/vlist"
)

// message is the demo's entity: a fake mail item identified by a
// time-ordered UUID so identifier order matches arrival order.
type message struct {
	id       string
	listID   string
	from     string
	subject  string
	received time.Time
}

func (m *message) EntityID() string { return m.id }
func (m *message) ListID() string   { return m.listID }

// mailSource is an in-memory stand-in for a paginated mail server. Messages
// are kept sorted descending by identifier, newest first.
type mailSource struct {
	listID string

	mu       sync.Mutex
	messages []*message

	notify func(ev vlist.EntityEvent)
}

func newMailSource(count int) *mailSource {
	s := &mailSource{listID: uuid.NewString()}
	now := time.Now()
	for i := 0; i < count; i++ {
		s.messages = append(s.messages, &message{
			id:       newMessageID(),
			listID:   s.listID,
			from:     randomFrom(),
			subject:  fmt.Sprintf("%s #%d", randomSubject(), i),
			received: now.Add(-time.Duration(count-i) * time.Minute),
		})
	}
	s.sortLocked()
	return s
}

func newMessageID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func (s *mailSource) sortLocked() {
	sort.Slice(s.messages, func(i, j int) bool {
		return s.messages[i].id > s.messages[j].id
	})
}

// Fetch returns up to count messages whose identifiers sort strictly after
// cursor in descending order, with a little simulated latency.
func (s *mailSource) Fetch(ctx context.Context, cursor string, count int) ([]vlist.Entity, error) {
	select {
	case <-time.After(30 * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var page []vlist.Entity
	for _, m := range s.messages {
		if strings.Compare(m.id, cursor) >= 0 {
			continue
		}
		page = append(page, m)
		if len(page) == count {
			break
		}
	}
	return page, nil
}

// LoadSingle returns the message with the given identifier, or nil.
func (s *mailSource) LoadSingle(_ context.Context, id string) (vlist.Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.messages {
		if m.id == id {
			return m, nil
		}
	}
	return nil, nil
}

// Delete removes a message and emits a DELETE notification.
func (s *mailSource) Delete(id string) error {
	s.mu.Lock()
	for i, m := range s.messages {
		if m.id == id {
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.emit(vlist.EntityEvent{ID: id, ListID: s.listID, Op: vlist.OpDelete})
	return nil
}

func (s *mailSource) emit(ev vlist.EntityEvent) {
	if s.notify != nil {
		s.notify(ev)
	}
}

// churn produces a slow stream of fake server-side changes until quit
// closes.
func (s *mailSource) churn(quit <-chan struct{}) {
	ticker := time.NewTicker(4 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-quit:
			return
		case <-ticker.C:
		}
		s.mu.Lock()
		var ev vlist.EntityEvent
		switch rand.Intn(3) {
		case 0: // new mail
			m := &message{
				id:       newMessageID(),
				listID:   s.listID,
				from:     randomFrom(),
				subject:  "(new) " + randomSubject(),
				received: time.Now(),
			}
			s.messages = append(s.messages, m)
			s.sortLocked()
			ev = vlist.EntityEvent{ID: m.id, ListID: s.listID, Op: vlist.OpCreate}
		case 1: // edit a random subject
			if len(s.messages) == 0 {
				s.mu.Unlock()
				continue
			}
			m := s.messages[rand.Intn(len(s.messages))]
			m.subject = "(edited) " + m.subject
			ev = vlist.EntityEvent{ID: m.id, ListID: s.listID, Op: vlist.OpUpdate}
		default: // drop a random message
			if len(s.messages) == 0 {
				s.mu.Unlock()
				continue
			}
			i := rand.Intn(len(s.messages))
			id := s.messages[i].id
			s.messages = append(s.messages[:i], s.messages[i+1:]...)
			ev = vlist.EntityEvent{ID: id, ListID: s.listID, Op: vlist.OpDelete}
		}
		s.mu.Unlock()
		s.emit(ev)
	}
}
