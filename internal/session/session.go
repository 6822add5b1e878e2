// Package session tracks one chat conversation: a bounded exchange
// history and the course the user most recently discussed, so
// follow-up questions like "how much does it cost" can be grounded.
package session

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tanwee/prospectus/internal/resolver"
)

// MaxExchanges is how many question/answer pairs a session retains.
// Older exchanges fall off the front.
const MaxExchanges = 5

// Exchange is one question and its answer.
type Exchange struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// Session is a single conversation's state. Safe for concurrent use.
type Session struct {
	mu              sync.Mutex
	id              string
	startedAt       time.Time
	exchanges       []Exchange
	lastCourseID    string
	lastCourseTitle string
}

// New creates a session with a fresh identifier.
func New() *Session {
	return &Session{
		id:        uuid.NewString(),
		startedAt: time.Now().UTC(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// StartedAt returns when the session began.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Record appends an exchange and updates the last-discussed course
// from the bundle's top candidate.
func (s *Session) Record(question, answer string, bundle resolver.Bundle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.exchanges = append(s.exchanges, Exchange{
		Question: question,
		Answer:   answer,
		AskedAt:  time.Now().UTC(),
	})
	if len(s.exchanges) > MaxExchanges {
		s.exchanges = s.exchanges[len(s.exchanges)-MaxExchanges:]
	}

	if top, ok := bundle.Top(); ok {
		s.lastCourseID = top.Course.ID
		s.lastCourseTitle = top.Course.Title
	}
}

// History returns a copy of the retained exchanges, oldest first.
func (s *Session) History() []Exchange {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Exchange, len(s.exchanges))
	copy(out, s.exchanges)
	return out
}

// LastCourse returns the most recently discussed course, or false if
// no question has matched a course yet.
func (s *Session) LastCourse() (id, title string, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastCourseID, s.lastCourseTitle, s.lastCourseID != ""
}

// ContextualizeQuery rewrites a follow-up question to name the course
// under discussion. Short questions with a pronoun and no course words
// of their own get the last course title appended.
func (s *Session) ContextualizeQuery(query string) string {
	s.mu.Lock()
	title := s.lastCourseTitle
	s.mu.Unlock()

	if title == "" || !isFollowUp(query) {
		return query
	}
	return query + " for " + title
}

// isFollowUp detects questions that only make sense against a prior
// course, like "how much does it cost" or "when does that start".
func isFollowUp(query string) bool {
	q := " " + strings.ToLower(strings.TrimSpace(query)) + " "
	if len(q) > 80 {
		return false
	}
	for _, pronoun := range []string{" it ", " that ", " this ", " the course ", " this one ", " that one "} {
		if strings.Contains(q, pronoun) {
			return true
		}
	}
	return false
}
