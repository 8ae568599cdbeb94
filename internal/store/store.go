// Package store holds cleaned page text between a scrape and the parse
// requests that query it.
package store

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"
	"unicode/utf8"
)

// Entry is one scraped page's cleaned text.
type Entry struct {
	ID        string    `json:"content_id"`
	SourceURL string    `json:"url"`
	Title     string    `json:"title"`
	Text      string    `json:"-"`
	Length    int       `json:"content_length"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is a thread-safe in-memory content registry with TTL eviction.
type Store struct {
	mu      sync.Mutex
	entries map[string]*Entry
	ttl     time.Duration
	now     func() time.Time
}

func New(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{
		entries: make(map[string]*Entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// ContentID derives the id for text: the first 16 hex characters of its
// SHA-256.
func ContentID(text string) string {
	h := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%x", h[:8])
}

// Put stores text and returns its entry. Storing the same text again
// refreshes the timestamp and source.
func (s *Store) Put(sourceURL, title, text string) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	e := &Entry{
		ID:        ContentID(text),
		SourceURL: sourceURL,
		Title:     title,
		Text:      text,
		Length:    utf8.RuneCountInString(text),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if prev, ok := s.entries[e.ID]; ok && !s.expired(prev) {
		e.CreatedAt = prev.CreatedAt
	}
	s.entries[e.ID] = e
	return *e
}

// Get returns the entry for id unless it is missing or expired.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || s.expired(e) {
		return Entry{}, false
	}
	return *e, true
}

// Cleanup removes expired entries and returns how many were dropped.
func (s *Store) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, id)
			n++
		}
	}
	return n
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) expired(e *Entry) bool {
	return s.now().Sub(e.UpdatedAt) > s.ttl
}
