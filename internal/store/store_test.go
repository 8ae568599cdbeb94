package store

import (
	"sync"
	"testing"
	"time"
)

func TestContentID(t *testing.T) {
	// SHA-256 of "hello world" is well-known.
	if got, want := ContentID("hello world"), "b94d27b9934d3e08"; got != want {
		t.Errorf("expected id %q, got %q", want, got)
	}
	if ContentID("aaa") == ContentID("bbb") {
		t.Error("expected different ids for different inputs")
	}
}

func TestStore_PutGet(t *testing.T) {
	s := New(time.Hour)
	e := s.Put("https://example.com", "Example", "Hello Wörld")

	if e.Length != 11 {
		t.Errorf("expected rune length 11, got %d", e.Length)
	}
	got, ok := s.Get(e.ID)
	if !ok {
		t.Fatal("expected entry to be found")
	}
	if got.Text != "Hello Wörld" || got.SourceURL != "https://example.com" || got.Title != "Example" {
		t.Errorf("unexpected entry %+v", got)
	}
	if _, ok := s.Get("missing"); ok {
		t.Error("expected missing id to be absent")
	}
}

func TestStore_PutSameTextRefreshes(t *testing.T) {
	now := time.Now()
	s := New(time.Minute)
	s.now = func() time.Time { return now }

	first := s.Put("https://a.example", "", "same")
	now = now.Add(50 * time.Second)
	second := s.Put("https://b.example", "", "same")

	if first.ID != second.ID {
		t.Fatalf("expected identical ids, got %q and %q", first.ID, second.ID)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", s.Len())
	}
	now = now.Add(30 * time.Second)
	got, ok := s.Get(first.ID)
	if !ok {
		t.Fatal("expected refreshed entry to still be live")
	}
	if got.SourceURL != "https://b.example" {
		t.Errorf("expected latest source, got %q", got.SourceURL)
	}
	if !got.CreatedAt.Equal(first.CreatedAt) || !got.UpdatedAt.After(got.CreatedAt) {
		t.Errorf("expected created %v kept and updated advanced, got %+v", first.CreatedAt, got)
	}
}

func TestStore_ExpiryAndCleanup(t *testing.T) {
	now := time.Now()
	s := New(time.Minute)
	s.now = func() time.Time { return now }

	old := s.Put("u", "", "old text")
	now = now.Add(45 * time.Second)
	s.Put("u", "", "new text")
	now = now.Add(30 * time.Second)

	if _, ok := s.Get(old.ID); ok {
		t.Error("expected expired entry to be hidden")
	}
	if s.Len() != 2 {
		t.Errorf("expected expired entry to remain until cleanup, got %d entries", s.Len())
	}
	if n := s.Cleanup(); n != 1 {
		t.Errorf("expected 1 entry removed, got %d", n)
	}
	if s.Len() != 1 {
		t.Errorf("expected 1 entry after cleanup, got %d", s.Len())
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New(time.Hour)
	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			e := s.Put("u", "", string(rune('a'+i%26)))
			s.Get(e.ID)
			s.Cleanup()
		}(i)
	}
	wg.Wait()
	if s.Len() != 26 {
		t.Errorf("expected 26 distinct entries, got %d", s.Len())
	}
}
