package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestAppendTurnKeepsRecentTurnsOnly(t *testing.T) {
	t.Parallel()

	s := New("s1", time.Now())
	for i := 0; i < maxHistoryTurns+3; i++ {
		s.AppendTurn(fmt.Sprintf("user %d", i), fmt.Sprintf("assistant %d", i))
	}

	if got := len(s.History); got != maxHistoryTurns*2 {
		t.Fatalf("history length = %d, want %d", got, maxHistoryTurns*2)
	}
	if got := s.History[0].Text; got != "user 3" {
		t.Fatalf("oldest kept line = %q, want %q", got, "user 3")
	}
	if got := s.History[len(s.History)-1].Text; got != fmt.Sprintf("assistant %d", maxHistoryTurns+2) {
		t.Fatalf("newest line = %q", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	s := New("s1", time.Now())
	s.AppendTurn("hello", "hi")

	clone := s.Clone()
	clone.History[0].Text = "mutated"
	clone.LastProductID = "P9"

	if s.History[0].Text != "hello" {
		t.Fatalf("clone mutation leaked into original history: %q", s.History[0].Text)
	}
	if s.LastProductID != "" {
		t.Fatalf("clone mutation leaked into original: %q", s.LastProductID)
	}
}

func TestMemStoreGetCreatesLazily(t *testing.T) {
	t.Parallel()

	store := NewMemStore()
	got, err := store.Get(context.Background(), "fresh")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.SessionID != "fresh" {
		t.Fatalf("SessionID = %q, want %q", got.SessionID, "fresh")
	}
	if got.Authenticated() {
		t.Fatal("fresh session must not be authenticated")
	}
}

func TestMemStoreGetEmptyID(t *testing.T) {
	t.Parallel()

	store := NewMemStore()
	if _, err := store.Get(context.Background(), "  "); err != ErrInvalidSession {
		t.Fatalf("Get() error = %v, want ErrInvalidSession", err)
	}
}

func TestMemStoreUpdatePersists(t *testing.T) {
	t.Parallel()

	store := NewMemStore()
	err := store.Update(context.Background(), "s1", func(s *Session) {
		s.AuthLevel = AuthVerified
		s.LastProductID = "P42"
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := store.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !got.Authenticated() {
		t.Fatal("session not authenticated after update")
	}
	if got.LastProductID != "P42" {
		t.Fatalf("LastProductID = %q, want P42", got.LastProductID)
	}
}

func TestMemStoreGetReturnsSnapshot(t *testing.T) {
	t.Parallel()

	store := NewMemStore()
	_ = store.Update(context.Background(), "s1", func(s *Session) {
		s.AppendTurn("a", "b")
	})

	snap, _ := store.Get(context.Background(), "s1")
	snap.History[0].Text = "mutated"
	snap.LastProductID = "leak"

	fresh, _ := store.Get(context.Background(), "s1")
	if fresh.History[0].Text != "a" {
		t.Fatalf("snapshot mutation leaked into store: %q", fresh.History[0].Text)
	}
	if fresh.LastProductID != "" {
		t.Fatalf("snapshot mutation leaked into store: %q", fresh.LastProductID)
	}
}

func TestMemStoreConcurrentUpdates(t *testing.T) {
	t.Parallel()

	store := NewMemStore()
	const workers = 16
	const perWorker = 25

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_ = store.Update(context.Background(), "shared", func(s *Session) {
					s.CustomerID = "c1"
				})
			}
		}()
	}
	wg.Wait()

	got, err := store.Get(context.Background(), "shared")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.CustomerID != "c1" {
		t.Fatalf("CustomerID = %q, want c1 after concurrent updates", got.CustomerID)
	}
}
