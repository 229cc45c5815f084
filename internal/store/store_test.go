package store

import (
	"encoding/json"
	"errors"
	"os"
	"testing"

	"league-mirror/internal/domain"
)

type fakePersistence struct {
	written  map[domain.Resource]json.RawMessage
	writeErr error
	loadErr  error
}

func newFakePersistence() *fakePersistence {
	return &fakePersistence{written: make(map[domain.Resource]json.RawMessage)}
}

func (f *fakePersistence) WriteSnapshot(resource domain.Resource, raw json.RawMessage) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.written[resource] = raw
	return nil
}

func (f *fakePersistence) Load(resource domain.Resource) (json.RawMessage, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	raw, ok := f.written[resource]
	if !ok {
		return nil, os.ErrNotExist
	}
	return raw, nil
}

func TestCommitAndLoad(t *testing.T) {
	p := newFakePersistence()
	s := New(p)

	raw := json.RawMessage(`{"currentDay":3}`)
	if err := s.Commit(domain.ResourceSim, raw); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	got, updatedAt, ok := s.Load(domain.ResourceSim)
	if !ok || string(got) != string(raw) {
		t.Fatalf("unexpected load result: %s, ok=%v", got, ok)
	}
	if updatedAt.IsZero() {
		t.Fatal("expected commit timestamp")
	}
	if string(p.written[domain.ResourceSim]) != string(raw) {
		t.Fatal("expected disk mirror to receive the snapshot")
	}
}

func TestLoadAbsent(t *testing.T) {
	s := New(nil)
	if _, _, ok := s.Load(domain.ResourceGames); ok {
		t.Fatal("expected absence before first commit")
	}
}

func TestCommitSurvivesDiskFailure(t *testing.T) {
	p := newFakePersistence()
	p.writeErr = errors.New("disk full")
	s := New(p)

	raw := json.RawMessage(`[{"id":"g1"}]`)
	err := s.Commit(domain.ResourceGames, raw)
	if err == nil {
		t.Fatal("expected persistence error to be reported")
	}

	// The in-memory commit must stand even though disk failed.
	got, _, ok := s.Load(domain.ResourceGames)
	if !ok || string(got) != string(raw) {
		t.Fatalf("expected memory commit despite disk failure, got %s ok=%v", got, ok)
	}
}

func TestCommitValidation(t *testing.T) {
	s := New(nil)
	if err := s.Commit(domain.Resource("bogus"), json.RawMessage(`{}`)); err == nil {
		t.Fatal("expected error for unknown resource")
	}
	if err := s.Commit(domain.ResourceSim, nil); err == nil {
		t.Fatal("expected error for empty snapshot")
	}
}

func TestLoadFromDisk(t *testing.T) {
	p := newFakePersistence()
	p.written[domain.ResourceTeams] = json.RawMessage(`[{"id":"t1"}]`)
	s := New(p)

	ok, err := s.LoadFromDisk(domain.ResourceTeams)
	if err != nil || !ok {
		t.Fatalf("expected disk load, got ok=%v err=%v", ok, err)
	}
	got, _, ok := s.Load(domain.ResourceTeams)
	if !ok || string(got) != `[{"id":"t1"}]` {
		t.Fatalf("unexpected seeded snapshot: %s", got)
	}

	ok, err = s.LoadFromDisk(domain.ResourcePlayers)
	if err != nil || ok {
		t.Fatalf("expected clean miss for absent file, got ok=%v err=%v", ok, err)
	}

	p.loadErr = errors.New("read failure")
	if _, err := s.LoadFromDisk(domain.ResourceTeams); err == nil {
		t.Fatal("expected error for unreadable snapshot")
	}
}

func TestFailedCommitLeavesPreviousSnapshot(t *testing.T) {
	s := New(nil)
	first := json.RawMessage(`[{"id":"g1"}]`)
	if err := s.Commit(domain.ResourceGames, first); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	// An invalid commit attempt must not disturb the committed value.
	_ = s.Commit(domain.ResourceGames, nil)

	got, _, ok := s.Load(domain.ResourceGames)
	if !ok || string(got) != string(first) {
		t.Fatalf("previous snapshot corrupted: %s", got)
	}
}
