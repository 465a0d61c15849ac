package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewSessionStore(newClient(mr), time.Minute, nil)

	session, err := store.Create(ctx, sampleQuiz())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	key := "quiz:session:" + session.Pin()
	if !mr.Exists(key) {
		t.Fatalf("expected redis key to be set")
	}

	if !store.Remove(ctx, session.Pin()) {
		t.Fatalf("expected session removed")
	}
	if mr.Exists(key) {
		t.Fatalf("expected redis key to be removed")
	}
}

func TestSessionStoreSkipsCodesReservedElsewhere(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	// Another process already holds 1111.
	if err := mr.Set("quiz:session:1111", "other-quiz"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	codes := []string{"1111", "2222"}
	next := 0
	store := NewSessionStore(newClient(mr), time.Minute, func() string {
		pin := codes[next%len(codes)]
		next++
		return pin
	})

	session, err := store.Create(context.Background(), sampleQuiz())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if session.Pin() != "2222" {
		t.Fatalf("expected reserved code skipped, got %s", session.Pin())
	}
}

func TestSessionStoreRefreshExtendsReservations(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewSessionStore(newClient(mr), time.Minute, nil)
	session, err := store.Create(ctx, sampleQuiz())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	key := "quiz:session:" + session.Pin()

	mr.FastForward(50 * time.Second)
	if err := store.Refresh(ctx); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	mr.FastForward(50 * time.Second)
	if !mr.Exists(key) {
		t.Fatalf("expected reservation to survive after refresh")
	}
}
