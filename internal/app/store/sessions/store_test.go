package sessions_test

import (
	"testing"
	"time"

	"github.com/doracare/murshid/internal/app/store/sessions"
	"github.com/doracare/murshid/internal/testutil"
)

func TestDigestToken(t *testing.T) {
	a := sessions.DigestToken("token-a")
	b := sessions.DigestToken("token-b")

	if a == "token-a" {
		t.Error("digest must not equal the token")
	}
	if a == b {
		t.Error("distinct tokens must produce distinct digests")
	}
	if a != sessions.DigestToken("token-a") {
		t.Error("digest must be deterministic")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}

func TestStore_Open(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessions.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec, err := store.Open(ctx, "u1", "Amal", "moderator", "tok-1")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	if rec.ID.IsZero() {
		t.Error("expected ID to be assigned")
	}
	if rec.UserID != "u1" || rec.Role != "moderator" {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.TokenDigest == "tok-1" {
		t.Error("raw token must never be stored")
	}
	if rec.StartedAt.IsZero() || rec.LastSeenAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
	if rec.EndedAt != nil {
		t.Error("expected new session to be open")
	}
}

func TestStore_Open_ClosesPrevious(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessions.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Open(ctx, "u1", "Amal", "moderator", "tok-old"); err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	if _, err := store.Open(ctx, "u1", "Amal", "moderator", "tok-new"); err != nil {
		t.Fatalf("second Open failed: %v", err)
	}

	if _, err := store.GetByToken(ctx, "tok-old"); err == nil {
		t.Error("expected the earlier session to be closed")
	}
	if _, err := store.GetByToken(ctx, "tok-new"); err != nil {
		t.Errorf("expected the new session to be open: %v", err)
	}
}

func TestStore_Touch(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessions.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	rec, err := store.Open(ctx, "u1", "Amal", "moderator", "tok-1")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if err := store.Touch(ctx, "tok-1"); err != nil {
		t.Fatalf("Touch failed: %v", err)
	}

	got, err := store.GetByToken(ctx, "tok-1")
	if err != nil {
		t.Fatalf("GetByToken failed: %v", err)
	}
	if !got.LastSeenAt.After(rec.LastSeenAt) {
		t.Error("expected LastSeenAt to advance")
	}
}

func TestStore_CloseByToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessions.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Open(ctx, "u1", "Amal", "moderator", "tok-1"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.CloseByToken(ctx, "tok-1", sessions.EndedByLogout); err != nil {
		t.Fatalf("CloseByToken failed: %v", err)
	}
	if _, err := store.GetByToken(ctx, "tok-1"); err == nil {
		t.Error("expected closed session to no longer resolve by token")
	}

	hist, err := store.HistoryByUser(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("HistoryByUser failed: %v", err)
	}
	if len(hist) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(hist))
	}
	if hist[0].Active() {
		t.Error("expected the record to be ended")
	}
}

func TestStore_CloseInactive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessions.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Open(ctx, "u1", "Amal", "moderator", "tok-1"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	time.Sleep(20 * time.Millisecond)
	n, err := store.CloseInactive(ctx, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("CloseInactive failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 closed session, got %d", n)
	}

	// A fresh session within the threshold stays open.
	if _, err := store.Open(ctx, "u2", "Badr", "moderator", "tok-2"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	n, err = store.CloseInactive(ctx, time.Hour)
	if err != nil {
		t.Fatalf("CloseInactive failed: %v", err)
	}
	if n != 0 {
		t.Errorf("expected no sessions closed, got %d", n)
	}
}

func TestStore_CountOpen(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessions.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Open(ctx, "u1", "Amal", "moderator", "tok-1"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if _, err := store.Open(ctx, "u2", "Badr", "admin", "tok-2"); err != nil {
		t.Fatalf("Open failed: %v", err)
	}

	n, err := store.CountOpen(ctx, time.Hour)
	if err != nil {
		t.Fatalf("CountOpen failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 open sessions, got %d", n)
	}
}

func TestStore_EnsureIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := sessions.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}
	// Idempotent.
	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes (second run) failed: %v", err)
	}
}
