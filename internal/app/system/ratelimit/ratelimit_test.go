package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_AllowsUpToLimit(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("key") {
			t.Fatalf("attempt %d blocked, want allowed", i+1)
		}
	}
	if l.Allow("key") {
		t.Error("attempt over the limit allowed")
	}
	if got := l.Remaining("key"); got != 0 {
		t.Errorf("Remaining: got %d, want 0", got)
	}
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	l := New(1, time.Minute)

	if !l.Allow("a") {
		t.Fatal("first use of key a blocked")
	}
	if !l.Allow("b") {
		t.Error("key b blocked by key a's usage")
	}
}

func TestLimiter_WindowExpires(t *testing.T) {
	l := New(1, 20*time.Millisecond)

	if !l.Allow("key") {
		t.Fatal("first attempt blocked")
	}
	if l.Allow("key") {
		t.Fatal("second attempt inside window allowed")
	}
	time.Sleep(30 * time.Millisecond)
	if !l.Allow("key") {
		t.Error("attempt after window expiry blocked")
	}
}

func TestLimiter_Reset(t *testing.T) {
	l := New(1, time.Minute)

	l.Allow("key")
	l.Reset("key")
	if !l.Allow("key") {
		t.Error("attempt after Reset blocked")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.5:4432"
	if got := ClientIP(r); got != "10.0.0.5" {
		t.Errorf("RemoteAddr: got %q", got)
	}

	r.Header.Set("X-Real-IP", "203.0.113.9")
	if got := ClientIP(r); got != "203.0.113.9" {
		t.Errorf("X-Real-IP: got %q", got)
	}

	r.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
	if got := ClientIP(r); got != "198.51.100.7" {
		t.Errorf("X-Forwarded-For: got %q", got)
	}
}

func TestLoginLimiter_EmailLimitIsCaseInsensitive(t *testing.T) {
	ll := NewLoginLimiterWithConfig(100, time.Minute, 1, time.Minute)

	r := httptest.NewRequest("POST", "/auth/login", nil)
	if ok, _ := ll.Check(r, "User@Example.com"); !ok {
		t.Fatal("first attempt blocked")
	}
	if ok, reason := ll.Check(r, "user@example.com"); ok {
		t.Error("case variant evaded the email limit")
	} else if reason == "" {
		t.Error("blocked attempt carried no reason")
	}
}

func TestLoginLimiter_ResetEmailClearsOnlyThatAccount(t *testing.T) {
	ll := NewLoginLimiterWithConfig(100, time.Minute, 1, time.Minute)
	r := httptest.NewRequest("POST", "/auth/login", nil)

	ll.Check(r, "a@example.com")
	ll.Check(r, "b@example.com")
	ll.ResetEmail("a@example.com")

	if ok, _ := ll.Check(r, "a@example.com"); !ok {
		t.Error("a@example.com still limited after reset")
	}
	if ok, _ := ll.Check(r, "b@example.com"); ok {
		t.Error("b@example.com cleared by another account's reset")
	}
}

func TestLoginLimiter_IPLimit(t *testing.T) {
	ll := NewLoginLimiterWithConfig(2, time.Minute, 100, time.Minute)
	r := httptest.NewRequest("POST", "/auth/login", nil)
	r.RemoteAddr = "10.1.1.1:555"

	ll.Check(r, "a@example.com")
	ll.Check(r, "b@example.com")
	if ok, _ := ll.Check(r, "c@example.com"); ok {
		t.Error("third attempt from the same IP allowed, want blocked")
	}
}
