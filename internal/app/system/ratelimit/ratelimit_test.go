package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_AllowAndBlock(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("key") {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if l.Allow("key") {
		t.Error("fourth attempt should be blocked")
	}
	if !l.Allow("other") {
		t.Error("separate key should not be affected")
	}

	l.Reset("key")
	if !l.Allow("key") {
		t.Error("reset key should be allowed again")
	}
}

func TestLimiter_WindowExpiry(t *testing.T) {
	l := New(1, 20*time.Millisecond)

	if !l.Allow("key") {
		t.Fatal("first attempt should be allowed")
	}
	if l.Allow("key") {
		t.Fatal("second attempt in window should be blocked")
	}

	time.Sleep(30 * time.Millisecond)
	if !l.Allow("key") {
		t.Error("attempt after window expiry should be allowed")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "203.0.113.9:4455"
	if got := ClientIP(r); got != "203.0.113.9" {
		t.Errorf("RemoteAddr: got %q", got)
	}

	r.Header.Set("X-Real-IP", "198.51.100.7")
	if got := ClientIP(r); got != "198.51.100.7" {
		t.Errorf("X-Real-IP: got %q", got)
	}

	r.Header.Set("X-Forwarded-For", "192.0.2.1, 10.0.0.1")
	if got := ClientIP(r); got != "192.0.2.1" {
		t.Errorf("X-Forwarded-For: got %q", got)
	}
}

func TestLoginLimiter_PerEmailLimit(t *testing.T) {
	ll := NewLoginLimiter()
	r := httptest.NewRequest("POST", "/login", nil)
	r.RemoteAddr = "192.0.2.50:1234"

	for i := 0; i < 5; i++ {
		ok, _ := ll.Check(r, "Pat@Example.com")
		if !ok {
			t.Fatalf("attempt %d should be allowed", i+1)
		}
	}
	if ok, reason := ll.Check(r, "pat@example.com"); ok || reason == "" {
		t.Error("sixth attempt for same email should be blocked with a reason")
	}

	ll.ResetEmail("PAT@example.com")
	if ok, _ := ll.Check(r, "pat@example.com"); !ok {
		t.Error("attempt after reset should be allowed")
	}
}
