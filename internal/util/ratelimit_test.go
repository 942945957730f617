package util

import (
	"context"
	"testing"
)

func TestHostLimiter_New(t *testing.T) {
	limiter := NewHostLimiter(10, 5)
	if limiter.defaultBurst != 5 {
		t.Errorf("expected burst 5, got %d", limiter.defaultBurst)
	}

	l2 := NewHostLimiter(10, -1)
	if l2.defaultBurst != 5 {
		t.Errorf("expected default burst 5 for negative input, got %d", l2.defaultBurst)
	}
}

func TestHostLimiter_Wait(t *testing.T) {
	limiter := NewHostLimiter(100, 1)
	ctx := context.Background()

	if err := limiter.Wait(ctx, "http://example.com/export?format=csv"); err != nil {
		t.Errorf("wait failed: %v", err)
	}

	// Different host should also clear immediately
	if err := limiter.Wait(ctx, "http://other.example.org/pub"); err != nil {
		t.Errorf("wait failed: %v", err)
	}
}

func TestHostLimiter_PerHostBudget(t *testing.T) {
	// 1 rps, burst 1: one token per host
	limiter := NewHostLimiter(1, 1)
	ctx := context.Background()
	url := "http://sheets.example.com/export"

	if err := limiter.Wait(ctx, url); err != nil {
		t.Errorf("first wait failed: %v", err)
	}

	if limiter.Allow(url) {
		t.Errorf("expected allow to fail for exhausted host")
	}

	// Other hosts keep their own budget
	if !limiter.Allow("http://other.example.com/export") {
		t.Errorf("expected allow for untouched host")
	}
}

func TestExtractHost(t *testing.T) {
	host, err := extractHost("http://example.com/foo")
	if err != nil {
		t.Fatalf("extractHost failed: %v", err)
	}
	if host != "example.com" {
		t.Errorf("expected example.com, got %s", host)
	}

	if _, err := extractHost("::invalid"); err == nil {
		t.Errorf("expected error for invalid URL")
	}
}
