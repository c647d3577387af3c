package provider

import (
	"context"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func TestRateLimiterMap_UnknownProviderDoesNotBlock(t *testing.T) {
	m := NewRateLimiterMap()
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	for i := 0; i < 10; i++ {
		if err := m.Wait(ctx, ProviderName("unknown")); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
}

func TestRateLimiterMap_CanceledContext(t *testing.T) {
	m := NewRateLimiterMap()
	m.SetLimit(NameFanartTV, rate.Every(time.Hour))

	// First token is available immediately (burst 1).
	if err := m.Wait(context.Background(), NameFanartTV); err != nil {
		t.Fatalf("first Wait: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Wait(ctx, NameFanartTV); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestRateLimiterMap_InfiniteLimit(t *testing.T) {
	m := NewRateLimiterMap()
	m.SetLimit(NameFanartTV, rate.Inf)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	for i := 0; i < 20; i++ {
		if err := m.Wait(ctx, NameFanartTV); err != nil {
			t.Fatalf("Wait: %v", err)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := NameFanartTV.DisplayName(); got != "Fanart.tv" {
		t.Errorf("DisplayName = %q, want Fanart.tv", got)
	}
	if got := ProviderName("other").DisplayName(); got != "other" {
		t.Errorf("DisplayName = %q, want other", got)
	}
}
