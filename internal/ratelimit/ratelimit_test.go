package ratelimit

import (
	"testing"
	"time"
)

func TestAllow_BurstThenBlocked(t *testing.T) {
	l := New(Config{
		RequestsPerMinute: 60,
		BurstSize:         3,
		CleanupInterval:   time.Minute,
	})
	defer l.Stop()

	for i := 0; i < 3; i++ {
		if !l.Allow("client") {
			t.Fatalf("request %d within burst blocked", i)
		}
	}
	if l.Allow("client") {
		t.Error("request beyond burst allowed")
	}
}

func TestAllow_IndependentKeys(t *testing.T) {
	l := New(Config{
		RequestsPerMinute: 60,
		BurstSize:         1,
		CleanupInterval:   time.Minute,
	})
	defer l.Stop()

	if !l.Allow("a") {
		t.Error("first request for a blocked")
	}
	if !l.Allow("b") {
		t.Error("first request for b blocked")
	}
	if l.Allow("a") {
		t.Error("second immediate request for a allowed")
	}
}

func TestAllow_Refills(t *testing.T) {
	l := New(Config{
		RequestsPerMinute: 6000, // 100/sec
		BurstSize:         1,
		CleanupInterval:   time.Minute,
	})
	defer l.Stop()

	if !l.Allow("client") {
		t.Fatal("first request blocked")
	}
	if l.Allow("client") {
		t.Fatal("bucket should be empty")
	}
	time.Sleep(50 * time.Millisecond)
	if !l.Allow("client") {
		t.Error("bucket did not refill")
	}
}
