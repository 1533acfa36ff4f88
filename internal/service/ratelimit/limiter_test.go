package ratelimit

import "testing"

func TestAllowWithinCapacity(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("k", 3, 0) {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if l.Allow("k", 3, 0) {
		t.Fatal("fourth request should be rejected")
	}
}

func TestKeysAreIndependent(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatal("first request for a should be allowed")
	}
	if l.Allow("a", 1, 0) {
		t.Fatal("second request for a should be rejected")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatal("b has its own bucket")
	}
}
