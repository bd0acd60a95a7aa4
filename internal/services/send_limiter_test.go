package services

import "testing"

func TestSendLimiterPerClient(t *testing.T) {
	limiter := NewSendLimiter(1000, 1) // burst 2 per client

	if !limiter.Allow("a") || !limiter.Allow("a") {
		t.Fatal("burst sends should be allowed")
	}
	if limiter.Allow("a") {
		t.Error("third immediate send should be throttled")
	}
	if !limiter.Allow("b") {
		t.Error("other clients keep their own bucket")
	}

	limiter.Forget("a")
	if !limiter.Allow("a") {
		t.Error("forgotten client starts with a fresh bucket")
	}
}
