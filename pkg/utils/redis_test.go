package utils

import (
	"context"
	"testing"
	"time"
)

func TestLockScriptsCompile(t *testing.T) {
	if lockAcquireScript == nil || lockReleaseScript == nil {
		t.Fatalf("expected scripts to be initialized")
	}
}

func TestRedisLocker_RequiresClient(t *testing.T) {
	l := NewRedisLocker(nil, time.Minute)
	if _, _, err := l.Acquire(context.Background(), "k"); err == nil {
		t.Fatalf("expected error without client")
	}
}

func TestNewLockToken_Unique(t *testing.T) {
	a, err := newLockToken()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	b, _ := newLockToken()
	if a == b || len(a) != 32 {
		t.Fatalf("unexpected tokens %q %q", a, b)
	}
}
