package redis

import (
	"context"
	"errors"
	"testing"
)

func TestNewRedisClient_DisabledWithoutAddr(t *testing.T) {
	t.Parallel()

	rdb, err := NewRedisClient(context.Background(), Config{})

	if !errors.Is(err, ErrDisabled) {
		t.Fatalf("expected ErrDisabled, got %v", err)
	}
	if rdb != nil {
		t.Error("expected nil client")
	}
}

func TestNewRedisClient_UnreachableServer(t *testing.T) {
	t.Parallel()

	// port 1 is reserved and never has a Redis server
	rdb, err := NewRedisClient(context.Background(), Config{Addr: "127.0.0.1:1"})

	if err == nil {
		t.Fatal("expected ping error")
	}
	if rdb != nil {
		t.Error("expected nil client")
	}
}
