package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
)

func TestIdempotencyStore_KeyIsScopedByKind(t *testing.T) {
	s := NewIdempotencyStore(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}))
	defer s.Close()

	if got := s.key(domain.KindAmenity, "abc"); got != "idem:Amenity:abc" {
		t.Fatalf("unexpected key %q", got)
	}
	if s.key(domain.KindAmenity, "abc") == s.key(domain.KindUser, "abc") {
		t.Fatal("keys of different kinds must not collide")
	}
	if s.ttl != 24*time.Hour {
		t.Fatalf("unexpected ttl %v", s.ttl)
	}
}

func TestOpen_UnreachableServer(t *testing.T) {
	_, err := Open(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 500 * time.Millisecond})
	if err == nil {
		t.Fatal("expected ping error")
	}
}
