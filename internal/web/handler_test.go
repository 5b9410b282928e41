package web

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hbnb-clone/hbnb-api/internal/core/domain"
	"github.com/hbnb-clone/hbnb-api/internal/core/ports"
	"github.com/hbnb-clone/hbnb-api/internal/infrastructure/db/file"
)

type countingStorage struct {
	ports.Storage
	open   int
	allErr error
}

type countingSession struct {
	ports.Session
	owner *countingStorage
}

func (s *countingStorage) Session(ctx context.Context) (ports.Session, error) {
	sess, err := s.Storage.Session(ctx)
	if err != nil {
		return nil, err
	}
	s.open++
	return &countingSession{Session: sess, owner: s}, nil
}

func (s *countingSession) All(ctx context.Context, kind domain.Kind) (map[string]domain.Model, error) {
	if s.owner.allErr != nil {
		return nil, s.owner.allErr
	}
	return s.Session.All(ctx, kind)
}

func (s *countingSession) Close() error {
	s.owner.open--
	return s.Session.Close()
}

func seed(t *testing.T) (*countingStorage, string) {
	t.Helper()
	mem, err := file.Open(file.Config{})
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	ctx := context.Background()
	sess, err := mem.Session(ctx)
	if err != nil {
		t.Fatalf("session: %v", err)
	}
	defer sess.Close()

	now := time.Now()
	ca := &domain.State{Base: domain.NewBase(now), Name: "California"}
	nv := &domain.State{Base: domain.NewBase(now), Name: "Nevada"}
	az := &domain.State{Base: domain.NewBase(now), Name: "Arizona <AZ>"}
	for _, m := range []domain.Model{
		nv, ca, az,
		&domain.City{Base: domain.NewBase(now), Name: "San Jose", StateID: ca.ID},
		&domain.City{Base: domain.NewBase(now), Name: "Fremont", StateID: ca.ID},
		&domain.City{Base: domain.NewBase(now), Name: "Reno", StateID: nv.ID},
	} {
		sess.New(m)
	}
	if err := sess.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}
	return &countingStorage{Storage: mem}, ca.ID
}

func get(t *testing.T, store ports.Storage, path string) (int, string) {
	t.Helper()
	e := NewServer(store, zerolog.Nop())
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec.Code, rec.Body.String()
}

func assertOrder(t *testing.T, body string, parts ...string) {
	t.Helper()
	last := -1
	for _, p := range parts {
		i := strings.Index(body, p)
		if i < 0 {
			t.Fatalf("missing %q in %s", p, body)
		}
		if i < last {
			t.Fatalf("%q out of order in %s", p, body)
		}
		last = i
	}
}

func TestStatesList_SortedAndEscaped(t *testing.T) {
	store, _ := seed(t)
	code, body := get(t, store, "/states_list")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	assertOrder(t, body, "<h1>States</h1>", "Arizona &lt;AZ&gt;", "California", "Nevada")
	if strings.Contains(body, "San Jose") {
		t.Fatal("states_list must not include cities")
	}
	if store.open != 0 {
		t.Fatalf("session left open: %d", store.open)
	}
}

func TestCitiesByStates_NestedAndSorted(t *testing.T) {
	store, _ := seed(t)
	code, body := get(t, store, "/cities_by_states")
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	assertOrder(t, body, "California", "Fremont", "San Jose", "Nevada", "Reno")
	if store.open != 0 {
		t.Fatalf("session left open: %d", store.open)
	}
}

func TestStatePage(t *testing.T) {
	store, caID := seed(t)

	code, body := get(t, store, "/states/"+caID)
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	assertOrder(t, body, "<h1>State: California</h1>", "Fremont", "San Jose")

	code, body = get(t, store, "/states/unknown")
	if code != http.StatusNotFound || !strings.Contains(body, "Not found!") {
		t.Fatalf("expected not found page, got %d %s", code, body)
	}
	if store.open != 0 {
		t.Fatalf("session left open: %d", store.open)
	}
}

func TestStates_TrailingSlash(t *testing.T) {
	store, _ := seed(t)
	if code, _ := get(t, store, "/states/"); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
}

func TestPages_StorageFailureClosesSession(t *testing.T) {
	store, caID := seed(t)
	store.allErr = errors.New("storage offline")

	for _, path := range []string{"/states_list", "/cities_by_states", "/states/" + caID} {
		code, _ := get(t, store, path)
		if code != http.StatusInternalServerError {
			t.Fatalf("%s: expected 500, got %d", path, code)
		}
		if store.open != 0 {
			t.Fatalf("%s: session left open: %d", path, store.open)
		}
	}
}
