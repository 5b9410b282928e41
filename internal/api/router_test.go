package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hbnb-clone/hbnb-api/internal/core/service"
	"github.com/hbnb-clone/hbnb-api/internal/infrastructure/db/file"
)

func newTestRouter(t *testing.T, authRequired bool) *echo.Echo {
	t.Helper()
	store, err := file.Open(file.Config{})
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	return NewRouter(Deps{
		Resources:    service.NewResourceService(store, zerolog.Nop()),
		Auth:         service.NewAuthService(store, "secret", time.Hour),
		Logger:       zerolog.Nop(),
		JWTSecret:    "secret",
		AuthRequired: authRequired,
	})
}

type call struct {
	method, path, body string
	header             map[string]string
}

func do(t *testing.T, e *echo.Echo, c call) (int, []byte) {
	t.Helper()
	var req *http.Request
	if c.body == "" {
		req = httptest.NewRequest(c.method, c.path, nil)
	} else {
		req = httptest.NewRequest(c.method, c.path, strings.NewReader(c.body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range c.header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code, rec.Body.Bytes()
}

func decodeMap(t *testing.T, body []byte) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(body, &m); err != nil {
		t.Fatalf("invalid json %q: %v", body, err)
	}
	return m
}

func expectError(t *testing.T, e *echo.Echo, c call, code int, msg string) {
	t.Helper()
	got, body := do(t, e, c)
	if got != code {
		t.Fatalf("%s %s: expected %d, got %d (%s)", c.method, c.path, code, got, body)
	}
	if m := decodeMap(t, body); m["error"] != msg {
		t.Fatalf("%s %s: expected error %q, got %v", c.method, c.path, msg, m["error"])
	}
}

func TestRouter_AmenityLifecycle(t *testing.T) {
	e := newTestRouter(t, false)

	code, body := do(t, e, call{method: http.MethodGet, path: "/api/v1/amenities"})
	if code != http.StatusOK || strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("expected empty list, got %d %s", code, body)
	}

	code, body = do(t, e, call{method: http.MethodPost, path: "/api/v1/amenities", body: `{"name":"Wifi"}`})
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", code, body)
	}
	created := decodeMap(t, body)
	id, _ := created["id"].(string)
	if id == "" || created["name"] != "Wifi" || created["created_at"] != created["updated_at"] {
		t.Fatalf("unexpected created object: %+v", created)
	}

	code, body = do(t, e, call{method: http.MethodPut, path: "/api/v1/amenities/" + id, body: `{"name":"Fast Wifi","id":"forged","created_at":"x"}`})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", code, body)
	}
	updated := decodeMap(t, body)
	if updated["id"] != id || updated["name"] != "Fast Wifi" || updated["created_at"] != created["created_at"] {
		t.Fatalf("unexpected updated object: %+v", updated)
	}

	code, body = do(t, e, call{method: http.MethodDelete, path: "/api/v1/amenities/" + id})
	if code != http.StatusOK || strings.TrimSpace(string(body)) != "{}" {
		t.Fatalf("expected 200 {}, got %d %s", code, body)
	}
	expectError(t, e, call{method: http.MethodGet, path: "/api/v1/amenities/" + id}, http.StatusNotFound, "Not found")
	expectError(t, e, call{method: http.MethodDelete, path: "/api/v1/amenities/" + id}, http.StatusNotFound, "Not found")
}

func TestRouter_RepeatedGetIsStable(t *testing.T) {
	e := newTestRouter(t, false)

	_, body := do(t, e, call{method: http.MethodPost, path: "/api/v1/states", body: `{"name":"Oregon"}`})
	id, _ := decodeMap(t, body)["id"].(string)

	for _, path := range []string{"/api/v1/states/" + id, "/api/v1/states"} {
		code, first := do(t, e, call{method: http.MethodGet, path: path})
		if code != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, code)
		}
		_, second := do(t, e, call{method: http.MethodGet, path: path})
		if !bytes.Equal(first, second) {
			t.Fatalf("GET %s changed between calls:\n%s\n%s", path, first, second)
		}
	}
}

func TestRouter_OversizedChunkedBody(t *testing.T) {
	e := newTestRouter(t, false)

	payload := `{"name":"` + strings.Repeat("a", 2<<20) + `"}`
	// MultiReader hides the length, so the body arrives without Content-Length.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/amenities", io.MultiReader(strings.NewReader(payload)))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestRouter_BadRequests(t *testing.T) {
	e := newTestRouter(t, false)

	expectError(t, e, call{method: http.MethodPost, path: "/api/v1/amenities", body: `{}`}, http.StatusBadRequest, "Missing name")
	expectError(t, e, call{method: http.MethodPost, path: "/api/v1/users", body: `{"email":"a@b.com"}`}, http.StatusBadRequest, "Missing password")
	expectError(t, e, call{method: http.MethodPost, path: "/api/v1/users", body: `{"password":"x"}`}, http.StatusBadRequest, "Missing email")
	expectError(t, e, call{method: http.MethodPost, path: "/api/v1/states", body: `not json`}, http.StatusBadRequest, "Not a JSON")
	expectError(t, e, call{method: http.MethodPost, path: "/api/v1/states"}, http.StatusBadRequest, "Not a JSON")
	expectError(t, e, call{method: http.MethodGet, path: "/api/v1/amenities/does-not-exist"}, http.StatusNotFound, "Not found")
	expectError(t, e, call{method: http.MethodPut, path: "/api/v1/users/nope", body: `{}`}, http.StatusNotFound, "Not found")
	expectError(t, e, call{method: http.MethodGet, path: "/api/v1/places"}, http.StatusNotFound, "Not found")
	expectError(t, e, call{method: http.MethodPost, path: "/api/v1/cities", body: `{"name":"Reno","state_id":"nope"}`}, http.StatusBadRequest, "Unknown state_id")
}

func TestRouter_UserPasswordNeverReturned(t *testing.T) {
	e := newTestRouter(t, false)

	code, body := do(t, e, call{method: http.MethodPost, path: "/api/v1/users", body: `{"email":"a@b.com","password":"pwd","first_name":"Ada"}`})
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", code, body)
	}
	user := decodeMap(t, body)
	if _, ok := user["password"]; ok {
		t.Fatalf("password leaked: %+v", user)
	}
	if user["email"] != "a@b.com" || user["first_name"] != "Ada" {
		t.Fatalf("unexpected user: %+v", user)
	}

	code, body = do(t, e, call{method: http.MethodPut, path: "/api/v1/users/" + user["id"].(string), body: `{"email":"c@d.com","last_name":"L"}`})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", code, body)
	}
	if m := decodeMap(t, body); m["email"] != "a@b.com" || m["last_name"] != "L" {
		t.Fatalf("unexpected updated user: %+v", m)
	}
}

func TestRouter_StatesCitiesAndStats(t *testing.T) {
	e := newTestRouter(t, false)

	_, body := do(t, e, call{method: http.MethodPost, path: "/api/v1/states/", body: `{"name":"Nevada"}`})
	stateID := decodeMap(t, body)["id"].(string)

	code, body := do(t, e, call{method: http.MethodPost, path: "/api/v1/states/" + stateID + "/cities", body: `{"name":"Reno"}`})
	if code != http.StatusCreated {
		t.Fatalf("expected 201, got %d (%s)", code, body)
	}
	if m := decodeMap(t, body); m["state_id"] != stateID {
		t.Fatalf("city not attached to state: %+v", m)
	}
	expectError(t, e, call{method: http.MethodPost, path: "/api/v1/states/" + stateID + "/cities", body: `{}`}, http.StatusBadRequest, "Missing name")
	expectError(t, e, call{method: http.MethodGet, path: "/api/v1/states/nope/cities"}, http.StatusNotFound, "Not found")

	code, body = do(t, e, call{method: http.MethodGet, path: "/api/v1/stats"})
	if code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	stats := decodeMap(t, body)
	if stats["states"] != float64(1) || stats["cities"] != float64(1) || stats["users"] != float64(0) {
		t.Fatalf("unexpected stats: %+v", stats)
	}

	do(t, e, call{method: http.MethodDelete, path: "/api/v1/states/" + stateID})
	_, body = do(t, e, call{method: http.MethodGet, path: "/api/v1/cities"})
	if strings.TrimSpace(string(body)) != "[]" {
		t.Fatalf("cities must be removed with their state, got %s", body)
	}
}

func TestRouter_StatusAndHealth(t *testing.T) {
	e := newTestRouter(t, false)

	code, body := do(t, e, call{method: http.MethodGet, path: "/api/v1/status"})
	if code != http.StatusOK || decodeMap(t, body)["status"] != "OK" {
		t.Fatalf("unexpected status response %d %s", code, body)
	}
	if code, _ := do(t, e, call{method: http.MethodGet, path: "/health"}); code != http.StatusOK {
		t.Fatalf("expected liveness 200, got %d", code)
	}
	if code, _ := do(t, e, call{method: http.MethodGet, path: "/metrics"}); code != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", code)
	}
}

func TestRouter_AuthRequired(t *testing.T) {
	e := newTestRouter(t, true)

	expectError(t, e, call{method: http.MethodPost, path: "/api/v1/users", body: `{"email":"a@b.com","password":"pwd"}`}, http.StatusUnauthorized, "missing authorization header")

	if code, _ := do(t, e, call{method: http.MethodGet, path: "/api/v1/users"}); code != http.StatusOK {
		t.Fatalf("reads must stay public, got %d", code)
	}
	expectError(t, e, call{method: http.MethodPost, path: "/api/v1/auth/login", body: `{"email":"a@b.com","password":"pwd"}`}, http.StatusUnauthorized, "invalid credentials")
}

func TestRouter_LoginThenWrite(t *testing.T) {
	store, err := file.Open(file.Config{})
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	resources := service.NewResourceService(store, zerolog.Nop())
	e := NewRouter(Deps{
		Resources:    resources,
		Auth:         service.NewAuthService(store, "secret", time.Hour),
		Logger:       zerolog.Nop(),
		JWTSecret:    "secret",
		AuthRequired: true,
	})

	// Seed the first account directly; the API itself is locked.
	open := NewRouter(Deps{Resources: resources, Logger: zerolog.Nop()})
	if code, body := do(t, open, call{method: http.MethodPost, path: "/api/v1/users", body: `{"email":"a@b.com","password":"pwd"}`}); code != http.StatusCreated {
		t.Fatalf("seed user: %d %s", code, body)
	}

	code, body := do(t, e, call{method: http.MethodPost, path: "/api/v1/auth/login", body: `{"email":"a@b.com","password":"pwd"}`})
	if code != http.StatusOK {
		t.Fatalf("login: %d %s", code, body)
	}
	token := decodeMap(t, body)["token"].(string)

	code, body = do(t, e, call{
		method: http.MethodPost, path: "/api/v1/amenities", body: `{"name":"Wifi"}`,
		header: map[string]string{"Authorization": "Bearer " + token},
	})
	if code != http.StatusCreated {
		t.Fatalf("authorized create: %d %s", code, body)
	}
}
