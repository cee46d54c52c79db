package routes

import (
	"net/http"
	"strings"
	"testing"
)

// A missing credential and a wrong role must produce distinct outcomes,
// and the role check must never run before authentication.
func TestAuthorizationOrdering(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t, db, &fakePayments{}, &fakeMailer{})

	seedUser(t, db, "nobody@x.com", "unset")
	seedUser(t, db, "admin@x.com", "admin")

	// no credential -> 401, never 403
	resp := doJSON(app, http.MethodGet, "/users", "", nil)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credential, got %d", resp.Code)
	}

	// garbage credential -> 403
	resp = doJSON(app, http.MethodGet, "/users", "not-a-token", nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for broken credential, got %d", resp.Code)
	}

	// valid credential, wrong role -> 403
	resp = doJSON(app, http.MethodGet, "/users", signTestToken(t, "nobody@x.com"), nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for wrong role, got %d", resp.Code)
	}

	// valid credential, unknown principal -> fails closed with 403
	resp = doJSON(app, http.MethodGet, "/users", signTestToken(t, "ghost@x.com"), nil)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for unknown principal, got %d", resp.Code)
	}

	// valid credential, admin role -> 200
	resp = doJSON(app, http.MethodGet, "/users", signTestToken(t, "admin@x.com"), nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateSessionSetsCookie(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t, db, &fakePayments{}, &fakeMailer{})

	resp := doJSON(app, http.MethodPost, "/jwt", "", map[string]string{"email": "a@x.com"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("expected a token in the response body")
	}

	var cookie *http.Cookie
	for _, c := range resp.Result().Cookies() {
		if c.Name == "token" {
			cookie = c
		}
	}
	if cookie == nil {
		t.Fatal("expected a token cookie")
	}
	if !cookie.HttpOnly {
		t.Fatal("token cookie must be http-only")
	}
	if cookie.Value != token {
		t.Fatal("cookie and body must carry the same token")
	}
}

func TestCreateSessionRejectsBadEmail(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t, db, &fakePayments{}, &fakeMailer{})

	resp := doJSON(app, http.MethodPost, "/jwt", "", map[string]string{"email": "not-an-email"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

// The cookie is the primary credential transport; the bearer header is a
// convenience. Both must authenticate.
func TestCookieCredentialAccepted(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t, db, &fakePayments{}, &fakeMailer{})
	seedUser(t, db, "admin@x.com", "admin")

	req := newCookieRequest(http.MethodGet, "/users", signTestToken(t, "admin@x.com"))
	resp := serve(app, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 via cookie credential, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestLogoutExpiresCookie(t *testing.T) {
	db := newTestDB(t)
	app := buildTestApp(t, db, &fakePayments{}, &fakeMailer{})

	resp := doJSON(app, http.MethodGet, "/logout", "", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	found := false
	for _, c := range resp.Result().Cookies() {
		if c.Name == "token" && c.MaxAge < 0 && c.Value == "" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an expired token cookie, got %q", strings.Join(resp.Result().Header.Values("Set-Cookie"), "; "))
	}
}
