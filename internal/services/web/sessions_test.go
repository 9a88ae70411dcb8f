package web

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stagedoor/proposals/internal/proposal"
)

func newTestStore(t *testing.T, ttl time.Duration) (*SessionStore, *time.Time) {
	t.Helper()
	store, err := NewSessionStore([]byte("store-test-key"), ttl, 0, nil, nil)
	if err != nil {
		t.Fatalf("NewSessionStore() error = %v", err)
	}
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	return store, &now
}

func resolveWith(store *SessionStore, cookie *http.Cookie) (string, *proposal.Session, bool, *http.Cookie) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	id, sess, created := store.Resolve(rec, req)
	var issued *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			issued = c
		}
	}
	return id, sess, created, issued
}

func TestSessionStoreReusesSignedCookie(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, time.Hour)
	id, first, created, cookie := resolveWith(store, nil)
	if !created {
		t.Fatal("Resolve() created = false for a new visitor")
	}
	if cookie == nil || !cookie.HttpOnly || cookie.SameSite != http.SameSiteLaxMode {
		t.Fatalf("session cookie = %+v", cookie)
	}

	gotID, second, created, _ := resolveWith(store, cookie)
	if created || gotID != id || second != first {
		t.Fatalf("Resolve() = (%q, created=%v), want (%q, created=false)", gotID, created, id)
	}
}

func TestSessionStoreRejectsForgedTokens(t *testing.T) {
	t.Parallel()

	store, now := newTestStore(t, time.Hour)
	id, _, _, cookie := resolveWith(store, nil)

	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    sessionIssuer,
		Subject:   id,
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	})
	signed, err := forged.SignedString([]byte("other-key"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	tests := []struct {
		name  string
		value string
	}{
		{name: "tampered", value: cookie.Value + "x"},
		{name: "wrong key", value: signed},
		{name: "garbage", value: "not-a-token"},
	}
	for _, tc := range tests {
		gotID, _, created, _ := resolveWith(store, &http.Cookie{Name: SessionCookieName, Value: tc.value})
		if !created || gotID == id {
			t.Fatalf("%s: Resolve() = (%q, created=%v), want new session", tc.name, gotID, created)
		}
	}
}

func TestSessionStoreExpiresIdleSessions(t *testing.T) {
	t.Parallel()

	store, now := newTestStore(t, time.Hour)
	id, _, _, cookie := resolveWith(store, nil)

	*now = now.Add(30 * time.Minute)
	if gotID, _, created, refreshed := resolveWith(store, cookie); created || gotID != id {
		t.Fatalf("Resolve() within ttl = (%q, created=%v), want existing", gotID, created)
	} else {
		cookie = refreshed
	}

	*now = now.Add(2 * time.Hour)
	if gotID, _, created, _ := resolveWith(store, cookie); !created || gotID == id {
		t.Fatalf("Resolve() after ttl = (%q, created=%v), want new session", gotID, created)
	}
}

func TestSessionStoreDiscard(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t, time.Hour)
	id, _, _, cookie := resolveWith(store, nil)

	rec := httptest.NewRecorder()
	store.Discard(rec, httptest.NewRequest(http.MethodPost, "/", nil), id)
	if got := store.Len(); got != 0 {
		t.Fatalf("Len() = %d, want 0", got)
	}
	cleared := rec.Result().Cookies()
	if len(cleared) != 1 || cleared[0].MaxAge >= 0 {
		t.Fatalf("Discard() cookies = %+v, want expired session cookie", cleared)
	}

	if gotID, _, created, _ := resolveWith(store, cookie); !created || gotID == id {
		t.Fatalf("Resolve() after discard = (%q, created=%v), want new session", gotID, created)
	}
}

func TestSessionStoreUsesCreateFunc(t *testing.T) {
	t.Parallel()

	store, err := NewSessionStore(nil, 0, 0, func() *proposal.Session {
		return proposal.NewSession(proposal.Options{UploadsEnabled: true})
	}, nil)
	if err != nil {
		t.Fatalf("NewSessionStore() error = %v", err)
	}
	if len(store.key) == 0 {
		t.Fatal("random session key not generated")
	}
	_, sess, _, _ := resolveWith(store, nil)
	if !sess.UploadsEnabled() {
		t.Fatal("session not built by create func")
	}
}

func TestSessionStoreEvictsLeastRecentlySeen(t *testing.T) {
	t.Parallel()

	store, now := newTestStore(t, time.Hour)
	store.maxSessions = 2

	firstID, _, _, firstCookie := resolveWith(store, nil)
	*now = now.Add(time.Minute)
	secondID, _, _, secondCookie := resolveWith(store, nil)
	*now = now.Add(time.Minute)
	// Touching the first session makes the second the oldest.
	if id, _, created, _ := resolveWith(store, firstCookie); created || id != firstID {
		t.Fatalf("Resolve() = (%q, created=%v), want (%q, created=false)", id, created, firstID)
	}
	*now = now.Add(time.Minute)
	thirdID, _, _, _ := resolveWith(store, nil)

	if got := store.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	if id, _, created, _ := resolveWith(store, secondCookie); !created || id == secondID {
		t.Fatalf("Resolve() for evicted session = (%q, created=%v), want new session", id, created)
	}
	if thirdID == firstID || thirdID == secondID {
		t.Fatalf("third id %q reused an existing id", thirdID)
	}
}

func TestSessionStoreSweepsExpiredBeforeEvicting(t *testing.T) {
	t.Parallel()

	store, now := newTestStore(t, time.Hour)
	store.maxSessions = 3

	resolveWith(store, nil)
	*now = now.Add(time.Minute)
	resolveWith(store, nil)
	*now = now.Add(50 * time.Minute)
	liveID, _, _, liveCookie := resolveWith(store, nil)
	*now = now.Add(20 * time.Minute)
	resolveWith(store, nil)

	if got := store.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	if id, _, created, _ := resolveWith(store, liveCookie); created || id != liveID {
		t.Fatalf("Resolve() = (%q, created=%v), want live session %q", id, created, liveID)
	}
}
