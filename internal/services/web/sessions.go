package web

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stagedoor/proposals/internal/platform/metrics"
	"github.com/stagedoor/proposals/internal/proposal"
)

// SessionCookieName carries the signed session token.
const SessionCookieName = "proposal_session"

const (
	defaultIdleTTL     = 2 * time.Hour
	defaultMaxSessions = 10000
	sweepEvery         = 64
	sessionIssuer  = "stagedoor-proposals"
)

var errInvalidSessionToken = errors.New("invalid session token")

type storedSession struct {
	session  *proposal.Session
	lastSeen time.Time
}

// SessionStore keeps form sessions in memory keyed by a random id. The browser
// holds the id inside an HS256-signed token so ids cannot be guessed or
// forged. At most maxSessions are held; when full, expired sessions are swept
// and then the least recently seen one is evicted.
type SessionStore struct {
	key         []byte
	idleTTL     time.Duration
	maxSessions int
	now         func() time.Time
	create  func() *proposal.Session
	metrics *metrics.Metrics

	mu       sync.Mutex
	sessions map[string]*storedSession
	hits     uint64
}

// NewSessionStore creates a store. An empty key is replaced by a random one,
// which invalidates sessions across restarts.
func NewSessionStore(key []byte, idleTTL time.Duration, maxSessions int, create func() *proposal.Session, m *metrics.Metrics) (*SessionStore, error) {
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate session key: %w", err)
		}
	}
	if idleTTL <= 0 {
		idleTTL = defaultIdleTTL
	}
	if maxSessions <= 0 {
		maxSessions = defaultMaxSessions
	}
	if create == nil {
		create = func() *proposal.Session { return proposal.NewSession(proposal.Options{}) }
	}
	return &SessionStore{
		key:         key,
		idleTTL:     idleTTL,
		maxSessions: maxSessions,
		now:         time.Now,
		create:      create,
		metrics:     m,
		sessions:    make(map[string]*storedSession),
	}, nil
}

// Resolve returns the session named by the request cookie, creating one when
// the cookie is missing, expired, forged or refers to an evicted session. The
// cookie is refreshed on every call.
func (s *SessionStore) Resolve(w http.ResponseWriter, r *http.Request) (string, *proposal.Session, bool) {
	now := s.now()

	id := ""
	if cookie, err := r.Cookie(SessionCookieName); err == nil {
		if parsed, err := s.parseToken(cookie.Value); err == nil {
			id = parsed
		}
	}

	s.mu.Lock()
	s.hits++
	if s.hits%sweepEvery == 0 {
		s.sweepLocked(now)
	}
	stored, ok := s.sessions[id]
	if ok && now.Sub(stored.lastSeen) > s.idleTTL {
		delete(s.sessions, id)
		ok = false
	}
	created := false
	if !ok {
		s.makeRoomLocked(now)
		id = uuid.NewString()
		stored = &storedSession{session: s.create()}
		s.sessions[id] = stored
		created = true
	}
	stored.lastSeen = now
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(count)
	if token, err := s.issueToken(id, now); err == nil {
		s.writeCookie(w, r, token, int(s.idleTTL.Seconds()))
	}
	return id, stored.session, created
}

// Discard removes a session and clears the cookie.
func (s *SessionStore) Discard(w http.ResponseWriter, r *http.Request, id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	count := len(s.sessions)
	s.mu.Unlock()

	s.metrics.SetActiveSessions(count)
	s.writeCookie(w, r, "", -1)
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *SessionStore) sweepLocked(now time.Time) {
	for id, stored := range s.sessions {
		if now.Sub(stored.lastSeen) > s.idleTTL {
			delete(s.sessions, id)
		}
	}
}

func (s *SessionStore) makeRoomLocked(now time.Time) {
	if len(s.sessions) < s.maxSessions {
		return
	}
	s.sweepLocked(now)
	for len(s.sessions) >= s.maxSessions {
		oldestID := ""
		var oldest time.Time
		for id, stored := range s.sessions {
			if oldestID == "" || stored.lastSeen.Before(oldest) {
				oldestID, oldest = id, stored.lastSeen
			}
		}
		delete(s.sessions, oldestID)
	}
}

func (s *SessionStore) issueToken(id string, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    sessionIssuer,
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.idleTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (s *SessionStore) parseToken(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errInvalidSessionToken
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !token.Valid {
		return "", errInvalidSessionToken
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", errInvalidSessionToken
	}
	return claims.Subject, nil
}

func (s *SessionStore) writeCookie(w http.ResponseWriter, r *http.Request, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https"),
		SameSite: http.SameSiteLaxMode,
	})
}
