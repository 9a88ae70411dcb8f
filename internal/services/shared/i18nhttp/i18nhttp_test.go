package i18nhttp

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stagedoor/proposals/internal/platform/i18n/catalog"
)

func TestResolveLocale(t *testing.T) {
	t.Parallel()

	bundle := catalog.Default()
	tests := []struct {
		name        string
		target      string
		cookie      string
		accept      string
		want        string
		wantPersist bool
	}{
		{name: "query", target: "/?lang=ko-KR", want: "ko-KR", wantPersist: true},
		{name: "unknown query", target: "/?lang=xx", accept: "ko", want: "ko-KR"},
		{name: "cookie", target: "/", cookie: "ko-KR", accept: "en", want: "ko-KR"},
		{name: "accept", target: "/", accept: "ko-KR,ko;q=0.9", want: "ko-KR"},
		{name: "default", target: "/", want: catalog.BaseLocale},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, tc.target, nil)
		if tc.cookie != "" {
			req.AddCookie(&http.Cookie{Name: LangCookieName, Value: tc.cookie})
		}
		if tc.accept != "" {
			req.Header.Set("Accept-Language", tc.accept)
		}
		got, persist := ResolveLocale(req, bundle)
		if got != tc.want || persist != tc.wantPersist {
			t.Fatalf("%s: ResolveLocale() = %q, %t; want %q, %t", tc.name, got, persist, tc.want, tc.wantPersist)
		}
	}
}

func TestLocalizerPersistsExplicitChoice(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/?lang=ko-KR", nil)
	rec := httptest.NewRecorder()
	loc := Localizer(rec, req, nil)
	if loc.Locale() != "ko-KR" {
		t.Fatalf("Locale() = %q, want ko-KR", loc.Locale())
	}
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != LangCookieName || cookies[0].Value != "ko-KR" {
		t.Fatalf("cookies = %v", cookies)
	}
}
