// Package i18nhttp resolves the request locale for rendered pages.
package i18nhttp

import (
	"net/http"
	"strings"
	"time"

	"github.com/stagedoor/proposals/internal/platform/i18n/catalog"
)

const (
	// LangParam selects a locale explicitly.
	LangParam = "lang"
	// LangCookieName remembers an explicit selection.
	LangCookieName = "proposal_lang"

	cookieMaxAge = 365 * 24 * time.Hour
)

// ResolveLocale picks the locale for r from the lang query parameter, the
// language cookie and then Accept-Language. The bool reports whether the
// query parameter chose it and should be persisted.
func ResolveLocale(r *http.Request, bundle *catalog.Bundle) (string, bool) {
	if r == nil || bundle == nil {
		return catalog.BaseLocale, false
	}
	if value := strings.TrimSpace(r.URL.Query().Get(LangParam)); value != "" && bundle.HasLocale(value) {
		return value, true
	}
	if cookie, err := r.Cookie(LangCookieName); err == nil && bundle.HasLocale(cookie.Value) {
		return cookie.Value, false
	}
	return bundle.Match(r.Header.Get("Accept-Language")), false
}

// SetLanguageCookie persists locale for later requests.
func SetLanguageCookie(w http.ResponseWriter, locale string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    locale,
		Path:     "/",
		MaxAge:   int(cookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Localizer resolves the request locale, persists an explicit choice and
// returns the matching localizer.
func Localizer(w http.ResponseWriter, r *http.Request, bundle *catalog.Bundle) catalog.Localizer {
	if bundle == nil {
		bundle = catalog.Default()
	}
	locale, persist := ResolveLocale(r, bundle)
	if persist && w != nil {
		SetLanguageCookie(w, locale)
	}
	return bundle.Localizer(locale)
}
