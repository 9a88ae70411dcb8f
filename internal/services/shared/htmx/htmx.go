// Package htmx renders templ components for full page loads and HTMX swaps.
package htmx

import (
	"html"
	"net/http"
	"strings"

	"github.com/a-h/templ"
)

// RequestHeader marks requests issued by HTMX.
const RequestHeader = "HX-Request"

// IsHTMXRequest reports whether the request was initiated by HTMX.
func IsHTMXRequest(r *http.Request) bool {
	if r == nil {
		return false
	}
	return strings.EqualFold(r.Header.Get(RequestHeader), "true")
}

// TitleTag formats an escaped title element. HTMX swaps it into the document
// head when present in a fragment.
func TitleTag(title string) string {
	title = strings.TrimSpace(title)
	if title == "" {
		return ""
	}
	return "<title>" + html.EscapeString(title) + "</title>"
}

// Render writes fragment for HTMX requests and full otherwise, with status.
// A nil fragment falls back to full and a nil full falls back to fragment.
func Render(w http.ResponseWriter, r *http.Request, status int, fragment, full templ.Component) {
	target := full
	if IsHTMXRequest(r) && fragment != nil {
		target = fragment
	}
	if target == nil {
		target = fragment
	}
	if target == nil {
		w.WriteHeader(status)
		return
	}
	if status == 0 {
		status = http.StatusOK
	}
	templ.Handler(target, templ.WithStatus(status)).ServeHTTP(w, r)
}

// Redirect sends the browser to location. HTMX requests get HX-Redirect so the
// whole page navigates instead of swapping the response into a target.
func Redirect(w http.ResponseWriter, r *http.Request, location string) {
	if IsHTMXRequest(r) {
		w.Header().Set("HX-Redirect", location)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
