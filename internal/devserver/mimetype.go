package devserver

import (
	"mime"
	"net/http"
	"path"
	"strings"
)

// Content types the server forces regardless of the system MIME tables.
const (
	ContentTypeJavaScript = "application/javascript"
	ContentTypeJSON       = "application/json"
	ContentTypeManifest   = "application/manifest+json"
)

// DefaultContentType is the baseline extension mapping used by ResolveContentType.
// It returns "" for unknown extensions so http.FileServer can sniff the content.
func DefaultContentType(p string) string {
	return mime.TypeByExtension(path.Ext(p))
}

// ResolveContentType returns the MIME type to send for the request path p.
//
// Overrides apply in order and the first match wins:
//   - ".js" -> application/javascript
//   - ".webmanifest", or any path ending in "manifest.json" -> application/manifest+json
//   - ".json" -> application/json
//
// Any other path gets fallback(p). The manifest check matches on suffix, so
// "app.manifest.json" is also served as a manifest.
func ResolveContentType(p string, fallback func(string) string) string {
	switch {
	case strings.HasSuffix(p, ".js"):
		return ContentTypeJavaScript
	case strings.HasSuffix(p, ".webmanifest"), strings.HasSuffix(p, "manifest.json"):
		return ContentTypeManifest
	case strings.HasSuffix(p, ".json"):
		return ContentTypeJSON
	}
	if fallback == nil {
		return ""
	}
	return fallback(p)
}

// ContentTypes sets Content-Type from ResolveContentType before the next handler runs.
// http.FileServer keeps a Content-Type that is already present, and error responses
// replace it with their own.
func ContentTypes(fallback func(string) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ct := ResolveContentType(r.URL.Path, fallback); ct != "" {
				w.Header().Set("Content-Type", ct)
			}
			next.ServeHTTP(w, r)
		})
	}
}
