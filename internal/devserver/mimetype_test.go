package devserver

import (
	"mime"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestResolveContentType(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{name: "Script", path: "/app.js", want: ContentTypeJavaScript},
		{name: "Nested script", path: "/js/calculator.js", want: ContentTypeJavaScript},
		{name: "Service worker", path: "/service-worker.js", want: ContentTypeJavaScript},
		{name: "JSON data", path: "/data.json", want: ContentTypeJSON},
		{name: "Nested JSON", path: "/data/regions.json", want: ContentTypeJSON},
		{name: "Root manifest", path: "/manifest.json", want: ContentTypeManifest},
		{name: "Bare manifest name", path: "manifest.json", want: ContentTypeManifest},
		// Suffix match, not an exact filename match.
		{name: "Prefixed manifest name", path: "/app.manifest.json", want: ContentTypeManifest},
		{name: "Web manifest", path: "/site.webmanifest", want: ContentTypeManifest},
		{name: "JSON-like extension", path: "/notes.jsonl", want: mime.TypeByExtension(".jsonl")},
		{name: "HTML", path: "/index.html", want: mime.TypeByExtension(".html")},
		{name: "PNG", path: "/icons/icon-192.png", want: "image/png"},
		{name: "CSS", path: "/css/main.css", want: mime.TypeByExtension(".css")},
		{name: "Directory", path: "/", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveContentType(tt.path, DefaultContentType)
			if got != tt.want {
				t.Errorf("ResolveContentType(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolveContentTypeFallback(t *testing.T) {
	var asked []string
	fallback := func(p string) string {
		asked = append(asked, p)
		return "text/x-test"
	}

	if got := ResolveContentType("/readme.txt", fallback); got != "text/x-test" {
		t.Errorf("ResolveContentType() = %q, want fallback value", got)
	}
	if got := ResolveContentType("/app.js", fallback); got != ContentTypeJavaScript {
		t.Errorf("ResolveContentType() = %q, want %q", got, ContentTypeJavaScript)
	}
	if len(asked) != 1 || asked[0] != "/readme.txt" {
		t.Errorf("fallback called with %v, want only [/readme.txt]", asked)
	}
	if got := ResolveContentType("/readme.txt", nil); got != "" {
		t.Errorf("ResolveContentType() with nil fallback = %q, want empty", got)
	}
}

func TestContentTypesMiddleware(t *testing.T) {
	h := ContentTypes(DefaultContentType)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		path string
		want string
	}{
		{path: "/manifest.json", want: ContentTypeManifest},
		{path: "/app.js", want: ContentTypeJavaScript},
		{path: "/", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if got := rec.Header().Get("Content-Type"); got != tt.want {
				t.Errorf("Content-Type = %q, want %q", got, tt.want)
			}
		})
	}
}
