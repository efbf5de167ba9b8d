package devserver

import "net/http"

// FixedHeaders are added to every response the server sends.
var FixedHeaders = map[string]string{
	"Cache-Control":               "no-cache",
	"Service-Worker-Allowed":      "/",
	"Access-Control-Allow-Origin": "*",
}

// Decorate adds FixedHeaders to every response from h, including error responses.
//
// The headers are set when the status line is written rather than before h runs,
// because http.FileServer drops Cache-Control from the header map when it serves an error.
func Decorate(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hw := &headerWriter{ResponseWriter: w}
		h.ServeHTTP(hw, r)
		if !hw.wroteHeader {
			// Nothing was written; net/http would send an empty 200 without our headers.
			hw.WriteHeader(http.StatusOK)
		}
	})
}

type headerWriter struct {
	http.ResponseWriter
	wroteHeader bool
}

func (w *headerWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		h := w.Header()
		for k, v := range FixedHeaders {
			h.Set(k, v)
		}
		// 1xx responses are followed by a final header block.
		if code >= 200 {
			w.wroteHeader = true
		}
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *headerWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *headerWriter) Flush() {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *headerWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
