package middleware

import (
	"net/http"
	"time"
)

// CapturingResponseWriter records what a handler wrote so the access log can
// report it. Flush and Hijack reach the underlying writer through Unwrap.
type CapturingResponseWriter struct {
	http.ResponseWriter
	StatusCode int
	Bytes      int
	WriteBegin time.Time
}

func ExtendResponseWriter(w http.ResponseWriter) *CapturingResponseWriter {
	return &CapturingResponseWriter{ResponseWriter: w}
}

func (w *CapturingResponseWriter) begin() {
	if w.WriteBegin.IsZero() {
		w.WriteBegin = time.Now()
	}
}

func (w *CapturingResponseWriter) Write(b []byte) (int, error) {
	w.begin()
	if w.StatusCode == 0 {
		w.StatusCode = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.Bytes += n
	return n, err
}

func (w *CapturingResponseWriter) WriteHeader(statusCode int) {
	w.begin()
	w.StatusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// Unwrap lets http.ResponseController find the wrapped writer.
func (w *CapturingResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
