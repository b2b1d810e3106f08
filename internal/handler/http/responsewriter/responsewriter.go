// Package responsewriter records what a handler wrote so the logging,
// metrics and tracing middleware can report it after the fact.
package responsewriter

import (
	"net/http"
)

// ResponseWriter remembers the status code and body size of a response.
type ResponseWriter struct {
	http.ResponseWriter
	status  int
	bytes   int
	written bool
}

// Wrap returns w unchanged if it is already a *ResponseWriter, so stacked
// middleware share one recorder.
func Wrap(w http.ResponseWriter) *ResponseWriter {
	if rw, ok := w.(*ResponseWriter); ok {
		return rw
	}
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// WriteHeader forwards the first call only.
func (w *ResponseWriter) WriteHeader(code int) {
	if w.written {
		return
	}
	w.status = code
	w.written = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Flush implements http.Flusher when the underlying writer does.
func (w *ResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		if !w.written {
			w.WriteHeader(http.StatusOK)
		}
		f.Flush()
	}
}

// StatusCode is 200 until the handler writes something else.
func (w *ResponseWriter) StatusCode() int { return w.status }

// BytesWritten is the body size written so far.
func (w *ResponseWriter) BytesWritten() int { return w.bytes }

// Written reports whether the header has been sent.
func (w *ResponseWriter) Written() bool { return w.written }

// Unwrap lets http.ResponseController reach the original writer.
func (w *ResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
