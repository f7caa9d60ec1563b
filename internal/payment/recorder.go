package payment

import (
	"bytes"
	"net/http"
)

// bufferedResponse holds the downstream response so settlement headers can be
// added after the handler returns.
type bufferedResponse struct {
	header      http.Header
	body        bytes.Buffer
	statusCode  int
	wroteHeader bool
}

func newBufferedResponse() *bufferedResponse {
	return &bufferedResponse{
		header:      make(http.Header),
		body:        bytes.Buffer{},
		statusCode:  http.StatusOK,
		wroteHeader: false,
	}
}

func (b *bufferedResponse) Header() http.Header {
	return b.header
}

func (b *bufferedResponse) WriteHeader(statusCode int) {
	if b.wroteHeader {
		return
	}
	b.statusCode = statusCode
	b.wroteHeader = true
}

func (b *bufferedResponse) Write(p []byte) (int, error) {
	if !b.wroteHeader {
		b.WriteHeader(http.StatusOK)
	}
	return b.body.Write(p)
}

// Flush is a no-op; the whole body is released by flushTo.
func (b *bufferedResponse) Flush() {}

func (b *bufferedResponse) flushTo(w http.ResponseWriter) error {
	dst := w.Header()
	for key, values := range b.header {
		dst[key] = values
	}
	w.WriteHeader(b.statusCode)
	_, err := w.Write(b.body.Bytes())
	return err
}
