package utils

import (
	"io"
	"net/http"
)

// SetupTextStreamHeaders prepares a chunked plain-text response.
func SetupTextStreamHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Content-Type-Options", "nosniff")
}

// WriteChunk writes one text fragment and flushes it to the client.
func WriteChunk(w http.ResponseWriter, flusher http.Flusher, chunk string) error {
	if _, err := io.WriteString(w, chunk); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
