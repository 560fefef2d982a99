package httptracking

import (
	"log/slog"
	"net/http"

	"github.com/fedsign/fedsign/requestctx"
)

//Byte counters saturate at 1 petabyte, anything beyond that is a runaway
//transfer and the access log would just be wrong either way.
const maxTrackableBytes = 1000000000000000

// A writer that updates a requestCtx with the details of the response
type trackingResponseWriter struct {
	rWriter    http.ResponseWriter
	requestCtx *requestctx.RequestCtx
}

// NewTrackingResponseWriter creates a new writer that delegates writes to the wrapped writer
// but that keeps track of the written bytes.
func NewTrackingResponseWriter(w http.ResponseWriter, rCtx *requestctx.RequestCtx) *trackingResponseWriter {
	return &trackingResponseWriter{
		rWriter:    w,
		requestCtx: rCtx,
	}
}

func (w *trackingResponseWriter) Write(b []byte) (int, error) {
	n, err := w.rWriter.Write(b)
	if n < maxTrackableBytes && w.requestCtx.BytesSent < maxTrackableBytes {
		w.requestCtx.BytesSent += uint64(n)
	} else {
		slog.Warn("trackingResponseWriter wrote more than 1 peta-byte, response size will be wrong")
	}
	return n, err
}

func (w *trackingResponseWriter) Header() http.Header {
	return w.rWriter.Header()
}

func (w *trackingResponseWriter) WriteHeader(statusCode int) {
	w.requestCtx.HTTPStatus = statusCode
	w.rWriter.WriteHeader(statusCode)
}
