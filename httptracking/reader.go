package httptracking

import (
	"io"
	"log/slog"

	"github.com/fedsign/fedsign/requestctx"
)

type trackingReadCloser struct {
	rc         io.ReadCloser
	requestCtx *requestctx.RequestCtx
}

func NewTrackingBody(body io.ReadCloser, rCtx *requestctx.RequestCtx) *trackingReadCloser {
	return &trackingReadCloser{
		rc:         body,
		requestCtx: rCtx,
	}
}

func (t *trackingReadCloser) Close() error {
	return t.rc.Close()
}

func (t *trackingReadCloser) Read(p []byte) (n int, err error) {
	n, err = t.rc.Read(p)
	if n < maxTrackableBytes && t.requestCtx.BytesReceived < maxTrackableBytes {
		t.requestCtx.BytesReceived += uint64(n)
	} else {
		slog.Warn("trackingReadCloser read more than 1 peta-byte, request size will be wrong")
	}
	return n, err
}
