package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/fedsign/fedsign/requestctx"
)

type ForceEnabler interface {
	IsForceEnabled(context.Context, slog.Level) bool
}

//By default we do not force logging to be enabled.
type neverForce struct{}

func (f neverForce) IsForceEnabled(_ context.Context, _ slog.Level) bool {
	return false
}

type forceForRequestIdPrefix struct {
	Prefix string
}

func (f forceForRequestIdPrefix) IsForceEnabled(ctx context.Context, _ slog.Level) bool {
	reqCtx, ok := requestctx.FromContext(ctx)
	if ok {
		return strings.HasPrefix(reqCtx.RequestID, f.Prefix)
	}
	return false
}

func NewForceForRequestIdPrefix(Prefix string) *forceForRequestIdPrefix {
	return &forceForRequestIdPrefix{
		Prefix: Prefix,
	}
}

//Requesters can force debug logging for their own requests by choosing a
//request ID with this prefix, without flipping the global log level.
const ENV_FORCE_LOGGING_FOR_REQUEST_ID_PREFIX = "FEDSIGN_FORCE_LOGGING_FOR_REQUEST_ID_PREFIX"

func getDefaultForceEnableLoggingStrategy() ForceEnabler {
	prefix, ok := os.LookupEnv(ENV_FORCE_LOGGING_FOR_REQUEST_ID_PREFIX)
	if !ok || prefix == "" {
		return neverForce{}
	}
	return NewForceForRequestIdPrefix(prefix)
}
