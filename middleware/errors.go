package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-http-utils/headers"

	"github.com/fedsign/fedsign/usererror"
	"github.com/fedsign/fedsign/utils"
)

type errorResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
}

//writeAuthError answers a request that failed authentication. Only the user
//facing part of the error goes over the wire, the full chain including
//internals is logged.
func writeAuthError(w http.ResponseWriter, r *http.Request, statusCode int, err error) {
	ctx := r.Context()
	slog.InfoContext(ctx, "Denying request", "status", statusCode, "error", usererror.AsFlatSensitiveString(err))

	msg := "Access Denied"
	if ue := usererror.Get(err); ue != nil {
		msg = ue.Error()
	}
	body, marshalErr := json.Marshal(errorResponse{Message: msg})
	if marshalErr != nil {
		body = []byte(`{"message": "Access Denied"}`)
	}
	w.Header().Set(headers.ContentType, "application/json")
	w.WriteHeader(statusCode)
	utils.WriteButLogOnError(ctx, w, body)
}
