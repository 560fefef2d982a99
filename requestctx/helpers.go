package requestctx

import (
	"log/slog"
	"net/http"

	"github.com/fedsign/fedsign/requestctx/authtypes"
)

//SetAuthType records how a request authenticated itself in the access log.
func SetAuthType(r *http.Request, at authtypes.AuthType) {
	AddAccessLogInfo(r.Context(), "auth", slog.String(authtypes.L_AUTH_TYPE, at.String()))
}
