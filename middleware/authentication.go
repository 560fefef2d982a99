package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/fedsign/fedsign/constants"
	"github.com/fedsign/fedsign/requestctx"
	"github.com/fedsign/fedsign/requestctx/authtypes"
	"github.com/fedsign/fedsign/sigv4"
	"github.com/fedsign/fedsign/usererror"
)

const L_AKID = "AKID" // Access Key ID

//Authentication middleware is responsible for the following:
//Add the authentication type to the access log
//Verify the signature as part of authentication, both for header signed
//requests and for presigned urls
//Add Access Key Id to access log
//Requests failing verification get answered here and never reach the next
//handler.
func SigV4AuthN(deriver sigv4.SecretDeriver, authOptions *AuthenticationOptions) Middleware {
	if authOptions == nil {
		authOptions = defaultAuthenticationOptions
	}
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			var shouldContinue bool
			if IsPresignedRequest(r) {
				shouldContinue = handleAuthNPresigned(w, r, deriver, authOptions)
			} else {
				shouldContinue = handleAuthNHeader(w, r, deriver)
			}
			if shouldContinue {
				next(w, r)
			}
		}
	}
}

func IsPresignedRequest(r *http.Request) bool {
	queryValues := r.URL.Query()
	return queryValues.Has(constants.AmzAlgorithmKey) && queryValues.Has(constants.AmzSignatureKey)
}

func cleanRemovableQueryParameters(r *http.Request, authOptions *AuthenticationOptions) {
	urlVals := r.URL.Query()

	for urlValKey := range urlVals {
		for _, keyToRemove := range authOptions.RemovableQueryParams {
			matchedString := keyToRemove.FindString(urlValKey)
			if matchedString != "" {
				slog.DebugContext(r.Context(), "Found key that should be removed", "keyToRemoveRegex", keyToRemove, "matched", matchedString)
				urlVals.Del(urlValKey)
			}
		}
	}
	r.URL.RawQuery = urlVals.Encode()
}

//Authenticate a presigned url see responsibilities SigV4AuthN
func handleAuthNPresigned(w http.ResponseWriter, r *http.Request, deriver sigv4.SecretDeriver, authOptions *AuthenticationOptions) bool {
	requestctx.SetAuthType(r, authtypes.AuthTypeQueryString)
	cleanRemovableQueryParameters(r, authOptions)

	isValid, creds, expires, err := sigv4.VerifyPresignedRequest(r.Context(), r, deriver)
	if err != nil {
		writeAuthError(w, r, statusForAuthNError(err), err)
		return false
	}
	requestctx.AddAccessLogInfo(r.Context(), "auth", slog.String(L_AKID, creds.AccessKeyID))

	//Expiry is under control of whoever created the url
	if expires.Add(authOptions.Leeway).Before(time.Now().UTC()) {
		slog.InfoContext(r.Context(), "Encountered expired URL", "expires", expires)
		writeAuthError(w, r, http.StatusForbidden, usererror.New(errors.New("expired URL"), "Expired URL"))
		return false
	}

	if !isValid {
		writeAuthError(w, r, http.StatusForbidden, errors.New("presigned url signature mismatch"))
		return false
	}
	return true
}

//Authenticate a header signed request see responsibilities SigV4AuthN
func handleAuthNHeader(w http.ResponseWriter, r *http.Request, deriver sigv4.SecretDeriver) bool {
	if r.Header.Get("Authorization") == "" {
		requestctx.SetAuthType(r, authtypes.AuthTypeNone)
		writeAuthError(w, r, http.StatusForbidden, usererror.New(
			errors.New("request without authorization header"), "Missing Authentication Token",
		))
		return false
	}
	requestctx.SetAuthType(r, authtypes.AuthTypeAuthHeader)

	isValid, creds, err := sigv4.VerifyRequest(r.Context(), r, deriver)
	if err != nil {
		writeAuthError(w, r, statusForAuthNError(err), err)
		return false
	}
	requestctx.AddAccessLogInfo(r.Context(), "auth", slog.String(L_AKID, creds.AccessKeyID))

	if !isValid {
		writeAuthError(w, r, http.StatusForbidden, errors.New("signature mismatch"))
		return false
	}
	return true
}

//Malformed authentication material is the requester's problem, everything
//else is ours.
func statusForAuthNError(err error) int {
	if usererror.IsUserFacing(err) || usererror.Get(err) != nil {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
