package sigv4

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/fedsign/fedsign/constants"
)

// Sha256Hex returns the lowercase hex rendering of the SHA256 of data.
// Always 64 characters, zero-padded per byte.
func Sha256Hex(data []byte) string {
	digest := sha256.Sum256(data)
	return hex.EncodeToString(digest[:])
}

// HashedPayload computes the payload hash field of the canonical request.
// GET requests carry no body so they always hash the empty string. For every
// other method body must be the exact bytes that will be transmitted,
// byte-for-byte, or the remote side reconstructs a different hash.
func HashedPayload(method string, body []byte) string {
	if method == http.MethodGet {
		return constants.EmptyStringSHA256
	}
	return Sha256Hex(body)
}
