package sigv4

import (
	"crypto/hmac"
	"crypto/sha256"

	"github.com/fedsign/fedsign/constants"
)

// HMACSHA256 computes HMAC-SHA256 of data with the given key.
func HMACSHA256(key, data []byte) []byte {
	h := hmac.New(sha256.New, key)
	h.Write(data)
	return h.Sum(nil)
}

// DeriveSigningKey runs the SigV4 key derivation chain:
//   - kDate = HMAC-SHA256("AWS4" + secret, dateStamp)
//   - kRegion = HMAC-SHA256(kDate, region)
//   - kService = HMAC-SHA256(kRegion, service)
//   - kSigning = HMAC-SHA256(kService, "aws4_request")
//
// Intermediate keys stay raw bytes, they are fed as the key of the next HMAC
// and must never be hex-encoded or logged.
func DeriveSigningKey(secretAccessKey string, sc SigningContext) []byte {
	kDate := HMACSHA256([]byte(constants.SecretKeyPrefix+secretAccessKey), []byte(sc.DateStamp))
	kRegion := HMACSHA256(kDate, []byte(sc.Region))
	kService := HMACSHA256(kRegion, []byte(sc.Service))
	return HMACSHA256(kService, []byte(constants.SignRequestSuffix))
}
