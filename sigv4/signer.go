package sigv4

import (
	"encoding/hex"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/fedsign/fedsign/constants"
)

// SignResult is everything one signing operation produced. CanonicalRequest
// and StringToSign contain no secret material and are safe to surface for
// diagnostics; the derived signing key is intentionally not retained.
type SignResult struct {
	CanonicalRequest string
	StringToSign     string
	Signature        string

	//Authorization is the ready to use Authorization header value
	Authorization string

	//SignedHeaders as used inside the Authorization header
	SignedHeaders string

	//AmzDate matches the X-Amz-Date header of the signed request
	AmzDate string
}

// BuildStringToSign renders the 4-line string to sign for a canonical request.
func BuildStringToSign(sc SigningContext, canonicalRequest string) string {
	return strings.Join([]string{
		constants.SignAlgorithm,
		sc.AmzDate,
		sc.CredentialScope(),
		Sha256Hex([]byte(canonicalRequest)),
	}, "\n")
}

// BuildSignature computes the leaf signature as lowercase hex. This is the
// only HMAC output of the chain that gets hex-rendered.
func BuildSignature(signingKey []byte, stringToSign string) string {
	return hex.EncodeToString(HMACSHA256(signingKey, []byte(stringToSign)))
}

// BuildAuthorizationHeader renders the Authorization header value:
//
//	AWS4-HMAC-SHA256 Credential=<ak>/<scope>, SignedHeaders=<sh>, Signature=<sig>
func BuildAuthorizationHeader(accessKeyID string, sc SigningContext, signedHeaders, signature string) string {
	var b strings.Builder
	b.WriteString(constants.SignAlgorithm)
	b.WriteString(" Credential=")
	b.WriteString(accessKeyID)
	b.WriteString("/")
	b.WriteString(sc.CredentialScope())
	b.WriteString(", SignedHeaders=")
	b.WriteString(signedHeaders)
	b.WriteString(", Signature=")
	b.WriteString(signature)
	return b.String()
}

// Sign runs the full signing pipeline over canonicalized inputs. It is a
// pure function of its arguments: no wall clock access (the time was pinned
// when sc was created), no shared state, safe for concurrent use.
func Sign(creds aws.Credentials, method, canonicalURI, canonicalQuery string, hs HeaderSet, payloadHash string, sc SigningContext) (SignResult, error) {
	canonicalRequest, err := BuildCanonicalRequest(method, canonicalURI, canonicalQuery, hs, payloadHash)
	if err != nil {
		return SignResult{}, err
	}

	stringToSign := BuildStringToSign(sc, canonicalRequest)
	signingKey := DeriveSigningKey(creds.SecretAccessKey, sc)
	signature := BuildSignature(signingKey, stringToSign)

	return SignResult{
		CanonicalRequest: canonicalRequest,
		StringToSign:     stringToSign,
		Signature:        signature,
		Authorization:    BuildAuthorizationHeader(creds.AccessKeyID, sc, hs.SignedHeaders(), signature),
		SignedHeaders:    hs.SignedHeaders(),
		AmzDate:          sc.AmzDate,
	}, nil
}
