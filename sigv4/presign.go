package sigv4

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"

	"github.com/fedsign/fedsign/constants"
)

//This file just contains helpers to presign GET urls with sigv4

var signatureQueryParamNames []string = []string{
	constants.AmzAlgorithmKey,
	constants.AmzCredentialKey,
	constants.AmzDateKey,
	constants.AmzSecurityTokenKey,
	constants.AmzSignedHeadersKey,
	constants.AmzSignatureKey,
}

// PresignURL produces a presigned variant of req where the signature material
// travels as query parameters instead of headers. The url is only valid for
// expiryInSeconds counted from signingTime. Any signature material already in
// the query is dropped first so that presigning is repeatable.
func PresignURL(ctx context.Context, req *http.Request, expiryInSeconds int, signingTime time.Time, creds aws.Credentials, region, service string) (signedURI string, signedHeaders http.Header, err error) {
	if expiryInSeconds <= 0 {
		return "", nil, errors.New("expiryInSeconds must be bigger than 0 for presigned requests")
	}

	query := req.URL.Query()
	for _, paramName := range signatureQueryParamNames {
		query.Del(paramName)
	}
	expires := time.Duration(expiryInSeconds) * time.Second
	query.Set(constants.AmzExpiresKey, strconv.FormatInt(int64(expires/time.Second), 10))
	req.URL.RawQuery = query.Encode()

	payloadHash := req.Header.Get(constants.AmzContentSHAKey)
	if payloadHash == "" {
		payloadHash = constants.EmptyStringSHA256
	}

	signer := v4.NewSigner()
	return signer.PresignHTTP(ctx, creds, req, payloadHash, service, region, signingTime)
}
