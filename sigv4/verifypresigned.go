package sigv4

import (
	"context"
	"fmt"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/fedsign/fedsign/constants"
	"github.com/fedsign/fedsign/requestutils"
	"github.com/fedsign/fedsign/usererror"
)

// VerifyPresignedRequest checks a presigned url the same way VerifyRequest
// checks a header signed request: presign an equivalent request for the
// X-Amz-Date declared in the url and compare signatures. The expiry time
// encoded in the url is returned so the caller can decide on leeway; an
// expired but correctly signed url yields isValid true and an expires in
// the past.
func VerifyPresignedRequest(ctx context.Context, r *http.Request, deriver SecretDeriver) (isValid bool, creds aws.Credentials, expires time.Time, err error) {
	query := r.URL.Query()

	accessKeyId, err := requestutils.GetSignatureCredentialPartFromRequest(r, requestutils.CredentialPartAccessKeyId)
	if err != nil {
		return false, creds, expires, err
	}
	region, err := requestutils.GetSignatureCredentialPartFromRequest(r, requestutils.CredentialPartRegionName)
	if err != nil {
		return false, creds, expires, err
	}
	service, err := requestutils.GetSignatureCredentialPartFromRequest(r, requestutils.CredentialPartServiceName)
	if err != nil {
		return false, creds, expires, err
	}

	signingTime, err := XAmzDateToTime(query.Get(constants.AmzDateKey))
	if err != nil {
		return false, creds, expires, usererror.New(
			fmt.Errorf("could not interpret %s value %q: %w", constants.AmzDateKey, query.Get(constants.AmzDateKey), err),
			"Invalid X-Amz-Date query parameter",
		)
	}
	expirySeconds, err := strconv.Atoi(query.Get(constants.AmzExpiresKey))
	if err != nil || expirySeconds <= 0 {
		return false, creds, expires, usererror.New(
			fmt.Errorf("invalid %s value %q", constants.AmzExpiresKey, query.Get(constants.AmzExpiresKey)),
			"Invalid X-Amz-Expires query parameter",
		)
	}
	expires = signingTime.Add(time.Duration(expirySeconds) * time.Second)

	originalSignature := query.Get(constants.AmzSignatureKey)
	if originalSignature == "" {
		return false, creds, expires, usererror.New(
			fmt.Errorf("no %s in presigned url %s", constants.AmzSignatureKey, r.URL),
			"Missing X-Amz-Signature query parameter",
		)
	}

	secretAccessKey, err := deriver(accessKeyId)
	if err != nil {
		return false, creds, expires, err
	}
	creds = aws.Credentials{
		AccessKeyID:     accessKeyId,
		SecretAccessKey: secretAccessKey,
		SessionToken:    query.Get(constants.AmzSecurityTokenKey),
	}

	var signedHeaders []string
	for _, signedHeader := range strings.Split(query.Get(constants.AmzSignedHeadersKey), ";") {
		signedHeaders = append(signedHeaders, textproto.CanonicalMIMEHeaderKey(signedHeader))
	}
	clone := cloneWithSignedHeadersOnly(ctx, r, signedHeaders)

	resignedURL, _, err := PresignURL(ctx, clone, expirySeconds, signingTime, creds, region, service)
	if err != nil {
		return false, creds, expires, fmt.Errorf("encountered error trying to presign a similar request: %w", err)
	}
	parsed, err := url.Parse(resignedURL)
	if err != nil {
		return false, creds, expires, fmt.Errorf("could not parse re-presigned url: %w", err)
	}
	calculatedSignature := parsed.Query().Get(constants.AmzSignatureKey)
	return originalSignature == calculatedSignature, creds, expires, nil
}
