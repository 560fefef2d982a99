package requestutils

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/fedsign/fedsign/constants"
)

type CredentialPart int64

const (
	CredentialPartAccessKeyId CredentialPart = iota
	CredentialPartDate
	CredentialPartRegionName
	CredentialPartServiceName
	CredentialPartType
)

// credential string is the value of a X-Amz-Credential and it is meant to follow
// the structure <your-access-key-id>/20130721/us-east-1/execute-api/aws4_request (when decoded)
// https://docs.aws.amazon.com/IAM/latest/UserGuide/reference_sigv-create-signed-request.html
func GetCredentialPart(credentialString string, credentialPart CredentialPart) (string, error) {
	credentialParts := strings.Split(credentialString, "/")
	if len(credentialParts) != 5 {
		return "", fmt.Errorf("credential did not have 5 parts: %s", credentialString)
	}
	if credentialParts[CredentialPartType] != constants.SignRequestSuffix {
		return "", fmt.Errorf("credential was not a supported sigv4: %s", credentialString)
	}
	return credentialParts[credentialPart], nil
}

const expectedAuthorizationStartWithCredential = constants.SignAlgorithm + " Credential="

// Gets a part of the Credential value that is passed via the authorization
// header or, failing that, via the query parameters of a presigned url.
func GetSignatureCredentialPartFromRequest(r *http.Request, credentialPart CredentialPart) (string, error) {
	authorizationHeader := r.Header.Get("Authorization")
	var credentialString string
	var err error
	if authorizationHeader != "" {
		credentialString, err = getSignatureCredentialStringFromRequestAuthHeader(authorizationHeader)
		if err != nil {
			return "", err
		}
	} else {
		credentialString, err = getSignatureCredentialStringFromRequestQParams(r.URL.Query())
		if err != nil {
			return "", err
		}
	}
	return GetCredentialPart(credentialString, credentialPart)
}

// Gets a part of the Credential value that is passed via the authorization header
func getSignatureCredentialStringFromRequestAuthHeader(authorizationHeader string) (string, error) {
	if authorizationHeader == "" {
		return "", fmt.Errorf("programming error should use empty authHeader to get credential part")
	}
	if !strings.HasPrefix(authorizationHeader, expectedAuthorizationStartWithCredential) {
		return "", fmt.Errorf("invalid authorization header: %s", authorizationHeader)
	}
	authorizationHeaderTrimmed := authorizationHeader[len(expectedAuthorizationStartWithCredential):]
	return strings.Split(authorizationHeaderTrimmed, ",")[0], nil
}

func getSignatureCredentialStringFromRequestQParams(qParams url.Values) (string, error) {
	queryAlgorithm := qParams.Get(constants.AmzAlgorithmKey)
	if queryAlgorithm != constants.SignAlgorithm {
		return "", fmt.Errorf("no Authorization header nor %s query parameter present", constants.AmzAlgorithmKey)
	}
	queryCredential := qParams.Get(constants.AmzCredentialKey)
	if queryCredential == "" {
		return "", fmt.Errorf("empty %s parameter", constants.AmzCredentialKey)
	}
	return queryCredential, nil
}
