package credentials

import (
	"errors"
	"fmt"
	"os"
	"time"
)

// AWSCredentials is a temporary credential triple as handed out by an
// identity federation service. The triple is owned by the caller of the
// signing pipeline and is never persisted or mutated by it.
type AWSCredentials struct {
	AccessKey    string    `json:"accessKey,omitempty" yaml:"accessKey"`
	SecretKey    string    `json:"secretKey,omitempty" yaml:"secretKey"`
	SessionToken string    `json:"sessionToken,omitempty" yaml:"sessionToken"`
	Expiration   time.Time `json:"expiration,omitempty" yaml:"expiration,omitempty"`
}

var ErrIncompleteAwsCredentials = errors.New("incomplete credentials")
var ErrExpiredAwsCredentials = errors.New("expired credentials")

//Check whether the triple is complete and not known to be expired. When no
//explicit expiration was provided but the session token is a JWT we take the
//expiry from its exp claim; signing with dead credentials only fails remotely
//so catching it here saves a round trip.
func (cred *AWSCredentials) Validate() error {
	if cred.AccessKey == "" {
		return fmt.Errorf("%w: no access key", ErrIncompleteAwsCredentials)
	}
	if cred.SecretKey == "" {
		return fmt.Errorf("%w: no secret key", ErrIncompleteAwsCredentials)
	}
	expiration := cred.Expiration
	if expiration.IsZero() && cred.SessionToken != "" {
		tokenExpiry, err := SessionTokenExpiry(cred.SessionToken)
		if err == nil {
			//Not all federation services hand out JWTs so a token we cannot
			//interpret is not an error, it just means we cannot check expiry.
			expiration = tokenExpiry
		}
	}
	if !expiration.IsZero() && expiration.Before(time.Now().UTC()) {
		return ErrExpiredAwsCredentials
	}
	return nil
}

//The well known environment variable names of the AWS ecosystem
const (
	envAccessKeyId     = "AWS_ACCESS_KEY_ID"
	envSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	envSessionToken    = "AWS_SESSION_TOKEN"
)

// FromEnvironment builds the credential triple from the well known AWS
// environment variables.
func FromEnvironment() (*AWSCredentials, error) {
	cred := &AWSCredentials{
		AccessKey:    os.Getenv(envAccessKeyId),
		SecretKey:    os.Getenv(envSecretAccessKey),
		SessionToken: os.Getenv(envSessionToken),
	}
	if err := cred.Validate(); err != nil {
		return nil, err
	}
	return cred, nil
}
