package credentials

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
)

func ToAwsSDKCredentials(creds AWSCredentials) aws.Credentials {
	return aws.Credentials{
		AccessKeyID:     creds.AccessKey,
		SecretAccessKey: creds.SecretKey,
		SessionToken:    creds.SessionToken,
	}
}

func FromAwsSDKCredentials(creds aws.Credentials) AWSCredentials {
	cred := AWSCredentials{
		AccessKey:    creds.AccessKeyID,
		SecretKey:    creds.SecretAccessKey,
		SessionToken: creds.SessionToken,
	}
	if creds.CanExpire {
		cred.Expiration = creds.Expires
	}
	return cred
}

//To satisfy the aws.CredentialsProvider interface
func (cred *AWSCredentials) Retrieve(ctx context.Context) (aws.Credentials, error) {
	awsCred := ToAwsSDKCredentials(*cred)
	if !cred.Expiration.IsZero() {
		awsCred.CanExpire = true
		awsCred.Expires = cred.Expiration
	}
	awsCred.Source = "fedsign"
	return awsCred, nil
}

// FromAwsConfig resolves credentials through the default AWS config chain
// (env vars, shared config and credentials files, SSO, ...). It is a
// convenience for callers whose federation tooling already populated the
// ambient AWS configuration; we do not perform any federated login ourselves.
func FromAwsConfig(ctx context.Context) (*AWSCredentials, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	awsCreds, err := cfg.Credentials.Retrieve(ctx)
	if err != nil {
		return nil, err
	}
	cred := FromAwsSDKCredentials(awsCreds)
	if err := cred.Validate(); err != nil {
		return nil, err
	}
	return &cred, nil
}
