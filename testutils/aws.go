package testutils

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/fedsign/fedsign/server"
)

func getTestAwsConfig(t testing.TB) aws.Config {
	cfg, err := config.LoadDefaultConfig(context.Background())
	if err != nil {
		t.Error(err)
	}

	cfg.HTTPClient = BuildUnsafeHttpClientThatTrustsAnyCert(t)
	return cfg
}

//An S3 client aimed at a local test server. The aws-sdk-go-v2 client is used
//as an independent signing implementation to hold our verification against.
func GetTestClientS3(t testing.TB, region string, creds aws.CredentialsProvider, s3Server server.Serverable) *s3.Client {
	cfg := getTestAwsConfig(t)

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(GetTestServerUrl(s3Server))
		o.Credentials = creds
		o.Region = region
		o.UsePathStyle = true
	})

	return client
}

func GetTestServerUrl(s server.Serverable) string {
	protocol := "http"
	tlsEnabled, _, _ := s.GetTls()
	if tlsEnabled {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s:%d/", protocol, s.GetListenHost(), s.GetPort())
}
