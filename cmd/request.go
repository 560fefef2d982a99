package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fedsign/fedsign/credentials"
	"github.com/fedsign/fedsign/request"
	"github.com/fedsign/fedsign/sigv4"
)

// The flags shared by the commands that build a signed request.
type requestFlags struct {
	method   string
	url      string
	params   []string
	rawQuery string
	region   string
	service  string
}

func addRequestFlags(cmd *cobra.Command, rf *requestFlags) {
	cmd.Flags().StringVarP(&rf.method, "method", "X", "GET", "The HTTP method of the request")
	cmd.Flags().StringVar(&rf.url, "url", "", "The target URL of the request")
	cmd.Flags().StringArrayVarP(&rf.params, "param", "p", nil, "A key=value request parameter, can be repeated")
	cmd.Flags().StringVar(&rf.rawQuery, "raw-query", "", "A pre-assembled query string, mutually exclusive with --param")
	cmd.Flags().StringVar(&rf.region, "region", "", "The region for the credential scope")
	cmd.Flags().StringVar(&rf.service, "service", "", "The service for the credential scope")
}

func (rf *requestFlags) toDescriptor() (request.RequestDescriptor, error) {
	d := request.RequestDescriptor{
		Method:   rf.method,
		URL:      rf.url,
		RawQuery: rf.rawQuery,
		Region:   rf.region,
		Service:  rf.service,
	}
	if d.Region == "" {
		d.Region = viper.GetString(signRegion)
	}
	if d.Service == "" {
		d.Service = viper.GetString(signService)
	}
	for _, param := range rf.params {
		key, value, found := strings.Cut(param, "=")
		if !found {
			return d, fmt.Errorf("parameter %s is not of the form key=value", param)
		}
		d.Params = append(d.Params, sigv4.QueryParam{Key: key, Value: value})
	}
	return d, nil
}

// The credentials file takes precedence, then the well known AWS environment
// variables, finally the ambient AWS configuration chain.
func getCredentials() (*credentials.AWSCredentials, error) {
	filePath := viper.GetString(credentialsFile)
	if filePath != "" {
		return credentials.LoadFromFile(filePath)
	}
	cred, err := credentials.FromEnvironment()
	if err == nil {
		return cred, nil
	}
	return credentials.FromAwsConfig(context.Background())
}
