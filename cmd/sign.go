package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/fedsign/fedsign/credentials"
	"github.com/fedsign/fedsign/request"
)

const signCmdName = "sign"

var showSigningDetails bool

var signFlags = requestFlags{}

// signCmd represents the sign command
var signCmd = &cobra.Command{
	Use:   signCmdName,
	Short: "Sign a request and print it without sending it",
	Long: `Build a request from the given method, url and parameters, sign it with
the configured credential triple and print the result. The canonical request
and string to sign can be shown for troubleshooting signature mismatches,
they never contain any secret material.`,
	Run: func(cmd *cobra.Command, args []string) {
		BindEnvVariables(signCmdName)
		sr, err := buildSignedRequest(signFlags)
		if err != nil {
			slog.Error("Could not sign request", "error", err)
			os.Exit(1)
		}
		printSignedRequest(sr)
	},
}

func buildSignedRequest(rf requestFlags) (*request.SignedRequest, error) {
	d, err := rf.toDescriptor()
	if err != nil {
		return nil, err
	}
	cred, err := getCredentials()
	if err != nil {
		return nil, err
	}
	return request.Build(credentials.ToAwsSDKCredentials(*cred), d)
}

func printSignedRequest(sr *request.SignedRequest) {
	fmt.Printf("%s %s\n", sr.Method, sr.URL)
	headerNames := make([]string, 0, len(sr.Headers))
	for name := range sr.Headers {
		headerNames = append(headerNames, name)
	}
	sort.Strings(headerNames)
	for _, name := range headerNames {
		fmt.Printf("%s: %s\n", name, sr.Headers[name])
	}
	if len(sr.Body) > 0 {
		fmt.Printf("\n%s\n", string(sr.Body))
	}
	if showSigningDetails {
		fmt.Printf("\nCanonical request:\n%s\n", sr.CanonicalRequest)
		fmt.Printf("\nString to sign:\n%s\n", sr.StringToSign)
	}
}

func init() {
	rootCmd.AddCommand(signCmd)
	addRequestFlags(signCmd, &signFlags)
	signCmd.Flags().BoolVar(&showSigningDetails, "show-signing-details", false,
		"Also print the canonical request and the string to sign")
}
