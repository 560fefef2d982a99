package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fedsign/fedsign/credentials"
	"github.com/fedsign/fedsign/sigv4"
)

const presignCmdName = "presign"

var presignFlags = requestFlags{}
var presignExpirySeconds int

// presignCmd represents the presign command
var presignCmd = &cobra.Command{
	Use:   presignCmdName,
	Short: "Generate a presigned URL",
	Long: `Put the signature of a GET request in its query string so the URL can be
handed to a party without credentials. The URL stays valid for the given
expiry in seconds.`,
	Run: func(cmd *cobra.Command, args []string) {
		BindEnvVariables(presignCmdName)
		signedURI, err := buildPresignedUrl(presignFlags, presignExpirySeconds)
		if err != nil {
			slog.Error("Could not presign url", "error", err)
			os.Exit(1)
		}
		fmt.Println(signedURI)
	},
}

func buildPresignedUrl(rf requestFlags, expirySeconds int) (string, error) {
	d, err := rf.toDescriptor()
	if err != nil {
		return "", err
	}
	r, err := http.NewRequest(http.MethodGet, d.URL, nil)
	if err != nil {
		return "", err
	}
	cred, err := getCredentials()
	if err != nil {
		return "", err
	}
	signedURI, _, err := sigv4.PresignURL(
		context.Background(), r, expirySeconds, time.Now().UTC(),
		credentials.ToAwsSDKCredentials(*cred), d.Region, d.Service)
	return signedURI, err
}

func init() {
	rootCmd.AddCommand(presignCmd)
	addRequestFlags(presignCmd, &presignFlags)
	presignCmd.Flags().IntVar(&presignExpirySeconds, "expiry-seconds", 3600,
		"How long the presigned url stays valid")
}
