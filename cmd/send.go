package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/fedsign/fedsign/transport"
)

const sendCmdName = "send"

var sendFlags = requestFlags{}

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   sendCmdName,
	Short: "Sign a request, dispatch it and report the outcome",
	Long: `Build and sign a request like the sign command does but also perform the
exchange. The response status and body are printed and a rejection of the
signature by the remote side makes the command fail.`,
	Run: func(cmd *cobra.Command, args []string) {
		BindEnvVariables(sendCmdName)
		sr, err := buildSignedRequest(sendFlags)
		if err != nil {
			slog.Error("Could not sign request", "error", err)
			os.Exit(1)
		}
		result, err := transport.NewHTTPDispatcher(nil, nil).Dispatch(context.Background(), sr)
		if err != nil {
			slog.Error("Could not dispatch request", "error", err)
			os.Exit(1)
		}
		fmt.Printf("%d\n%s\n", result.StatusCode, string(result.Body))
		if result.Rejected() {
			slog.Error("Request was rejected by the remote side", "status", result.StatusCode)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	addRequestFlags(sendCmd, &sendFlags)
}
