package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fedsign/fedsign/credentials"
	"github.com/fedsign/fedsign/middleware"
	"github.com/fedsign/fedsign/server"
)

const verifyServerCmdName = "verify-server"

func buildVerificationServer() server.Serverable {
	BindEnvVariables(verifyServerCmdName)
	filePath := viper.GetString(credentialsFile)
	if filePath == "" {
		slog.Error("A credentials file is needed to verify signatures against")
		panic("no credentials file configured")
	}
	fp, err := credentials.NewFileProvider(filePath)
	if err != nil {
		slog.Error("Could not load credentials file", "error", err)
		panic(fmt.Sprintf("Could not load credentials file: %s", err))
	}
	authOptions := &middleware.AuthenticationOptions{
		Leeway: getSignedUrlGraceTime(),
	}
	return server.NewVerificationServer(
		viper.GetInt(verifyPort),
		viper.GetString(verifyFQDN),
		viper.GetString(verifyCertFile),
		viper.GetString(verifyKeyFile),
		fp.DeriveSecret,
		authOptions,
	)
}

func getServerOptsFromViper() server.ServerOpts {
	return server.ServerOpts{
		MetricsPort: viper.GetInt(metricsPort),
	}
}

// verifyServerCmd represents the verify-server command
var verifyServerCmd = &cobra.Command{
	Use:   verifyServerCmdName,
	Short: "Run a server that verifies incoming signatures",
	Long: `Spawn a server process that checks the signature of whatever request
reaches it against the configured credential triple. Correctly signed
requests get a verification report, anything else gets denied. Both
header based authentication and presigned urls are handled.`,
	Run: func(cmd *cobra.Command, args []string) {
		server.CreateAndStartSync(buildVerificationServer(), getServerOptsFromViper())
	},
}

func init() {
	rootCmd.AddCommand(verifyServerCmd)
}
