package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fedsign/fedsign/logging"
)

var cfgFile string
var envFiles string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fedsign",
	Short: "Sign, send and verify HTTP requests with AWS Signature Version 4",
	Long: `fedsign signs HTTP requests with temporary federated credentials using
AWS Signature Version 4. It can print the signed request, dispatch it and
report the outcome, generate presigned URLs and run a verification server
that checks signatures of whatever reaches it.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	logging.InitializeLogging(logging.EnvironmentLvl, nil, nil)
	rootCmd.PersistentFlags().StringVar(&envFiles, "dot-env", "", "File paths to .env files comma separated")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.fedsign.yaml)")
}

func loadEnvVarsFromDotEnv() {
	for _, dotEnv := range strings.Split(envFiles, ",") {
		if dotEnv == "" {
			continue
		}
		err := godotenv.Load(dotEnv)
		if err != nil {
			dir, _ := os.Getwd()
			slog.Error("Error loading .env file", "cwd", dir, "filepath", dotEnv)
			os.Exit(1)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".fedsign" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".fedsign")
	}

	viper.SetEnvPrefix("FEDSIGN")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
	loadEnvVarsFromDotEnv()
}
