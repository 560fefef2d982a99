package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/viper"
)

type envVarDef struct {
	//How this config will be retrieved through viper
	viperKey string
	//How this env var is named in the OS env var space
	envVarName string
	//Whether this env var is critical (absolutely required) for execution
	isCritical bool
	//Explain what this env var is for
	description string
	//The cli commands for which it is used
	cmds []string
}

func (e envVarDef) shouldBeSetFor(cmd string) bool {
	for _, applicableCmd := range e.cmds {
		if applicableCmd == cmd {
			return true
		}
	}
	return false
}

const (
	credentialsFile           = "credentialsFile"
	signRegion                = "region"
	signService               = "service"
	verifyFQDN                = "verifyFQDN"
	verifyPort                = "verifyPort"
	verifyCertFile            = "verifyCertFile"
	verifyKeyFile             = "verifyKeyFile"
	signedUrlGraceTimeSeconds = "signedUrlGraceTimeSeconds"
	logLevel                  = "logLevel"
	metricsPort               = "metricsPort"

	//Environment variables are upper cased
	//Unless they are wellknown environment variables they should be prefixed
	FEDSIGN_CREDENTIALS_FILE             = "FEDSIGN_CREDENTIALS_FILE"
	FEDSIGN_REGION                       = "FEDSIGN_REGION"
	FEDSIGN_SERVICE                      = "FEDSIGN_SERVICE"
	FEDSIGN_VERIFY_FQDN                  = "FEDSIGN_VERIFY_FQDN"
	FEDSIGN_VERIFY_PORT                  = "FEDSIGN_VERIFY_PORT"
	FEDSIGN_VERIFY_CERT_FILE             = "FEDSIGN_VERIFY_CERT_FILE"
	FEDSIGN_VERIFY_KEY_FILE              = "FEDSIGN_VERIFY_KEY_FILE"
	FEDSIGN_SIGNEDURL_GRACE_TIME_SECONDS = "FEDSIGN_SIGNEDURL_GRACE_TIME_SECONDS"
	LOG_LEVEL                            = "LOG_LEVEL"
	FEDSIGN_METRICS_PORT                 = "FEDSIGN_METRICS_PORT"
)

var envVarDefs = []envVarDef{
	{
		credentialsFile,
		FEDSIGN_CREDENTIALS_FILE,
		false,
		`A YAML file holding the temporary credential triple (accessKey, secretKey,
		sessionToken). When absent the well known AWS environment variables are used.`,
		[]string{signCmdName, sendCmdName, presignCmdName, verifyServerCmdName},
	},
	{
		signRegion,
		FEDSIGN_REGION,
		false,
		"The default region used in the credential scope (e.g. eu-west-1), flags take precedence",
		[]string{signCmdName, sendCmdName, presignCmdName},
	},
	{
		signService,
		FEDSIGN_SERVICE,
		false,
		"The default service used in the credential scope (e.g. execute-api), flags take precedence",
		[]string{signCmdName, sendCmdName, presignCmdName},
	},
	{
		verifyFQDN,
		FEDSIGN_VERIFY_FQDN,
		true,
		"The fully qualified domain name of the verification server (e.g. localhost)",
		[]string{verifyServerCmdName},
	},
	{
		verifyPort,
		FEDSIGN_VERIFY_PORT,
		true,
		"The port on which the verification server is reachable (e.g. 8443)",
		[]string{verifyServerCmdName},
	},
	{
		verifyCertFile,
		FEDSIGN_VERIFY_CERT_FILE,
		false,
		"The certificate file used for tls server-side",
		[]string{verifyServerCmdName},
	},
	{
		verifyKeyFile,
		FEDSIGN_VERIFY_KEY_FILE,
		false,
		"The key file used for tls server-side",
		[]string{verifyServerCmdName},
	},
	{
		signedUrlGraceTimeSeconds,
		FEDSIGN_SIGNEDURL_GRACE_TIME_SECONDS,
		false,
		"The maximum duration in seconds a presigned url is accepted past its own expiry",
		[]string{verifyServerCmdName},
	},
	{
		logLevel,
		LOG_LEVEL,
		false,
		"The Loglevel at which to run (DEBUG, INFO (default), WARN, ERROR)",
		[]string{signCmdName, sendCmdName, presignCmdName, verifyServerCmdName},
	},
	{
		metricsPort,
		FEDSIGN_METRICS_PORT,
		false,
		"The port on which to run the /metrics endpoint",
		[]string{verifyServerCmdName},
	},
}

func getSignedUrlGraceTime() time.Duration {
	return time.Second * time.Duration(viper.GetInt(signedUrlGraceTimeSeconds))
}

//Bind the environment variables for a command
func BindEnvVariables(cmd string) {
	for _, evd := range envVarDefs {
		if evd.shouldBeSetFor(cmd) {
			err := viper.BindEnv(evd.viperKey, evd.envVarName)
			if err != nil {
				panic(err)
			}
			checkViperVarNotEmpty(evd)
		}
	}
}

func checkViperVarNotEmpty(evd envVarDef) {
	r := viper.Get(evd.viperKey)
	if r == nil {
		if evd.isCritical {
			slog.Error("Mandatory key is empty", "viperKey", evd.viperKey, "envVarName", evd.envVarName, "description", evd.description)
			fmt.Printf("key %s[%s] is mandatory, aborting\n", evd.viperKey, evd.envVarName)
			os.Exit(1)
		} else {
			slog.Info("Optional key empty", "viperKey", evd.viperKey, "envVarName", evd.envVarName, "description", evd.description)
		}
	}
}
