package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/iulianpascalau/traffic-dashboard/commonGo"
	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/config"
	"github.com/iulianpascalau/traffic-dashboard/services/dashboard/factory"
	"github.com/multiversx/mx-chain-core-go/core/check"
	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/urfave/cli"
)

const (
	defaultLogsPath      = "logs"
	logFilePrefix        = "dashboard"
	logFileLifeSpanInSec = 86400 // 24h
	logFileLifeSpanInMB  = 1024  // 1GB
	envFile              = "./.env"
	envMetricsEndpoint   = "METRICS_ENDPOINT"
)

// appVersion should be populated at build time using ldflags
// Usage examples:
// Linux/macOS:
//
//	go build -v -ldflags="-X main.appVersion=$(git describe --all | cut -c7-32)
var appVersion = "undefined"
var fileLogging commonGo.FileLoggingHandler

var (
	dashboardHelpTemplate = `NAME:
   {{.Name}} - {{.Usage}}
USAGE:
   {{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}
   {{if len .Authors}}
AUTHOR:
   {{range .Authors}}{{ . }}{{end}}
   {{end}}{{if .Commands}}
GLOBAL OPTIONS:
   {{range .VisibleFlags}}{{.}}
   {{end}}
VERSION:
   {{.Version}}
   {{end}}
`

	log = logger.GetOrCreate("main")

	// logLevel defines the logger level
	logLevel = cli.StringFlag{
		Name: "log-level",
		Usage: "This flag specifies the logger `level(s)`. It can contain multiple comma-separated value. For example" +
			", if set to *:INFO the logs for all packages will have the INFO level. However, if set to *:INFO,engine:DEBUG" +
			" the logs for all packages will have the INFO level, excepting the engine package which will receive a DEBUG" +
			" log level.",
		Value: "*:" + logger.LogInfo.String(),
	}
	// logFile is used when the log output needs to be logged in a file
	logSaveFile = cli.BoolFlag{
		Name:  "log-save",
		Usage: "Boolean option for enabling log saving. If set, it will automatically save all the logs into a file.",
	}
	// workingDirectory defines a flag for the path for the working directory.
	workingDirectory = cli.StringFlag{
		Name:  "working-directory",
		Usage: "This flag specifies the `directory` where the dashboard will store its logs.",
		Value: "",
	}
	// configurationFile defines a flag for the path to the TOML configuration file
	configurationFile = cli.StringFlag{
		Name:  "config",
		Usage: "The `filepath` for the TOML configuration file.",
		Value: "./config.toml",
	}
	// endpoint overrides the endpoint of the configuration file
	endpoint = cli.StringFlag{
		Name:  "endpoint",
		Usage: "The metrics endpoint `URL` to poll. Overrides both the config file and the .env file.",
		Value: "",
	}
)

func main() {
	app := cli.NewApp()
	cli.AppHelpTemplate = dashboardHelpTemplate
	app.Name = "Traffic metrics dashboard"
	app.Version = fmt.Sprintf("%s/%s/%s-%s", appVersion, runtime.Version(), runtime.GOOS, runtime.GOARCH)
	app.Usage = "This is the entry point for starting a dashboard that polls a traffic metrics endpoint and renders the snapshots"
	app.Flags = []cli.Flag{
		logLevel,
		logSaveFile,
		workingDirectory,
		configurationFile,
		endpoint,
	}
	app.Authors = []cli.Author{
		{
			Name:  "Iulian Pascalau",
			Email: "iulian.pascalau@gmail.com",
		},
	}

	app.Action = run

	defer func() {
		if fileLogging != nil {
			_ = fileLogging.Close()
		}
	}()

	err := app.Run(os.Args)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx *cli.Context) error {
	saveLogFile := ctx.GlobalBool(logSaveFile.Name)
	workingDir := ctx.GlobalString(workingDirectory.Name)

	err := logger.SetLogLevel(ctx.GlobalString(logLevel.Name))
	if err != nil {
		return err
	}

	fileLogging, err = commonGo.AttachFileLogger(log, defaultLogsPath, logFilePrefix, saveLogFile, workingDir)
	if err != nil {
		return err
	}

	if !check.IfNil(fileLogging) {
		timeLogLifeSpan := time.Second * time.Duration(logFileLifeSpanInSec)
		sizeLogLifeSpanInMB := uint64(logFileLifeSpanInMB)
		err = fileLogging.ChangeFileLifeSpan(timeLogLifeSpan, sizeLogLifeSpanInMB)
		if err != nil {
			return err
		}
	}

	log.Info("Starting traffic dashboard", "version", appVersion, "pid", os.Getpid())

	cfg, err := config.LoadConfig(ctx.GlobalString(configurationFile.Name))
	if err != nil {
		return err
	}

	err = applyEndpointOverrides(cfg, ctx.GlobalString(endpoint.Name))
	if err != nil {
		return err
	}

	if cfg.Surface == config.SurfaceTerminal {
		// tview owns the terminal, logs only go to the log file from now on
		log.Info("terminal surface selected, console logging disabled", "log-save", saveLogFile)
		err = logger.RemoveLogObserver(os.Stdout)
		log.LogIfError(err)
	}

	components, err := factory.NewComponentsHandler(*cfg)
	if err != nil {
		return err
	}

	err = components.Start()
	if err != nil {
		return err
	}

	log.Info("Traffic dashboard started", "endpoint", cfg.EndpointURL, "surface", cfg.Surface,
		"interval", time.Duration(cfg.PollIntervalInMilliseconds)*time.Millisecond)
	if components.GetServer() != nil {
		log.Info("dashboard page available", "address", "http://"+components.GetServer().Address())
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigs:
	case <-components.Stopped():
	}

	log.Info("Application closing, calling Close on all subcomponents...")
	components.Close()

	return nil
}

// applyEndpointOverrides lets the .env file and then the CLI flag replace the configured endpoint
func applyEndpointOverrides(cfg *config.Config, flagValue string) error {
	envFileContents := map[string]string{
		envMetricsEndpoint: "",
	}

	_, err := os.Stat(envFile)
	switch {
	case err == nil:
		err = commonGo.ReadEnvFile(envFile, envFileContents)
		if err != nil {
			return err
		}
		cfg.EndpointURL = envFileContents[envMetricsEndpoint]
	case !errors.Is(err, os.ErrNotExist):
		return err
	}

	if len(flagValue) > 0 {
		cfg.EndpointURL = flagValue
	}

	return nil
}
