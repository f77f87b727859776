package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-parser/internal/pipeline"
	"github.com/jonathan/resume-parser/internal/server"
	"github.com/jonathan/resume-parser/internal/server/ratelimit"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server exposing POST /parse-resume, POST /match-resume and GET /health.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	svc, err := pipeline.NewFromConfig(ctx, appConfig, appLogger)
	if err != nil {
		return err
	}
	defer svc.Close()

	srv := server.New(svc, serverConfig(), appLogger.Named("http"))
	return srv.Start()
}

// serverConfig maps the application configuration to the HTTP server configuration
func serverConfig() server.Config {
	port := appConfig.Server.Port
	if servePort > 0 {
		port = servePort
	}
	rl := appConfig.RateLimit
	return server.Config{
		Port:            port,
		MaxUploadBytes:  appConfig.Server.MaxUploadBytes,
		TempDir:         appConfig.Server.TempDir,
		ShutdownTimeout: appConfig.Server.ShutdownTimeout,
		RateLimit:       ratelimit.NewConfig(rl.Enabled, rl.RequestsPerMinute, rl.Burst, rl.Whitelist),
	}
}
