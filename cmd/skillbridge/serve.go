package main

import (
	"fmt"

	"github.com/jonathan/skillbridge/internal/config"
	"github.com/jonathan/skillbridge/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the analysis, recommendation and report endpoints and the session API.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	tokens, err := config.NewSessionTokenConfig()
	if err != nil {
		return fmt.Errorf("failed to load session token config: %w", err)
	}

	d, err := buildDeps(cmd.Context(), appConfig, needs{analysis: true, search: true})
	if err != nil {
		return err
	}
	// The server owns the database pool from here on.
	database := d.database
	d.database = nil
	defer d.Close()

	srv, err := server.New(server.Config{
		Port:           servePort,
		Pipeline:       d.pipeline,
		Tokens:         tokens,
		SessionTTL:     appConfig.SessionLifetime(),
		MaxUploadBytes: int64(appConfig.DocumentOptions().MaxBytes),
		DB:             database,
	})
	if err != nil {
		if database != nil {
			database.Close()
		}
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
