package main

import (
	"context"
	"flag"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"validateai/backend/internal/ai"
	"validateai/backend/internal/config"
	"validateai/backend/internal/mcpserver"
	"validateai/backend/internal/scoring"
)

func main() {
	configPath := flag.String("config", os.Getenv("VALIDATEAI_CONFIG"), "path to a YAML config file")
	flag.Parse()

	// stdout carries the MCP protocol.
	logrus.SetOutput(os.Stderr)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if err := config.ConfigureLogging(cfg.Log); err != nil {
		logrus.Fatalf("configure logging: %v", err)
	}

	generator, err := ai.New(context.Background(), cfg.AI)
	if err != nil {
		logrus.Fatalf("ai client: %v", err)
	}
	defer generator.Close()

	logrus.WithFields(logrus.Fields{
		"provider": generator.Provider(),
		"model":    generator.Model(),
	}).Info("serving score_idea over stdio")

	if err := server.ServeStdio(mcpserver.New(scoring.NewScorer(generator))); err != nil {
		logrus.Errorf("mcp server exited: %v", err)
	}
}
