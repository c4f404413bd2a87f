// Package main provides the entry point for the Interview Agent HTTP API server and CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/interview-agent/internal/llm"
)

var rootCmd = &cobra.Command{
	Use:   "interview_agent",
	Short: "AI Interview Agent HTTP API Server",
	Long:  "Interview Agent conducts mock job interviews, generates question catalogs and feedback reports, and scores resumes against job descriptions via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newCompleter builds a model-bound completer for one-shot CLI commands.
// The returned close function releases the underlying client.
func newCompleter(ctx context.Context, tier llm.ModelTier, temperature float32) (llm.Completer, func(), error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}

	return llm.Bind(client, tier, temperature), func() { _ = client.Close() }, nil
}

// writeJSONOutput writes a marshalled JSON document to path, or to stdout
// when path is empty.
func writeJSONOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(append(data, '\n'))
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
