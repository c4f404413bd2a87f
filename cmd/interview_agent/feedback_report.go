package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-agent/internal/feedback"
	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/types"
)

var feedbackReportCmd = &cobra.Command{
	Use:   "feedback-report",
	Short: "Generate a post-interview feedback report",
	Long:  "Generates a feedback report from a completed interview transcript, producing a FeedbackResult JSON.",
	RunE:  runFeedbackReport,
}

var (
	feedbackRequestFile string
	feedbackOutput      string
)

func init() {
	feedbackReportCmd.Flags().StringVarP(&feedbackRequestFile, "request", "r", "", "Path to input FeedbackRequest JSON file (required)")
	feedbackReportCmd.Flags().StringVarP(&feedbackOutput, "out", "o", "", "Path to output FeedbackResult JSON file (default stdout)")

	if err := feedbackReportCmd.MarkFlagRequired("request"); err != nil {
		panic(fmt.Sprintf("failed to mark request flag as required: %v", err))
	}

	rootCmd.AddCommand(feedbackReportCmd)
}

func runFeedbackReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	content, err := os.ReadFile(feedbackRequestFile)
	if err != nil {
		return fmt.Errorf("failed to read request file %s: %w", feedbackRequestFile, err)
	}

	var req types.FeedbackRequest
	if err := json.Unmarshal(content, &req); err != nil {
		return fmt.Errorf("failed to unmarshal feedback request JSON: %w", err)
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	completer, closeClient, err := newCompleter(ctx, llm.TierStandard, 0.5)
	if err != nil {
		return err
	}
	defer closeClient()

	model := llm.DefaultConfig().GetModel(llm.TierStandard)
	result := feedback.NewGenerator(completer, model, 0.5).Generate(ctx, &req)

	jsonOutput, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal feedback result to JSON: %w", err)
	}
	if err := writeJSONOutput(feedbackOutput, jsonOutput); err != nil {
		return err
	}

	if !result.Success {
		return fmt.Errorf("feedback generation did not succeed: %s", result.Error)
	}
	return nil
}
