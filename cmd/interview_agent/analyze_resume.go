package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-agent/internal/analysis"
	"github.com/jonathan/interview-agent/internal/ingestion"
	"github.com/jonathan/interview-agent/internal/llm"
)

var analyzeResumeCmd = &cobra.Command{
	Use:   "analyze-resume",
	Short: "Score a resume against a job description",
	Long:  "Runs the resume analysis scorer on a local file or URL, producing an AnalysisResult JSON without touching the database.",
	RunE:  runAnalyzeResume,
}

var (
	analyzeResumeSource string
	analyzeJDFile       string
	analyzeOutput       string
)

func init() {
	analyzeResumeCmd.Flags().StringVarP(&analyzeResumeSource, "resume", "r", "", "Path or URL of the resume to analyze (required)")
	analyzeResumeCmd.Flags().StringVarP(&analyzeJDFile, "jd", "j", "", "Path to job description text file (required)")
	analyzeResumeCmd.Flags().StringVarP(&analyzeOutput, "out", "o", "", "Path to output AnalysisResult JSON file (default stdout)")

	if err := analyzeResumeCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}
	if err := analyzeResumeCmd.MarkFlagRequired("jd"); err != nil {
		panic(fmt.Sprintf("failed to mark jd flag as required: %v", err))
	}

	rootCmd.AddCommand(analyzeResumeCmd)
}

func runAnalyzeResume(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	jdContent, err := os.ReadFile(analyzeJDFile)
	if err != nil {
		return fmt.Errorf("failed to read job description file %s: %w", analyzeJDFile, err)
	}

	var resumeText string
	if strings.HasPrefix(analyzeResumeSource, "http://") || strings.HasPrefix(analyzeResumeSource, "https://") {
		resumeText, _, err = ingestion.IngestFromURL(ctx, analyzeResumeSource)
	} else {
		resumeText, _, err = ingestion.IngestFromFile(analyzeResumeSource)
	}
	if err != nil {
		return fmt.Errorf("failed to load resume: %w", err)
	}

	completer, closeClient, err := newCompleter(ctx, llm.TierAdvanced, 0)
	if err != nil {
		return err
	}
	defer closeClient()

	result := analysis.NewAnalyzer(completer).Analyze(ctx, resumeText, string(jdContent))

	jsonOutput, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal analysis result to JSON: %w", err)
	}
	if err := writeJSONOutput(analyzeOutput, jsonOutput); err != nil {
		return err
	}

	if analyzeOutput != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Successfully analyzed resume (score %d) to %s\n", result.TotalScore, analyzeOutput)
	}
	return nil
}
