package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/interview-agent/internal/ingestion"
	"github.com/jonathan/interview-agent/internal/llm"
	"github.com/jonathan/interview-agent/internal/questions"
	"github.com/jonathan/interview-agent/internal/types"
)

var generateQuestionsCmd = &cobra.Command{
	Use:   "generate-questions",
	Short: "Generate an interview question catalog",
	Long:  "Generates a question catalog for a role from a job description and resume, producing a QuestionCatalog JSON.",
	RunE:  runGenerateQuestions,
}

var (
	genQuestionsPost     string
	genQuestionsJD       string
	genQuestionsResume   string
	genQuestionsType     string
	genQuestionsDuration string
	genQuestionsOutput   string
)

func init() {
	generateQuestionsCmd.Flags().StringVarP(&genQuestionsPost, "post", "p", "", "Job title being interviewed for (required)")
	generateQuestionsCmd.Flags().StringVarP(&genQuestionsJD, "jd", "j", "", "Path to job description text file (required)")
	generateQuestionsCmd.Flags().StringVarP(&genQuestionsResume, "resume", "r", "", "Path to resume text file (required)")
	generateQuestionsCmd.Flags().StringVarP(&genQuestionsType, "type", "t", "TECHNICAL", "Interview type: TECHNICAL, HR, SYSTEM_DESIGN, BEHAVIORAL")
	generateQuestionsCmd.Flags().StringVarP(&genQuestionsDuration, "duration", "d", "30 minutes", "Planned interview duration")
	generateQuestionsCmd.Flags().StringVarP(&genQuestionsOutput, "out", "o", "", "Path to output QuestionCatalog JSON file (default stdout)")

	if err := generateQuestionsCmd.MarkFlagRequired("post"); err != nil {
		panic(fmt.Sprintf("failed to mark post flag as required: %v", err))
	}
	if err := generateQuestionsCmd.MarkFlagRequired("jd"); err != nil {
		panic(fmt.Sprintf("failed to mark jd flag as required: %v", err))
	}
	if err := generateQuestionsCmd.MarkFlagRequired("resume"); err != nil {
		panic(fmt.Sprintf("failed to mark resume flag as required: %v", err))
	}

	rootCmd.AddCommand(generateQuestionsCmd)
}

func runGenerateQuestions(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	jdContent, err := os.ReadFile(genQuestionsJD)
	if err != nil {
		return fmt.Errorf("failed to read job description file %s: %w", genQuestionsJD, err)
	}

	resumeText, _, err := ingestion.IngestFromFile(genQuestionsResume)
	if err != nil {
		return fmt.Errorf("failed to load resume: %w", err)
	}

	req := types.GenerateQuestionsRequest{
		Post:           genQuestionsPost,
		JobDescription: string(jdContent),
		ResumeText:     resumeText,
		InterviewType:  types.InterviewType(genQuestionsType),
		Duration:       genQuestionsDuration,
	}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}

	completer, closeClient, err := newCompleter(ctx, llm.TierStandard, 0.7)
	if err != nil {
		return err
	}
	defer closeClient()

	catalog, err := questions.NewGenerator(completer).Generate(ctx, &req)
	if err != nil {
		return fmt.Errorf("failed to generate questions: %w", err)
	}

	jsonOutput, err := json.MarshalIndent(catalog, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal question catalog to JSON: %w", err)
	}
	if err := writeJSONOutput(genQuestionsOutput, jsonOutput); err != nil {
		return err
	}

	if genQuestionsOutput != "" {
		_, _ = fmt.Fprintf(os.Stdout, "Successfully generated %d questions to %s\n", len(catalog.Questions), genQuestionsOutput)
	}
	return nil
}
