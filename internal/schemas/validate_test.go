package schemas

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-agent/internal/types"
)

func validResult() types.AnalysisResult {
	return types.AnalysisResult{
		TotalScore: 72,
		Summary:    "Strong backend candidate.",
		Relevance: types.SkillGap{
			Score:      15,
			Matched:    []string{"Go", "PostgreSQL"},
			Missing:    []string{"Kubernetes"},
			Suggestion: "Add container orchestration experience.",
		},
		Impact: types.ImpactAnalysis{
			QuantificationScore: 10,
			ActionVerbsScore:    8,
			Suggestion:          "Quantify more outcomes.",
		},
		ATSCompatibility: types.ATSCheck{
			Score:            17,
			DetectedSections: []string{"Experience", "Education"},
		},
		Essentials: types.Essentials{
			Score:              10,
			ContactInfoPresent: true,
			LinksPresent:       true,
		},
		JDAlignment: types.JobAlignment{
			Score:       12,
			MatchStatus: "Medium",
			Suggestion:  "Highlight leadership scope.",
		},
	}
}

func marshal(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func TestValidateAnalysisResult_Valid(t *testing.T) {
	err := ValidateAnalysisResult(marshal(t, validResult()))
	assert.NoError(t, err)
}

func TestValidateAnalysisResult_MissingSection(t *testing.T) {
	err := ValidateAnalysisResult(`{"total_score": 50, "summary": "x"}`)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok, "error should be ValidationError type")
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateAnalysisResult_WrongType(t *testing.T) {
	doc := `{
		"total_score": "seventy",
		"summary": "x",
		"relevance": {"score": 10},
		"impact": {"quantification_score": 5, "action_verbs_score": 5},
		"ats_compatibility": {"score": 10},
		"essentials": {"score": 5},
		"jd_alignment": {"score": 10, "match_status": "Medium"}
	}`

	err := ValidateAnalysisResult(doc)
	require.Error(t, err)

	validationErr, ok := err.(*ValidationError)
	require.True(t, ok)
	assert.Greater(t, len(validationErr.Errors), 0)
}

func TestValidateAnalysisResult_MalformedJSON(t *testing.T) {
	err := ValidateAnalysisResult("{not json")
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestValidateJSONString_InvalidSchema(t *testing.T) {
	err := ValidateJSONString("{not a schema", "{}")
	require.Error(t, err)

	var loadErr *SchemaLoadError
	assert.ErrorAs(t, err, &loadErr)
}
