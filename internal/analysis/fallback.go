package analysis

import (
	"strings"

	"github.com/jonathan/interview-agent/internal/types"
)

// Resume length band (in bytes of extracted text) considered healthy for a
// one-to-two page resume. Outside the band the baseline scores drop.
const (
	minHealthyLength = 1800
	maxHealthyLength = 5500
)

// FallbackScore produces a conservative deterministic score when the model is
// unavailable. Same inputs always yield the same result, so a degraded
// analysis is reproducible. Sub-score ceilings match the model prompt:
// relevance 20, impact 25, ATS 20, essentials 10, alignment 25.
func FallbackScore(resumeText, jobDescription string, formattingIssues []string) *types.AnalysisResult {
	length := len(resumeText)
	inBand := length >= minHealthyLength && length <= maxHealthyLength

	relevanceScore := 7
	quantScore := 5
	verbScore := 4
	alignScore := 8
	if inBand {
		relevanceScore = 12
		quantScore = 8
		verbScore = 6
		alignScore = 13
	}

	atsScore := clampInt(20-3*len(formattingIssues), 0, 20)

	lower := strings.ToLower(resumeText)
	contactPresent := strings.Contains(lower, "@")
	linksPresent := strings.Contains(lower, "linkedin.com") ||
		strings.Contains(lower, "github.com") ||
		strings.Contains(lower, "http")

	essentialsScore := 0
	if contactPresent {
		essentialsScore += 5
	}
	if linksPresent {
		essentialsScore += 5
	}

	total := clampInt(relevanceScore+quantScore+verbScore+atsScore+essentialsScore+alignScore, 0, 100)

	return &types.AnalysisResult{
		TotalScore: total,
		Summary:    "Baseline automated assessment. Detailed model analysis was unavailable; scores reflect document structure and completeness only.",
		Relevance: types.SkillGap{
			Score:      relevanceScore,
			Suggestion: "Tailor the skills section to the job description's required stack.",
		},
		Impact: types.ImpactAnalysis{
			QuantificationScore: quantScore,
			ActionVerbsScore:    verbScore,
			Suggestion:          "Quantify achievements with metrics and lead bullets with strong action verbs.",
		},
		ATSCompatibility: types.ATSCheck{
			Score:            atsScore,
			FormattingIssues: formattingIssues,
		},
		Essentials: types.Essentials{
			Score:              essentialsScore,
			ContactInfoPresent: contactPresent,
			LinksPresent:       linksPresent,
		},
		JDAlignment: types.JobAlignment{
			Score:       alignScore,
			MatchStatus: matchStatusForScore(alignScore),
			Suggestion:  "Mirror the job title and seniority language from the posting where accurate.",
		},
	}
}

func matchStatusForScore(score int) string {
	switch {
	case score >= 17:
		return "High"
	case score >= 10:
		return "Medium"
	default:
		return "Low"
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
