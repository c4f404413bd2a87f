// Package analysis scores resumes against job descriptions.
package analysis

import (
	"fmt"
	"strings"
)

// fragmentationThreshold is the share of short lines above which extracted
// text is considered fragmented. PDF extractions of multi-column or
// table-heavy layouts produce many lines of one to three words.
const fragmentationThreshold = 0.4

// fragmentationMinLines avoids flagging trivially short documents.
const fragmentationMinLines = 10

// CheckFormatting inspects extracted resume text for extraction artifacts
// that hurt ATS parsing. The returned issues feed both the scoring prompt and
// the fallback scorer.
func CheckFormatting(text string) []string {
	var issues []string

	if strings.Contains(text, "(cid:") {
		issues = append(issues, "embedded font artifacts detected (cid markers); the PDF text layer is damaged")
	}

	lines := strings.Split(text, "\n")
	var nonEmpty, short int
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmpty++
		if len(strings.Fields(trimmed)) < 4 {
			short++
		}
	}

	if nonEmpty >= fragmentationMinLines {
		ratio := float64(short) / float64(nonEmpty)
		if ratio > fragmentationThreshold {
			issues = append(issues, fmt.Sprintf("text is highly fragmented (%.0f%% short lines); likely multi-column or table layout", ratio*100))
		}
	}

	return issues
}
