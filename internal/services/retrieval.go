package services

import (
	"fmt"
	"strings"
)

const (
	DocTypeJobDescription = "job_description"
	DocTypeHiringPolicy   = "hiring_policy"
)

// BuildRetrievalQuery phrases the embedding query for a stored document type.
func BuildRetrievalQuery(docType, subject string) string {
	switch docType {
	case DocTypeJobDescription:
		return fmt.Sprintf("Job requirements and qualifications for %s", subject)
	case DocTypeHiringPolicy:
		return fmt.Sprintf("Hiring policy and screening guidelines for %s", subject)
	default:
		return subject
	}
}

// FormatRAGContext joins retrieved chunks into one block, best match first.
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	parts := make([]string, 0, len(results))
	for i, result := range results {
		text := strings.TrimSpace(result.Text)
		if text == "" {
			continue
		}
		parts = append(parts, fmt.Sprintf("--- Context %d (Score: %.2f) ---\n%s", i+1, result.Score, text))
	}

	return strings.Join(parts, "\n\n")
}
