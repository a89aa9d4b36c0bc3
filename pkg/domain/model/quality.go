package model

// Violation is a single finding reported by the static analyzer
type Violation struct {
	File    string `json:"file" firestore:"file"`
	Line    int    `json:"line" firestore:"line"`
	Rule    string `json:"rule" firestore:"rule"`
	Message string `json:"message" firestore:"message"`
}

// AnalysisResult is the raw output of one analyzer invocation, parsed
// from its JSON report.
type AnalysisResult struct {
	Score      float64     `json:"score"`
	Violations []Violation `json:"violations"`
}

// QualityReport is the decision of one quality gate evaluation.
// Read-only after creation.
type QualityReport struct {
	Score      float64     `firestore:"score"`
	Threshold  float64     `firestore:"threshold"`
	Passed     bool        `firestore:"passed"`
	Violations []Violation `firestore:"violations"`
}

// NewQualityReport builds a report from an analyzer score. A score
// equal to the threshold passes.
func NewQualityReport(score, threshold float64, violations []Violation) *QualityReport {
	return &QualityReport{
		Score:      score,
		Threshold:  threshold,
		Passed:     score >= threshold,
		Violations: violations,
	}
}
