package models

// QualityIssue is one detected rule violation: the dotted field path, the
// offending value verbatim, and a human-readable reason. Issues report,
// they never correct; the underlying Form283 stays untouched.
type QualityIssue struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// ValidationReport is the output of one quality validation run. It is a
// deterministic function of the input Form283: all scores are derived, and
// the issue order matches the fixed rule evaluation order.
//
// Accuracy is scoped to filled fields only. An empty field cannot be
// inaccurate, only incomplete; counting it under both scores would
// penalize the same gap twice.
type ValidationReport struct {
	// AccuracyScore is (filled fields without issues / filled fields) * 100,
	// or 100.0 when nothing is filled.
	AccuracyScore float64 `json:"accuracy_score"`

	// CompletenessScore is (filled logical units / total logical units) * 100.
	CompletenessScore float64 `json:"completeness_score"`

	// Corrections lists the quality issues found, in rule evaluation order.
	Corrections []QualityIssue `json:"corrections"`

	FilledCount int `json:"filled_count"`
	TotalCount  int `json:"total_count"`

	// MissingFields holds the dotted path of every empty field. A composite
	// that is entirely empty contributes its own path once; a partially
	// filled composite contributes each empty sub-field path.
	MissingFields []string `json:"missing_fields"`

	// Summary is a human-readable one-liner with counts and percentages.
	Summary string `json:"summary"`
}
