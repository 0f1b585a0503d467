package model

// ClaimOutput is the final artifact written for each processed claim.
// Key names are a compatibility contract with downstream consumers.
type ClaimOutput struct {
	ClaimID          string      `json:"claim_id"`
	ProcessedAt      string      `json:"processed_at"`
	ExtractedFields  ClaimRecord `json:"extracted_fields"`
	MissingFields    []string    `json:"missing_fields"`
	RecommendedRoute Route       `json:"recommended_route"`
	Reasoning        string      `json:"reasoning"`
}

// ValidationSummary combines missing-field detection and consistency warnings
type ValidationSummary struct {
	IsValid       bool     `json:"is_valid"`
	MissingFields []string `json:"missing_fields"`
	Warnings      []string `json:"warnings"`
	TotalMissing  int      `json:"total_missing"`
}

// RoutingSummary is a diagnostic view of the routing decision
type RoutingSummary struct {
	RecommendedRoute  Route      `json:"recommended_route"`
	Reasoning         string     `json:"reasoning"`
	FraudIndicators   Indicators `json:"fraud_indicators"`
	InjuryIndicators  Indicators `json:"injury_indicators"`
	EstimatedDamage   *float64   `json:"estimated_damage"`
	FastTrackEligible bool       `json:"fast_track_eligible"`
}

// Indicators reports whether a rule fired and what triggered it
type Indicators struct {
	Detected bool     `json:"detected"`
	Matches  []string `json:"matches"`
}
