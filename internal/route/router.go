package route

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ppiankov/claimroute/internal/model"
)

// IndicatorClaimTypeInjury is reported when the claim type alone marks an injury claim
const IndicatorClaimTypeInjury = "claim_type: injury"

// Router applies the routing rule cascade to validated claims.
// It holds only immutable configuration and is safe for concurrent use.
type Router struct {
	threshold      float64
	fraudKeywords  []string
	injuryKeywords []string
}

// NewRouter creates a router for the given rules
func NewRouter(rules model.RulesConfig) (*Router, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	return &Router{
		threshold:      rules.FastTrackThreshold,
		fraudKeywords:  normalizeKeywords(rules.FraudKeywords),
		injuryKeywords: normalizeKeywords(rules.InjuryKeywords),
	}, nil
}

// Threshold returns the fast-track damage threshold
func (r *Router) Threshold() float64 {
	return r.threshold
}

// Route picks the queue for a claim. The first matching rule wins:
// missing fields, fraud indicators, injury, fast-track, then manual review.
func (r *Router) Route(record *model.ClaimRecord, missing []string) (model.Route, string) {
	if record == nil {
		record = &model.ClaimRecord{}
	}

	// Priority 1: Manual review for missing fields
	if len(missing) > 0 {
		return model.RouteManualReview, fmt.Sprintf(
			"Claim requires manual review due to %d missing mandatory field(s): %s. "+
				"Complete information is required before processing.",
			len(missing), strings.Join(missing, ", "))
	}

	// Priority 2: Investigation for fraud indicators
	if hasFraud, keywords := r.FraudIndicators(record); hasFraud {
		return model.RouteInvestigation, fmt.Sprintf(
			"Claim flagged for investigation due to potential fraud indicators. "+
				"Keywords detected: %s. Requires detailed review by fraud investigation team.",
			strings.Join(keywords, ", "))
	}

	// Priority 3: Specialist queue for injury claims
	if isInjury, indicators := r.InjuryIndicators(record); isInjury {
		return model.RouteSpecialistQueue, fmt.Sprintf(
			"Claim routed to specialist queue due to injury involvement. "+
				"Indicators: %s. Requires assessment by injury claims specialist.",
			strings.Join(indicators, ", "))
	}

	// Priority 4: Fast-track for low-value claims
	damage := record.Asset.EstimatedDamage
	if r.belowThreshold(damage) {
		return model.RouteFastTrack, fmt.Sprintf(
			"Claim meets fast-track criteria: estimated damage (%s) is below %s threshold "+
				"and all mandatory fields are present. No fraud indicators or injury claims detected.",
			formatMoney(*damage), formatMoney(r.threshold))
	}

	// Default: Manual review for high-value claims or a missing estimate
	if damage == nil {
		return model.RouteManualReview,
			"Claim requires manual review as estimated damage amount is not provided. " +
				"Damage assessment needed before routing decision."
	}
	return model.RouteManualReview, fmt.Sprintf(
		"Claim requires manual review due to high estimated damage (%s), which meets or exceeds "+
			"the fast-track threshold of %s. Requires detailed assessment by claims adjuster.",
		formatMoney(*damage), formatMoney(r.threshold))
}

// FraudIndicators reports every configured fraud keyword found in the claim narrative
func (r *Router) FraudIndicators(record *model.ClaimRecord) (bool, []string) {
	matched := matchKeywords(narrative(record), r.fraudKeywords)
	return len(matched) > 0, matched
}

// InjuryIndicators reports whether the claim involves injury. An "injury" claim type
// short-circuits the keyword search.
func (r *Router) InjuryIndicators(record *model.ClaimRecord) (bool, []string) {
	if record != nil && record.ClaimType != nil &&
		strings.EqualFold(strings.TrimSpace(*record.ClaimType), "injury") {
		return true, []string{IndicatorClaimTypeInjury}
	}

	matched := matchKeywords(narrative(record), r.injuryKeywords)
	return len(matched) > 0, matched
}

// Summary re-derives the decision with every rule's inputs exposed
func (r *Router) Summary(record *model.ClaimRecord, missing []string) model.RoutingSummary {
	if record == nil {
		record = &model.ClaimRecord{}
	}

	route, reasoning := r.Route(record, missing)
	hasFraud, fraudKeywords := r.FraudIndicators(record)
	isInjury, injuryIndicators := r.InjuryIndicators(record)
	damage := record.Asset.EstimatedDamage

	return model.RoutingSummary{
		RecommendedRoute: route,
		Reasoning:        reasoning,
		FraudIndicators: model.Indicators{
			Detected: hasFraud,
			Matches:  fraudKeywords,
		},
		InjuryIndicators: model.Indicators{
			Detected: isInjury,
			Matches:  injuryIndicators,
		},
		EstimatedDamage: damage,
		FastTrackEligible: len(missing) == 0 &&
			!hasFraud &&
			!isInjury &&
			r.belowThreshold(damage),
	}
}

func (r *Router) belowThreshold(damage *float64) bool {
	return damage != nil && *damage < r.threshold
}

func narrative(record *model.ClaimRecord) string {
	if record == nil {
		return ""
	}
	return strings.ToLower(record.NarrativeText())
}

// matchKeywords returns the keywords contained in text, in configured order
func matchKeywords(text string, keywords []string) []string {
	matched := []string{}
	for _, kw := range keywords {
		if strings.Contains(text, strings.ToLower(kw)) {
			matched = append(matched, kw)
		}
	}
	return matched
}

// normalizeKeywords trims keywords and drops case-insensitive duplicates
func normalizeKeywords(keywords []string) []string {
	seen := make(map[string]bool, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		key := strings.ToLower(kw)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, kw)
	}
	return out
}

// formatMoney renders an amount as $12,500.00
func formatMoney(amount float64) string {
	return message.NewPrinter(language.English).Sprintf("$%.2f", amount)
}
