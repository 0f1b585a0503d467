package validate

import (
	"strings"

	"github.com/ppiankov/claimroute/internal/model"
)

// Consistency warnings
const (
	WarnEstimateMismatch = "Estimated damage and initial estimate do not match"
	WarnThirdPartyClaim  = "Claimant differs from policyholder (may be third-party claim)"
	WarnNegativeDamage   = "Estimated damage is negative"
)

// Validator finds missing mandatory fields and inconsistent data in a claim.
// It holds no mutable state and is safe for concurrent use.
type Validator struct {
	mandatory []FieldName
}

// NewValidator creates a validator for the given rules.
// Duplicate mandatory names are collapsed, keeping the first occurrence.
func NewValidator(rules model.RulesConfig) (*Validator, error) {
	if len(rules.MandatoryFields) == 0 {
		return nil, &model.ConfigError{Field: "rules.mandatory_fields", Reason: "must not be empty"}
	}

	seen := make(map[FieldName]bool, len(rules.MandatoryFields))
	mandatory := make([]FieldName, 0, len(rules.MandatoryFields))
	for _, raw := range rules.MandatoryFields {
		name := FieldName(strings.TrimSpace(raw))
		if _, ok := fieldTable[name]; !ok {
			return nil, &model.ConfigError{Field: "rules.mandatory_fields", Reason: "unknown field " + raw}
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		mandatory = append(mandatory, name)
	}

	return &Validator{mandatory: mandatory}, nil
}

// MandatoryFields returns the mandatory field names in check order
func (v *Validator) MandatoryFields() []string {
	names := make([]string, len(v.mandatory))
	for i, f := range v.mandatory {
		names[i] = string(f)
	}
	return names
}

// Validate returns the mandatory fields that are absent or blank, in configured order
func (v *Validator) Validate(record *model.ClaimRecord) []string {
	if record == nil {
		record = &model.ClaimRecord{}
	}

	missing := []string{}
	for _, name := range v.mandatory {
		if isMissing(fieldTable[name](record)) {
			missing = append(missing, string(name))
		}
	}
	return missing
}

// isMissing treats nil and whitespace-only text as missing. Zero is a value.
func isMissing(fv fieldValue) bool {
	switch {
	case fv.number != nil:
		return false
	case fv.text != nil:
		return strings.TrimSpace(*fv.text) == ""
	default:
		return true
	}
}

// CheckConsistency returns advisory warnings. None of them affect validity.
func (v *Validator) CheckConsistency(record *model.ClaimRecord) []string {
	if record == nil {
		return []string{}
	}

	warnings := []string{}
	damage := record.Asset.EstimatedDamage

	if damage != nil && record.InitialEstimate != nil && *damage != *record.InitialEstimate {
		warnings = append(warnings, WarnEstimateMismatch)
	}

	claimant := strings.TrimSpace(model.Deref(record.Parties.Claimant))
	holder := strings.TrimSpace(model.Deref(record.Policy.PolicyholderName))
	if claimant != "" && holder != "" && !strings.EqualFold(claimant, holder) {
		warnings = append(warnings, WarnThirdPartyClaim)
	}

	if damage != nil && *damage < 0 {
		warnings = append(warnings, WarnNegativeDamage)
	}

	return warnings
}

// Summary composes Validate and CheckConsistency
func (v *Validator) Summary(record *model.ClaimRecord) model.ValidationSummary {
	missing := v.Validate(record)
	return model.ValidationSummary{
		IsValid:       len(missing) == 0,
		MissingFields: missing,
		Warnings:      v.CheckConsistency(record),
		TotalMissing:  len(missing),
	}
}
