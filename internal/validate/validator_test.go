package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/claimroute/internal/model"
)

func completeRecord() *model.ClaimRecord {
	return &model.ClaimRecord{
		Policy: model.PolicyInfo{
			PolicyNumber:     model.String("POL-2026-FT-001"),
			PolicyholderName: model.String("Sarah Johnson"),
		},
		Incident: model.IncidentInfo{
			DateOfLoss:  model.String("2026-02-01"),
			Location:    model.String("Main St and 5th Avenue, Springfield, IL"),
			Description: model.String("Minor rear-end collision at traffic light"),
		},
		Parties: model.InvolvedParties{
			Claimant: model.String("Sarah Johnson"),
		},
		Asset: model.AssetDetails{
			EstimatedDamage: model.Float(12500),
		},
		ClaimType:       model.String("auto"),
		InitialEstimate: model.Float(12500),
	}
}

func newDefaultValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(model.DefaultRules())
	require.NoError(t, err)
	return v
}

func TestNewValidator_EmptyMandatorySet(t *testing.T) {
	rules := model.DefaultRules()
	rules.MandatoryFields = nil

	_, err := NewValidator(rules)

	var cfgErr *model.ConfigError
	require.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
	assert.Equal(t, "rules.mandatory_fields", cfgErr.Field)
}

func TestNewValidator_UnknownField(t *testing.T) {
	rules := model.DefaultRules()
	rules.MandatoryFields = []string{"policy_number", "shoe_size"}

	_, err := NewValidator(rules)

	var cfgErr *model.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, cfgErr.Reason, "shoe_size")
}

func TestNewValidator_DeduplicatesKeepingOrder(t *testing.T) {
	rules := model.DefaultRules()
	rules.MandatoryFields = []string{"claimant", "location", "claimant", " location "}

	v, err := NewValidator(rules)
	require.NoError(t, err)

	assert.Equal(t, []string{"claimant", "location"}, v.MandatoryFields())
}

func TestValidate_CompleteRecord(t *testing.T) {
	v := newDefaultValidator(t)

	missing := v.Validate(completeRecord())

	assert.NotNil(t, missing)
	assert.Empty(t, missing)
}

func TestValidate_EmptyRecordMissesEverythingInOrder(t *testing.T) {
	v := newDefaultValidator(t)

	missing := v.Validate(&model.ClaimRecord{})

	assert.Equal(t, model.DefaultMandatoryFields, missing)
}

func TestValidate_NilRecord(t *testing.T) {
	v := newDefaultValidator(t)

	assert.Equal(t, model.DefaultMandatoryFields, v.Validate(nil))
}

func TestValidate_BlankText(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *model.ClaimRecord)
		want   []string
	}{
		{
			name:   "empty policy number",
			mutate: func(r *model.ClaimRecord) { r.Policy.PolicyNumber = model.String("") },
			want:   []string{"policy_number"},
		},
		{
			name:   "whitespace location",
			mutate: func(r *model.ClaimRecord) { r.Incident.Location = model.String(" \t\n ") },
			want:   []string{"location"},
		},
		{
			name:   "nil claimant",
			mutate: func(r *model.ClaimRecord) { r.Parties.Claimant = nil },
			want:   []string{"claimant"},
		},
		{
			name: "missing policy number and damage",
			mutate: func(r *model.ClaimRecord) {
				r.Policy.PolicyNumber = nil
				r.Asset.EstimatedDamage = nil
			},
			want: []string{"policy_number", "estimated_damage"},
		},
	}

	v := newDefaultValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := completeRecord()
			tt.mutate(r)
			assert.Equal(t, tt.want, v.Validate(r))
		})
	}
}

func TestValidate_ZeroDamageIsPresent(t *testing.T) {
	v := newDefaultValidator(t)
	r := completeRecord()
	r.Asset.EstimatedDamage = model.Float(0)

	assert.Empty(t, v.Validate(r))
}

func TestValidate_CustomMandatorySet(t *testing.T) {
	rules := model.DefaultRules()
	rules.MandatoryFields = []string{"phone", "asset_id", "initial_estimate"}
	v, err := NewValidator(rules)
	require.NoError(t, err)

	r := completeRecord()
	assert.Equal(t, []string{"phone", "asset_id"}, v.Validate(r))

	r.Parties.Contact = &model.ContactDetails{Phone: model.String("(555) 123-4567")}
	r.Asset.AssetID = model.String("1HGBH41JXMN109186")
	assert.Empty(t, v.Validate(r))
}

func TestCheckConsistency(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *model.ClaimRecord)
		want   []string
	}{
		{
			name:   "consistent",
			mutate: func(r *model.ClaimRecord) {},
			want:   []string{},
		},
		{
			name:   "estimate mismatch",
			mutate: func(r *model.ClaimRecord) { r.InitialEstimate = model.Float(9000) },
			want:   []string{WarnEstimateMismatch},
		},
		{
			name:   "initial estimate absent",
			mutate: func(r *model.ClaimRecord) { r.InitialEstimate = nil },
			want:   []string{},
		},
		{
			name:   "claimant differs only in case",
			mutate: func(r *model.ClaimRecord) { r.Parties.Claimant = model.String("SARAH JOHNSON") },
			want:   []string{},
		},
		{
			name:   "third party claimant",
			mutate: func(r *model.ClaimRecord) { r.Parties.Claimant = model.String("Mark Lee") },
			want:   []string{WarnThirdPartyClaim},
		},
		{
			name: "negative damage",
			mutate: func(r *model.ClaimRecord) {
				r.Asset.EstimatedDamage = model.Float(-50)
				r.InitialEstimate = model.Float(-50)
			},
			want: []string{WarnNegativeDamage},
		},
		{
			name: "all three",
			mutate: func(r *model.ClaimRecord) {
				r.Asset.EstimatedDamage = model.Float(-50)
				r.Parties.Claimant = model.String("Mark Lee")
			},
			want: []string{WarnEstimateMismatch, WarnThirdPartyClaim, WarnNegativeDamage},
		},
	}

	v := newDefaultValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := completeRecord()
			tt.mutate(r)
			assert.Equal(t, tt.want, v.CheckConsistency(r))
		})
	}
}

func TestSummary_WarningsDoNotAffectValidity(t *testing.T) {
	v := newDefaultValidator(t)
	r := completeRecord()
	r.Asset.EstimatedDamage = model.Float(-1)

	s := v.Summary(r)

	assert.True(t, s.IsValid)
	assert.Equal(t, 0, s.TotalMissing)
	assert.Contains(t, s.Warnings, WarnNegativeDamage)
}

func TestSummary_Invalid(t *testing.T) {
	v := newDefaultValidator(t)
	r := completeRecord()
	r.Incident.DateOfLoss = nil

	s := v.Summary(r)

	assert.False(t, s.IsValid)
	assert.Equal(t, []string{"date_of_loss"}, s.MissingFields)
	assert.Equal(t, 1, s.TotalMissing)
}

func TestKnownField(t *testing.T) {
	for _, name := range model.DefaultMandatoryFields {
		assert.True(t, KnownField(name), name)
	}
	assert.False(t, KnownField("vin"))
}
