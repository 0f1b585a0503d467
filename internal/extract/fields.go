package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ppiankov/claimroute/internal/llm"
	"github.com/ppiankov/claimroute/internal/model"
)

// Flat field keys shared by the LLM prompt, the regex extractor and the record builder
const (
	KeyPolicyNumber       = "policy_number"
	KeyPolicyholderName   = "policyholder_name"
	KeyEffectiveDates     = "effective_dates"
	KeyDateOfLoss         = "date_of_loss"
	KeyTimeOfLoss         = "time_of_loss"
	KeyLocation           = "location"
	KeyDescription        = "description"
	KeyClaimant           = "claimant"
	KeyPhone              = "phone"
	KeyEmail              = "email"
	KeyAssetType          = "asset_type"
	KeyVIN                = "vin"
	KeyMake               = "make"
	KeyModel              = "model"
	KeyYear               = "year"
	KeyDamageDescription  = "damage_description"
	KeyEstimatedDamage    = "estimated_damage"
	KeyClaimType          = "claim_type"
	KeyPoliceReportNumber = "police_report_number"
)

// DefaultAssetType is used when a document does not name the asset
const DefaultAssetType = "Vehicle"

// Fields is a flat key/value view of an FNOL document. Values are trimmed and never blank.
type Fields map[string]string

// Set stores value under key unless it is blank
func (f Fields) Set(key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		f[key] = value
	}
}

// Merge fills keys missing from f with values from other and returns f
func (f Fields) Merge(other Fields) Fields {
	for k, v := range other {
		if _, ok := f[k]; !ok {
			f[k] = v
		}
	}
	return f
}

// FromLLM keeps the known keys of a model reply, converting numbers to text
func FromLLM(raw map[string]any) Fields {
	f := Fields{}
	for _, key := range llm.FieldKeys {
		switch v := raw[key].(type) {
		case string:
			f.Set(key, v)
		case float64:
			f.Set(key, strconv.FormatFloat(v, 'f', -1, 64))
		}
	}
	return f
}

var amountRe = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)

// ParseAmount reads money text such as "$12,500.00", "12500" or "-1,200".
// Only plain digits with an optional decimal point are accepted.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.Trim(s, "()")
	}
	if strings.HasPrefix(s, "-") {
		neg = !neg
		s = s[1:]
	}
	s = strings.TrimPrefix(strings.TrimSpace(s), "$")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if !amountRe.MatchString(s) {
		return 0, false
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// BuildRecord maps flat fields onto the claim record
func BuildRecord(f Fields) *model.ClaimRecord {
	get := func(key string) *string {
		if v, ok := f[key]; ok {
			return model.String(v)
		}
		return nil
	}

	assetType := get(KeyAssetType)
	if assetType == nil {
		assetType = model.String(DefaultAssetType)
	}

	var damage, estimate *float64
	if v, ok := ParseAmount(f[KeyEstimatedDamage]); ok {
		damage = model.Float(v)
		estimate = model.Float(v)
	}

	return &model.ClaimRecord{
		Policy: model.PolicyInfo{
			PolicyNumber:     get(KeyPolicyNumber),
			PolicyholderName: get(KeyPolicyholderName),
			EffectiveDates:   get(KeyEffectiveDates),
		},
		Incident: model.IncidentInfo{
			DateOfLoss:         get(KeyDateOfLoss),
			TimeOfLoss:         get(KeyTimeOfLoss),
			Location:           get(KeyLocation),
			Description:        get(KeyDescription),
			PoliceReportNumber: get(KeyPoliceReportNumber),
		},
		Parties: model.InvolvedParties{
			Claimant:     get(KeyClaimant),
			ThirdParties: []string{},
			Contact: &model.ContactDetails{
				Phone: get(KeyPhone),
				Email: get(KeyEmail),
			},
		},
		Asset: model.AssetDetails{
			AssetType:         assetType,
			AssetID:           get(KeyVIN),
			EstimatedDamage:   damage,
			Make:              get(KeyMake),
			Model:             get(KeyModel),
			Year:              get(KeyYear),
			DamageDescription: get(KeyDamageDescription),
		},
		ClaimType:       get(KeyClaimType),
		Attachments:     []string{},
		InitialEstimate: estimate,
	}
}
