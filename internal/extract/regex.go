package extract

import (
	"regexp"
	"sort"
	"strconv"
)

var (
	policyNumberRe = regexp.MustCompile(`(?i)POLICY NUMBER[:\s]+([A-Z0-9-]+)`)
	dateOfLossRe   = regexp.MustCompile(`(?i)DATE OF LOSS[:\s]+(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`)
	vinRe          = regexp.MustCompile(`(?i)V\.I\.N\.[:\s]+([A-HJ-NPR-Z0-9]{17})`)
	estimateRe     = regexp.MustCompile(`(?i)ESTIMATE AMOUNT[:\s]*\$?\s*([0-9,]+(?:\.\d{2})?)`)

	vinShapeRe = regexp.MustCompile(`(?i)^[A-HJ-NPR-Z0-9]{17}$`)
)

// LabelAliases lists the printed ACORD / web-form labels for each flat key
var LabelAliases = map[string][]string{
	KeyPolicyNumber:       {"POLICY NUMBER", "Policy #"},
	KeyPolicyholderName:   {"NAME OF INSURED", "Insured Name", "Policyholder"},
	KeyEffectiveDates:     {"EFFECTIVE DATES", "Policy Period"},
	KeyDateOfLoss:         {"DATE OF LOSS", "Loss Date", "Incident Date"},
	KeyTimeOfLoss:         {"TIME", "Loss Time"},
	KeyLocation:           {"LOCATION OF LOSS", "Loss Location", "Incident Location"},
	KeyDescription:        {"DESCRIPTION OF ACCIDENT", "Incident Description"},
	KeyClaimant:           {"NAME OF INSURED", "Claimant Name", "Claimant"},
	KeyPhone:              {"PHONE", "Phone Number", "Contact Phone"},
	KeyEmail:              {"E-MAIL", "Email Address", "Email"},
	KeyVIN:                {"V.I.N.", "VIN", "Vehicle Identification Number"},
	KeyMake:               {"MAKE", "Vehicle Make"},
	KeyModel:              {"MODEL", "Vehicle Model"},
	KeyYear:               {"YEAR", "Vehicle Year"},
	KeyDamageDescription:  {"DESCRIBE DAMAGE", "Damage Description"},
	KeyEstimatedDamage:    {"ESTIMATE AMOUNT", "Estimated Damage", "Initial Estimate"},
	KeyClaimType:          {"CLAIM TYPE", "Type of Claim"},
	KeyPoliceReportNumber: {"REPORT NUMBER", "Police Report Number"},
}

type labelPattern struct {
	key string
	re  *regexp.Regexp
}

// labelPatterns match "LABEL: value" at line start or after a layout gap of
// two or more spaces; the value ends at the next gap or end of line
var labelPatterns = compileLabels()

func compileLabels() []labelPattern {
	keys := make([]string, 0, len(LabelAliases))
	for k := range LabelAliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out []labelPattern
	for _, key := range keys {
		for _, alias := range LabelAliases[key] {
			re := regexp.MustCompile(`(?im)(?:^|[ \t]{2,})[ \t]*` + regexp.QuoteMeta(alias) + `[ \t]*:[ \t]*([^ \t\n](?:[^\n]*?[^ \t\n])?)(?:[ \t]{2,}|[ \t]*$)`)
			out = append(out, labelPattern{key: key, re: re})
		}
	}
	return out
}

// ExtractRegex pulls fields out of document text without an LLM.
// The fixed patterns win over label matches for the same key.
func ExtractRegex(text string) Fields {
	f := Fields{}

	if m := policyNumberRe.FindStringSubmatch(text); m != nil {
		f.Set(KeyPolicyNumber, m[1])
	}
	if m := dateOfLossRe.FindStringSubmatch(text); m != nil {
		f.Set(KeyDateOfLoss, m[1])
	}
	if m := vinRe.FindStringSubmatch(text); m != nil {
		f.Set(KeyVIN, m[1])
	}
	if m := estimateRe.FindStringSubmatch(text); m != nil {
		if v, ok := ParseAmount(m[1]); ok {
			f.Set(KeyEstimatedDamage, strconv.FormatFloat(v, 'f', -1, 64))
		}
	}

	return f.Merge(extractLabels(text))
}

func extractLabels(text string) Fields {
	f := Fields{}
	for _, p := range labelPatterns {
		if _, done := f[p.key]; done {
			continue
		}
		if m := p.re.FindStringSubmatch(text); m != nil {
			f.Set(p.key, m[1])
		}
	}
	if v, ok := f[KeyVIN]; ok && !vinShapeRe.MatchString(v) {
		delete(f, KeyVIN)
	}
	if v, ok := f[KeyEstimatedDamage]; ok {
		if amount, ok := ParseAmount(v); ok {
			f[KeyEstimatedDamage] = strconv.FormatFloat(amount, 'f', -1, 64)
		} else {
			delete(f, KeyEstimatedDamage)
		}
	}
	return f
}
