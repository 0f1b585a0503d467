package llm

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldKeys are the flat keys the model is asked to fill, in prompt order
var FieldKeys = []string{
	"policy_number",
	"policyholder_name",
	"effective_dates",
	"date_of_loss",
	"time_of_loss",
	"location",
	"description",
	"claimant",
	"phone",
	"email",
	"asset_type",
	"vin",
	"make",
	"model",
	"year",
	"damage_description",
	"estimated_damage",
	"claim_type",
	"police_report_number",
}

const systemPrompt = "You extract fields from insurance First Notice of Loss documents. Reply with a single JSON object and nothing else."

// maxPromptChars bounds the document text sent to the model
const maxPromptChars = 4000

// BuildExtractionPrompt constructs the user prompt for a document
func BuildExtractionPrompt(text string) string {
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}

	var b strings.Builder
	b.WriteString("Extract the following fields from this FNOL document and return them as a JSON object.\n")
	b.WriteString("Use null for any field that is not present. Do not guess.\n\n")
	b.WriteString("Fields:\n")
	for _, key := range FieldKeys {
		fmt.Fprintf(&b, "- %s\n", key)
	}
	b.WriteString("\nestimated_damage must be a plain number without currency symbols.\n")
	b.WriteString("claim_type is one of: auto, property, injury, liability, other.\n\n")
	b.WriteString("Document:\n")
	b.WriteString(text)
	return b.String()
}

// parseFields decodes a model reply into a field map.
// Markdown code fences around the JSON are tolerated.
func parseFields(content string) (map[string]any, error) {
	raw := []byte(stripCodeFence(content))

	if err := validateFields(raw); err != nil {
		return nil, err
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	return fields, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	// drop the info string, e.g. ```json
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
