package model

// ClaimRecord is the structured claim extracted from an FNOL document.
// Every scalar is optional: nil means the field was not found.
type ClaimRecord struct {
	Policy    PolicyInfo      `json:"policy_information"`
	Incident  IncidentInfo    `json:"incident_information"`
	Parties   InvolvedParties `json:"involved_parties"`
	Asset     AssetDetails    `json:"asset_details"`
	ClaimType *string         `json:"claim_type"`

	Attachments     []string `json:"attachments"`
	InitialEstimate *float64 `json:"initial_estimate"`
}

// PolicyInfo holds policy-related information
type PolicyInfo struct {
	PolicyNumber     *string `json:"policy_number"`
	PolicyholderName *string `json:"policyholder_name"`
	EffectiveDates   *string `json:"effective_dates"`
	LineOfBusiness   *string `json:"line_of_business"`
	AgencyCustomerID *string `json:"agency_customer_id"`
}

// IncidentInfo holds incident details
type IncidentInfo struct {
	DateOfLoss         *string `json:"date_of_loss"`
	TimeOfLoss         *string `json:"time_of_loss"`
	Location           *string `json:"location"`
	Description        *string `json:"description"`
	PoliceReportNumber *string `json:"police_report_number"`
}

// ContactDetails holds claimant contact information
type ContactDetails struct {
	Phone   *string `json:"phone"`
	Email   *string `json:"email"`
	Address *string `json:"address"`
}

// InvolvedParties describes the people involved in the claim
type InvolvedParties struct {
	Claimant     *string         `json:"claimant"`
	ThirdParties []string        `json:"third_parties"` // Ordered, may be empty
	Contact      *ContactDetails `json:"contact_details"`
	DriverName   *string         `json:"driver_name"`
	OwnerName    *string         `json:"owner_name"`
}

// AssetDetails describes the damaged asset
type AssetDetails struct {
	AssetType         *string  `json:"asset_type"`
	AssetID           *string  `json:"asset_id"`         // VIN for vehicles
	EstimatedDamage   *float64 `json:"estimated_damage"` // May be negative (flagged, not rejected)
	Make              *string  `json:"make"`
	Model             *string  `json:"model"`
	Year              *string  `json:"year"`
	DamageDescription *string  `json:"damage_description"`
}

// NarrativeText returns the free text searched for routing keywords:
// the incident description and the damage description, space-joined.
func (c *ClaimRecord) NarrativeText() string {
	return Deref(c.Incident.Description) + " " + Deref(c.Asset.DamageDescription)
}

// String returns a pointer to s
func String(s string) *string {
	return &s
}

// Float returns a pointer to f
func Float(f float64) *float64 {
	return &f
}

// Deref returns the pointed-to string or "" when nil
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
