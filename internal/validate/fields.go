package validate

import (
	"github.com/ppiankov/claimroute/internal/model"
)

// FieldName identifies a claim field that can be declared mandatory
type FieldName string

const (
	FieldPolicyNumber       FieldName = "policy_number"
	FieldPolicyholderName   FieldName = "policyholder_name"
	FieldEffectiveDates     FieldName = "effective_dates"
	FieldLineOfBusiness     FieldName = "line_of_business"
	FieldAgencyCustomerID   FieldName = "agency_customer_id"
	FieldDateOfLoss         FieldName = "date_of_loss"
	FieldTimeOfLoss         FieldName = "time_of_loss"
	FieldLocation           FieldName = "location"
	FieldDescription        FieldName = "description"
	FieldPoliceReportNumber FieldName = "police_report_number"
	FieldClaimant           FieldName = "claimant"
	FieldPhone              FieldName = "phone"
	FieldEmail              FieldName = "email"
	FieldAddress            FieldName = "address"
	FieldDriverName         FieldName = "driver_name"
	FieldOwnerName          FieldName = "owner_name"
	FieldAssetType          FieldName = "asset_type"
	FieldAssetID            FieldName = "asset_id"
	FieldEstimatedDamage    FieldName = "estimated_damage"
	FieldMake               FieldName = "make"
	FieldModel              FieldName = "model"
	FieldYear               FieldName = "year"
	FieldDamageDescription  FieldName = "damage_description"
	FieldClaimType          FieldName = "claim_type"
	FieldInitialEstimate    FieldName = "initial_estimate"
)

// fieldValue is a resolved field: text, number, or neither
type fieldValue struct {
	text   *string
	number *float64
}

type accessor func(c *model.ClaimRecord) fieldValue

func text(s *string) fieldValue { return fieldValue{text: s} }
func number(f *float64) fieldValue { return fieldValue{number: f} }

func contact(c *model.ClaimRecord) *model.ContactDetails {
	if c.Parties.Contact == nil {
		return &model.ContactDetails{}
	}
	return c.Parties.Contact
}

// fieldTable maps each field name to exactly one location in the record
var fieldTable = map[FieldName]accessor{
	FieldPolicyNumber:       func(c *model.ClaimRecord) fieldValue { return text(c.Policy.PolicyNumber) },
	FieldPolicyholderName:   func(c *model.ClaimRecord) fieldValue { return text(c.Policy.PolicyholderName) },
	FieldEffectiveDates:     func(c *model.ClaimRecord) fieldValue { return text(c.Policy.EffectiveDates) },
	FieldLineOfBusiness:     func(c *model.ClaimRecord) fieldValue { return text(c.Policy.LineOfBusiness) },
	FieldAgencyCustomerID:   func(c *model.ClaimRecord) fieldValue { return text(c.Policy.AgencyCustomerID) },
	FieldDateOfLoss:         func(c *model.ClaimRecord) fieldValue { return text(c.Incident.DateOfLoss) },
	FieldTimeOfLoss:         func(c *model.ClaimRecord) fieldValue { return text(c.Incident.TimeOfLoss) },
	FieldLocation:           func(c *model.ClaimRecord) fieldValue { return text(c.Incident.Location) },
	FieldDescription:        func(c *model.ClaimRecord) fieldValue { return text(c.Incident.Description) },
	FieldPoliceReportNumber: func(c *model.ClaimRecord) fieldValue { return text(c.Incident.PoliceReportNumber) },
	FieldClaimant:           func(c *model.ClaimRecord) fieldValue { return text(c.Parties.Claimant) },
	FieldPhone:              func(c *model.ClaimRecord) fieldValue { return text(contact(c).Phone) },
	FieldEmail:              func(c *model.ClaimRecord) fieldValue { return text(contact(c).Email) },
	FieldAddress:            func(c *model.ClaimRecord) fieldValue { return text(contact(c).Address) },
	FieldDriverName:         func(c *model.ClaimRecord) fieldValue { return text(c.Parties.DriverName) },
	FieldOwnerName:          func(c *model.ClaimRecord) fieldValue { return text(c.Parties.OwnerName) },
	FieldAssetType:          func(c *model.ClaimRecord) fieldValue { return text(c.Asset.AssetType) },
	FieldAssetID:            func(c *model.ClaimRecord) fieldValue { return text(c.Asset.AssetID) },
	FieldEstimatedDamage:    func(c *model.ClaimRecord) fieldValue { return number(c.Asset.EstimatedDamage) },
	FieldMake:               func(c *model.ClaimRecord) fieldValue { return text(c.Asset.Make) },
	FieldModel:              func(c *model.ClaimRecord) fieldValue { return text(c.Asset.Model) },
	FieldYear:               func(c *model.ClaimRecord) fieldValue { return text(c.Asset.Year) },
	FieldDamageDescription:  func(c *model.ClaimRecord) fieldValue { return text(c.Asset.DamageDescription) },
	FieldClaimType:          func(c *model.ClaimRecord) fieldValue { return text(c.ClaimType) },
	FieldInitialEstimate:    func(c *model.ClaimRecord) fieldValue { return number(c.InitialEstimate) },
}

// KnownField reports whether name resolves to a record field
func KnownField(name string) bool {
	_, ok := fieldTable[FieldName(name)]
	return ok
}
