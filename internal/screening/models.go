package screening

import (
	dErrors "fraudscreen/pkg/domain-errors"
)

// FlagType identifies the issue a FraudFlag reports. The set is closed.
type FlagType string

const (
	FlagDuplicateAadhaar FlagType = "DUPLICATE_AADHAAR"
	FlagDuplicateBank    FlagType = "DUPLICATE_BANK"
	FlagDuplicatePhone   FlagType = "DUPLICATE_PHONE"
	FlagGPSCluster       FlagType = "GPS_CLUSTER"
	FlagInsufficientData FlagType = "INSUFFICIENT_DATA"
)

// FlagTypes lists every flag type in reporting order.
var FlagTypes = []FlagType{
	FlagDuplicateAadhaar,
	FlagDuplicateBank,
	FlagDuplicatePhone,
	FlagGPSCluster,
	FlagInsufficientData,
}

// ParseFlagType parses a wire value into a FlagType.
func ParseFlagType(s string) (FlagType, error) {
	t := FlagType(s)
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "unknown flag type: "+s)
	}
	return t, nil
}

// IsValid reports whether t is one of the known flag types.
func (t FlagType) IsValid() bool {
	switch t {
	case FlagDuplicateAadhaar, FlagDuplicateBank, FlagDuplicatePhone, FlagGPSCluster, FlagInsufficientData:
		return true
	}
	return false
}

// IsIdentityEvidence reports whether a single flag of this type is strong enough
// to mark a record high risk on its own.
func (t FlagType) IsIdentityEvidence() bool {
	switch t {
	case FlagDuplicateAadhaar, FlagDuplicateBank, FlagGPSCluster:
		return true
	case FlagDuplicatePhone, FlagInsufficientData:
		return false
	}
	return false
}

// RiskLevel is the ordinal classification of a record derived from its flags.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ApplicationRecord is the canonical shape every raw record is normalized into.
// Empty identifier strings and nil coordinates mean "not provided".
type ApplicationRecord struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	ApplicationDate string    `json:"application_date"`
	AadhaarLast4    string    `json:"aadhaar_last4,omitempty"`
	Phone           string    `json:"phone,omitempty"`
	BankAccount     string    `json:"bank_account,omitempty"`
	GPSLat          *float64  `json:"gps_lat,omitempty"`
	GPSLong         *float64  `json:"gps_long,omitempty"`
	OriginalFields  RawRecord `json:"originalData"`
}

// HasGPS reports whether both coordinates are present.
func (r ApplicationRecord) HasGPS() bool {
	return r.GPSLat != nil && r.GPSLong != nil
}

// HasAadhaar reports whether an aadhaar fragment is present.
func (r ApplicationRecord) HasAadhaar() bool {
	return r.AadhaarLast4 != ""
}

// FraudFlag records one issue found for one record.
type FraudFlag struct {
	ApplicationID string   `json:"applicationId"`
	Type          FlagType `json:"type"`
	RelatedTo     []string `json:"relatedTo"`
	Confidence    int      `json:"confidence"`
	Description   string   `json:"description"`
}

// Result is a normalized record together with its classification.
type Result struct {
	ApplicationRecord
	RiskLevel RiskLevel   `json:"riskLevel"`
	Flags     []FraudFlag `json:"flags"`
}

// Summary tallies risk levels across a batch.
type Summary struct {
	Total      int `json:"total"`
	HighRisk   int `json:"highRisk"`
	MediumRisk int `json:"mediumRisk"`
	LowRisk    int `json:"lowRisk"`
}

// Outcome is everything produced by screening one batch.
type Outcome struct {
	Summary Summary  `json:"summary"`
	Results []Result `json:"results"`
}
