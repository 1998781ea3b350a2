package screening

import "fmt"

// verifiableFields counts the independently checkable fields a record carries.
// The coordinate pair counts once and only when both halves are present.
func verifiableFields(rec ApplicationRecord) int {
	n := 0
	if rec.AadhaarLast4 != "" {
		n++
	}
	if rec.BankAccount != "" {
		n++
	}
	if rec.Phone != "" {
		n++
	}
	if rec.HasGPS() {
		n++
	}
	return n
}

// detectMissing flags records with fewer verifiable fields than required.
func detectMissing(records []ApplicationRecord, rules MissingRules) []FraudFlag {
	var flags []FraudFlag
	for _, rec := range records {
		present := verifiableFields(rec)
		if present >= rules.MinVerifiableFields {
			continue
		}
		flags = append(flags, FraudFlag{
			ApplicationID: rec.ID,
			Type:          FlagInsufficientData,
			RelatedTo:     []string{},
			Confidence:    clampConfidence(rules.Confidence),
			Description:   fmt.Sprintf("Insufficient verifiable data. Only %d fields present.", present),
		})
	}
	return flags
}
