package screening

import (
	"fmt"
	"math"
)

// duplicateCheck describes one shared-identifier detector.
type duplicateCheck struct {
	flag       FlagType
	label      string
	key        func(ApplicationRecord) string
	minGroup   int
	confidence int
	// boost returns the multiplier applied to the flagged record's confidence.
	boost func(ApplicationRecord) float64
}

func (r DuplicateRules) checks() []duplicateCheck {
	return []duplicateCheck{
		{
			flag:       FlagDuplicateAadhaar,
			label:      "Aadhaar",
			key:        aadhaarKey,
			minGroup:   r.AadhaarMinGroup,
			confidence: r.AadhaarConfidence,
			boost: func(rec ApplicationRecord) float64 {
				if !rec.HasGPS() {
					return r.AadhaarNoGPSBoost
				}
				return 1
			},
		},
		{
			flag:       FlagDuplicateBank,
			label:      "Bank Account",
			key:        bankKey,
			minGroup:   r.BankMinGroup,
			confidence: r.BankConfidence,
			boost: func(rec ApplicationRecord) float64 {
				if !rec.HasAadhaar() {
					return r.BankNoAadhaarBoost
				}
				return 1
			},
		},
		{
			flag:       FlagDuplicatePhone,
			label:      "Phone",
			key:        phoneKey,
			minGroup:   r.PhoneMinGroup,
			confidence: r.PhoneConfidence,
			boost:      func(ApplicationRecord) float64 { return 1 },
		},
	}
}

// detectDuplicates flags every member of each identifier group that reaches
// the check's minimum size.
func detectDuplicates(records []ApplicationRecord, check duplicateCheck) []FraudFlag {
	byID := make(map[string]ApplicationRecord, len(records))
	for _, rec := range records {
		byID[rec.ID] = rec
	}

	var flags []FraudFlag
	for _, g := range groupBy(records, check.key).Groups() {
		if len(g.IDs) < check.minGroup {
			continue
		}
		for _, id := range g.IDs {
			flags = append(flags, FraudFlag{
				ApplicationID: id,
				Type:          check.flag,
				RelatedTo:     others(g.IDs, id),
				Confidence:    boosted(check.confidence, check.boost(byID[id])),
				Description:   fmt.Sprintf("%s %s appears in %d applications", check.label, g.Value, len(g.IDs)),
			})
		}
	}
	return flags
}

// boosted applies a multiplier, rounds half up and clamps to [0,100].
func boosted(base int, multiplier float64) int {
	score := float64(base)
	if multiplier != 1 {
		score = math.Floor(score*multiplier + 0.5)
	}
	return clampConfidence(int(score))
}

func clampConfidence(score int) int {
	return max(0, min(100, score))
}
