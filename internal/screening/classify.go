package screening

// RiskRule maps a record's flag set to a risk level when Matches holds.
type RiskRule struct {
	Name    string
	Matches func(flags []FraudFlag) bool
	Level   RiskLevel
}

// RiskRules is evaluated top-down; the first matching rule decides the level.
// Rule priority:
//  1. any duplicate aadhaar, duplicate bank or gps cluster flag - identity evidence
//  2. two or more flags of any kind
//  3. exactly one flag
//  4. no flags
var RiskRules = []RiskRule{
	{
		Name:    "identity_evidence",
		Matches: hasIdentityEvidence,
		Level:   RiskHigh,
	},
	{
		Name:    "multiple_flags",
		Matches: func(flags []FraudFlag) bool { return len(flags) >= 2 },
		Level:   RiskHigh,
	},
	{
		Name:    "single_flag",
		Matches: func(flags []FraudFlag) bool { return len(flags) == 1 },
		Level:   RiskMedium,
	},
	{
		Name:    "clean",
		Matches: func([]FraudFlag) bool { return true },
		Level:   RiskLow,
	},
}

func hasIdentityEvidence(flags []FraudFlag) bool {
	for _, f := range flags {
		if f.Type.IsIdentityEvidence() {
			return true
		}
	}
	return false
}

// ClassifyFlags returns the level of the first rule matching flags and the
// rule's name.
func ClassifyFlags(flags []FraudFlag) (RiskLevel, string) {
	for _, rule := range RiskRules {
		if rule.Matches(flags) {
			return rule.Level, rule.Name
		}
	}
	return RiskLow, ""
}

// Aggregate tallies risk levels across results.
func Aggregate(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.RiskLevel {
		case RiskHigh:
			s.HighRisk++
		case RiskMedium:
			s.MediumRisk++
		case RiskLow:
			s.LowRisk++
		}
	}
	return s
}
