package screening

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFlags(t *testing.T) {
	flag := func(t FlagType) FraudFlag { return FraudFlag{Type: t} }

	tests := []struct {
		name     string
		flags    []FraudFlag
		want     RiskLevel
		wantRule string
	}{
		{"no flags", nil, RiskLow, "clean"},
		{"insufficient data alone", []FraudFlag{flag(FlagInsufficientData)}, RiskMedium, "single_flag"},
		{"single phone duplicate", []FraudFlag{flag(FlagDuplicatePhone)}, RiskMedium, "single_flag"},
		{"single aadhaar duplicate", []FraudFlag{flag(FlagDuplicateAadhaar)}, RiskHigh, "identity_evidence"},
		{"single bank duplicate", []FraudFlag{flag(FlagDuplicateBank)}, RiskHigh, "identity_evidence"},
		{"single gps cluster", []FraudFlag{flag(FlagGPSCluster)}, RiskHigh, "identity_evidence"},
		{"two weak flags", []FraudFlag{flag(FlagDuplicatePhone), flag(FlagInsufficientData)}, RiskHigh, "multiple_flags"},
		{"identity evidence wins over count", []FraudFlag{flag(FlagInsufficientData), flag(FlagGPSCluster)}, RiskHigh, "identity_evidence"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			level, rule := ClassifyFlags(tt.flags)
			assert.Equal(t, tt.want, level)
			assert.Equal(t, tt.wantRule, rule)
		})
	}
}

func TestRiskRulesOrder(t *testing.T) {
	names := make([]string, len(RiskRules))
	for i, r := range RiskRules {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"identity_evidence", "multiple_flags", "single_flag", "clean"}, names)
}

func TestFlagTypes(t *testing.T) {
	for _, ft := range FlagTypes {
		parsed, err := ParseFlagType(string(ft))
		assert.NoError(t, err)
		assert.Equal(t, ft, parsed)
	}
	_, err := ParseFlagType("NEW_BANK_ACCOUNT")
	assert.Error(t, err)
}

func TestAggregate(t *testing.T) {
	results := []Result{
		{RiskLevel: RiskHigh},
		{RiskLevel: RiskHigh},
		{RiskLevel: RiskMedium},
		{RiskLevel: RiskLow},
	}
	assert.Equal(t, Summary{Total: 4, HighRisk: 2, MediumRisk: 1, LowRisk: 1}, Aggregate(results))
	assert.Equal(t, Summary{}, Aggregate(nil))
}
