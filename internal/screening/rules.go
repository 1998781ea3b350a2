package screening

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Rules holds every threshold and weight the detectors use. An Engine copies
// its Rules on construction and never changes them afterwards.
type Rules struct {
	Duplicates DuplicateRules `yaml:"duplicates" validate:"required"`
	Missing    MissingRules   `yaml:"missing" validate:"required"`
	Cluster    ClusterRules   `yaml:"cluster" validate:"required"`
}

// DuplicateRules configures the shared-identifier detectors.
type DuplicateRules struct {
	AadhaarMinGroup   int `yaml:"aadhaar_min_group" validate:"min=2"`
	BankMinGroup      int `yaml:"bank_min_group" validate:"min=2"`
	PhoneMinGroup     int `yaml:"phone_min_group" validate:"min=2"`
	AadhaarConfidence int `yaml:"aadhaar_confidence" validate:"min=0,max=100"`
	BankConfidence    int `yaml:"bank_confidence" validate:"min=0,max=100"`
	PhoneConfidence   int `yaml:"phone_confidence" validate:"min=0,max=100"`
	// AadhaarNoGPSBoost multiplies aadhaar duplicate confidence when the
	// flagged record has no coordinates.
	AadhaarNoGPSBoost float64 `yaml:"aadhaar_no_gps_boost" validate:"gte=1"`
	// BankNoAadhaarBoost multiplies bank duplicate confidence when the flagged
	// record has no aadhaar fragment.
	BankNoAadhaarBoost float64 `yaml:"bank_no_aadhaar_boost" validate:"gte=1"`
}

// MissingRules configures the insufficient-data detector.
type MissingRules struct {
	MinVerifiableFields int `yaml:"min_verifiable_fields" validate:"min=0,max=4"`
	Confidence          int `yaml:"confidence" validate:"min=0,max=100"`
}

// ClusterRules configures the geospatial cluster detector.
type ClusterRules struct {
	RadiusKm        float64 `yaml:"radius_km" validate:"gt=0"`
	MinClusterSize  int     `yaml:"min_cluster_size" validate:"min=2"`
	EarthRadiusKm   float64 `yaml:"earth_radius_km" validate:"gt=0"`
	Confidence      int     `yaml:"confidence" validate:"min=0,max=100"`
	NoAadhaarBoost  float64 `yaml:"no_aadhaar_boost" validate:"gte=1"`
	ParallelMinSize int     `yaml:"parallel_min_size" validate:"min=0"`
}

// DefaultRules returns the production thresholds.
func DefaultRules() Rules {
	return Rules{
		Duplicates: DuplicateRules{
			AadhaarMinGroup:    2,
			BankMinGroup:       2,
			PhoneMinGroup:      3,
			AadhaarConfidence:  95,
			BankConfidence:     90,
			PhoneConfidence:    30,
			AadhaarNoGPSBoost:  1.5,
			BankNoAadhaarBoost: 1.3,
		},
		Missing: MissingRules{
			MinVerifiableFields: 2,
			Confidence:          100,
		},
		Cluster: ClusterRules{
			RadiusKm:        0.5,
			MinClusterSize:  5,
			EarthRadiusKm:   6371,
			Confidence:      70,
			NoAadhaarBoost:  1.5,
			ParallelMinSize: 2048,
		},
	}
}

var rulesValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every threshold is usable.
func (r Rules) Validate() error {
	if err := rulesValidator.Struct(r); err != nil {
		return fmt.Errorf("invalid screening rules: %w", err)
	}
	return nil
}

// LoadRules reads a YAML rules file on top of DefaultRules. Keys missing from
// the file keep their default value. An empty path returns the defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()
	if path == "" {
		return rules, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("read rules file: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return Rules{}, fmt.Errorf("parse rules file: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return Rules{}, err
	}
	return rules, nil
}
