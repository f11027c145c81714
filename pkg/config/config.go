package config

import (
	"errors"
	"os"
	"strconv"

	// Load environment variables from .env files when present.
	_ "github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Calibration Calibration
}

// Calibration carries the empirically tuned scoring constants used by page
// classification and consolidation. The defaults were tuned against filed
// 10-K documents; override them only with a labeled validation set in hand.
type Calibration struct {
	BaseScore          float64 // starting confidence for a validated page
	ContentWeight      float64 // confidence added per content-pattern match
	StructureWeight    float64 // confidence added per structure-pattern match
	HeaderBoost        float64 // added when the canonical title sits in the header band
	UnknownFloor       float64 // below this, a page degrades to Unknown
	QualityGate        float64 // below this, the pipeline flags the page for review
	PositionalBonus    float64 // tie-break bonus for pages in the statement section range
	PositionalRangeLow int     // first page (1-based) of the typical statement section
	PositionalRangeHi  int     // last page (1-based) of the typical statement section
	MaxNegativeMatches int     // more narrative-indicator hits than this rejects the page
	FuzzyThreshold     float64 // minimum similarity ratio for a consolidation merge
}

// DefaultCalibration returns the tuned constants.
func DefaultCalibration() Calibration {
	return Calibration{
		BaseScore:          0.3,
		ContentWeight:      0.05,
		StructureWeight:    0.1,
		HeaderBoost:        0.5,
		UnknownFloor:       0.2,
		QualityGate:        0.7,
		PositionalBonus:    0.1,
		PositionalRangeLow: 35,
		PositionalRangeHi:  50,
		MaxNegativeMatches: 3,
		FuzzyThreshold:     0.85,
	}
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Calibration: Calibration{
			BaseScore:          getEnvAsFloat("CLASSIFY_BASE_SCORE", 0.3),
			ContentWeight:      getEnvAsFloat("CLASSIFY_CONTENT_WEIGHT", 0.05),
			StructureWeight:    getEnvAsFloat("CLASSIFY_STRUCTURE_WEIGHT", 0.1),
			HeaderBoost:        getEnvAsFloat("CLASSIFY_HEADER_BOOST", 0.5),
			UnknownFloor:       getEnvAsFloat("CLASSIFY_UNKNOWN_FLOOR", 0.2),
			QualityGate:        getEnvAsFloat("CLASSIFY_QUALITY_GATE", 0.7),
			PositionalBonus:    getEnvAsFloat("CLASSIFY_POSITIONAL_BONUS", 0.1),
			PositionalRangeLow: getEnvAsInt("CLASSIFY_POSITIONAL_RANGE_LOW", 35),
			PositionalRangeHi:  getEnvAsInt("CLASSIFY_POSITIONAL_RANGE_HI", 50),
			MaxNegativeMatches: getEnvAsInt("CLASSIFY_MAX_NEGATIVE_MATCHES", 3),
			FuzzyThreshold:     getEnvAsFloat("CONSOLIDATE_FUZZY_THRESHOLD", 0.85),
		},
	}

	if err := cfg.Calibration.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c Calibration) validate() error {
	if c.UnknownFloor < 0 || c.UnknownFloor > 1 {
		return errors.New("CLASSIFY_UNKNOWN_FLOOR must be in [0,1]")
	}
	if c.QualityGate < 0 || c.QualityGate > 1 {
		return errors.New("CLASSIFY_QUALITY_GATE must be in [0,1]")
	}
	if c.FuzzyThreshold <= 0 || c.FuzzyThreshold > 1 {
		return errors.New("CONSOLIDATE_FUZZY_THRESHOLD must be in (0,1]")
	}
	if c.PositionalRangeLow > c.PositionalRangeHi {
		return errors.New("CLASSIFY_POSITIONAL_RANGE_LOW must not exceed CLASSIFY_POSITIONAL_RANGE_HI")
	}
	return nil
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
