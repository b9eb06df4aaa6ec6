package models

// PriceRow is one aggregator price for a (name, variant) pair. ChaosValue is
// nil when the aggregator has no value.
type PriceRow struct {
	Name       string   `json:"name"`
	Variant    string   `json:"variant,omitempty"`
	ChaosValue *float64 `json:"chaos_value"`
}

// MapPrice is a map price per tier.
type MapPrice struct {
	Name       string   `json:"name"`
	Tier       int      `json:"tier"`
	ChaosValue *float64 `json:"chaos_value"`
}

// GemPrice is a skill gem price per level and quality.
type GemPrice struct {
	Name       string   `json:"name"`
	Level      int      `json:"level"`
	Quality    int      `json:"quality"`
	Corrupted  bool     `json:"corrupted,omitempty"`
	ChaosValue *float64 `json:"chaos_value"`
}
