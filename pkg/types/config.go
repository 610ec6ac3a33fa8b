// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings for stages that call external
// services.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "listing-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// StoreConfig holds settings for the SQLite registry and listing store.
type StoreConfig struct {
	// DBPath is the path to the SQLite database file.
	DBPath string `json:"db_path" yaml:"db_path"`
}

// MatcherConfig holds settings for the address matcher.
type MatcherConfig struct {
	// FuzzyThreshold is the minimum trigram similarity accepted by the
	// fuzzy tier (default 0.70).
	FuzzyThreshold float64 `json:"fuzzy_threshold" yaml:"fuzzy_threshold"`
}

// FeatureStoreConfig holds settings for the external feature store client.
type FeatureStoreConfig struct {
	HTTPConfig `yaml:",inline"`

	// BaseURL is the feature store endpoint (e.g. "https://features.example.com").
	BaseURL string `json:"base_url" yaml:"base_url"`

	// APIKey authenticates requests. Usually loaded from .secrets/.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the retry budget for rate-limited or failing requests
	// (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// EnrichConfig holds settings for the enrichment engine.
type EnrichConfig struct {
	// SourceTimeout bounds each external sub-lookup; on expiry the
	// corresponding fields degrade to nil (default 10s).
	SourceTimeout time.Duration `json:"source_timeout" yaml:"source_timeout"`

	// Workers bounds the batch worker pool (default 4).
	Workers int `json:"workers" yaml:"workers"`
}

// SearchConfig holds settings for the preference scorer.
type SearchConfig struct {
	// MaxResults is the default result limit when a request does not set
	// one (default 100).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// EngineConfig groups all stage configurations.
type EngineConfig struct {
	Store        StoreConfig        `json:"store" yaml:"store"`
	Matcher      MatcherConfig      `json:"matcher" yaml:"matcher"`
	FeatureStore FeatureStoreConfig `json:"feature_store" yaml:"feature_store"`
	Enrich       EnrichConfig       `json:"enrich" yaml:"enrich"`
	Search       SearchConfig       `json:"search" yaml:"search"`
}
