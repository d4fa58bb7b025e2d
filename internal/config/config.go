// Package config defines the search engine's configuration structures. No
// I/O or parsing logic lives here, only plain data types and validation,
// mirroring the configuration table of §6.
package config

import "fmt"

// DigestConfig controls enzymatic digestion (§4.B).
type DigestConfig struct {
	Enzyme             string `mapstructure:"enzyme"` // currently only "trypsin"
	MissedCleavages    int    `mapstructure:"missed_cleavages"`
	MinLen             int    `mapstructure:"min_len"`
	MaxLen             int    `mapstructure:"max_len"`
	GenerateDecoys     bool   `mapstructure:"generate_decoys"`
}

// IndexConfig controls the theoretical fragment database (§4.D).
type IndexConfig struct {
	BucketSize float64 `mapstructure:"bucket_size"`
}

// SearchConfig controls per-spectrum tolerance windows and isotope handling
// (§4.D, §4.G).
type SearchConfig struct {
	PrecursorTolPPMLo float64 `mapstructure:"precursor_tol_ppm_lo"`
	PrecursorTolPPMHi float64 `mapstructure:"precursor_tol_ppm_hi"`
	FragmentTolPPMLo  float64 `mapstructure:"fragment_tol_ppm_lo"`
	FragmentTolPPMHi  float64 `mapstructure:"fragment_tol_ppm_hi"`
	MinIsotopeErr     int     `mapstructure:"min_isotope_err"`
	MaxIsotopeErr     int     `mapstructure:"max_isotope_err"`
	WideWindow        bool    `mapstructure:"wide_window"`
}

// SpectrumConfig controls spectrum preprocessing (§4.E).
type SpectrumConfig struct {
	MinPeaks          int     `mapstructure:"min_peaks"`
	MaxPeaks          int     `mapstructure:"max_peaks"`
	MinFragmentMass   float64 `mapstructure:"min_fragment_mass"`
	MaxFragmentMass   float64 `mapstructure:"max_fragment_mass"`
	Deisotope         bool    `mapstructure:"deisotope"`
	MaxFragmentCharge int     `mapstructure:"max_fragment_charge"`
}

// ScoringConfig controls the hyperscore pass and chimera mode (§4.G).
type ScoringConfig struct {
	MinMatchedPeaks int  `mapstructure:"min_matched_peaks"`
	ReportPSMs      int  `mapstructure:"report_psms"`
	Chimera         bool `mapstructure:"chimera"`
}

// WorkerConfig controls the parallel spectrum-scoring fan-out (§5).
type WorkerConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format string `mapstructure:"format"` // "json" | "console"
}

// Config is the root configuration structure for the search engine. Every
// pipeline stage reads its settings from the relevant sub-struct.
type Config struct {
	Digest   DigestConfig   `mapstructure:"digest"`
	Index    IndexConfig    `mapstructure:"index"`
	Search   SearchConfig   `mapstructure:"search"`
	Spectrum SpectrumConfig `mapstructure:"spectrum"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Log      LogConfig      `mapstructure:"log"`
}

// Validate performs semantic validation of the fully-populated Config. It
// returns the first error encountered; callers should treat any error as
// fatal and refuse to start a search.
func (c *Config) Validate() error {
	if c.Digest.Enzyme != "trypsin" {
		return fmt.Errorf("config: digest.enzyme %q is unsupported; expected trypsin", c.Digest.Enzyme)
	}
	if c.Digest.MinLen < 1 {
		return fmt.Errorf("config: digest.min_len must be >= 1, got %d", c.Digest.MinLen)
	}
	if c.Digest.MaxLen < c.Digest.MinLen {
		return fmt.Errorf("config: digest.max_len %d must be >= digest.min_len %d", c.Digest.MaxLen, c.Digest.MinLen)
	}
	if c.Digest.MissedCleavages < 0 {
		return fmt.Errorf("config: digest.missed_cleavages must be >= 0, got %d", c.Digest.MissedCleavages)
	}

	if c.Index.BucketSize <= 0 {
		return fmt.Errorf("config: index.bucket_size must be > 0, got %f", c.Index.BucketSize)
	}

	if c.Search.PrecursorTolPPMLo > c.Search.PrecursorTolPPMHi {
		return fmt.Errorf("config: search.precursor_tol_ppm_lo must be <= precursor_tol_ppm_hi")
	}
	if c.Search.FragmentTolPPMLo > c.Search.FragmentTolPPMHi {
		return fmt.Errorf("config: search.fragment_tol_ppm_lo must be <= fragment_tol_ppm_hi")
	}
	if c.Search.MinIsotopeErr > c.Search.MaxIsotopeErr {
		return fmt.Errorf("config: search.min_isotope_err must be <= max_isotope_err")
	}

	if c.Spectrum.MaxPeaks < c.Spectrum.MinPeaks {
		return fmt.Errorf("config: spectrum.max_peaks %d must be >= min_peaks %d", c.Spectrum.MaxPeaks, c.Spectrum.MinPeaks)
	}
	if c.Spectrum.MaxFragmentMass <= c.Spectrum.MinFragmentMass {
		return fmt.Errorf("config: spectrum.max_fragment_mass must be > min_fragment_mass")
	}

	if c.Scoring.MinMatchedPeaks < 1 {
		return fmt.Errorf("config: scoring.min_matched_peaks must be >= 1, got %d", c.Scoring.MinMatchedPeaks)
	}
	if c.Scoring.ReportPSMs < 1 {
		return fmt.Errorf("config: scoring.report_psms must be >= 1, got %d", c.Scoring.ReportPSMs)
	}

	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("config: worker.concurrency must be >= 1, got %d", c.Worker.Concurrency)
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
