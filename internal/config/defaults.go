package config

// Default value constants, chosen from spec §6 and §8's worked examples.
const (
	DefaultEnzyme          = "trypsin"
	DefaultMissedCleavages = 2
	DefaultMinLen          = 5
	DefaultMaxLen          = 50

	DefaultBucketSize = 0.01

	DefaultPrecursorTolPPMLo = -50.0
	DefaultPrecursorTolPPMHi = 50.0
	DefaultFragmentTolPPMLo  = -10.0
	DefaultFragmentTolPPMHi  = 10.0

	DefaultMinPeaks        = 15
	DefaultMaxPeaks        = 150
	DefaultMinFragmentMass = 150.0
	DefaultMaxFragmentMass = 2000.0

	DefaultMinMatchedPeaks = 4
	DefaultReportPSMs      = 1

	DefaultWorkerConcurrency = 4

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with the engine default.
// Fields already set by the caller (non-zero values) are left unchanged so
// explicit configuration always wins.
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Digest.Enzyme == "" {
		cfg.Digest.Enzyme = DefaultEnzyme
	}
	minLenUnset := cfg.Digest.MinLen == 0
	if cfg.Digest.MinLen == 0 {
		cfg.Digest.MinLen = DefaultMinLen
	}
	if cfg.Digest.MaxLen == 0 {
		cfg.Digest.MaxLen = DefaultMaxLen
	}
	// MissedCleavages of 0 is a valid explicit value; only apply the default
	// when the whole Digest block looks unconfigured (MinLen was also zero).
	if cfg.Digest.MissedCleavages == 0 && minLenUnset {
		cfg.Digest.MissedCleavages = DefaultMissedCleavages
	}

	if cfg.Index.BucketSize == 0 {
		cfg.Index.BucketSize = DefaultBucketSize
	}

	if cfg.Search.PrecursorTolPPMLo == 0 && cfg.Search.PrecursorTolPPMHi == 0 {
		cfg.Search.PrecursorTolPPMLo = DefaultPrecursorTolPPMLo
		cfg.Search.PrecursorTolPPMHi = DefaultPrecursorTolPPMHi
	}
	if cfg.Search.FragmentTolPPMLo == 0 && cfg.Search.FragmentTolPPMHi == 0 {
		cfg.Search.FragmentTolPPMLo = DefaultFragmentTolPPMLo
		cfg.Search.FragmentTolPPMHi = DefaultFragmentTolPPMHi
	}

	if cfg.Spectrum.MinPeaks == 0 {
		cfg.Spectrum.MinPeaks = DefaultMinPeaks
	}
	if cfg.Spectrum.MaxPeaks == 0 {
		cfg.Spectrum.MaxPeaks = DefaultMaxPeaks
	}
	if cfg.Spectrum.MinFragmentMass == 0 {
		cfg.Spectrum.MinFragmentMass = DefaultMinFragmentMass
	}
	if cfg.Spectrum.MaxFragmentMass == 0 {
		cfg.Spectrum.MaxFragmentMass = DefaultMaxFragmentMass
	}

	if cfg.Scoring.MinMatchedPeaks == 0 {
		cfg.Scoring.MinMatchedPeaks = DefaultMinMatchedPeaks
	}
	if cfg.Scoring.ReportPSMs == 0 {
		cfg.Scoring.ReportPSMs = DefaultReportPSMs
	}

	if cfg.Worker.Concurrency == 0 {
		cfg.Worker.Concurrency = DefaultWorkerConcurrency
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
