package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyDefaultsEmptyConfig(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	assert.Equal(t, DefaultEnzyme, cfg.Digest.Enzyme)
	assert.Equal(t, DefaultMinLen, cfg.Digest.MinLen)
	assert.Equal(t, DefaultMaxLen, cfg.Digest.MaxLen)
	assert.Equal(t, DefaultBucketSize, cfg.Index.BucketSize)
	assert.Equal(t, DefaultPrecursorTolPPMLo, cfg.Search.PrecursorTolPPMLo)
	assert.Equal(t, DefaultPrecursorTolPPMHi, cfg.Search.PrecursorTolPPMHi)
	assert.Equal(t, DefaultMinPeaks, cfg.Spectrum.MinPeaks)
	assert.Equal(t, DefaultMaxPeaks, cfg.Spectrum.MaxPeaks)
	assert.Equal(t, DefaultMinMatchedPeaks, cfg.Scoring.MinMatchedPeaks)
	assert.Equal(t, DefaultReportPSMs, cfg.Scoring.ReportPSMs)
	assert.Equal(t, DefaultWorkerConcurrency, cfg.Worker.Concurrency)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
}

func TestApplyDefaultsPreservesExistingValues(t *testing.T) {
	cfg := &Config{}
	cfg.Worker.Concurrency = 16
	cfg.Log.Level = "debug"

	ApplyDefaults(cfg)

	assert.Equal(t, 16, cfg.Worker.Concurrency)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Log.Format)
}

func TestValidateRejectsUnsupportedEnzyme(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Digest.Enzyme = "chymotrypsin"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsInvertedLengthBounds(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Digest.MinLen = 30
	cfg.Digest.MaxLen = 10
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsZeroBucketSize(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Index.BucketSize = 0
	assert.Error(t, cfg.Validate())
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadLogLevel(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Log.Level = "verbose"
	assert.Error(t, cfg.Validate())
}
