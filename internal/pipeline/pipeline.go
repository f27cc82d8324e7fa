// Package pipeline orchestrates the TOON round-trip around a model call:
// decide eligibility and encode the request payload before the call, sniff
// and decode the response after it, with deterministic fallback ordering.
// The model call itself sits between the two operations and is entirely the
// caller's concern.
package pipeline

import (
	"regexp"
	"strings"

	"github.com/djdembeck/toon-format-skill/internal/analyzer"
	"github.com/djdembeck/toon-format-skill/internal/codec"
	"github.com/djdembeck/toon-format-skill/internal/config"
	"github.com/djdembeck/toon-format-skill/internal/estimator"
	"github.com/djdembeck/toon-format-skill/internal/models"
	"github.com/djdembeck/toon-format-skill/internal/parser"
)

// Codec is the bidirectional mapping between value trees and TOON text the
// processor depends on. Encode must be total and deterministic; Decode may
// fail on non-conforming text.
type Codec interface {
	Encode(models.JSONValue) (string, error)
	Decode(string) (models.JSONValue, error)
}

// Processor holds the configuration for a sequence of pipeline invocations.
// The held Config is read-only during processing; replace it wholesale via
// SetConfig rather than mutating fields. Concurrent invocations sharing one
// Processor are safe under that discipline.
type Processor struct {
	cfg *config.Config
	cdc Codec
}

// New creates a Processor backed by the real TOON codec.
func New(cfg *config.Config) *Processor {
	return NewWithCodec(cfg, codec.New(cfg))
}

// NewWithCodec creates a Processor with an explicit codec, mainly for tests.
func NewWithCodec(cfg *config.Config, cdc Codec) *Processor {
	return &Processor{cfg: cfg, cdc: cdc}
}

// Config returns the current configuration.
func (p *Processor) Config() *config.Config {
	return p.cfg
}

// SetConfig replaces the configuration wholesale. Callers must not call
// this concurrently with in-flight PreProcess/PostProcess invocations.
func (p *Processor) SetConfig(cfg *config.Config) {
	p.cfg = cfg
}

// PreProcess decides whether the request payload is worth TOON-encoding
// and, when it is, replaces Data with its encoded text form and attaches
// token metrics. Ineligible data is not an error: the request passes
// through unchanged with the report explaining why. The only error path is
// a payload the codec cannot represent, which is a programmer error and
// propagates.
func (p *Processor) PreProcess(req models.PipelineRequest) (models.ProcessedRequest, models.EligibilityReport, error) {
	if req.Data == nil {
		// Distinct short circuit: no payload means there is nothing to
		// analyze, not a failed analysis.
		report := models.EligibilityReport{Reason: "no data"}
		return models.ProcessedRequest{PipelineRequest: req}, report, nil
	}

	data := models.Normalize(req.Data)
	req.Data = data

	stats := analyzer.Analyze(data)
	report := analyzer.Decide(stats, p.cfg)
	if !report.ShouldUseToon {
		return models.ProcessedRequest{PipelineRequest: req}, report, nil
	}

	metrics, err := estimator.Estimate(data, p.cdc)
	if err != nil {
		return models.ProcessedRequest{PipelineRequest: req}, report, err
	}
	encoded, err := p.cdc.Encode(data)
	if err != nil {
		return models.ProcessedRequest{PipelineRequest: req}, report, err
	}

	req.Data = encoded
	return models.ProcessedRequest{
		PipelineRequest: req,
		ToonProcessed:   true,
		Metrics:         &metrics,
	}, report, nil
}

// TOON responses carry a bracketed array-length marker and a
// brace-delimited field list, e.g. "users[2]{id,name,role}:". Both must
// appear somewhere in the text before a decode is attempted.
var (
	lengthMarkerPattern = regexp.MustCompile(`\[\d+\]`)
	fieldListPattern    = regexp.MustCompile(`\{[^{}]+\}`)
)

// PostProcess parses a raw model response: sniff for the TOON shape,
// attempt a TOON decode, fall back to JSON, and report total failure
// explicitly. It never returns an error for unparseable content — the
// caller keeps the raw text and decides. Single pass, no retries, no
// hidden state: reprocessing the same content yields the same result.
func (p *Processor) PostProcess(content string) models.PostProcessResult {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return models.PostProcessResult{Success: false, Format: models.FormatNone}
	}

	// A response with neither marker is plain prose or something else
	// entirely; skipping the decode avoids masking it as a failed decode.
	if !lengthMarkerPattern.MatchString(trimmed) || !fieldListPattern.MatchString(trimmed) {
		return models.PostProcessResult{Success: false, Format: models.FormatNone}
	}

	parsed, err := p.cdc.Decode(trimmed)
	if err == nil {
		return models.PostProcessResult{Parsed: parsed, Success: true, Format: models.FormatTabular}
	}

	// JSON fallback runs on the untrimmed original. A fallback hit is
	// still a success; Err only records which path was taken.
	fallback, jsonErr := parser.ParseString(content)
	if jsonErr == nil {
		return models.PostProcessResult{
			Parsed:  fallback,
			Success: true,
			Format:  models.FormatJSON,
			Err:     "TOON decode failed, fell back to JSON",
		}
	}

	return models.PostProcessResult{
		Success: false,
		Format:  models.FormatNone,
		Err:     "Both formats failed",
	}
}
