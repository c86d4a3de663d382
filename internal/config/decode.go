package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/v2"

	"github.com/wharflab/hush/internal/errdef"
	"github.com/wharflab/hush/internal/rules"
)

var errNegative = errors.New("must not be negative")

// Formats lists the supported output formats.
var Formats = []string{"text", "json", "sarif", "github-actions"}

func decodeConfig(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
			ErrorUnused:      true,
			WeaklyTypedInput: true,
			Result:           &cfg,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate checks values the decoder cannot. Rule parameters are validated
// by BuildEngine.
func validate(cfg *Config) error {
	format := strings.ToLower(cfg.Output.Format)
	if !slices.Contains(Formats, format) {
		err := errors.New("unknown output format")
		if s := closestMatch(format, Formats, 3); s != "" { //nolint:mnd // small edit distance
			err = fmt.Errorf("unknown output format (did you mean %q?)", s)
		}
		return errdef.NewConfigError("output", "format", cfg.Output.Format, err)
	}
	cfg.Output.Format = format

	if cfg.Output.FailLevel != "" && cfg.Output.FailLevel != "none" {
		if _, err := rules.ParseSeverity(cfg.Output.FailLevel); err != nil {
			return errdef.NewConfigError("output", "fail-level", cfg.Output.FailLevel, err)
		}
	}
	if cfg.Processing.Workers < 0 {
		return errdef.NewConfigError("processing", "workers", fmt.Sprint(cfg.Processing.Workers), errNegative)
	}
	if cfg.Processing.MaxFileSize < 0 {
		return errdef.NewConfigError("processing", "max-file-size", fmt.Sprint(cfg.Processing.MaxFileSize), errNegative)
	}
	return nil
}

// closestMatch returns the closest string from candidates using Levenshtein
// distance, or "" if no candidate is within maxDist.
func closestMatch(input string, candidates []string, maxDist int) string {
	best := ""
	bestDist := maxDist + 1
	for _, c := range candidates {
		d := levenshteinDistance(input, c)
		if d < bestDist {
			bestDist = d
			best = c
		}
	}
	if bestDist <= maxDist {
		return best
	}
	return ""
}

// levenshteinDistance computes the Levenshtein edit distance between two strings.
func levenshteinDistance(a, b string) int {
	ra := []rune(strings.ToLower(a))
	rb := []rune(strings.ToLower(b))
	la, lb := len(ra), len(rb)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
}
