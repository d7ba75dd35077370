package ai

import (
	"errors"
	"strings"

	"github.com/goccy/go-json"

	"commute-harmony/internal/logging"
)

// ValidationMode selects what happens when a parsed reply breaks the
// composition contract.
type ValidationMode string

const (
	ValidationAdvisory ValidationMode = "advisory"
	ValidationStrict   ValidationMode = "strict"
)

func parseRecommendation(provider, text string) (*RecommendationResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &Error{Kind: KindEmptyResponse, Provider: provider, Message: "provider returned no text"}
	}
	res, err := decodeResult(text)
	if err == nil {
		return res, nil
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		if res, err := decodeResult(text[start : end+1]); err == nil {
			return res, nil
		}
	}
	return nil, &Error{Kind: KindMalformedResponse, Provider: provider, Message: "failed to parse recommendations from ai response", Err: err}
}

var errNullDocument = errors.New("response document is null")

func decodeResult(raw string) (*RecommendationResult, error) {
	if strings.TrimSpace(raw) == "null" {
		return nil, errNullDocument
	}
	var res RecommendationResult
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// finish parses text and applies the composition check according to mode.
func finish(provider, text string, mode ValidationMode) (*RecommendationResult, error) {
	res, err := parseRecommendation(provider, text)
	if err != nil {
		return nil, err
	}
	if cerr := CheckComposition(res); cerr != nil {
		if mode == ValidationStrict {
			return nil, &Error{Kind: KindMalformedResponse, Provider: provider, Message: "response violates composition contract", Err: cerr}
		}
		logging.Warn().Str("provider", provider).Err(cerr).Msg("Recommendation composition off-contract")
	}
	return res, nil
}
