package common

import (
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ParseJSON cleans and unmarshals a JSON string into a type T.
// It handles common LLM quirks like surrounding markdown or extra text.
func ParseJSON[T any](response string) (T, error) {
	var zero T

	start := strings.IndexByte(response, '{')
	if start == -1 {
		return zero, fmt.Errorf("no JSON object found in response (missing '{')")
	}
	end := strings.LastIndexByte(response, '}')
	if end < start {
		return zero, fmt.Errorf("no JSON object found in response (missing '}')")
	}
	jsonStr := response[start : end+1]

	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w\nData: %s", err, jsonStr)
	}

	return result, nil
}
