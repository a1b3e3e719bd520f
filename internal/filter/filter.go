// Package filter applies JMESPath expressions to lookup results for the
// lookup command's --query flag.
package filter

import (
	"encoding/json"
	"fmt"

	"github.com/jmespath/go-jmespath"
)

// Apply runs expression against the JSON form of v and returns the result
// as indented JSON. An empty expression returns v unchanged.
func Apply(v any, expression string) (string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal input: %w", err)
	}
	if expression == "" {
		return indent(raw)
	}
	return applyJMESPath(raw, expression)
}

// applyJMESPath applies a JMESPath expression to a JSON document
func applyJMESPath(doc []byte, expression string) (string, error) {
	var data interface{}
	if err := json.Unmarshal(doc, &data); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}

	jp, err := jmespath.Compile(expression)
	if err != nil {
		return "", fmt.Errorf("invalid JMESPath expression '%s': %w", expression, err)
	}

	result, err := jp.Search(data)
	if err != nil {
		return "", fmt.Errorf("JMESPath search failed: %w", err)
	}

	if result == nil {
		return "null", nil
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}

	return string(output), nil
}

func indent(raw []byte) (string, error) {
	var data interface{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return "", fmt.Errorf("invalid JSON: %w", err)
	}
	output, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	return string(output), nil
}

// IsValidJMESPath checks if an expression is valid JMESPath syntax
func IsValidJMESPath(expression string) bool {
	_, err := jmespath.Compile(expression)
	return err == nil
}
