package keybinds

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// ValidationError represents a keybinding validation error
type ValidationError struct {
	Type    string // "invalid" or "warning"
	Context Context
	Key     string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s in context '%s': %s", e.Type, e.Key, e.Context, e.Message)
}

// ValidationResult contains all validation errors and warnings
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// HasErrors returns true if there are any errors
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// String returns a human-readable summary of validation results
func (r *ValidationResult) String() string {
	var sb strings.Builder

	if len(r.Errors) > 0 {
		fmt.Fprintf(&sb, "Errors (%d):\n", len(r.Errors))
		for _, err := range r.Errors {
			fmt.Fprintf(&sb, "  - %s\n", err.Error())
		}
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&sb, "Warnings (%d):\n", len(r.Warnings))
		for _, warn := range r.Warnings {
			fmt.Fprintf(&sb, "  - %s\n", warn.Error())
		}
	}

	if !r.HasErrors() && len(r.Warnings) == 0 {
		sb.WriteString("No issues found")
	}

	return sb.String()
}

// Validate checks a registry for unknown actions, printable keys bound in
// the search context and a missing way to quit
func Validate(r *Registry) *ValidationResult {
	result := &ValidationResult{}

	for context, bindings := range r.bindings {
		for key, action := range bindings {
			if key == "" {
				result.Errors = append(result.Errors, ValidationError{
					Type: "invalid", Context: context, Key: key, Message: "empty key",
				})
				continue
			}
			if !IsKnown(action) {
				result.Errors = append(result.Errors, ValidationError{
					Type: "invalid", Context: context, Key: key,
					Message: fmt.Sprintf("unknown action %q", action),
				})
			}
			if (context == ContextSearch || context == ContextGlobal) && isPrintable(key) {
				result.Errors = append(result.Errors, ValidationError{
					Type: "invalid", Context: context, Key: key,
					Message: "printable keys are typed into the search field",
				})
			}
		}
	}

	if len(r.GetBinding(ContextSearch, ActionQuit)) == 0 && len(r.GetBinding(ContextSearch, ActionQuitForce)) == 0 {
		result.Warnings = append(result.Warnings, ValidationError{
			Type: "warning", Context: ContextSearch, Message: "no key quits the application",
		})
	}

	return result
}

// isPrintable reports whether key is a single printable character or space
func isPrintable(key string) bool {
	if key == " " || key == "space" {
		return true
	}
	return utf8.RuneCountInString(key) == 1
}
