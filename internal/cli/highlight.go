package cli

import (
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
)

// highlightStyle is the chroma style used for structured output
const highlightStyle = "monokai"

// highlight colors json, yaml and html output for the terminal. Other formats
// and highlighting failures return the input unchanged.
func highlight(output, format string) string {
	var lexer string
	switch format {
	case FormatJSON, FormatYAML, FormatHTML:
		lexer = format
	default:
		return output
	}

	var sb strings.Builder
	if err := quick.Highlight(&sb, output, lexer, "terminal256", highlightStyle); err != nil {
		return output
	}
	return sb.String()
}
