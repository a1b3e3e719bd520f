package render

import (
	"fmt"
	"strings"

	"github.com/studiowebux/countrysearch/internal/types"
)

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"#", `\#`,
	"`", "\\`",
)

// Markdown renders fragments as markdown, for terminal output through glamour
type Markdown struct{}

// List renders a bullet list of official names with their flag links
func (Markdown) List(countries []types.Country) string {
	var sb strings.Builder
	for _, c := range countries {
		fmt.Fprintf(&sb, "- %s ([flag](%s))\n", markdownEscaper.Replace(c.Name.Official), c.Flags.PNG)
	}
	return sb.String()
}

// Detail renders the info card of a single country
func (Markdown) Detail(c types.Country) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", markdownEscaper.Replace(c.Name.Official))
	fmt.Fprintf(&sb, "![%s](%s)\n\n", FlagAlt, c.Flags.PNG)
	fmt.Fprintf(&sb, "- **Capital:** %s\n", markdownEscaper.Replace(c.CapitalText()))
	fmt.Fprintf(&sb, "- **Population:** %s\n", c.PopulationText())
	fmt.Fprintf(&sb, "- **Languages:** %s\n", markdownEscaper.Replace(c.LanguageText()))
	return sb.String()
}
