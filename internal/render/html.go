// Package render turns result sets into fragments for the output regions.
// Renderers are pure: they never touch a surface, they only return text.
package render

import (
	"html/template"
	"strings"

	"github.com/studiowebux/countrysearch/internal/types"
)

// FlagAlt is the alt text of every flag image
const FlagAlt = "Flags"

var listItemTmpl = template.Must(template.New("item").Parse(
	`<li class="country-list-item">` +
		`<img class="country-list-item__img" src="{{.Flags.PNG}}" alt="` + FlagAlt + `">` +
		`<span>{{.Name.Official}}</span>` +
		`</li>`))

var infoTmpl = template.Must(template.New("info").Parse(
	`<h1 class="country-info__title">` +
		`<img class="country-list-item__img" src="{{.Flags.PNG}}" alt="` + FlagAlt + `">` +
		`<span>{{.Name.Official}}</span>` +
		`</h1>` +
		`<p class="country-info__body">` +
		`<b>Capital: </b>{{.CapitalText}}<br>` +
		`<b>Population: </b>{{.PopulationText}}<br>` +
		`<b>Languages: </b>{{.LanguageText}}<br>` +
		`</p>`))

// HTML renders escaped HTML fragments for the list and detail containers
type HTML struct{}

// List renders one <li> per country, concatenated in input order
func (HTML) List(countries []types.Country) string {
	var sb strings.Builder
	for _, c := range countries {
		// Executing into a strings.Builder only fails on template bugs
		_ = listItemTmpl.Execute(&sb, c)
	}
	return sb.String()
}

// Detail renders the info card of a single country
func (HTML) Detail(c types.Country) string {
	var sb strings.Builder
	_ = infoTmpl.Execute(&sb, c)
	return sb.String()
}
