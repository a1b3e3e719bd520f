package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Country is a single record returned by the country API
type Country struct {
	Name       CountryName `json:"name" yaml:"name"`
	Capital    []string    `json:"capital,omitempty" yaml:"capital,omitempty"`
	Population int64       `json:"population" yaml:"population"`
	Flags      Flags       `json:"flags" yaml:"flags"`
	Languages  Languages   `json:"languages,omitempty" yaml:"languages,omitempty"`
}

// CountryName holds the names of a country
type CountryName struct {
	Common   string `json:"common,omitempty" yaml:"common,omitempty"`
	Official string `json:"official" yaml:"official"`
}

// Flags holds flag image URLs
type Flags struct {
	PNG string `json:"png" yaml:"png"`
	SVG string `json:"svg,omitempty" yaml:"svg,omitempty"`
	Alt string `json:"alt,omitempty" yaml:"alt,omitempty"`
}

// CapitalText returns the capitals joined with a comma, the same text a
// browser produces when it interpolates the capital array.
func (c Country) CapitalText() string {
	return strings.Join(c.Capital, ",")
}

// PopulationText returns the population as a plain integer
func (c Country) PopulationText() string {
	return strconv.FormatInt(c.Population, 10)
}

// LanguageText returns the language names joined with ", " in response order
func (c Country) LanguageText() string {
	return strings.Join(c.Languages.Names(), ", ")
}

// Language is one entry of the language-code to language-name mapping
type Language struct {
	Code string `json:"code" yaml:"code"`
	Name string `json:"name" yaml:"name"`
}

// Languages is the language mapping of a country, kept in the order the keys
// appeared in the response body.
type Languages []Language

// Names returns the language names in order
func (l Languages) Names() []string {
	names := make([]string, 0, len(l))
	for _, lang := range l {
		names = append(names, lang.Name)
	}
	return names
}

// Lookup returns the name for a language code
func (l Languages) Lookup(code string) (string, bool) {
	for _, lang := range l {
		if lang.Code == code {
			return lang.Name, true
		}
	}
	return "", false
}

// UnmarshalJSON decodes a JSON object while preserving key order
func (l *Languages) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("failed to read languages: %w", err)
	}
	if tok == nil {
		*l = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("languages must be an object, got %v", tok)
	}

	var out Languages
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("failed to read language code: %w", err)
		}
		code, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("invalid language code %v", keyTok)
		}

		var name string
		if err := dec.Decode(&name); err != nil {
			return fmt.Errorf("invalid language name for %q: %w", code, err)
		}
		out = append(out, Language{Code: code, Name: name})
	}

	// Closing brace
	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("failed to read languages: %w", err)
	}

	*l = out
	return nil
}

// MarshalJSON encodes the languages back into an ordered JSON object
func (l Languages) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, lang := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(lang.Code)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(lang.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the languages as an ordered mapping
func (l Languages) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, lang := range l {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: lang.Code},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: lang.Name},
		)
	}
	return node, nil
}

// UnmarshalYAML decodes an ordered mapping
func (l *Languages) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode && node.Tag == "!!null" {
		*l = nil
		return nil
	}
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("languages must be a mapping, got line %d", node.Line)
	}

	out := make(Languages, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		out = append(out, Language{Code: node.Content[i].Value, Name: node.Content[i+1].Value})
	}
	*l = out
	return nil
}
