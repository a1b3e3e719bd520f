/*
Package types defines the country records shared by the fetch client, the
renderers and every surface.

# Country

Country mirrors the subset of the REST Countries v3.1 payload requested with
fields=name,capital,population,flags,languages:

	{
	  "name":       {"common": "France", "official": "French Republic"},
	  "capital":    ["Paris"],
	  "population": 67391582,
	  "flags":      {"png": "https://flagcdn.com/w320/fr.png"},
	  "languages":  {"fra": "French"}
	}

# Language order

The API returns languages as a JSON object. Go maps do not keep key order, so
Languages decodes the object into a slice that preserves the order of the
response body. LanguageText joins the names in that order with ", ".

# Thread Safety

Values are immutable once decoded and safe to share between goroutines.
*/
package types
