package application

import (
	"github.com/google/jsonschema-go/jsonschema"
)

// Argument schema builders. Tool input schemas are closed objects: an
// argument that is not declared fails validation.

func stringProp(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: description}
}

func integerProp(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "integer", Description: description}
}

func numberProp(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "number", Description: description}
}

func booleanProp(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "boolean", Description: description}
}

func enumProp(description string, values ...string) *jsonschema.Schema {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return &jsonschema.Schema{Type: "string", Description: description, Enum: enum}
}

// idProp accepts a TMDB id sent either as a digit string or as a number.
// The pattern only constrains the string form.
func idProp(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Types: []string{"string", "integer"}, Pattern: idPattern, Description: description}
}

const idPattern = "^[0-9]+$"

type props map[string]*jsonschema.Schema

func objectSchema(properties props, required ...string) *jsonschema.Schema {
	if required == nil {
		required = []string{}
	}
	return &jsonschema.Schema{
		Type:                 "object",
		Properties:           properties,
		Required:             required,
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}
}

// Shared argument vocabularies.

func languageProp() *jsonschema.Schema {
	return stringProp("ISO 639-1 language code (e.g., 'en-US')")
}

func regionProp() *jsonschema.Schema {
	return stringProp("ISO 3166-1 region code (e.g., 'US')")
}

func pageProp() *jsonschema.Schema {
	return integerProp("Page number for pagination")
}

func timeWindowProp() *jsonschema.Schema {
	return enumProp("Time window", "day", "week")
}

// searchSchema is the query + language/page/adult/region shape shared by
// several search tools.
func searchSchema() *jsonschema.Schema {
	return objectSchema(props{
		"query":         stringProp("Search query"),
		"language":      languageProp(),
		"page":          pageProp(),
		"include_adult": booleanProp("Include adult content"),
		"region":        regionProp(),
	}, "query")
}

func listSchema(extra props) *jsonschema.Schema {
	properties := props{
		"language": languageProp(),
		"page":     pageProp(),
	}
	for name, schema := range extra {
		properties[name] = schema
	}
	return objectSchema(properties)
}

func trendingSchema() *jsonschema.Schema {
	return objectSchema(props{
		"timeWindow": timeWindowProp(),
		"language":   languageProp(),
	}, "timeWindow")
}

func changesSchema() *jsonschema.Schema {
	return objectSchema(props{
		"start_date": stringProp("Start date (YYYY-MM-DD)"),
		"end_date":   stringProp("End date (YYYY-MM-DD)"),
		"page":       pageProp(),
	})
}
