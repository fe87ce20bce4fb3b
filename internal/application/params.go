package application

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ParameterMapping renames tool argument keys to TMDB query parameter keys.
type ParameterMapping map[string]string

// Discovery rename tables. TMDB spells range filters with a dotted
// comparator suffix (vote_count.gte); tool arguments use underscores.
var parameterMappings = map[string]ParameterMapping{
	"movieDiscovery": {
		"certification_gte":        "certification.gte",
		"certification_lte":        "certification.lte",
		"primary_release_date_gte": "primary_release_date.gte",
		"primary_release_date_lte": "primary_release_date.lte",
		"release_date_gte":         "release_date.gte",
		"release_date_lte":         "release_date.lte",
		"vote_count_gte":           "vote_count.gte",
		"vote_count_lte":           "vote_count.lte",
		"vote_average_gte":         "vote_average.gte",
		"vote_average_lte":         "vote_average.lte",
		"with_runtime_gte":         "with_runtime.gte",
		"with_runtime_lte":         "with_runtime.lte",
	},
	"tvDiscovery": {
		"air_date_gte":       "air_date.gte",
		"air_date_lte":       "air_date.lte",
		"first_air_date_gte": "first_air_date.gte",
		"first_air_date_lte": "first_air_date.lte",
		"vote_average_gte":   "vote_average.gte",
		"vote_average_lte":   "vote_average.lte",
		"vote_count_gte":     "vote_count.gte",
		"vote_count_lte":     "vote_count.lte",
		"with_runtime_gte":   "with_runtime.gte",
		"with_runtime_lte":   "with_runtime.lte",
	},
}

// GetParameterMapping returns the rename table for a discovery family
// ("movieDiscovery" or "tvDiscovery"). Unknown families get an empty table.
func GetParameterMapping(family string) ParameterMapping {
	mapping := make(ParameterMapping, len(parameterMappings[family]))
	for from, to := range parameterMappings[family] {
		mapping[from] = to
	}
	return mapping
}

// BuildParams converts tool arguments into TMDB query parameters.
// Nil and empty-string values are dropped. Keys found in mapping are renamed.
func BuildParams(args map[string]interface{}, mapping ParameterMapping) map[string]string {
	params := make(map[string]string, len(args))
	for key, value := range args {
		if value == nil {
			continue
		}
		if s, ok := value.(string); ok && s == "" {
			continue
		}

		name := key
		if renamed, ok := mapping[key]; ok {
			name = renamed
		}
		params[name] = stringifyParam(value)
	}
	return params
}

// stringifyParam renders a scalar the way it should appear in a query string:
// true/false, plain decimals, no exponent or thousands separators.
func stringifyParam(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}

// without returns a copy of args lacking the named keys. Positional
// arguments (movieId, timeWindow, ...) go into the path, not the query.
func without(args map[string]interface{}, keys ...string) map[string]interface{} {
	rest := make(map[string]interface{}, len(args))
	for key, value := range args {
		rest[key] = value
	}
	for _, key := range keys {
		delete(rest, key)
	}
	return rest
}

// getStringParam extracts a string parameter from the arguments map.
// Returns an error if the parameter is required but missing or not a string.
func getStringParam(args map[string]interface{}, name string, required bool) (string, error) {
	value, exists := args[name]
	if !exists || value == nil {
		if required {
			return "", fmt.Errorf("missing required parameter: %s", name)
		}
		return "", nil
	}

	strValue, ok := value.(string)
	if !ok {
		return "", fmt.Errorf("parameter %s must be a string", name)
	}

	return strValue, nil
}

// getIDParam extracts a TMDB numeric identifier that clients may send either
// as a string ("438631") or as a JSON number.
func getIDParam(args map[string]interface{}, name string) (string, error) {
	switch v := args[name].(type) {
	case string:
		if v == "" {
			return "", fmt.Errorf("missing required parameter: %s", name)
		}
		if strings.Trim(v, "0123456789") != "" {
			return "", fmt.Errorf("parameter %s must contain only digits", name)
		}
		return v, nil
	case float64:
		if v != float64(int64(v)) || v < 0 {
			return "", fmt.Errorf("parameter %s must be a non-negative integer", name)
		}
		return strconv.FormatInt(int64(v), 10), nil
	case int:
		if v < 0 {
			return "", fmt.Errorf("parameter %s must be a non-negative integer", name)
		}
		return strconv.Itoa(v), nil
	case nil:
		return "", fmt.Errorf("missing required parameter: %s", name)
	default:
		return "", fmt.Errorf("parameter %s must be a string or integer", name)
	}
}
