package capabilities

import (
	"strings"

	"orquestra/pkg/errors"
)

// Argument extraction for loosely-typed JSON objects decoded from model
// function calls. Models are inconsistent about types (numbers arrive as
// float64, booleans sometimes as strings), so each helper tolerates the
// shapes seen in practice and falls back otherwise.

func stringArg(args map[string]interface{}, key, fallback string) string {
	if v, ok := args[key].(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func intArg(args map[string]interface{}, key string, fallback int) int {
	switch v := args[key].(type) {
	case int:
		if v > 0 {
			return v
		}
	case float64:
		if int(v) > 0 {
			return int(v)
		}
	}
	return fallback
}

func boolArg(args map[string]interface{}, key string, fallback bool) bool {
	switch v := args[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return true
		case "false":
			return false
		}
	}
	return fallback
}

// tickersArg reads a ticker list from args[key], accepting a comma-separated
// string or a JSON array of strings.
func tickersArg(args map[string]interface{}, key string) ([]string, error) {
	var raw []string
	switch v := args[key].(type) {
	case string:
		raw = strings.Split(v, ",")
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok {
				raw = append(raw, s)
			}
		}
	case []string:
		raw = v
	}

	tickers := make([]string, 0, len(raw))
	for _, t := range raw {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			tickers = append(tickers, strings.ToUpper(trimmed))
		}
	}
	if len(tickers) == 0 {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "%s is required", key)
	}
	return tickers, nil
}
