package config

// Safe type assertion helpers prevent panics when components read their
// dynamic definition metadata.

// GetString safely extracts a string value from a metadata map
func GetString(metadata map[string]any, key string, defaultVal string) string {
	if val, ok := metadata[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return defaultVal
}

// GetInt safely extracts an integer value from a metadata map
func GetInt(metadata map[string]any, key string, defaultVal int) int {
	if val, ok := metadata[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case int32:
			return int(v)
		case float64:
			return int(v)
		case float32:
			return int(v)
		}
	}
	return defaultVal
}

// GetBool safely extracts a boolean value from a metadata map
func GetBool(metadata map[string]any, key string, defaultVal bool) bool {
	if val, ok := metadata[key]; ok {
		if b, ok := val.(bool); ok {
			return b
		}
	}
	return defaultVal
}

// GetFloat64 safely extracts a float64 value from a metadata map
func GetFloat64(metadata map[string]any, key string, defaultVal float64) float64 {
	if val, ok := metadata[key]; ok {
		switch v := val.(type) {
		case float64:
			return v
		case float32:
			return float64(v)
		case int:
			return float64(v)
		case int64:
			return float64(v)
		case int32:
			return float64(v)
		}
	}
	return defaultVal
}

// GetStringSlice safely extracts a string slice from a metadata map,
// accepting both []string and []any values
func GetStringSlice(metadata map[string]any, key string) []string {
	val, ok := metadata[key]
	if !ok {
		return nil
	}
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return out
	}
	return nil
}
