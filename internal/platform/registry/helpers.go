// internal/platform/registry/helpers.go
package registry

// Typed getters over the Custom config map, so factories avoid manual nil
// checks and type assertions.

// GetStringConfig extracts a string value from custom config with a default.
func GetStringConfig(custom map[string]interface{}, key, def string) string {
	if custom == nil {
		return def
	}
	if v, ok := custom[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// GetIntConfig extracts an int value from custom config with a default.
func GetIntConfig(custom map[string]interface{}, key string, def int) int {
	if custom == nil {
		return def
	}
	if v, ok := custom[key]; ok {
		switch n := v.(type) {
		case int:
			return n
		case int64:
			return int(n)
		case float64:
			return int(n)
		}
	}
	return def
}

// GetBoolConfig extracts a bool value from custom config with a default.
func GetBoolConfig(custom map[string]interface{}, key string, def bool) bool {
	if custom == nil {
		return def
	}
	if v, ok := custom[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// GetSliceConfig extracts a string slice from custom config with a default.
func GetSliceConfig(custom map[string]interface{}, key string, def []string) []string {
	if custom == nil {
		return def
	}
	if v, ok := custom[key]; ok {
		switch s := v.(type) {
		case []string:
			return s
		case []interface{}:
			out := make([]string, 0, len(s))
			for _, item := range s {
				if str, ok := item.(string); ok {
					out = append(out, str)
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return def
}
