package rule

// RuleConfig is the configuration of one rule, usually loaded from the
// pipeline YAML.
type RuleConfig struct {
	ID         string                 `yaml:"id" json:"id"`
	Name       string                 `yaml:"name" json:"name"`
	Type       string                 `yaml:"type" json:"type"`
	Enabled    bool                   `yaml:"enabled" json:"enabled"`
	Priority   int                    `yaml:"priority" json:"priority"`
	Parameters map[string]interface{} `yaml:"parameters" json:"parameters"`
}

// GetInt reads an integer parameter. YAML may decode whole numbers as int
// or float64, both are accepted.
func (c *RuleConfig) GetInt(key string, defaultValue int) int {
	if v, ok := toInt(c.Parameters[key]); ok {
		return v
	}
	return defaultValue
}

// GetString reads a string parameter.
func (c *RuleConfig) GetString(key string, defaultValue string) string {
	if val, ok := c.Parameters[key].(string); ok {
		return val
	}
	return defaultValue
}

// GetBool reads a boolean parameter.
func (c *RuleConfig) GetBool(key string, defaultValue bool) bool {
	if val, ok := c.Parameters[key].(bool); ok {
		return val
	}
	return defaultValue
}

// GetStringSlice reads a list parameter. A single string is treated as a
// one-element list.
func (c *RuleConfig) GetStringSlice(key string, defaultValue []string) []string {
	switch val := c.Parameters[key].(type) {
	case []string:
		return val
	case string:
		return []string{val}
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return defaultValue
}

func toInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
