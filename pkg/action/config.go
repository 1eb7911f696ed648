package action

// ActionConfig is the configuration of one action, usually loaded from the
// pipeline YAML.
type ActionConfig struct {
	ID         string                 `yaml:"id" json:"id"`
	Name       string                 `yaml:"name" json:"name"`
	Type       string                 `yaml:"type" json:"type"`
	Enabled    bool                   `yaml:"enabled" json:"enabled"`
	Parameters map[string]interface{} `yaml:"parameters" json:"parameters"`
}

// GetParameterInt reads an integer parameter. Whole float64 values from
// YAML or JSON are accepted.
func (c *ActionConfig) GetParameterInt(key string, defaultValue int) int {
	switch v := c.Parameters[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return defaultValue
}

// GetParameterString reads a string parameter.
func (c *ActionConfig) GetParameterString(key string, defaultValue string) string {
	if v, ok := c.Parameters[key].(string); ok {
		return v
	}
	return defaultValue
}

// GetParameterBool reads a boolean parameter.
func (c *ActionConfig) GetParameterBool(key string, defaultValue bool) bool {
	if v, ok := c.Parameters[key].(bool); ok {
		return v
	}
	return defaultValue
}
