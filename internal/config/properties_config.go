package config

// PropertiesConfig describes where the flat job properties come from.
type PropertiesConfig struct {
	EnvPrefix      string            `json:"env_prefix,omitempty" yaml:"env_prefix,omitempty"`
	HotReload      bool              `json:"hot_reload" yaml:"hot_reload"`
	Properties     map[string]string `json:"properties,omitempty" yaml:"properties,omitempty"`
	PropertiesFile string            `json:"properties_file,omitempty" yaml:"properties_file,omitempty"`
}

// NewDefaultPropertiesConfig creates default properties configuration
func NewDefaultPropertiesConfig() PropertiesConfig {
	return PropertiesConfig{
		EnvPrefix:      DefaultEnvPrefix,
		Properties:     make(map[string]string),
		PropertiesFile: DefaultPropertiesFile,
	}
}
