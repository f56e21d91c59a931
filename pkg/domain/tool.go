package domain

// Tool describes one entry of an operation table for discovery.
type Tool struct {
	Name        string `json:"name" yaml:"name" mapstructure:"name"`
	Description string `json:"description" yaml:"description" mapstructure:"description"`
}
