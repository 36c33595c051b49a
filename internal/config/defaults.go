package config

import (
	"github.com/jackzampolin/stacks/internal/intelligence"
	"github.com/jackzampolin/stacks/internal/memory"
)

// Config is the full stacks configuration.
type Config struct {
	Memory       MemoryConfig       `mapstructure:"memory" yaml:"memory"`
	Intelligence IntelligenceConfig `mapstructure:"intelligence" yaml:"intelligence"`
}

// MemoryConfig configures the knowledge-graph store.
type MemoryConfig struct {
	// Domain is the namespace new memories land in.
	Domain            string `mapstructure:"domain" yaml:"domain"`
	DomainDescription string `mapstructure:"domain_description" yaml:"domain_description"`
	// MinContentLength is the store-skip threshold in characters.
	MinContentLength int `mapstructure:"min_content_length" yaml:"min_content_length"`
	// TagPrefix namespaces tags; leave empty to store tags as-is.
	TagPrefix string `mapstructure:"tag_prefix" yaml:"tag_prefix"`
	// CreateRelationships enables edge creation during document processing.
	CreateRelationships bool `mapstructure:"create_relationships" yaml:"create_relationships"`
}

// IntelligenceConfig selects the summarization strategy.
type IntelligenceConfig struct {
	// Strategy is "extractive" or "openai".
	Strategy string `mapstructure:"strategy" yaml:"strategy"`
	Model    string `mapstructure:"model" yaml:"model"`
	// APIKey may reference an env var: ${OPENAI_API_KEY}
	APIKey  string `mapstructure:"api_key" yaml:"api_key"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Memory: MemoryConfig{
			Domain:              "pdf_processing",
			DomainDescription:   "Knowledge graphs extracted from processed documents",
			MinContentLength:    10,
			CreateRelationships: true,
		},
		Intelligence: IntelligenceConfig{
			Strategy: "extractive",
			APIKey:   "${OPENAI_API_KEY}",
		},
	}
}

// ToMemoryConfig converts the memory section to a store configuration.
func (c *Config) ToMemoryConfig(dbPath string) memory.Config {
	return memory.Config{
		Path:                dbPath,
		Domain:              c.Memory.Domain,
		DomainDescription:   c.Memory.DomainDescription,
		MinContentLength:    c.Memory.MinContentLength,
		TagPrefix:           c.Memory.TagPrefix,
		CreateRelationships: c.Memory.CreateRelationships,
	}
}

// ToIntelligenceConfig converts the intelligence section, resolving
// ${ENV_VAR} references in the API key.
func (c *Config) ToIntelligenceConfig() intelligence.Config {
	return intelligence.Config{
		Strategy: c.Intelligence.Strategy,
		Model:    c.Intelligence.Model,
		APIKey:   ResolveEnvVars(c.Intelligence.APIKey),
		BaseURL:  c.Intelligence.BaseURL,
	}
}
