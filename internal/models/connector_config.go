package models

import (
	"maps"
	"time"
)

// DefaultSelectedModel is the model used until the user picks another one.
const DefaultSelectedModel = "anthropic/claude-3.5-sonnet"

// ConnectorConfig holds the OpenRouter settings. Exactly one exists per process.
type ConnectorConfig struct {
	ID            string         `json:"id"`
	APIKey        *string        `json:"apiKey"`
	SelectedModel string         `json:"selectedModel"`
	ModelConfigs  map[string]any `json:"modelConfigs"`
	// IsConnected is derived from the effective key and cannot be patched.
	IsConnected bool      `json:"isConnected"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Clone returns a copy that shares no mutable state with c.
func (c ConnectorConfig) Clone() ConnectorConfig {
	c.APIKey = cloneStr(c.APIKey)
	c.ModelConfigs = maps.Clone(c.ModelConfigs)
	return c
}

// UpdateConnectorInput is a partial patch of the connector settings.
type UpdateConnectorInput struct {
	APIKey        *string        `json:"apiKey,omitempty"`
	SelectedModel *string        `json:"selectedModel,omitempty" validate:"omitempty,min=1"`
	ModelConfigs  map[string]any `json:"modelConfigs,omitempty"`
}

// Validate checks the patch against the connector schema.
func (in UpdateConnectorInput) Validate() error {
	return validateStruct(in, "Invalid OpenRouter config")
}

// Apply merges the patch over c. IsConnected is left for the caller to derive.
func (in UpdateConnectorInput) Apply(c *ConnectorConfig) {
	if in.APIKey != nil {
		c.APIKey = cloneStr(in.APIKey)
	}
	if in.SelectedModel != nil {
		c.SelectedModel = *in.SelectedModel
	}
	if in.ModelConfigs != nil {
		c.ModelConfigs = maps.Clone(in.ModelConfigs)
	}
}
