package config

import (
	"errors"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

const (
	EnvAgentProviderName = "FOOTPRINT_AGENT_PROVIDER_NAME"
	EnvAgentBaseURL      = "FOOTPRINT_AGENT_BASE_URL"
	EnvAgentModelName    = "FOOTPRINT_AGENT_MODEL_NAME"
	EnvAgentToken        = "FOOTPRINT_AGENT_TOKEN"
	EnvAgentDeployment   = "FOOTPRINT_AGENT_DEPLOYMENT"
	EnvAgentAPIVersion   = "FOOTPRINT_AGENT_API_VERSION"
	EnvAgentAuthType     = "FOOTPRINT_AGENT_AUTH_TYPE"
)

// agentOptions maps env vars onto provider option keys.
var agentOptions = map[string]string{
	EnvAgentToken:      "token",
	EnvAgentDeployment: "deployment",
	EnvAgentAPIVersion: "api_version",
	EnvAgentAuthType:   "auth_type",
}

// FinalizeAgent layers the file config over the go-agents defaults, then
// applies env overrides. Secrets such as the token are expected from env.
func FinalizeAgent(c *gaconfig.AgentConfig) error {
	merged := gaconfig.DefaultAgentConfig()
	merged.Merge(c)
	*c = merged

	if c.Provider == nil {
		c.Provider = &gaconfig.ProviderConfig{}
	}
	if c.Model == nil {
		c.Model = &gaconfig.ModelConfig{}
	}
	if c.Provider.Options == nil {
		c.Provider.Options = map[string]any{}
	}

	envString(EnvAgentProviderName, &c.Provider.Name)
	envString(EnvAgentBaseURL, &c.Provider.BaseURL)
	envString(EnvAgentModelName, &c.Model.Name)

	for env, key := range agentOptions {
		var v string
		if envString(env, &v); v != "" {
			c.Provider.Options[key] = v
		}
	}

	switch {
	case c.Name == "":
		return errors.New("name required")
	case c.Provider.Name == "":
		return errors.New("provider name required")
	}
	return nil
}
