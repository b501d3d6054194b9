package auth

import (
	"context"
	"os"
	"strings"
)

// serviceEnvVars maps service names to the environment variable holding their credential.
var serviceEnvVars = map[string]string{
	Apify:     "APIFY_TOKEN",
	Anthropic: "ANTHROPIC_API_KEY",
}

// EnvSource reads credentials from environment variables.
type EnvSource struct{}

// Token returns the credential for service from the environment.
func (EnvSource) Token(_ context.Context, service string) (string, error) {
	name, ok := serviceEnvVars[service]
	if !ok {
		return "", nil
	}
	return strings.TrimSpace(os.Getenv(name)), nil
}

// EnvVarFor returns the environment variable name for a service.
// This is useful for generating help messages.
func EnvVarFor(service string) string {
	return serviceEnvVars[service]
}
