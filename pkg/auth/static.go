package auth

import "context"

// StaticSource provides credentials from a static map keyed by service.
// This is useful for testing or when tokens are provided via flags.
type StaticSource struct {
	tokens map[string]string
}

// NewStaticSource creates a credential source from a static map.
func NewStaticSource(tokens map[string]string) *StaticSource {
	return &StaticSource{tokens: tokens}
}

// Token returns the static token for service.
func (s *StaticSource) Token(_ context.Context, service string) (string, error) {
	return s.tokens[service], nil
}
