// Package auth resolves provider API credentials from flags, the environment, and dotenv files.
package auth

import (
	"context"
	"errors"
)

// Services that need credentials.
const (
	Apify     = "apify"
	Anthropic = "anthropic"
)

// ErrNotFound is returned by Require when no source has a credential for a service.
var ErrNotFound = errors.New("credential not found")

// Source represents a source of API credentials.
type Source interface {
	// Token returns the credential for service, or "" if unavailable.
	Token(ctx context.Context, service string) (string, error)
}

// ChainSources returns the token from the first source that provides one.
func ChainSources(ctx context.Context, service string, sources ...Source) (string, error) {
	for _, src := range sources {
		if src == nil {
			continue
		}
		tok, err := src.Token(ctx, service)
		if err != nil {
			return "", err
		}
		if tok != "" {
			return tok, nil
		}
	}
	return "", nil
}

// Require is ChainSources but fails with ErrNotFound when no source has a token.
func Require(ctx context.Context, service string, sources ...Source) (string, error) {
	tok, err := ChainSources(ctx, service, sources...)
	if err != nil {
		return "", err
	}
	if tok == "" {
		return "", errors.Join(ErrNotFound, errors.New(service+": set "+EnvVarFor(service)))
	}
	return tok, nil
}
