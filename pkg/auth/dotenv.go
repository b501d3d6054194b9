package auth

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

// DotEnvSource reads credentials from a dotenv file without touching the process environment.
// A missing file yields no credentials.
type DotEnvSource struct {
	path string

	once sync.Once
	vars map[string]string
	err  error
}

// NewDotEnvSource creates a source backed by the dotenv file at path.
func NewDotEnvSource(path string) *DotEnvSource {
	return &DotEnvSource{path: path}
}

// Token returns the credential for service from the file.
func (s *DotEnvSource) Token(_ context.Context, service string) (string, error) {
	name, ok := serviceEnvVars[service]
	if !ok {
		return "", nil
	}

	s.once.Do(func() {
		vars, err := godotenv.Read(s.path)
		if errors.Is(err, fs.ErrNotExist) {
			return
		}
		if err != nil {
			s.err = fmt.Errorf("read %s: %w", s.path, err)
			return
		}
		s.vars = vars
	})
	if s.err != nil {
		return "", s.err
	}
	return strings.TrimSpace(s.vars[name]), nil
}
