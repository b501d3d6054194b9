package brandfit

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Keywords are the case-insensitive substrings the heuristic looks for in captions.
type Keywords struct {
	Cause []string `yaml:"cause"`
	Risk  []string `yaml:"risk"`
}

// DefaultKeywords returns the built-in philanthropic cause and brand-risk sets.
func DefaultKeywords() Keywords {
	return Keywords{
		Cause: []string{
			"charity", "donate", "fundraising", "nonprofit", "cause", "help",
			"support", "community", "giving", "volunteer", "social impact", "philanthropy",
		},
		Risk: []string{"controversy", "scandal", "political", "offensive", "inappropriate"},
	}
}

// LoadKeywords reads a YAML keyword file. A list omitted from the file keeps its default.
func LoadKeywords(path string) (Keywords, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Keywords{}, fmt.Errorf("read keywords: %w", err)
	}

	var kw Keywords
	if err := yaml.Unmarshal(data, &kw); err != nil {
		return Keywords{}, fmt.Errorf("parse keywords %s: %w", path, err)
	}

	def := DefaultKeywords()
	if kw.Cause == nil {
		kw.Cause = def.Cause
	}
	if kw.Risk == nil {
		kw.Risk = def.Risk
	}
	return kw.normalized(), nil
}

// normalized lowercases and drops blank entries.
func (k Keywords) normalized() Keywords {
	clean := func(in []string) []string {
		out := make([]string, 0, len(in))
		for _, s := range in {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return Keywords{Cause: clean(k.Cause), Risk: clean(k.Risk)}
}
