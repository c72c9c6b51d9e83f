package policy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// Loader reads advice policies from disk.
type Loader struct {
	logger zerolog.Logger
}

// NewLoader creates a new policy loader.
func NewLoader(logger zerolog.Logger) *Loader {
	return &Loader{
		logger: logger.With().Str("component", "policy-loader").Logger(),
	}
}

// LoadFromPaths loads policies from a list of .rego files or directories.
func (l *Loader) LoadFromPaths(ctx context.Context, paths []string) ([]Policy, error) {
	var all []Policy

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		policies, err := l.loadFromPath(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load policies from %s: %w", path, err)
		}
		all = append(all, policies...)
	}

	l.logger.Debug().
		Int("total", len(all)).
		Int("sources", len(paths)).
		Msg("Policies loaded from paths")

	return all, nil
}

func (l *Loader) loadFromPath(path string) ([]Policy, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat path: %w", err)
	}

	if !info.IsDir() {
		policy, err := l.loadFromFile(path)
		if err != nil {
			return nil, err
		}
		return []Policy{*policy}, nil
	}

	var policies []Policy
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(p, ".rego") {
			return nil
		}
		policy, err := l.loadFromFile(p)
		if err != nil {
			return err
		}
		policies = append(policies, *policy)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	return policies, nil
}

func (l *Loader) loadFromFile(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), ".rego")
	description, severity, err := parseHeader(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	l.logger.Debug().Str("path", path).Str("policy", name).Msg("Policy loaded from file")

	return &Policy{
		Name:        name,
		Description: description,
		Rego:        string(data),
		Severity:    severity,
		Enabled:     true,
		Source:      path,
	}, nil
}

// parseHeader reads the leading comment block of a module. A
// "severity: info|warning" line sets the default severity (warning when
// absent); the other lines are joined into the description.
func parseHeader(content string) (string, Severity, error) {
	var description strings.Builder
	severity := SeverityWarning

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, "#") {
			if trimmed != "" || description.Len() > 0 {
				break
			}
			continue
		}
		comment := strings.TrimSpace(strings.TrimPrefix(trimmed, "#"))
		if comment == "" {
			continue
		}
		if value, ok := strings.CutPrefix(comment, "severity:"); ok {
			switch sev := Severity(strings.TrimSpace(value)); sev {
			case SeverityInfo, SeverityWarning:
				severity = sev
			default:
				return "", "", fmt.Errorf("unknown severity %q", sev)
			}
			continue
		}
		if description.Len() > 0 {
			description.WriteString(" ")
		}
		description.WriteString(comment)
	}

	return description.String(), severity, nil
}
