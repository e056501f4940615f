package loader

import (
	"os"
	"sort"
	"strings"
)

// EnvLoader collects configuration overrides from environment variables.
type EnvLoader struct {
	prefix  string            // Environment variable prefix (e.g., "TEXTCORE_")
	mapping map[string]string // Env var -> config path
	lookup  func(string) (string, bool)
}

// NewEnvLoader creates a loader for variables starting with prefix. The
// prefix should include the trailing underscore (e.g., "TEXTCORE_").
// A config path is read from the prefixed, upper-cased path with dots turned
// into underscores: syntax.tab_size <- TEXTCORE_SYNTAX_TAB_SIZE.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{
		prefix:  prefix,
		mapping: make(map[string]string),
		lookup:  os.LookupEnv,
	}
}

// WithLookup replaces os.LookupEnv, for tests.
func (l *EnvLoader) WithLookup(lookup func(string) (string, bool)) *EnvLoader {
	l.lookup = lookup
	return l
}

// AddMapping adds an explicit environment variable mapping, used for short
// names such as TEXTCORE_THEME.
func (l *EnvLoader) AddMapping(envVar, configPath string) {
	l.mapping[envVar] = configPath
}

// Load returns the config path -> value overrides for the given paths. Only
// variables that are set are included; an empty value counts as set.
func (l *EnvLoader) Load(paths []string) map[string]string {
	out := make(map[string]string)
	for _, path := range paths {
		if val, ok := l.lookup(l.pathToEnv(path)); ok {
			out[path] = val
		}
	}
	// Explicit mappings override the derived names.
	envs := make([]string, 0, len(l.mapping))
	for env := range l.mapping {
		envs = append(envs, env)
	}
	sort.Strings(envs)
	for _, env := range envs {
		if val, ok := l.lookup(env); ok {
			out[l.mapping[env]] = val
		}
	}
	return out
}

// pathToEnv converts syntax.tab_size to TEXTCORE_SYNTAX_TAB_SIZE.
func (l *EnvLoader) pathToEnv(path string) string {
	return l.prefix + strings.ToUpper(strings.ReplaceAll(path, ".", "_"))
}
