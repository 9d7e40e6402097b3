package engine

import (
	"os"
	"regexp"
	"strings"
)

// envRef matches the braced ${NAME} form only; any other '$' is literal.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Env is a read-only snapshot of environment variables. The engine never reads
// the process environment directly; callers take a snapshot with EnvFromOS or
// build one by hand in tests.
type Env map[string]string

// EnvFromOS snapshots the current process environment.
func EnvFromOS() Env {
	return EnvFromList(os.Environ())
}

// EnvFromList builds an Env from KEY=VALUE pairs. Later entries win.
func EnvFromList(pairs []string) Env {
	env := make(Env, len(pairs))
	for _, kv := range pairs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = v
	}
	return env
}

// Lookup returns the trimmed value of name. Empty values count as unset.
func (e Env) Lookup(name string) (string, bool) {
	v := strings.TrimSpace(e[name])
	return v, v != ""
}

// Get returns the raw value of name, or an empty string.
func (e Env) Get(name string) string {
	return e[name]
}

// Expand replaces ${VAR} references in s using the snapshot. Unset
// variables expand to the empty string. Bare $VAR, $1 and $$ are kept as
// written so literal keys containing '$' survive.
func (e Env) Expand(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		return e.Get(ref[2 : len(ref)-1])
	})
}
