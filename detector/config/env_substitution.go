package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

// envRefPattern matches ${VAR}, ${VAR:-default} and ${VAR:?message}
// references, plus the $${...} escape for a literal reference.
var envRefPattern = regexp.MustCompile(`\$?\$\{([^}]+)\}`)

// SubstituteEnvVars replaces environment variable references in config
// content before YAML parsing.
//
// Supported forms:
//   - ${VAR}            basic substitution, empty when unset
//   - ${VAR:-default}   default when VAR is empty or unset
//   - ${VAR:?message}   error when VAR is empty or unset
//   - $${VAR}           escape, yields the literal ${VAR}
func SubstituteEnvVars(content string) (string, error) {
	var substErr error

	result := envRefPattern.ReplaceAllStringFunc(content, func(ref string) string {
		if strings.HasPrefix(ref, "$$") {
			return ref[1:]
		}

		expr := ref[2 : len(ref)-1]

		if name, msg, ok := strings.Cut(expr, ":?"); ok {
			if value := os.Getenv(name); value != "" {
				return value
			}
			if msg == "" {
				msg = "required but not set"
			}
			if substErr == nil {
				substErr = fmt.Errorf("environment variable %s: %s", name, msg)
			}
			return ""
		}

		if name, fallback, ok := strings.Cut(expr, ":-"); ok {
			if value := os.Getenv(name); value != "" {
				return value
			}
			return fallback
		}

		return os.Getenv(expr)
	})

	if substErr != nil {
		return "", substErr
	}
	return result, nil
}
