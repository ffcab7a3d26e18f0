package config

import (
	"fmt"
	"os"
	"strings"
)

// ReadSecret reads a secret from the standard Docker Secrets path, falling
// back to an upper-cased environment variable for local development.
func ReadSecret(secretName string) (string, error) {
	path := "/run/secrets/" + secretName
	if data, err := os.ReadFile(path); err == nil {
		return strings.TrimSpace(string(data)), nil
	}

	if value := os.Getenv(strings.ToUpper(secretName)); value != "" {
		return value, nil
	}

	return "", fmt.Errorf("secret %q not found in %s or environment", secretName, path)
}
