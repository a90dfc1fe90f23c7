// Package config holds helpers shared by the viper-backed configuration
// layer, chiefly path normalization for values like database.path.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a leading ~ to the user's home directory and then
// substitutes $VAR environment references. An unresolvable home leaves the
// tilde in place rather than failing.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}

	return os.ExpandEnv(path)
}
