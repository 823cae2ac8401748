// Package credential loads the GitHub token from the file named by GITHUB_TOKEN_PATH.
package credential

import (
	"errors"
	"fmt"
	"os"
	"strings"

	runerr "github.com/Cloudsky01/gh-runwatch/internal/errors"
)

// EnvTokenPath names the variable holding the token file path
const EnvTokenPath = "GITHUB_TOKEN_PATH"

// Load reads and trims the token stored at path
func Load(path string) (string, error) {
	if path == "" {
		return "", &runerr.ConfigError{
			Op:  "resolve token path",
			Err: fmt.Errorf("%s environment variable not set", EnvTokenPath),
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", &runerr.ConfigError{
				Op:  "load token",
				Err: fmt.Errorf("GitHub token file does not exist at path: %s", path),
			}
		}
		return "", &runerr.ConfigError{Op: "load token", Err: err}
	}

	if info.IsDir() {
		return "", &runerr.ConfigError{
			Op:  "load token",
			Err: fmt.Errorf("GitHub token path is a directory: %s", path),
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", &runerr.ConfigError{Op: "load token", Err: fmt.Errorf("unable to read GitHub token: %w", err)}
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", &runerr.ConfigError{Op: "load token", Err: errors.New("GitHub token file is empty")}
	}

	return token, nil
}
