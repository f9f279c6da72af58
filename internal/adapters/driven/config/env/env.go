// Package env resolves configuration variables from the process
// environment, dotenv files and container secrets.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// DefaultSecretsDir is where container runtimes mount secrets.
const DefaultSecretsDir = "/run/secrets"

// Environment is a layered variable source. Lookups consult the process
// environment first, then dotenv values, then secrets.
type Environment struct {
	dotenv  map[string]string
	secrets map[string]string
	getenv  func(string) (string, bool)
}

// Load reads the given dotenv files, skipping any that do not exist, and
// every regular file in secretsDir. An empty secretsDir disables secrets.
// Later dotenv files do not override earlier ones.
func Load(secretsDir string, dotenvFiles ...string) (*Environment, error) {
	e := &Environment{
		dotenv:  make(map[string]string),
		secrets: make(map[string]string),
		getenv:  os.LookupEnv,
	}

	for _, name := range dotenvFiles {
		values, err := godotenv.Read(name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		for k, v := range values {
			if _, ok := e.dotenv[k]; !ok {
				e.dotenv[k] = v
			}
		}
	}

	if secretsDir != "" {
		secrets, err := readSecrets(secretsDir)
		if err != nil {
			return nil, err
		}
		e.secrets = secrets
	}
	return e, nil
}

// Lookup returns the value of key and whether it was found in any layer.
func (e *Environment) Lookup(key string) (string, bool) {
	if v, ok := e.getenv(key); ok {
		return v, true
	}
	if v, ok := e.dotenv[key]; ok {
		return v, true
	}
	v, ok := e.secrets[key]
	return v, ok
}

// readSecrets maps each regular file name in dir to its contents with
// trailing line breaks removed. A missing dir yields no secrets.
func readSecrets(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read secrets dir: %w", err)
	}

	secrets := make(map[string]string, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read secret %s: %w", entry.Name(), err)
		}
		secrets[entry.Name()] = strings.TrimRight(string(data), "\r\n")
	}
	return secrets, nil
}
