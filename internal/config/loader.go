package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is looked up when Load is given a directory.
const DefaultFileName = "hookscope.yaml"

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load builds the configuration from defaults, the optional file at
// configPath, HOOKSCOPE_* environment variables and command-line overrides,
// in that order of precedence (later wins).
func Load(configPath string, overrides Overrides) (Config, error) {
	cfg := Default()

	if configPath != "" {
		source, digest, err := loadFile(configPath, &cfg)
		if err != nil {
			return Config{}, err
		}
		cfg.Source = source
		cfg.Fingerprint = digest
	}

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to read environment overrides: %w", err)
	}

	overrides.apply(&cfg)

	if err := Validate(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// loadFile decodes a YAML config file over cfg and returns its absolute path
// and fingerprint.
func loadFile(configPath string, cfg *Config) (string, string, error) {
	// Resolve to absolute path for consistent error messages
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", "", fmt.Errorf("config file not found: %s\n"+
			"Hint: Check the path or run with --config flag", absPath)
	}

	if info.IsDir() {
		// Directory provided - look for hookscope.yaml inside
		absPath = filepath.Join(absPath, DefaultFileName)
		if _, err := os.Stat(absPath); err != nil {
			return "", "", fmt.Errorf("directory provided but %s not found: %s", DefaultFileName, absPath)
		}
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return "", "", fmt.Errorf("failed to read config file %s: %w", absPath, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader([]byte(interpolateEnv(string(data)))))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return "", "", fmt.Errorf("failed to parse config file %s: %w", absPath, err)
	}

	// Placeholders left by interpolateEnv name variables that are not set.
	// Secrets from the environment or flags are taken literally.
	if m := envVarPattern.FindStringSubmatch(cfg.Secret); m != nil {
		return "", "", fmt.Errorf("config file %s: secret references unset environment variable %s", absPath, m[1])
	}

	return absPath, Fingerprint(data), nil
}

// interpolateEnv replaces ${VAR} references with environment values.
func interpolateEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		// Extract variable name from ${VAR}
		varName := envVarPattern.FindStringSubmatch(match)[1]

		// Look up environment variable
		if value, exists := os.LookupEnv(varName); exists {
			return value
		}

		// If not found, leave the placeholder (will fail validation)
		return match
	})
}
