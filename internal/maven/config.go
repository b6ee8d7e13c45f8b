package maven

import (
	"deployables/internal/config"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// DefaultFetchTimeout bounds a single dependency:get invocation.
const DefaultFetchTimeout = 60 * time.Second

// Config holds configuration for the Maven fetch command.
type Config struct {
	Program string        // Executable to run (default "mvn")
	Args    []string      // Arguments placed before the -D flags (default ["dependency:get"])
	Timeout time.Duration // Hard wall-clock bound for one fetch
}

// LoadConfigFromEnv loads fetch configuration from environment variables.
// MAVEN_COMMAND is split on whitespace, e.g. "mvn -B -q dependency:get".
func LoadConfigFromEnv() Config {
	cfg := Config{
		Program: "mvn",
		Args:    []string{"dependency:get"},
		Timeout: config.GetDurationEnv("MAVEN_FETCH_TIMEOUT", DefaultFetchTimeout),
	}
	if fields := strings.Fields(config.GetEnv("MAVEN_COMMAND", "")); len(fields) > 0 {
		cfg.Program = fields[0]
		cfg.Args = fields[1:]
	}
	return cfg
}

// DefaultRepository returns the local repository Maven uses when none is configured.
func DefaultRepository() string {
	return filepath.Join(xdg.Home, ".m2", "repository")
}

// RepositoryFromEnv returns MAVEN_REPOSITORY, falling back to DefaultRepository.
func RepositoryFromEnv() string {
	return config.GetEnv("MAVEN_REPOSITORY", DefaultRepository())
}
