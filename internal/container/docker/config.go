package docker

import (
	"deployables/internal/config"
	"time"
)

// DeployerConfig holds configuration for the Docker deployment target.
type DeployerConfig struct {
	ExecTimeout time.Duration // Bound for commands run inside the container (e.g., rm on undeploy)
}

// LoadConfigFromEnv loads deployer configuration from environment variables.
func LoadConfigFromEnv() DeployerConfig {
	return DeployerConfig{
		ExecTimeout: config.GetDurationEnv("DOCKER_EXEC_TIMEOUT", 30*time.Second),
	}
}
