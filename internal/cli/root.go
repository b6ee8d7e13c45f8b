// Package cli implements the resolve command line tool.
package cli

import (
	"deployables/internal/container/docker"
	"deployables/internal/deployable"
	"deployables/internal/deployment"
)

// Environment supplies what the commands run against.
type Environment struct {
	Options   deployable.Options
	NewTarget func() (deployment.Target, error) // Used only when deploying
}

// DefaultEnvironment reads resolver options from the environment and deploys
// through the local Docker daemon.
func DefaultEnvironment() Environment {
	return Environment{
		Options: deployable.LoadOptionsFromEnv(),
		NewTarget: func() (deployment.Target, error) {
			d, err := docker.NewDeployer(docker.LoadConfigFromEnv())
			if err != nil {
				return nil, err
			}
			return d, nil
		},
	}
}
