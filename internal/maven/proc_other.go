//go:build !unix

package maven

import "os/exec"

func configureProcess(cmd *exec.Cmd) {}
