// Package gitrev resolves the commit a guide was built from, so history
// records can be traced back to the source revision.
package gitrev

import (
	"fmt"
	"os/exec"
	"strings"
)

// Head returns the short SHA of dir's checked-out commit. Callers treat
// failure as "not a git checkout" and carry on.
func Head(dir string) (string, error) {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git rev-parse failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}
