package platform

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
)

// ResolveVersion determines the version recorded for a deployed service:
// the package.json version when present, otherwise the short git commit,
// otherwise "unknown".
func ResolveVersion(ctx context.Context, runner CommandRunner, dir string) string {
	if data, err := os.ReadFile(filepath.Join(dir, "package.json")); err == nil {
		var pkg struct {
			Version string `json:"version"`
		}
		if json.Unmarshal(data, &pkg) == nil && pkg.Version != "" {
			return pkg.Version
		}
	}

	if sha, err := runner.Run(ctx, dir, "git", "rev-parse", "--short", "HEAD"); err == nil && sha != "" {
		return sha
	}

	return "unknown"
}
