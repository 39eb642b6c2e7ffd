package deploy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"questctl/internal/config"
)

// requiredTools are the external CLIs the pipeline shells out to.
var requiredTools = []string{"git", "npm", "netlify", "railway"}

// requiredFiles are the project files a deployable checkout must contain,
// relative to the project root.
var requiredFiles = []string{
	filepath.Join("frontend", "package.json"),
	filepath.Join("backend", "package.json"),
	filepath.Join("backend", "server.js"),
}

// validateEnvironment confirms the external tools are invocable and the
// project layout is intact. It fails hard: nothing has been deployed yet, so
// there is nothing to roll back.
func (o *Orchestrator) validateEnvironment(ctx context.Context, run *Run) error {
	var missing []string
	for _, tool := range requiredTools {
		if err := o.runner.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required tools not found: %s", strings.Join(missing, ", "))
	}
	run.Info("All required tools available: %s", strings.Join(requiredTools, ", "))

	for _, file := range requiredFiles {
		if _, err := os.Stat(filepath.Join(o.projectDir, file)); err != nil {
			return fmt.Errorf("required project file missing: %s", file)
		}
	}
	run.Info("Project files verified")

	if run.Environment == config.EnvProduction {
		out, err := o.runner.Run(ctx, o.projectDir, "git", "status", "--porcelain")
		if err != nil {
			run.Warn("Could not check working tree state: %v", err)
		} else if out != "" {
			run.Warn("Uncommitted changes present in a production deployment")
		}
	}

	return nil
}
