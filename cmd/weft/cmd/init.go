package cmd

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/cobra"

	"github.com/go-weft/weft/cmd/weft/internal/scaffold"
)

var projectNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

var initCmd = &cobra.Command{
	Use:   "init <directory> [module-path]",
	Short: "Create a new weft project",
	Long: `Create a new weft project in a new directory.

This command creates:
  - A new directory at the specified path
  - go.mod with the specified module path
  - weft.yaml with default settings
  - main.go with a starter application

The project name is derived from the directory basename. The module path
defaults to the project name if not specified.

Examples:
  weft init myapp
  weft init myapp github.com/username/myapp
  weft init ./projects/myapp`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runInit,
}

func init() {
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	raw := args[0]
	if strings.HasPrefix(raw, "~") {
		return fmt.Errorf("tilde (~) is not expanded by weft; use an absolute path or $HOME instead")
	}
	dir := filepath.Clean(raw)

	projectName := filepath.Base(dir)
	if !projectNamePattern.MatchString(projectName) {
		return fmt.Errorf("invalid project name %q (derived from directory basename): must match %s", projectName, projectNamePattern)
	}

	modulePath := projectName
	if len(args) > 1 {
		modulePath = args[1]
	}
	if modulePath == "" {
		return fmt.Errorf("module path cannot be empty")
	}

	if err := scaffold.CreateProject(dir, scaffold.Settings{
		AppName:    projectName,
		ModulePath: modulePath,
	}); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n\nNext steps:\n  cd %s\n  go mod tidy\n  go run .\n", dir, raw)
	return nil
}
