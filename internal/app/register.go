package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shortrun/internal/alias"
)

var (
	registerArgs    string
	registerWorkDir string

	registerCmd = &cobra.Command{
		Use:   "register <name> <target>",
		Short: "Register a run-dialog alias for an executable",
		Long: `Register an alias under the per-user App Paths registry key so that
typing the alias in the Win+R run dialog launches the target executable.

Alias names use letters, digits, hyphen and underscore (up to 64 characters)
and are case-insensitive. Device names such as con or nul are rejected.

The working directory defaults to the target's directory; pass --workdir to
override it for applications that expect to start elsewhere.`,
		Example: `  # Launch Notepad by typing "note"
  shortrun register note "C:\Windows\System32\notepad.exe"

  # Alias with fixed arguments and working directory
  shortrun register logs "C:\Tools\tail.exe" --args "-f app.log" --workdir "C:\Logs"`,
		Args: cobra.ExactArgs(2),
		RunE: runRegister,
	}
)

func init() {
	registerCmd.Flags().StringVar(&registerArgs, "args", "", "arguments appended to every launch")
	registerCmd.Flags().StringVar(&registerWorkDir, "workdir", "", "working directory (default: target's directory)")
}

func runRegister(cmd *cobra.Command, args []string) error {
	o, closeJournal, err := newOrchestrator()
	if err != nil {
		return err
	}
	defer closeJournal()

	a := alias.Alias{
		Name:             args[0],
		TargetPath:       args[1],
		Arguments:        registerArgs,
		WorkingDirectory: registerWorkDir,
	}

	if err := o.Register(a); err != nil {
		if errors.Is(err, alias.ErrDuplicate) {
			return fmt.Errorf("alias %q already exists (use 'shortrun update' to change it): %w", a.Name, err)
		}
		return err
	}

	fmt.Printf("Registered %q -> %s\n", a.Name, a.TargetPath)
	fmt.Printf("Win+R, type %q, Enter.\n", a.Name)
	return nil
}
