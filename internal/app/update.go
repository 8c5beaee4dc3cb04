package app

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/shortrun/internal/alias"
)

var (
	updateTarget  string
	updateArgs    string
	updateWorkDir string
	updateRename  string

	updateCmd = &cobra.Command{
		Use:   "update <name>",
		Short: "Change an existing alias",
		Long: `Update the target, arguments, working directory, or name of an existing
alias. Only the flags you pass change; everything else is kept.

Renaming an alias does not move its scheduled tasks: tasks launch by alias
name, so reschedule them under the new name afterwards.`,
		Example: `  # Point an alias at a new binary
  shortrun update note --target "C:\Program Files\Notepad++\notepad++.exe"

  # Clear fixed arguments
  shortrun update logs --args ""

  # Rename
  shortrun update note --rename edit`,
		Args: cobra.ExactArgs(1),
		RunE: runUpdate,
	}
)

func init() {
	updateCmd.Flags().StringVar(&updateTarget, "target", "", "new target executable")
	updateCmd.Flags().StringVar(&updateArgs, "args", "", "new launch arguments")
	updateCmd.Flags().StringVar(&updateWorkDir, "workdir", "", "new working directory")
	updateCmd.Flags().StringVar(&updateRename, "rename", "", "new alias name")
}

func runUpdate(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("target") && !cmd.Flags().Changed("args") &&
		!cmd.Flags().Changed("workdir") && !cmd.Flags().Changed("rename") {
		return fmt.Errorf("nothing to change: pass --target, --args, --workdir, or --rename")
	}

	o, closeJournal, err := newOrchestrator()
	if err != nil {
		return err
	}
	defer closeJournal()

	name := args[0]
	a, err := o.Aliases.Get(name)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("target") {
		a.TargetPath = updateTarget
	}
	if cmd.Flags().Changed("args") {
		a.Arguments = updateArgs
	}
	if cmd.Flags().Changed("workdir") {
		a.WorkingDirectory = updateWorkDir
	}
	if cmd.Flags().Changed("rename") {
		a.Name = updateRename
	}

	if err := o.Update(name, a); err != nil {
		return err
	}

	fmt.Printf("Updated alias %q.\n", a.Name)
	if cmd.Flags().Changed("rename") && alias.NormalizeName(name) != alias.NormalizeName(a.Name) {
		fmt.Printf("Note: scheduled tasks still reference %q; reschedule them under %q.\n", name, a.Name)
	}
	return nil
}
