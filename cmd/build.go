package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errBuildFailed = errors.New("compilation failed")

var buildCmd = &cobra.Command{
	Use:   "build <file>",
	Short: "Compile a C/C++ file without opening the editor",
	Long: `Compile a single C/C++ source file with the configured compiler.

The executable is written next to the source, named after it without the
extension. The compiler output is printed as the editor would show it.

Examples:
  aiedit build main.cpp
  aiedit build --compiler cl main.cpp`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orch := newOrchestrator()
		ch, err := orch.Compile(commandContext(cmd), args[0])
		if err != nil {
			return err
		}
		r := <-ch
		fmt.Fprintln(cmd.OutOrStdout(), r.Banner())
		if !r.Success {
			return errBuildFailed
		}
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Compile a C/C++ file and run it",
	Long: `Compile a single C/C++ source file and, if that succeeds, run the
executable from the source directory. Standard output and standard error of
the program are printed after it exits, followed by its exit code.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orch := newOrchestrator()
		ch, err := orch.CompileAndRun(commandContext(cmd), args[0])
		if err != nil {
			return err
		}
		o := <-ch
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, o.Compile.Banner())
		switch {
		case o.Run != nil:
			fmt.Fprintln(out, o.Run.Banner())
			return nil
		case o.RunErr != nil:
			return o.RunErr
		default:
			return errBuildFailed
		}
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(runCmd)
}
