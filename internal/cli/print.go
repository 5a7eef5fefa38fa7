package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sdformat"
)

func newPrintCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "print <file>",
		Short:        "Load an SDF document and print it at the current schema version",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return runPrint(args[0])
		},
	}
}

func runPrint(path string) error {
	root, errs := sdformat.Load(path, sdformat.DefaultConfig())
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e.Error())
	}
	if root == nil {
		return fmt.Errorf("%s is not a valid SDF document", path)
	}
	fmt.Print(root.ToXML())
	return nil
}
