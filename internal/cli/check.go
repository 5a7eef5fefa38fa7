package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sdformat"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "check <file>",
		Short:        "Validate an SDF document and print diagnostics",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return runCheck(args[0])
		},
	}
}

func runCheck(path string) error {
	root, errs := sdformat.Load(path, sdformat.DefaultConfig())
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e.Error())
	}
	if root == nil || errs.Fatal() {
		return fmt.Errorf("%s is not a valid SDF document", path)
	}
	fmt.Printf("%s: ok\n", path)
	return nil
}
