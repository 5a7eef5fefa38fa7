package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sdformat/internal/convert"
	"sdformat/internal/schema"
	"sdformat/internal/types"
	"sdformat/internal/xmltree"
)

func newConvertCommand() *cobra.Command {
	toVersion := schema.CurrentVersion
	cmd := &cobra.Command{
		Use:          "convert <file>",
		Short:        "Rewrite an SDF document to a newer schema version",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return runConvert(args[0], toVersion)
		},
	}
	cmd.Flags().StringVar(&toVersion, "to-version", schema.CurrentVersion, "Target schema version")
	return cmd
}

func runConvert(path, toVersion string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	node, err := xmltree.ParseString(string(data))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if node.Name != "sdf" {
		return fmt.Errorf("%s: root element is <%s>, expected <sdf>", path, node.Name)
	}
	from, ok := node.Attr("version")
	if !ok {
		return fmt.Errorf("%s: <sdf> has no version attribute", path)
	}

	var errs types.Errors
	convert.Convert(node, from, toVersion, &errs)
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e.Error())
	}
	if errs.Fatal() {
		return fmt.Errorf("conversion of %s failed", path)
	}
	fmt.Print(node.ToXML("  "))
	return nil
}
