package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sdformat"
	"sdformat/internal/frames"
)

func newGraphCommand() *cobra.Command {
	return &cobra.Command{
		Use:          "graph <pose|frame> <file>",
		Short:        "Print a scope graph of an SDF document in DOT format",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, args []string) error {
			return runGraph(args[0], args[1])
		},
	}
}

func runGraph(kind, path string) error {
	if kind != "pose" && kind != "frame" {
		return fmt.Errorf("graph kind must be pose or frame, got %q", kind)
	}
	root, errs := sdformat.Load(path, sdformat.DefaultConfig())
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e.Error())
	}
	if root == nil {
		return fmt.Errorf("%s is not a valid SDF document", path)
	}

	var g *frames.ScopeGraphs
	switch {
	case root.Model() != nil:
		g = root.Model().Graphs()
	case root.WorldCount() > 0:
		g = root.WorldByIndex(0).Graphs()
	}
	if g == nil {
		return fmt.Errorf("%s has no model or world scope to graph", path)
	}
	fmt.Print(renderDOT(g, kind))
	return nil
}

func renderDOT(g *frames.ScopeGraphs, kind string) string {
	var b strings.Builder
	b.WriteString("digraph {\n")
	for _, v := range g.Vertices() {
		fmt.Fprintf(&b, "  %d [label=%q];\n", v.ID, v.Name)
	}
	for _, v := range g.Vertices() {
		switch kind {
		case "frame":
			if to, ok := g.AttachedTo(v.ID); ok {
				fmt.Fprintf(&b, "  %d -> %d;\n", v.ID, to)
			}
		case "pose":
			if to, p, ok := g.PoseEdge(v.ID); ok {
				fmt.Fprintf(&b, "  %d -> %d [label=%q];\n", v.ID, to, p.String())
			}
		}
	}
	b.WriteString("}\n")
	return b.String()
}
