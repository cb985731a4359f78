package internal

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	classfile "github.com/studiofuga/qmapcontrol-llar/formula"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the recipe metadata",
	Long:  `Info prints the recipe metadata, its options with their defaults, the build requirements and the link target.`,
	Args:  cobra.NoArgs,
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	target, err := loadTarget()
	if err != nil {
		return err
	}
	f := target.Formula

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "id:\t%s\n", f.ModPath)
	fmt.Fprintf(w, "name:\t%s\n", f.Meta.Name)
	fmt.Fprintf(w, "version:\t%s\n", f.FromVer)
	fmt.Fprintf(w, "license:\t%s\n", f.Meta.License)
	fmt.Fprintf(w, "author:\t%s\n", f.Meta.Author)
	fmt.Fprintf(w, "url:\t%s\n", f.Meta.URL)
	fmt.Fprintf(w, "description:\t%s\n", f.Meta.Description)
	fmt.Fprintf(w, "topics:\t%s\n", strings.Join(f.Meta.Topics, ", "))
	fmt.Fprintf(w, "settings:\t%s\n", strings.Join(f.Meta.Settings, ", "))

	for _, name := range slices.Sorted(maps.Keys(f.Matrix.Options)) {
		def := ""
		if d := f.Matrix.DefaultOptions[name]; len(d) > 0 {
			def = d[0]
		}
		fmt.Fprintf(w, "option %s:\t%s (default %s)\n", name, strings.Join(f.Matrix.Options[name], ", "), def)
	}

	if f.OnRequire != nil {
		var deps classfile.ModuleDeps
		f.OnRequire(&classfile.Project{}, &deps)
		for _, m := range deps.BuildDeps() {
			fmt.Fprintf(w, "build requires:\t%s\n", m)
		}
		for _, m := range deps.Deps() {
			fmt.Fprintf(w, "requires:\t%s\n", m)
		}
	}

	if f.OnPackageInfo != nil {
		var info classfile.PackageInfo
		f.OnPackageInfo(&info)
		fmt.Fprintf(w, "libs:\t%s\n", strings.Join(info.LinkNames(), " "))
	}
	return w.Flush()
}
