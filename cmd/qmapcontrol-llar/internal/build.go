package internal

import (
	"fmt"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Configure and compile QMapControl",
	Long:  `Build resolves GDAL, then configures and compiles QMapControl with CMake.`,
	Args:  cobra.NoArgs,
	RunE:  runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	builder, target, err := newSession(cmd)
	if err != nil {
		return err
	}
	res, err := builder.Build(cmd.Context(), target)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.BuildDir)
	return nil
}
