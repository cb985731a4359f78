package internal

import (
	"github.com/spf13/cobra"
)

var packageCmd = &cobra.Command{
	Use:   "package",
	Short: "Install a built QMapControl into the workspace",
	Long:  `Package installs the result of a previous build and prints the flags consumers link with.`,
	Args:  cobra.NoArgs,
	RunE:  runPackage,
}

func init() {
	rootCmd.AddCommand(packageCmd)
}

func runPackage(cmd *cobra.Command, args []string) error {
	builder, target, err := newSession(cmd)
	if err != nil {
		return err
	}
	res, err := builder.Package(cmd.Context(), target)
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), res)
	return nil
}
