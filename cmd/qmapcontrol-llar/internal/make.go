package internal

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var makeOutput string

var makeCmd = &cobra.Command{
	Use:   "make",
	Short: "Build and package QMapControl",
	Long:  `Make builds and packages QMapControl, optionally exporting the package to a directory or .zip file.`,
	Args:  cobra.NoArgs,
	RunE:  runMake,
}

func init() {
	makeCmd.Flags().StringVar(&makeOutput, "output", "", "Output path (directory or .zip file)")
	rootCmd.AddCommand(makeCmd)
}

func runMake(cmd *cobra.Command, args []string) error {
	// Resolve output path to absolute before build
	output := makeOutput
	if output != "" {
		abs, err := filepath.Abs(output)
		if err != nil {
			return fmt.Errorf("failed to resolve output path: %w", err)
		}
		output = abs
	}

	builder, target, err := newSession(cmd)
	if err != nil {
		return err
	}
	res, err := builder.Make(cmd.Context(), target)
	if err != nil {
		return err
	}
	printResult(cmd.OutOrStdout(), res)

	if output != "" {
		if err := outputResult(res.OutputDir, output); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		logger.Info().Str("output", output).Msg("exported package")
	}
	return nil
}

// outputResult writes the build output to dest.
// If dest ends with ".zip", creates a zip archive; otherwise copies the directory.
func outputResult(srcDir, dest string) error {
	if strings.HasSuffix(dest, ".zip") {
		return zipDir(srcDir, dest)
	}
	return os.CopyFS(dest, os.DirFS(srcDir))
}

// zipDir creates a zip archive at dest from the contents of srcDir.
func zipDir(srcDir, dest string) error {
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if err := writeZip(f, srcDir); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// writeZip writes the regular files under srcDir to out as a zip archive.
// The archive is only complete once its central directory is written, so
// the error of closing the zip writer is returned too.
func writeZip(out io.Writer, srcDir string) error {
	w := zip.NewWriter(out)
	err := filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		writer, err := w.CreateHeader(header)
		if err != nil {
			return err
		}
		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()
		_, err = io.Copy(writer, file)
		return err
	})
	if err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
