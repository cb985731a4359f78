package internal

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/studiofuga/qmapcontrol-llar/formulas"
	"github.com/studiofuga/qmapcontrol-llar/internal/build"
	"github.com/studiofuga/qmapcontrol-llar/internal/config"
	"github.com/studiofuga/qmapcontrol-llar/internal/formula"
	"github.com/studiofuga/qmapcontrol-llar/mod/versions"
)

// loadTarget loads the embedded QMapControl recipe and its versions table.
func loadTarget() (*build.Target, error) {
	f, err := formula.LoadDir(formulas.FS, formulas.Main)
	if err != nil {
		return nil, fmt.Errorf("failed to load formula: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	data, err := formulas.FS.ReadFile(formulas.Main + "/versions.json")
	if err != nil {
		return nil, err
	}
	vers, err := versions.Parse("", data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse versions.json: %w", err)
	}
	return &build.Target{Formula: f, SourceDir: flags.source, Versions: vers}, nil
}

// loadProfile reads the profile and applies the -o overrides.
func loadProfile() (*config.Profile, error) {
	profile, err := config.Load(flags.profile)
	if err != nil {
		return nil, err
	}
	opts, err := config.ParseOptions(flags.options)
	if err != nil {
		return nil, err
	}
	return profile.WithOptions(opts), nil
}

// newSession returns a builder configured from the flags together with the
// recipe target.
func newSession(cmd *cobra.Command) (*build.Builder, *build.Target, error) {
	profile, err := loadProfile()
	if err != nil {
		return nil, nil, err
	}
	target, err := loadTarget()
	if err != nil {
		return nil, nil, err
	}
	var stdout, stderr io.Writer
	if flags.verbose {
		stdout, stderr = cmd.OutOrStdout(), cmd.ErrOrStderr()
	}
	builder, err := build.NewBuilder(build.Options{
		WorkspaceDir: flags.workspace,
		Profile:      profile,
		Logger:       logger,
		Stdout:       stdout,
		Stderr:       stderr,
		Force:        flags.force,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create builder: %w", err)
	}
	return builder, target, nil
}

// printResult writes the consumer flags of a packaged result.
func printResult(w io.Writer, res *build.Result) {
	if res.Metadata != "" {
		fmt.Fprintln(w, res.Metadata)
	}
}
