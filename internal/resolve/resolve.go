// Package resolve locates installed build requirements before any build
// step runs, so a missing or mismatched dependency fails the build early.
package resolve

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/studiofuga/qmapcontrol-llar/internal/version"
	"github.com/studiofuga/qmapcontrol-llar/mod/module"
)

var (
	// ErrNotFound means no source could provide the requirement.
	ErrNotFound = errors.New("build requirement not found")
	// ErrVersionMismatch means a source provides the requirement at a
	// version that does not satisfy the pin.
	ErrVersionMismatch = errors.New("build requirement version mismatch")
)

// Found is an installed copy of a module. Version is empty when the
// source cannot tell.
type Found struct {
	Prefix  string
	Version string
}

// Source looks up installed modules. Lookup returns ErrNotFound when the
// module is absent from this source.
type Source interface {
	Name() string
	Lookup(ctx context.Context, mod module.Version) (Found, error)
}

// Resolved is a build requirement bound to an install prefix.
type Resolved struct {
	Module  module.Version
	Prefix  string
	Version string
	Source  string
}

// Resolver queries its sources in order; the first acceptable answer wins.
type Resolver struct {
	sources []Source
	log     zerolog.Logger
}

// New returns a Resolver consulting sources in the given order.
func New(log zerolog.Logger, sources ...Source) *Resolver {
	return &Resolver{sources: sources, log: log}
}

// Resolve binds every module in mods, stopping at the first one that cannot
// be resolved.
func (r *Resolver) Resolve(ctx context.Context, mods []module.Version) ([]Resolved, error) {
	out := make([]Resolved, 0, len(mods))
	for _, mod := range mods {
		res, err := r.resolveOne(ctx, mod)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, nil
}

func (r *Resolver) resolveOne(ctx context.Context, mod module.Version) (Resolved, error) {
	var mismatch error
	for _, src := range r.sources {
		found, err := src.Lookup(ctx, mod)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return Resolved{}, fmt.Errorf("resolve %s via %s: %w", mod, src.Name(), err)
		}
		if found.Version != "" && !version.Satisfies(found.Version, mod.Version) {
			r.log.Debug().
				Str("module", mod.String()).
				Str("source", src.Name()).
				Str("found", found.Version).
				Msg("skipping mismatched build requirement")
			if mismatch == nil {
				mismatch = fmt.Errorf("%s: %s has %s: %w", mod, src.Name(), found.Version, ErrVersionMismatch)
			}
			continue
		}
		if found.Version == "" {
			r.log.Warn().
				Str("module", mod.String()).
				Str("source", src.Name()).
				Str("prefix", found.Prefix).
				Msg("build requirement version unknown, trusting source")
		}
		r.log.Info().
			Str("module", mod.String()).
			Str("source", src.Name()).
			Str("prefix", found.Prefix).
			Msg("resolved build requirement")
		return Resolved{Module: mod, Prefix: found.Prefix, Version: found.Version, Source: src.Name()}, nil
	}
	if mismatch != nil {
		return Resolved{}, mismatch
	}
	return Resolved{}, fmt.Errorf("%s: %w", mod, ErrNotFound)
}
