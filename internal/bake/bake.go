// Package bake generates passes headlessly, writes them to disk and records
// them in the bake index.
package bake

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"procplanet/internal/bakeindex"
	"procplanet/internal/export"
	"procplanet/internal/pipeline"
	"procplanet/internal/seed"
)

// Options configures a Baker.
type Options struct {
	OutDir string
	Export export.Options
	// Force re-exports passes whose digest is already indexed.
	Force   bool
	Workers int
}

// Result describes one baked request.
type Result struct {
	Request pipeline.Request
	Digest  string
	Dir     string
	Files   []string
	Skipped bool
}

// Baker runs bake jobs. The index may be nil to disable recording.
type Baker struct {
	deriver *seed.Deriver
	index   *bakeindex.Index
	opts    Options
	log     *slog.Logger
}

// New constructs a Baker.
func New(deriver *seed.Deriver, index *bakeindex.Index, opts Options, log *slog.Logger) *Baker {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Export.Format == "" {
		opts.Export.Format = export.PNG
	}
	return &Baker{deriver: deriver, index: index, opts: opts, log: log}
}

// Bake generates req, then exports and records it unless the index already
// holds the same digest exported with the same format and dumps setting.
func (b *Baker) Bake(ctx context.Context, req pipeline.Request) (Result, error) {
	p := pipeline.New(pipeline.Options{Deriver: b.deriver, Logger: b.log})
	pass, err := p.Regenerate(ctx, req)
	if err != nil {
		return Result{Request: req}, err
	}
	res := Result{
		Request: req,
		Digest:  pass.Digest(),
		Dir:     filepath.Join(b.opts.OutDir, Slug(pass.Settings.Seed, int(pass.Resolution))),
	}

	format, dumps := string(b.opts.Export.Format), b.opts.Export.Dumps
	if b.index != nil && !b.opts.Force {
		prev, ok, err := b.index.Lookup(ctx, res.Digest)
		if err != nil {
			return res, err
		}
		if ok && prev.Covers(format, dumps) {
			b.log.Info("already baked", "seed", pass.Settings.Seed, "digest", res.Digest[:12], "dir", prev.OutDir)
			res.Dir = prev.OutDir
			res.Skipped = true
			return res, nil
		}
	}

	if res.Files, err = export.WritePass(res.Dir, pass, b.opts.Export); err != nil {
		return res, fmt.Errorf("export %s: %w", res.Dir, err)
	}
	if b.index != nil {
		if err := b.index.Record(ctx, bakeindex.EntryFor(pass, res.Dir, format, dumps)); err != nil {
			return res, err
		}
	}
	b.log.Info("baked", "seed", pass.Settings.Seed, "res", int(pass.Resolution), "files", len(res.Files), "dir", res.Dir)
	return res, nil
}

// Run bakes every request with up to Workers passes in flight. Results keep
// the order of reqs.
func (b *Baker) Run(ctx context.Context, reqs []pipeline.Request) ([]Result, error) {
	out := make([]Result, len(reqs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)
	for i, req := range reqs {
		g.Go(func() error {
			r, err := b.Bake(ctx, req)
			out[i] = r
			if err != nil {
				return fmt.Errorf("bake %q: %w", req.Seed, err)
			}
			return nil
		})
	}
	return out, g.Wait()
}

// Slug turns a seed and resolution into a directory name.
func Slug(s string, res int) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	name := strings.TrimSuffix(sb.String(), "-")
	if name == "" {
		name = "planet"
	}
	return fmt.Sprintf("%s-%d", name, res)
}
