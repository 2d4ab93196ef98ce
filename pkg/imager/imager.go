// Package imager decides which images an extraction run exports and under
// what names, then writes them as PNG files.
//
// A Registry is created per run and passed through the tree walk. Once the
// walk is done, Export rasterizes every registered asset exactly once.
package imager

import (
	"context"
	"fmt"
	"path"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"golang.org/x/sync/errgroup"

	"github.com/kataras/sketch-data-extractor/pkg/errors"
)

// ExportConfig holds configuration for the export phase.
type ExportConfig struct {
	Dir         string // folder inside the output filesystem, default "Images"
	Parallelism int    // assets rasterized concurrently; <= 1 runs sequentially
}

// ExportedAsset represents a single written PNG.
type ExportedAsset struct {
	Key      string
	Name     string // source layer name, if known
	FileName string
	Path     string // path inside the output filesystem
	Size     int    // bytes written
}

// ExportResult holds the results of an export phase.
type ExportResult struct {
	Assets []ExportedAsset
	Errors []error // non-fatal per-asset failures, in registration order
}

// Rasterizer turns a registered asset into encoded PNG bytes.
type Rasterizer interface {
	Rasterize(ctx context.Context, a *Asset) ([]byte, error)
}

// Export writes every registered asset to cfg.Dir/<export-name>.png.
//
// A failing asset is recorded in ExportResult.Errors and does not stop the
// others; already written files are left in place. Export only returns an
// error when the folder cannot be created or ctx is cancelled.
//
// Rasterizing runs cfg.Parallelism assets at a time. Writes to fs are
// serialized since a billy.Filesystem is not safe for concurrent use.
func Export(ctx context.Context, fs billy.Filesystem, reg *Registry, r Rasterizer, cfg ExportConfig) (*ExportResult, error) {
	if cfg.Dir == "" {
		cfg.Dir = "Images"
	}
	if err := fs.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.CodeFileWrite, err, "create images folder %q", cfg.Dir)
	}

	assets := reg.Assets()
	written := make([]*ExportedAsset, len(assets))
	failures := make([]error, len(assets))
	var fsMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(cfg.Parallelism, 1))

	for i, a := range assets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			data, err := r.Rasterize(gctx, a)
			if err != nil {
				failures[i] = fmt.Errorf("rasterize %s: %w", a.FileName(), err)
				return nil
			}

			dest := path.Join(cfg.Dir, a.FileName())
			fsMu.Lock()
			err = util.WriteFile(fs, dest, data, 0o644)
			fsMu.Unlock()
			if err != nil {
				failures[i] = errors.Wrap(errors.CodeFileWrite, err, "write %s", dest)
				return nil
			}

			written[i] = &ExportedAsset{
				Key:      a.Key,
				Name:     sourceName(a),
				FileName: a.FileName(),
				Path:     dest,
				Size:     len(data),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &ExportResult{}
	for i := range assets {
		if written[i] != nil {
			result.Assets = append(result.Assets, *written[i])
		}
		if failures[i] != nil {
			result.Errors = append(result.Errors, failures[i])
		}
	}
	return result, nil
}

func sourceName(a *Asset) string {
	if a.Source != nil {
		return a.Source.Name
	}
	return ""
}
