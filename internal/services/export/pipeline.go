package export

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/CodeGza/alma-fotografia/internal/errs"
	"github.com/CodeGza/alma-fotografia/pkg/utils"
)

// Normalizer post-processes fetched bytes (re-encode to JPEG, bound the
// width). Applied only to items the CDN did not already transform. Must be
// best-effort: on anything unexpected it returns its input.
type Normalizer interface {
	Normalize(data []byte) []byte
}

// Options tunes a pipeline run. Zero values fall back to the defaults below.
type Options struct {
	BatchSize int
	Deadline  time.Duration
}

const (
	defaultBatchSize = 20
	defaultDeadline  = 60 * time.Second
)

// Pipeline runs a full export: authorize, enumerate, resolve, fetch in
// batches, assemble. It holds no per-request state; every call runs the whole
// sequence from scratch.
type Pipeline struct {
	galleries  GalleryStore
	photos     PhotoStore
	fetcher    ItemFetcher
	resolver   *Resolver
	normalizer Normalizer
	logger     *zap.Logger
	opts       Options
}

func NewPipeline(
	galleries GalleryStore,
	photos PhotoStore,
	fetcher ItemFetcher,
	resolver *Resolver,
	normalizer Normalizer,
	logger *zap.Logger,
	opts Options,
) *Pipeline {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.Deadline <= 0 {
		opts.Deadline = defaultDeadline
	}
	return &Pipeline{
		galleries:  galleries,
		photos:     photos,
		fetcher:    fetcher,
		resolver:   resolver,
		normalizer: normalizer,
		logger:     logger,
		opts:       opts,
	}
}

// Export runs the pipeline for one request and returns the materialized
// archive. Validation, not-found and policy failures abort before any fetch
// is attempted; individual fetch failures only shrink the archive.
func (p *Pipeline) Export(ctx context.Context, req Request) (*Result, error) {
	if req.GalleryID == uuid.Nil {
		return nil, errs.Validation("gallery id is required")
	}

	started := time.Now()
	exportID := uuid.New()
	logger := p.logger.With(
		zap.String("export_id", exportID.String()),
		zap.String("gallery_id", req.GalleryID.String()),
	)

	gallery, err := p.galleries.GetGallery(ctx, req.GalleryID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(gallery, req.Pin); err != nil {
		return nil, err
	}

	photos, err := p.photos.ListPhotos(ctx, req.GalleryID, req.PhotoIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list photos: %w", err)
	}
	if len(photos) == 0 {
		return nil, errs.ErrNoPhotos
	}

	base := utils.ArchiveBaseName(gallery.Slug, gallery.Title)

	items := make([]Item, len(photos))
	for i, photo := range photos {
		items[i] = Item{
			Photo:    photo,
			Index:    i,
			FetchURL: p.resolver.Resolve(photo.SourceURL),
			FileName: utils.EntryName(base, i),
		}
	}

	logger.Info("Starting gallery export",
		zap.String("gallery", base),
		zap.Int("photos", len(items)),
		zap.Int("batch_size", p.opts.BatchSize),
	)

	runCtx, cancel := context.WithTimeout(ctx, p.opts.Deadline)
	defer cancel()

	outcomes := runBatches(runCtx, logger, items, p.opts.BatchSize, p.fetchItem)
	if runCtx.Err() != nil {
		return nil, fmt.Errorf("%w after %s", errs.ErrExportTimeout, time.Since(started).Round(time.Millisecond))
	}

	exported := 0
	for _, out := range outcomes {
		if out.OK() {
			exported++
		}
	}
	if exported == 0 {
		// Every fetch failed. An empty archive would look like a successful
		// download, so this surfaces as an internal failure instead.
		return nil, errs.ErrNothingFetched
	}

	data, err := BuildArchive(outcomes, base)
	if err != nil {
		return nil, fmt.Errorf("archive assembly failed: %w", err)
	}

	elapsed := time.Since(started)
	logger.Info("Gallery export finished",
		zap.Int("photos", len(items)),
		zap.Int("exported", exported),
		zap.Int("archive_bytes", len(data)),
		zap.Duration("elapsed", elapsed),
	)

	return &Result{
		ExportID:    exportID,
		FileName:    base + ".zip",
		Data:        data,
		Size:        len(data),
		PhotoCount:  len(items),
		Exported:    exported,
		GallerySlug: base,
		Elapsed:     elapsed,
	}, nil
}

// fetchItem fetches one item and normalizes the bytes when the CDN did not
// already do it. Normalizing inside the batch worker keeps at most batchSize
// oversized bodies resident at any moment.
func (p *Pipeline) fetchItem(ctx context.Context, item Item) Outcome {
	out := p.fetcher.Fetch(ctx, item)
	if out.OK() && p.normalizer != nil && !p.resolver.Optimized(item.FetchURL) {
		out.Data = p.normalizer.Normalize(out.Data)
	}
	return out
}
