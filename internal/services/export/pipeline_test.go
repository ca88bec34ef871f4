package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/CodeGza/alma-fotografia/internal/errs"
	"github.com/CodeGza/alma-fotografia/internal/models"
)

type fakeGalleries struct {
	gallery *models.Gallery
	err     error
}

func (f *fakeGalleries) GetGallery(ctx context.Context, id uuid.UUID) (*models.Gallery, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.gallery, nil
}

type fakePhotos struct {
	photos []models.Photo
	err    error
}

func (f *fakePhotos) ListPhotos(ctx context.Context, galleryID uuid.UUID, subset []uuid.UUID) ([]models.Photo, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(subset) == 0 {
		return f.photos, nil
	}
	wanted := make(map[uuid.UUID]struct{}, len(subset))
	for _, id := range subset {
		wanted[id] = struct{}{}
	}
	var out []models.Photo
	for _, p := range f.photos {
		if _, ok := wanted[p.ID]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// fakeFetcher counts calls and fails the configured indexes.
type fakeFetcher struct {
	calls int64
	fail  map[int]error
}

func (f *fakeFetcher) Fetch(ctx context.Context, item Item) Outcome {
	atomic.AddInt64(&f.calls, 1)
	out := Outcome{Index: item.Index, PhotoID: item.Photo.ID, FileName: item.FileName}
	if err, ok := f.fail[item.Index]; ok {
		out.Err = err
		return out
	}
	out.Data = []byte(fmt.Sprintf("photo-%d", item.Index))
	return out
}

func testGallery() *models.Gallery {
	return &models.Gallery{
		ID:             uuid.New(),
		Title:          "Boda María",
		Slug:           "boda-maria",
		AllowDownloads: true,
	}
}

func testPhotos(galleryID uuid.UUID, n int) []models.Photo {
	photos := make([]models.Photo, n)
	for i := range photos {
		photos[i] = models.Photo{
			ID:           uuid.New(),
			GalleryID:    galleryID,
			DisplayOrder: i,
			SourceURL:    fmt.Sprintf("https://images.example.com/photo-%d.jpg", i),
		}
	}
	return photos
}

func newTestPipeline(galleries *fakeGalleries, photos *fakePhotos, fetcher *fakeFetcher) *Pipeline {
	return NewPipeline(
		galleries,
		photos,
		fetcher,
		NewResolver("res.cloudinary.com"),
		nil,
		zap.NewNop(),
		Options{BatchSize: 2},
	)
}

func entryNames(t *testing.T, data []byte) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func TestPipelineHappyPath(t *testing.T) {
	g := testGallery()
	fetcher := &fakeFetcher{}
	p := newTestPipeline(
		&fakeGalleries{gallery: g},
		&fakePhotos{photos: testPhotos(g.ID, 3)},
		fetcher,
	)

	result, err := p.Export(context.Background(), Request{GalleryID: g.ID})
	require.NoError(t, err)

	assert.Equal(t, "boda-maria.zip", result.FileName)
	assert.Equal(t, 3, result.PhotoCount)
	assert.Equal(t, 3, result.Exported)
	assert.Equal(t, len(result.Data), result.Size)
	assert.NotEqual(t, uuid.Nil, result.ExportID)

	assert.Equal(t, []string{
		"boda-maria/boda-maria-001.jpg",
		"boda-maria/boda-maria-002.jpg",
		"boda-maria/boda-maria-003.jpg",
	}, entryNames(t, result.Data))
}

func TestPipelinePartialFailure(t *testing.T) {
	g := testGallery()
	fetcher := &fakeFetcher{fail: map[int]error{1: errs.ErrFetchTimeout}}
	p := newTestPipeline(
		&fakeGalleries{gallery: g},
		&fakePhotos{photos: testPhotos(g.ID, 3)},
		fetcher,
	)

	result, err := p.Export(context.Background(), Request{GalleryID: g.ID})
	require.NoError(t, err, "a single timed-out photo must not fail the export")

	assert.Equal(t, 2, result.Exported)
	assert.Equal(t, []string{
		"boda-maria/boda-maria-001.jpg",
		"boda-maria/boda-maria-003.jpg",
	}, entryNames(t, result.Data))
}

func TestPipelineAllFetchesFailed(t *testing.T) {
	g := testGallery()
	fetcher := &fakeFetcher{fail: map[int]error{
		0: errs.ErrFetchFailed,
		1: errs.ErrFetchTimeout,
		2: errs.ErrFetchFailed,
	}}
	p := newTestPipeline(
		&fakeGalleries{gallery: g},
		&fakePhotos{photos: testPhotos(g.ID, 3)},
		fetcher,
	)

	_, err := p.Export(context.Background(), Request{GalleryID: g.ID})
	assert.ErrorIs(t, err, errs.ErrNothingFetched)
}

func TestPipelineAccessDeniedBeforeAnyFetch(t *testing.T) {
	g := testGallery()
	g.AllowDownloads = false
	fetcher := &fakeFetcher{}
	p := newTestPipeline(
		&fakeGalleries{gallery: g},
		&fakePhotos{photos: testPhotos(g.ID, 3)},
		fetcher,
	)

	_, err := p.Export(context.Background(), Request{GalleryID: g.ID})
	assert.ErrorIs(t, err, errs.ErrDownloadsDisabled)
	assert.EqualValues(t, 0, atomic.LoadInt64(&fetcher.calls))
}

func TestPipelineWrongPinBeforeAnyFetch(t *testing.T) {
	g := testGallery()
	g.DownloadPin = "1234"
	fetcher := &fakeFetcher{}
	p := newTestPipeline(
		&fakeGalleries{gallery: g},
		&fakePhotos{photos: testPhotos(g.ID, 3)},
		fetcher,
	)

	_, err := p.Export(context.Background(), Request{GalleryID: g.ID, Pin: "9999"})
	assert.ErrorIs(t, err, errs.ErrInvalidPin)
	assert.EqualValues(t, 0, atomic.LoadInt64(&fetcher.calls))
}

func TestPipelineUnknownGallery(t *testing.T) {
	fetcher := &fakeFetcher{}
	p := newTestPipeline(
		&fakeGalleries{err: errs.ErrGalleryNotFound},
		&fakePhotos{},
		fetcher,
	)

	_, err := p.Export(context.Background(), Request{GalleryID: uuid.New()})
	assert.ErrorIs(t, err, errs.ErrGalleryNotFound)
	assert.EqualValues(t, 0, atomic.LoadInt64(&fetcher.calls))
}

func TestPipelineEmptyGallery(t *testing.T) {
	g := testGallery()
	fetcher := &fakeFetcher{}
	p := newTestPipeline(
		&fakeGalleries{gallery: g},
		&fakePhotos{},
		fetcher,
	)

	_, err := p.Export(context.Background(), Request{GalleryID: g.ID})
	assert.ErrorIs(t, err, errs.ErrNoPhotos)
	assert.EqualValues(t, 0, atomic.LoadInt64(&fetcher.calls))
}

func TestPipelineMissingGalleryID(t *testing.T) {
	p := newTestPipeline(&fakeGalleries{}, &fakePhotos{}, &fakeFetcher{})

	_, err := p.Export(context.Background(), Request{})
	assert.True(t, errs.IsValidation(err))
}

func TestPipelineSubsetKeepsDisplayOrder(t *testing.T) {
	g := testGallery()
	photos := testPhotos(g.ID, 4)
	fetcher := &fakeFetcher{}
	p := newTestPipeline(
		&fakeGalleries{gallery: g},
		&fakePhotos{photos: photos},
		fetcher,
	)

	// Subset deliberately out of display order; numbering must follow the
	// filtered list's display order, not the subset's order.
	req := Request{
		GalleryID: g.ID,
		PhotoIDs:  []uuid.UUID{photos[3].ID, photos[0].ID},
	}
	result, err := p.Export(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 2, result.PhotoCount)
	assert.Equal(t, []string{
		"boda-maria/boda-maria-001.jpg",
		"boda-maria/boda-maria-002.jpg",
	}, entryNames(t, result.Data))
}

func TestPipelineNameFallbacks(t *testing.T) {
	tests := []struct {
		name  string
		slug  string
		title string
		want  string
	}{
		{"slug preferred", "boda-maria", "Boda María", "boda-maria.zip"},
		{"title fallback", "", "Boda María", "boda-mara.zip"},
		{"default fallback", "", "", "galeria.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testGallery()
			g.Slug = tt.slug
			g.Title = tt.title
			p := newTestPipeline(
				&fakeGalleries{gallery: g},
				&fakePhotos{photos: testPhotos(g.ID, 1)},
				&fakeFetcher{},
			)

			result, err := p.Export(context.Background(), Request{GalleryID: g.ID})
			require.NoError(t, err)
			assert.Equal(t, tt.want, result.FileName)
		})
	}
}

type markingNormalizer struct{}

func (markingNormalizer) Normalize(data []byte) []byte {
	return append([]byte("normalized:"), data...)
}

func TestPipelineNormalizesOnlyUnoptimizedSources(t *testing.T) {
	g := testGallery()
	photos := []models.Photo{
		{ID: uuid.New(), GalleryID: g.ID, DisplayOrder: 0, SourceURL: "https://res.cloudinary.com/almafoto/image/upload/v1/a.png"},
		{ID: uuid.New(), GalleryID: g.ID, DisplayOrder: 1, SourceURL: "https://images.example.com/b.png"},
	}

	p := NewPipeline(
		&fakeGalleries{gallery: g},
		&fakePhotos{photos: photos},
		&fakeFetcher{},
		NewResolver("res.cloudinary.com"),
		markingNormalizer{},
		zap.NewNop(),
		Options{BatchSize: 2},
	)

	result, err := p.Export(context.Background(), Request{GalleryID: g.ID})
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(result.Data), int64(result.Size))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	readEntry := func(f *zip.File) string {
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(body)
	}

	// CDN-transformed source comes back already normalized; the other one
	// goes through the local normalizer.
	assert.Equal(t, "photo-0", readEntry(zr.File[0]))
	assert.Equal(t, "normalized:photo-1", readEntry(zr.File[1]))
}
