package export

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	storage_go "github.com/supabase-community/storage-go"
	"go.uber.org/zap"

	"github.com/CodeGza/alma-fotografia/internal/errs"
)

// Fetcher downloads a single photo's bytes with a hard per-item deadline.
// Plain HTTP sources go through an http.Client; sources living in the
// portal's own Supabase bucket go through the storage client so private
// buckets work too. Either way the contract is the same: at most one attempt,
// failures become typed outcomes, and nothing ever panics.
type Fetcher struct {
	client   *http.Client
	timeout  time.Duration
	maxBytes int64
	logger   *zap.Logger

	sb         *storage_go.Client
	projectURL string
	bucket     string
}

func NewFetcher(timeout time.Duration, maxBytes int64, logger *zap.Logger) *Fetcher {
	return &Fetcher{
		// Timeout is enforced per request via context, not on the client,
		// so a shared client can serve batches with different deadlines.
		client:   &http.Client{},
		timeout:  timeout,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// WithSupabase enables authenticated downloads for photos stored in the
// portal's Supabase bucket. projectURL is the project base URL without the
// /storage/v1 suffix.
func (f *Fetcher) WithSupabase(client *storage_go.Client, projectURL, bucket string) *Fetcher {
	f.sb = client
	f.projectURL = strings.TrimSuffix(projectURL, "/")
	f.bucket = bucket
	return f
}

// Fetch downloads one item. The returned outcome carries the precomputed
// entry name and either the full body or a typed failure.
func (f *Fetcher) Fetch(ctx context.Context, item Item) Outcome {
	out := Outcome{Index: item.Index, PhotoID: item.Photo.ID, FileName: item.FileName}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	var (
		data []byte
		err  error
	)
	if path, ok := f.storagePath(item.FetchURL); ok {
		data, err = f.fetchFromStorage(ctx, path)
	} else {
		data, err = f.fetchHTTP(ctx, item.FetchURL)
	}

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			out.Err = fmt.Errorf("%w: %s", errs.ErrFetchTimeout, item.FetchURL)
		} else {
			out.Err = fmt.Errorf("%w: %v", errs.ErrFetchFailed, err)
		}
		f.logger.Warn("Photo fetch failed",
			zap.String("photo_id", item.Photo.ID.String()),
			zap.String("url", item.FetchURL),
			zap.Error(err),
		)
		return out
	}

	out.Data = data
	return out
}

func (f *Fetcher) fetchHTTP(ctx context.Context, fetchURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		// A body read cut short by the deadline should classify as timeout.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("empty response body")
	}

	return data, nil
}

// fetchFromStorage downloads through the Supabase client, which has no
// context support of its own, so the deadline is enforced from outside.
func (f *Fetcher) fetchFromStorage(ctx context.Context, path string) ([]byte, error) {
	type result struct {
		data []byte
		err  error
	}

	ch := make(chan result, 1)
	go func() {
		data, err := f.sb.DownloadFile(f.bucket, path)
		ch <- result{data: data, err: err}
	}()

	select {
	case res := <-ch:
		if res.err != nil {
			return nil, fmt.Errorf("storage download failed: %w", res.err)
		}
		if len(res.data) == 0 {
			return nil, errors.New("empty storage object")
		}
		return res.data, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// storagePath extracts the in-bucket object path when the URL points at the
// configured Supabase bucket, for both public and authenticated object URLs.
func (f *Fetcher) storagePath(raw string) (string, bool) {
	if f.sb == nil || f.projectURL == "" || !strings.HasPrefix(raw, f.projectURL) {
		return "", false
	}

	prefixes := []string{
		f.projectURL + "/storage/v1/object/public/" + f.bucket + "/",
		f.projectURL + "/storage/v1/object/" + f.bucket + "/",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(raw, prefix) {
			return strings.TrimPrefix(raw, prefix), true
		}
	}
	return "", false
}
