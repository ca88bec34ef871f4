package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"time"
)

// BuildArchive assembles the successful outcomes into a single in-memory ZIP.
// Entries sit under one top-level folder named containerName and are stored
// without compression: the payload is already-compressed imagery, so
// deflating it again burns CPU for nothing. Failed outcomes are skipped with
// no placeholder; the archive is simply smaller.
func BuildArchive(outcomes []Outcome, containerName string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	now := time.Now()

	for _, out := range outcomes {
		if !out.OK() {
			continue
		}

		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     containerName + "/" + out.FileName,
			Method:   zip.Store,
			Modified: now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create archive entry %q: %w", out.FileName, err)
		}
		if _, err := w.Write(out.Data); err != nil {
			return nil, fmt.Errorf("failed to write archive entry %q: %w", out.FileName, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize archive: %w", err)
	}

	return buf.Bytes(), nil
}
