package scan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/go-enry/go-enry/v2"
	"golang.org/x/sync/errgroup"

	"github.com/corpeningc/gitassist/internal/logging"
)

const DefaultMaxFileSize int64 = 10 << 20

type Scanner struct {
	Root     string
	Patterns *Patterns
	// Workers bounds concurrent content reads. Zero means GOMAXPROCS.
	Workers int
	// MaxFileSize skips content scanning for larger files. Zero means
	// DefaultMaxFileSize, negative means no limit.
	MaxFileSize int64
}

// FileError is a per-file read failure. It never aborts a scan.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

type Report struct {
	// SensitiveFiles matched a path pattern.
	SensitiveFiles []string
	// SensitiveData matched a content pattern.
	SensitiveData []string
	Errors        []FileError
}

// Scan checks files, given relative to Root, against both pattern families.
// The returned lists are sorted and free of duplicates. Only context
// cancellation produces an error.
func (s *Scanner) Scan(ctx context.Context, files []string) (*Report, error) {
	logger := logging.FromContext(ctx)
	files = slices.Clone(files)
	slices.Sort(files)
	files = slices.Compact(files)

	report := &Report{}
	for _, f := range files {
		if f != "" && s.Patterns.MatchPath(f) {
			report.SensitiveFiles = append(report.SensitiveFiles, f)
		}
	}

	if !s.Patterns.HasContentPatterns() {
		return report, nil
	}

	// Each worker writes only its own slot, so no locking is needed.
	hits := make([]bool, len(files))
	errs := make([]error, len(files))

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	logger.Debug("scanning content", logging.FieldFiles, len(files), logging.FieldWorkers, workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, f := range files {
		if f == "" {
			continue
		}
		i, f := i, f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			hits[i], errs[i] = s.scanContent(f)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}

	for i, f := range files {
		if errs[i] != nil {
			logger.Warn("could not read file", logging.FieldPath, f, logging.FieldError, errs[i])
			report.Errors = append(report.Errors, FileError{Path: f, Err: errs[i]})
			continue
		}
		if hits[i] {
			report.SensitiveData = append(report.SensitiveData, f)
		}
	}
	return report, nil
}

// scanContent reads one file. Binary files, missing files, directories and
// other non-regular entries are skipped silently: a tracked path may be deleted
// in the work tree or be a submodule.
func (s *Scanner) scanContent(rel string) (bool, error) {
	full := filepath.Join(s.Root, filepath.FromSlash(rel))

	info, err := os.Lstat(full)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	if !info.Mode().IsRegular() {
		return false, nil
	}

	limit := s.MaxFileSize
	if limit == 0 {
		limit = DefaultMaxFileSize
	}
	if limit > 0 && info.Size() > limit {
		return false, nil
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return false, err
	}
	if enry.IsBinary(data) {
		return false, nil
	}
	return s.Patterns.MatchContent(data), nil
}
