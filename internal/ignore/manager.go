// Package ignore suggests and appends ignore-file entries for sensitive
// paths found in a work tree.
package ignore

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	gitignore "github.com/sabhiram/go-gitignore"

	"github.com/corpeningc/gitassist/internal/logging"
	"github.com/corpeningc/gitassist/internal/scan"
)

const DefaultFile = ".gitignore"

type Manager struct {
	Root     string
	File     string
	Patterns *scan.Patterns
}

func (m *Manager) Path() string {
	name := m.File
	if name == "" {
		name = DefaultFile
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(m.Root, name)
}

// Existing returns the ignore file's lines, trimmed, with blanks and
// comments removed. A missing file yields no lines.
func (m *Manager) Existing() ([]string, error) {
	data, err := os.ReadFile(m.Path())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read ignore file: %w", err)
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}

// Suggest walks the work tree and returns sensitive paths that the ignore
// file neither lists verbatim nor already covers with a pattern. The
// result is sorted.
func (m *Manager) Suggest(ctx context.Context) ([]string, error) {
	existing, err := m.Existing()
	if err != nil {
		return nil, err
	}
	listed := make(map[string]struct{}, len(existing))
	for _, line := range existing {
		listed[strings.TrimPrefix(line, "/")] = struct{}{}
	}
	covered := gitignore.CompileIgnoreLines(existing...)

	var (
		mu          sync.Mutex
		suggestions []string
	)

	err = fastwalk.Walk(nil, m.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logging.FromContext(ctx).Debug("skipping unreadable path", logging.FieldPath, path, logging.FieldError, err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(m.Root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if !m.Patterns.MatchPath(rel) {
			return nil
		}
		if _, ok := listed[rel]; ok || covered.MatchesPath(rel) {
			return nil
		}

		mu.Lock()
		suggestions = append(suggestions, rel)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", m.Root, err)
	}

	slices.Sort(suggestions)
	return slices.Compact(suggestions), nil
}

// Append adds entries to the end of the ignore file, one per line, creating
// the file if needed. Existing content is never rewritten and entries that
// are already listed are skipped. It returns the entries actually written.
func (m *Manager) Append(entries []string) ([]string, error) {
	existing, err := m.Existing()
	if err != nil {
		return nil, err
	}
	listed := make(map[string]struct{}, len(existing))
	for _, line := range existing {
		listed[line] = struct{}{}
	}

	var fresh []string
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if _, ok := listed[entry]; ok {
			continue
		}
		listed[entry] = struct{}{}
		fresh = append(fresh, entry)
	}
	if len(fresh) == 0 {
		return nil, nil
	}

	path := m.Path()
	needsNewline, err := missingTrailingNewline(path)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if needsNewline {
		buf.WriteByte('\n')
	}
	for _, entry := range fresh {
		buf.WriteString(entry)
		buf.WriteByte('\n')
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open ignore file: %w", err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("append ignore file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close ignore file: %w", err)
	}
	return fresh, nil
}

func missingTrailingNewline(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("open ignore file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}

	last := make([]byte, 1)
	if _, err := f.ReadAt(last, info.Size()-1); err != nil {
		return false, fmt.Errorf("read ignore file: %w", err)
	}
	return last[0] != '\n', nil
}
