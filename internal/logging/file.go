package logging

import (
	"io"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	fileWritersMu sync.Mutex
	fileWriters   = map[string]*lumberjack.Logger{}
)

// FileWriter returns a size-rotated writer for path. Writers are shared per
// path so repeated commands in one process append to the same file.
func FileWriter(path string) io.Writer {
	fileWritersMu.Lock()
	defer fileWritersMu.Unlock()

	if w, ok := fileWriters[path]; ok {
		return w
	}
	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	fileWriters[path] = w
	return w
}

// CloseFiles closes every writer handed out by FileWriter.
func CloseFiles() error {
	fileWritersMu.Lock()
	defer fileWritersMu.Unlock()

	var first error
	for path, w := range fileWriters {
		if err := w.Close(); err != nil && first == nil {
			first = err
		}
		delete(fileWriters, path)
	}
	return first
}
