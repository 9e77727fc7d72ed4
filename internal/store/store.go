// Package store holds the combined rows of every uploaded report.
package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/orderlens/internal/parser"
)

// Source records the outcome of loading one file.
type Source struct {
	ID   string `json:"id" yaml:"id"`
	Path string `json:"path" yaml:"path"`
	Rows int    `json:"rows" yaml:"rows"`
	Err  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Failed reports whether the file was skipped.
func (s Source) Failed() bool { return s.Err != "" }

// Store is the row set of one upload. It is replaced wholesale, never merged.
type Store struct {
	Headers []string
	Rows    []parser.Row
	Sources []Source
}

// Empty returns an empty store.
func Empty() *Store { return &Store{} }

// Len is the number of data rows across all sources.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Rows)
}

// Failed lists the sources that could not be parsed.
func (s *Store) Failed() []Source {
	var out []Source
	for _, src := range s.Sources {
		if src.Failed() {
			out = append(out, src)
		}
	}
	return out
}

// Load parses paths and concatenates their rows in argument order. Files are
// parsed concurrently. The header list is taken from the first file that
// parses; later files are assumed to share it and are looked up by name. A
// file that fails is logged and skipped.
func Load(paths []string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	type result struct {
		tbl *parser.Table
		err error
	}
	results := make([]result, len(paths))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range paths {
		g.Go(func() error {
			tbl, err := parser.ParseFile(p)
			results[i] = result{tbl: tbl, err: err}
			return nil
		})
	}
	_ = g.Wait()

	s := &Store{}
	haveHeader := false
	for i, p := range paths {
		src := Source{ID: uuid.NewString(), Path: p}
		tbl, err := results[i].tbl, results[i].err
		if err != nil {
			src.Err = err.Error()
			s.Sources = append(s.Sources, src)
			logger.Warn("report parse failed", "source", src.ID, "file", p, "index", i, "error", err)
			continue
		}
		if !haveHeader {
			s.Headers = tbl.Headers()
			haveHeader = true
		}
		src.Rows = len(tbl.Rows)
		s.Rows = append(s.Rows, tbl.Rows...)
		s.Sources = append(s.Sources, src)
		logger.Debug("report loaded", "source", src.ID, "file", p, "rows", src.Rows, "columns", tbl.Header.Len())
	}
	return s
}

// Expand resolves glob patterns (including "**") to a de-duplicated list of
// files. Patterns keep their argument order; the matches of one pattern are
// sorted. Arguments that match nothing but exist are kept literally.
func Expand(patterns []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, pat := range patterns {
		matches, err := doublestar.FilepathGlob(pat)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pat, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pat); err == nil {
				matches = []string{pat}
			}
		}
		sort.Strings(matches)
		for _, m := range matches {
			if info, err := os.Stat(m); err != nil || info.IsDir() {
				continue
			}
			m = filepath.Clean(m)
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	return files, nil
}
