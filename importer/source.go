// Package importer turns a user-selected course folder into the canonical
// course tree, regardless of which access mode produced the file listing.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"langlab_backend/models"
)

// FileEntry is one file seen by a source. RelPath is slash-separated and
// rooted at the course folder name ("course/part/file.mp4"). Ref may be nil
// when the source cannot resolve the file to a readable location.
type FileEntry struct {
	RelPath string
	Ref     *models.FileRef
}

// Source abstracts the two folder-access modes behind one listing
// capability. Import consumes only this interface.
type Source interface {
	// Name is the course root folder name.
	Name() string
	// ListFiles enumerates every file under the root.
	ListFiles(ctx context.Context) ([]FileEntry, error)
}

// ListSource is the flat-listing mode: relative paths supplied by the
// caller, as produced by a browser directory input. Files resolve to disk
// only when BaseDir is set.
type ListSource struct {
	Root    string
	Paths   []string
	BaseDir string
}

func (s *ListSource) Name() string {
	if s.Root != "" {
		return s.Root
	}
	if len(s.Paths) > 0 {
		return firstSegment(s.Paths[0])
	}
	return ""
}

func (s *ListSource) ListFiles(_ context.Context) ([]FileEntry, error) {
	entries := make([]FileEntry, 0, len(s.Paths))
	for _, p := range s.Paths {
		p = path.Clean(filepath.ToSlash(p))
		entry := FileEntry{RelPath: p}
		if s.BaseDir != "" {
			entry.Ref = &models.FileRef{
				Name: path.Base(p),
				Path: filepath.Join(s.BaseDir, filepath.FromSlash(p)),
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func firstSegment(p string) string {
	p = path.Clean(filepath.ToSlash(p))
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return p
}

// DirSource is the directory-walk mode: a course folder on disk, traversed
// one level deep into each part. Part folders are scanned concurrently; the
// resulting listing is deterministic regardless.
type DirSource struct {
	Path string
}

func (s *DirSource) Name() string {
	return filepath.Base(filepath.Clean(s.Path))
}

func (s *DirSource) ListFiles(ctx context.Context) ([]FileEntry, error) {
	root := s.Name()

	rootEntries, err := os.ReadDir(s.Path)
	if err != nil {
		return nil, wrapAccessError(err)
	}

	var (
		entries  []FileEntry
		partDirs []string
	)
	for _, e := range rootEntries {
		if e.IsDir() {
			partDirs = append(partDirs, e.Name())
			continue
		}
		// Root-level files only matter for cover detection; keep them in the
		// listing at depth two so the importer can see them.
		entries = append(entries, FileEntry{
			RelPath: path.Join(root, e.Name()),
			Ref:     &models.FileRef{Name: e.Name(), Path: filepath.Join(s.Path, e.Name())},
		})
	}
	sort.Strings(partDirs)

	var mu sync.Mutex
	perPart := make(map[string][]FileEntry, len(partDirs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, part := range partDirs {
		part := part
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			partPath := filepath.Join(s.Path, part)
			files, err := os.ReadDir(partPath)
			if err != nil {
				return wrapAccessError(err)
			}
			var out []FileEntry
			for _, f := range files {
				if f.IsDir() {
					// Entries deeper than root/part/file are ignored.
					continue
				}
				out = append(out, FileEntry{
					RelPath: path.Join(root, part, f.Name()),
					Ref:     &models.FileRef{Name: f.Name(), Path: filepath.Join(partPath, f.Name())},
				})
			}
			mu.Lock()
			perPart[part] = out
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, part := range partDirs {
		entries = append(entries, perPart[part]...)
	}
	return entries, nil
}

func wrapAccessError(err error) error {
	if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", models.ErrPermissionDenied, err)
	}
	return err
}
