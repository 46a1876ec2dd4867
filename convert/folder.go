package convert

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/maruel/natural"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"fxmig/engine"
)

// FolderMigrator migrates all supported templates under root directory into
// dst keeping relative layout. When dst is root templates are migrated in
// place.
type FolderMigrator struct {
	*migration

	root   string
	dst    string
	filter *IgnoreFilter

	filesConcurrency int
	// listDir reads directory entries, os.ReadDir when not set
	listDir func(string) ([]os.DirEntry, error)
}

type folderFrame struct {
	dir  string
	done bool
}

// Migrate walks directory tree without recursion. Every folder is reported
// started before and completed after all of its content, including nested
// folders. Files of the same folder are migrated concurrently, failures of
// individual files do not stop the walk.
func (fm *FolderMigrator) Migrate(ctx context.Context) error {
	stack := engine.NewStack[folderFrame](0)
	_ = stack.Push(folderFrame{dir: fm.root})

	for !stack.Empty() {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, _ := stack.Pop()
		data := EventData{ID: f.dir, RunID: fm.runID(), FolderName: filepath.Base(f.dir)}
		if f.done {
			fm.subject.notify(EventFolderCompleted, data)
			continue
		}

		fm.subject.notify(EventFolderStarted, data)
		_ = stack.Push(folderFrame{dir: f.dir, done: true})

		files, dirs, err := fm.readDir(f.dir)
		if err != nil {
			if f.dir == fm.root {
				return fmt.Errorf("unable to read input directory: %w", err)
			}
			fm.log.Warn("Skipping directory", zap.String("dir", f.dir), zap.Error(err))
			continue
		}
		if err := fm.migrateFiles(ctx, files); err != nil {
			return err
		}
		// reversed, so subdirectories are visited in natural order
		for _, d := range slices.Backward(dirs) {
			_ = stack.Push(folderFrame{dir: d})
		}
	}
	return nil
}

// readDir returns sorted candidate templates and subdirectories to visit.
func (fm *FolderMigrator) readDir(dir string) (files, dirs []string, err error) {
	listDir := fm.listDir
	if listDir == nil {
		listDir = os.ReadDir
	}
	entries, err := listDir(dir)
	if err != nil {
		return nil, nil, err
	}
	slices.SortFunc(entries, func(a, b os.DirEntry) int {
		switch {
		case a.Name() == b.Name():
			return 0
		case natural.Less(a.Name(), b.Name()):
			return -1
		default:
			return 1
		}
	})

	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		rel, err := filepath.Rel(fm.root, path)
		if err != nil {
			return nil, nil, err
		}

		isDir := e.IsDir()
		if e.Type()&os.ModeSymlink != 0 {
			fi, err := os.Stat(path)
			if err != nil {
				fm.log.Debug("Skipping broken link", zap.String("path", path))
				continue
			}
			// links to directories are not followed to avoid cycles
			if fi.IsDir() {
				continue
			}
			isDir = false
		}

		switch {
		case isDir && fm.dst != fm.root && sameFile(path, fm.dst):
			// output nested in input
			fm.log.Debug("Skipping output directory", zap.String("dir", path))
		case isDir && fm.filter.Ignored(rel, true):
			fm.log.Debug("Skipping ignored directory", zap.String("dir", path))
		case isDir:
			dirs = append(dirs, path)
		case !supportedExtension(fm.exts, path):
			fm.log.Debug("Skipping file, not a template", zap.String("file", path))
		case fm.filter.Ignored(rel, false):
			fm.subject.notify(EventFileIgnored, EventData{ID: path, RunID: fm.runID(), FileName: e.Name(), Reason: "ignore rules"})
		default:
			files = append(files, path)
		}
	}
	return files, dirs, nil
}

func (fm *FolderMigrator) migrateFiles(ctx context.Context, files []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fm.filesConcurrency)
	for _, path := range files {
		if gctx.Err() != nil {
			break
		}
		rel, _ := filepath.Rel(fm.root, path)
		fileMigrator := newFileMigrator(fm.migration, path, rel, buildOutputPath(rel, fm.dst, fm.env))
		g.Go(func() error {
			if err := fileMigrator.Migrate(gctx); err != nil {
				fm.log.Error("Unable to migrate file", zap.String("file", path), zap.Error(err))
			}
			// only cancellation stops the walk
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
