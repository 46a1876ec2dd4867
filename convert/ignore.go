package convert

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	ignore "github.com/sabhiram/go-gitignore"
	"go.uber.org/zap"
)

// IgnoreFilter decides which paths under input root are skipped. Rules come
// from .gitignore at the root and from configured patterns, both use gitignore
// syntax. Version control and dependency directories are always skipped.
type IgnoreFilter struct {
	rules []*ignore.GitIgnore
}

var alwaysIgnored = []string{".git/", ".hg/", ".svn/", "node_modules/"}

// NewIgnoreFilter prepares filter for directory root.
func NewIgnoreFilter(root string, useGitignore bool, patterns []string, log *zap.Logger) (*IgnoreFilter, error) {
	f := &IgnoreFilter{rules: []*ignore.GitIgnore{ignore.CompileIgnoreLines(alwaysIgnored...)}}

	if useGitignore {
		name := filepath.Join(root, ".gitignore")
		gi, err := ignore.CompileIgnoreFile(name)
		switch {
		case err == nil:
			log.Debug("Using ignore rules", zap.String("file", name))
			f.rules = append(f.rules, gi)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("unable to read ignore rules: %w", err)
		}
	}
	if len(patterns) > 0 {
		f.rules = append(f.rules, ignore.CompileIgnoreLines(patterns...))
	}
	return f, nil
}

// Ignored checks path relative to input root, dir should be set for
// directories.
func (f *IgnoreFilter) Ignored(rel string, dir bool) bool {
	if f == nil || rel == "" || rel == "." {
		return false
	}
	rel = filepath.ToSlash(rel)
	if dir {
		rel += "/"
	}
	for _, gi := range f.rules {
		if gi.MatchesPath(rel) {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}
