package convert

import (
	"archive/zip"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"fxmig/archive"
	"fxmig/state"
)

// Migrator dispatches migration of a single input: template file, directory
// or zip archive with templates.
type Migrator struct {
	subject *Subject
	env     *state.LocalEnv
	log     *zap.Logger

	src string
	// dst is output file or directory, empty means migrate in place.
	dst string

	listDir func(string) ([]os.DirEntry, error)
}

func NewMigrator(env *state.LocalEnv, src, dst string) *Migrator {
	log := env.Logger().Named("migrate")
	return &Migrator{
		subject: NewSubject(log),
		env:     env,
		log:     log,
		src:     src,
		dst:     dst,
	}
}

func (m *Migrator) AddObserver(o Observer) {
	m.subject.AddObserver(o)
}

func (m *Migrator) RemoveObserver(o Observer) {
	m.subject.RemoveObserver(o)
}

// Migrate returns error when input cannot be migrated at all. Failures of
// individual templates inside directory or archive are only reported with
// notifications.
func (m *Migrator) Migrate(ctx context.Context) error {
	fi, err := os.Stat(m.src)
	if err != nil {
		return fmt.Errorf("unable to access input: %w", err)
	}

	cfg := m.env.Cfg
	reg, exts, err := newRegistry(m.env.Target, cfg.Migration.Extensions, m.log)
	if err != nil {
		return err
	}
	mg := &migration{
		subject:     m.subject,
		reg:         reg,
		exts:        exts,
		env:         m.env,
		log:         m.log,
		concurrency: cfg.Migration.Concurrency,
		overwrite:   m.env.Overwrite,
	}

	runID := m.env.RunID.String()
	m.subject.notify(EventRunStarted, EventData{ID: runID, RunID: runID, FileName: m.src, Output: m.dst})
	defer func(start time.Time) {
		m.subject.notify(EventRunCompleted, EventData{ID: runID, RunID: runID, FileName: m.src, Output: m.dst, Elapsed: time.Since(start)})
	}(time.Now())

	switch {
	case fi.IsDir():
		return m.migrateDir(ctx, mg)
	case fi.Mode().IsRegular():
		isArchive, err := isArchiveFile(m.src)
		if err != nil {
			return fmt.Errorf("unable to check archive type: %w", err)
		}
		if isArchive {
			return m.migrateArchive(ctx, mg)
		}
		return m.migrateFile(ctx, mg)
	}
	return fmt.Errorf("unsupported input type: %s", m.src)
}

func (m *Migrator) migrateFile(ctx context.Context, mg *migration) error {
	if !supportedExtension(mg.exts, m.src) {
		return fmt.Errorf("unsupported file type: %s", m.src)
	}
	mg.render = renderOptions(filepath.Dir(m.src), &m.env.Cfg.Format, m.env.NoFormat, m.log)

	rel := filepath.Base(m.src)
	var output string
	switch {
	case m.dst == "":
		output = buildOutputPath(rel, filepath.Dir(m.src), m.env)
	case supportedExtension(mg.exts, m.dst) && !isDir(m.dst):
		output = m.dst
	default:
		output = buildOutputPath(rel, m.dst, m.env)
	}
	return newFileMigrator(mg, m.src, rel, output).Migrate(ctx)
}

func (m *Migrator) migrateDir(ctx context.Context, mg *migration) error {
	cfg := &m.env.Cfg.Migration
	filter, err := NewIgnoreFilter(m.src, cfg.UseGitignore, cfg.Ignore, m.log)
	if err != nil {
		return err
	}
	mg.render = renderOptions(m.src, &m.env.Cfg.Format, m.env.NoFormat, m.log)

	dst := m.dst
	if dst == "" {
		dst = m.src
	}
	fm := &FolderMigrator{
		migration:        mg,
		root:             m.src,
		dst:              dst,
		filter:           filter,
		filesConcurrency: cfg.FilesConcurrency,
		listDir:          m.listDir,
	}
	return fm.Migrate(ctx)
}

// migrateArchive migrates templates packed in zip archive into destination
// directory keeping their relative paths. Archive itself is never modified.
func (m *Migrator) migrateArchive(ctx context.Context, mg *migration) error {
	if m.dst == "" {
		return errors.New("destination directory is required for archive input")
	}
	if fi, err := os.Stat(m.dst); err == nil && !fi.IsDir() {
		return fmt.Errorf("destination must be a directory for archive input: %s", m.dst)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("unable to access destination: %w", err)
	}

	cfg := &m.env.Cfg.Migration
	filter, err := NewIgnoreFilter("", false, cfg.Ignore, m.log)
	if err != nil {
		return err
	}
	mg.render = renderOptions(m.dst, &m.env.Cfg.Format, m.env.NoFormat, m.log)

	data := EventData{ID: m.src, RunID: mg.runID(), FolderName: filepath.Base(m.src)}
	m.subject.notify(EventFolderStarted, data)
	defer m.subject.notify(EventFolderCompleted, data)

	count := 0
	err = archive.Walk(ctx, m.src, "", func(arc string, f *zip.File) error {
		name := f.Name
		rel := filepath.FromSlash(name)
		id := arc + ":" + name
		switch {
		case !supportedExtension(mg.exts, name):
			m.log.Debug("Skipping file in archive, not a template", zap.String("archive", arc), zap.String("file", name))
			return nil
		case filter.Ignored(name, false):
			mg.subject.notify(EventFileIgnored, EventData{ID: id, RunID: mg.runID(), FileName: filepath.Base(rel), Reason: "ignore rules"})
			return nil
		}

		count++
		fileMigrator := &FileMigrator{
			migration: mg,
			id:        id,
			rel:       rel,
			output:    buildOutputPath(rel, m.dst, m.env),
			load: func() (*Document, error) {
				raw, err := archive.ReadEntry(f)
				if err != nil {
					return nil, err
				}
				return DecodeDocument(id, raw)
			},
		}
		if err := fileMigrator.Migrate(ctx); err != nil {
			m.log.Error("Unable to migrate file in archive", zap.String("archive", arc), zap.String("file", name), zap.Error(err))
		}
		return ctx.Err()
	})
	if err != nil {
		return fmt.Errorf("unable to process archive: %w", err)
	}
	if count == 0 {
		m.log.Debug("Nothing to migrate", zap.String("archive", m.src))
	}
	return nil
}
