package convert

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"fxmig/engine"
	"fxmig/markup"
	"fxmig/state"
	dump "fxmig/utils/debug"
)

// migration holds everything file migrators of a single run share.
type migration struct {
	subject *Subject
	reg     *engine.Registry
	exts    []string
	render  markup.RenderOptions
	env     *state.LocalEnv
	log     *zap.Logger

	concurrency int
	overwrite   bool
}

func (m *migration) runID() string {
	return m.env.RunID.String()
}

// FileMigrator migrates single template.
type FileMigrator struct {
	*migration

	// id identifies template in notifications: source path, or archive path
	// joined with entry name.
	id string
	// source is a real file to read from, empty for archive entries.
	source string
	rel    string
	output string
	load   func() (*Document, error)
}

func newFileMigrator(m *migration, source, rel, output string) *FileMigrator {
	return &FileMigrator{
		migration: m,
		id:        source,
		source:    source,
		rel:       rel,
		output:    output,
		load:      func() (*Document, error) { return ReadDocument(source) },
	}
}

// Migrate converts template and writes result. Any failure is reported with
// fileFailed notification and returned.
func (fm *FileMigrator) Migrate(ctx context.Context) (rerr error) {
	name := filepath.Base(fm.rel)
	log := fm.log.With(zap.String("file", fm.id))
	fm.subject.notify(EventFileStarted, EventData{ID: fm.id, RunID: fm.runID(), FileName: name})

	log.Debug("Migration starting")
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Migration ended with panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("migration panic: %v", r)
		}
		if rerr != nil {
			fm.subject.notify(EventFileFailed, EventData{ID: fm.id, RunID: fm.runID(), FileName: name, Err: rerr, Elapsed: time.Since(start)})
		}
	}(time.Now())

	if err := ctx.Err(); err != nil {
		return err
	}

	doc, err := fm.load()
	if err != nil {
		return fmt.Errorf("unable to read template: %w", err)
	}
	log.Debug("Template loaded", zap.String("charset", doc.Charset()), zap.Int("size", len(doc.Text)))

	root, err := markup.Parse(doc.Text)
	if err != nil {
		return fmt.Errorf("unable to parse template: %w", err)
	}

	pipeline := engine.NewPipeline(fm.reg,
		engine.WithConcurrency(fm.concurrency),
		engine.WithProgress(func(p engine.Progress) {
			event := EventFileMigrationProgress
			if p.Phase == engine.PhasePrepare {
				event = EventFilePreparationProgress
			}
			fm.subject.notify(event, EventData{
				ID:                fm.id,
				RunID:             fm.runID(),
				FileName:          name,
				Percentage:        p.Percentage(),
				ProcessedElements: p.Processed,
				TotalElements:     p.Total,
			})
		}),
	)
	start := time.Now()
	res, err := pipeline.Run(ctx, root)
	if err != nil {
		return err
	}
	if res.Elements == 0 {
		log.Debug("No elements found, skipping file")
		fm.subject.notify(EventFileNoElements, EventData{ID: fm.id, RunID: fm.runID(), FileName: name})
		return nil
	}
	for _, e := range multierr.Errors(res.Errors) {
		log.Warn("Attribute was not converted", zap.Error(e))
	}

	if err := fm.checkOutput(); err != nil {
		return err
	}
	fm.storeSource()

	if err := WriteDocument(fm.output, doc, markup.RenderString(root, fm.render)); err != nil {
		return err
	}
	fm.storeResult()
	fm.storeTree(root)

	log.Info("Migration completed",
		zap.String("to", fm.output),
		zap.Int("elements", res.Elements),
		zap.Int("converted", res.Converted),
		zap.Int("skipped", res.Skipped),
		zap.Duration("elapsed", time.Since(start)))

	fm.subject.notify(EventFileCompleted, EventData{
		ID:            fm.id,
		RunID:         fm.runID(),
		FileName:      name,
		Output:        fm.output,
		TotalElements: res.Elements,
		Converted:     res.Converted,
		Skipped:       res.Skipped,
		Elapsed:       time.Since(start),
	})
	return nil
}

// checkOutput refuses to replace existing files unless allowed. Writing
// migrated template over its own source is always allowed.
func (fm *FileMigrator) checkOutput() error {
	if fm.source != "" && sameFile(fm.source, fm.output) {
		return nil
	}
	fi, err := os.Stat(fm.output)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return fmt.Errorf("unable to check output file: %w", err)
	case fi.IsDir():
		return fmt.Errorf("output path is a directory: %s", fm.output)
	case !fm.overwrite:
		return fmt.Errorf("output file already exists: %s", fm.output)
	}
	fm.log.Warn("Overwriting existing file", zap.String("file", fm.output))
	return nil
}

func (fm *FileMigrator) storeSource() {
	if fm.env.Rpt == nil || fm.source == "" {
		return
	}
	if err := fm.env.Rpt.StoreCopy(reportName("source", fm.rel), fm.source); err != nil {
		fm.log.Debug("Unable to store source in report", zap.String("file", fm.source), zap.Error(err))
	}
}

func (fm *FileMigrator) storeResult() {
	if fm.env.Rpt == nil {
		return
	}
	if err := fm.env.Rpt.StoreCopy(reportName("result", fm.rel), fm.output); err != nil {
		fm.log.Debug("Unable to store result in report", zap.String("file", fm.output), zap.Error(err))
	}
}

// storeTree saves outline of migrated tree, it shows which elements changed.
// Relative names are unique within a run.
func (fm *FileMigrator) storeTree(root *markup.Node) {
	if fm.env.Rpt == nil {
		return
	}
	fm.env.Rpt.StoreData("tree/"+filepath.ToSlash(fm.rel)+".txt", []byte(dump.Markup(root)))
}

func sameFile(a, b string) bool {
	if filepath.Clean(a) == filepath.Clean(b) {
		return true
	}
	fa, err := os.Stat(a)
	if err != nil {
		return false
	}
	fb, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(fa, fb)
}
