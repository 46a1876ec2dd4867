package convert

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"fxmig/common"
	"fxmig/config"
	"fxmig/state"
)

func newTestMigrator(env *state.LocalEnv, src, dst string) (*Migrator, *eventRecorder) {
	rec := &eventRecorder{}
	m := NewMigrator(env, src, dst)
	m.AddObserver(rec)
	return m, rec
}

func TestMigrator_SingleFile(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := filepath.Join(t.TempDir(), "page.html")
	writeFile(t, src, `<section fxLayout="row" fxLayoutGap="8px"><div fxFlex></div></section>`)
	dst := t.TempDir()

	m, rec := newTestMigrator(env, src, dst)
	if err := m.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	want := `<section class="flex flex-row gap-[8px]"><div class="flex-initial"></div></section>`
	if got := readFile(t, filepath.Join(dst, "page.html")); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
	if got := readFile(t, src); !strings.Contains(got, "fxLayout") {
		t.Errorf("source must not be modified: %s", got)
	}

	wantEvents := []Event{EventRunStarted, EventFileStarted, EventFileCompleted, EventRunCompleted}
	if got := rec.filtered(); !reflect.DeepEqual(got, wantEvents) {
		t.Errorf("events = %v, want %v", got, wantEvents)
	}
	// two elements, each reported in both phases
	if n := rec.count(EventFilePreparationProgress); n != 2 {
		t.Errorf("preparation progress reported %d times, want 2", n)
	}
	if n := rec.count(EventFileMigrationProgress); n != 2 {
		t.Errorf("migration progress reported %d times, want 2", n)
	}
	data, _ := rec.find(EventFileCompleted)
	if data.Converted != 3 || data.TotalElements != 2 || data.FileName != "page.html" {
		t.Errorf("fileCompleted data = %+v", data)
	}
	if data.RunID != env.RunID.String() {
		t.Errorf("RunID = %s, want %s", data.RunID, env.RunID)
	}
}

func TestMigrator_SingleFileToFile(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := filepath.Join(t.TempDir(), "page.html")
	writeFile(t, src, `<div fxFlexFill></div>`)
	dst := filepath.Join(t.TempDir(), "out", "renamed.html")

	m, _ := newTestMigrator(env, src, dst)
	if err := m.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if got := readFile(t, dst); got != `<div class="w-full min-w-full h-full min-h-full"></div>` {
		t.Errorf("got %s", got)
	}
}

func TestMigrator_NoElements(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := filepath.Join(t.TempDir(), "plain.html")
	writeFile(t, src, `<div class="card">nothing here</div>`)
	dst := t.TempDir()

	m, rec := newTestMigrator(env, src, dst)
	if err := m.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if exists(filepath.Join(dst, "plain.html")) {
		t.Error("template without layout attributes must not be written")
	}
	wantEvents := []Event{EventRunStarted, EventFileStarted, EventFileNoElements, EventRunCompleted}
	if got := rec.filtered(); !reflect.DeepEqual(got, wantEvents) {
		t.Errorf("events = %v, want %v", got, wantEvents)
	}
}

func TestMigrator_ExistingOutput(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := filepath.Join(t.TempDir(), "page.html")
	writeFile(t, src, `<div fxLayout></div>`)
	dst := t.TempDir()
	writeFile(t, filepath.Join(dst, "page.html"), "keep")

	m, rec := newTestMigrator(env, src, dst)
	err := m.Migrate(ctx)
	if err == nil || !strings.Contains(err.Error(), "output file already exists") {
		t.Fatalf("Migrate() error = %v", err)
	}
	data, ok := rec.find(EventFileFailed)
	if !ok || data.Err == nil {
		t.Errorf("fileFailed was not reported: %+v", data)
	}
	if got := readFile(t, filepath.Join(dst, "page.html")); got != "keep" {
		t.Errorf("existing file was modified: %s", got)
	}

	env.Overwrite = true
	m, _ = newTestMigrator(env, src, dst)
	if err := m.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() with overwrite error = %v", err)
	}
	if got := readFile(t, filepath.Join(dst, "page.html")); got != `<div class="flex flex-row"></div>` {
		t.Errorf("got %s", got)
	}
}

func TestMigrator_UnsupportedInput(t *testing.T) {
	ctx, env := setupTestEnv(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "component.ts")
	writeFile(t, src, "export class C {}")

	m, rec := newTestMigrator(env, src, "")
	err := m.Migrate(ctx)
	if err == nil || !strings.Contains(err.Error(), "unsupported file type") {
		t.Errorf("Migrate() error = %v", err)
	}
	if rec.count(EventFileStarted) != 0 {
		t.Error("unsupported file must not be started")
	}

	m, _ = newTestMigrator(env, filepath.Join(dir, "missing.html"), "")
	if err := m.Migrate(ctx); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Migrate() error = %v, want not exist", err)
	}
}

func TestMigrator_BinaryTemplate(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := filepath.Join(t.TempDir(), "image.html")
	// PNG signature
	writeFile(t, src, "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	m, rec := newTestMigrator(env, src, t.TempDir())
	if err := m.Migrate(ctx); err == nil || !strings.Contains(err.Error(), "binary content") {
		t.Errorf("Migrate() error = %v", err)
	}
	if rec.count(EventFileFailed) != 1 {
		t.Error("binary template must be reported as failed")
	}
}

func TestMigrator_Folder(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(src, ".gitignore"), "generated/\n")
	writeFile(t, filepath.Join(src, "a.html"), `<div fxLayout="column"></div>`)
	writeFile(t, filepath.Join(src, "b.htm"), `<p>static</p>`)
	writeFile(t, filepath.Join(src, "readme.md"), `# readme`)
	writeFile(t, filepath.Join(src, "sub", "c.html"), `<div fxFlexOrder="2"></div>`)
	writeFile(t, filepath.Join(src, "sub", "skip.spec.html"), `<div fxFlexOrder="2"></div>`)
	writeFile(t, filepath.Join(src, "generated", "d.html"), `<div fxFlexOrder="2"></div>`)
	env.Cfg.Migration.Ignore = []string{"*.spec.html"}

	m, rec := newTestMigrator(env, src, dst)
	if err := m.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	if got := readFile(t, filepath.Join(dst, "a.html")); got != `<div class="flex flex-col"></div>` {
		t.Errorf("a.html = %s", got)
	}
	if got := readFile(t, filepath.Join(dst, "sub", "c.html")); got != `<div class="order-2"></div>` {
		t.Errorf("sub/c.html = %s", got)
	}
	for _, name := range []string{"b.htm", "readme.md", "sub/skip.spec.html", "generated/d.html"} {
		if exists(filepath.Join(dst, filepath.FromSlash(name))) {
			t.Errorf("%s must not be written", name)
		}
	}

	wantEvents := []Event{
		EventRunStarted,
		EventFolderStarted,
		EventFileStarted, EventFileCompleted, // a.html
		EventFileStarted, EventFileNoElements, // b.htm
		EventFolderStarted,
		EventFileIgnored,                     // sub/skip.spec.html
		EventFileStarted, EventFileCompleted, // sub/c.html
		EventFolderCompleted,
		EventFolderCompleted,
		EventRunCompleted,
	}
	if got := rec.filtered(); !reflect.DeepEqual(got, wantEvents) {
		t.Errorf("events = %v\nwant %v", got, wantEvents)
	}
	if data, _ := rec.find(EventFolderStarted); data.ID != src {
		t.Errorf("first folder = %s, want %s", data.ID, src)
	}
}

func TestMigrator_FolderInPlace(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "x", "a.html"), `<div fxLayoutAlign="center center"></div>`)
	env.Cfg.Migration.FilesConcurrency = 4

	m, _ := newTestMigrator(env, src, "")
	if err := m.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if got := readFile(t, filepath.Join(src, "x", "a.html")); got != `<div class="justify-center items-center"></div>` {
		t.Errorf("got %s", got)
	}
}

func TestMigrator_FolderOutputInsideInput(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := t.TempDir()
	dst := filepath.Join(src, "out")
	writeFile(t, filepath.Join(src, "a.html"), `<div fxLayout></div>`)
	writeFile(t, filepath.Join(dst, "old.html"), `<div fxLayout></div>`)

	m, rec := newTestMigrator(env, src, dst)
	if err := m.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if n := rec.count(EventFileCompleted); n != 1 {
		t.Errorf("completed %d files, output directory must be skipped", n)
	}
	if !exists(filepath.Join(dst, "a.html")) {
		t.Error("a.html was not written")
	}
}

func TestMigrator_FolderFailuresContinue(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(src, "1.html"), `<div fxLayout></div>`)
	writeFile(t, filepath.Join(src, "2.html"), `<div fxLayout></div>`)
	writeFile(t, filepath.Join(src, "10.html"), `<div fxLayout></div>`)
	writeFile(t, filepath.Join(dst, "2.html"), `existing`)

	m, rec := newTestMigrator(env, src, dst)
	if err := m.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if rec.count(EventFileFailed) != 1 || rec.count(EventFileCompleted) != 2 {
		t.Errorf("failed = %d, completed = %d", rec.count(EventFileFailed), rec.count(EventFileCompleted))
	}

	var order []string
	for i, e := range rec.events {
		if e == EventFileStarted {
			order = append(order, rec.data[i].FileName)
		}
	}
	if want := []string{"1.html", "2.html", "10.html"}; !reflect.DeepEqual(order, want) {
		t.Errorf("files order = %v, want %v", order, want)
	}
}

func TestMigrator_FolderCancelled(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := t.TempDir()
	writeFile(t, filepath.Join(src, "a.html"), `<div fxLayout></div>`)

	cancelCtx, cancel := context.WithCancel(ctx)
	cancel()
	m, rec := newTestMigrator(env, src, t.TempDir())
	if err := m.Migrate(cancelCtx); !errors.Is(err, context.Canceled) {
		t.Errorf("Migrate() error = %v, want context.Canceled", err)
	}
	if rec.count(EventFileCompleted) != 0 {
		t.Error("no file must be migrated after cancellation")
	}
	if rec.count(EventRunCompleted) != 1 {
		t.Error("run must always be completed")
	}
}

func TestMigrator_OutputNameTemplate(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(src, "a.html"), `<div fxLayout></div>`)
	writeFile(t, filepath.Join(src, "Sub Dir", "My Page.html"), `<div fxLayout></div>`)
	env.Cfg.Migration.OutputNameTemplate = `{{ .Dir }}/{{ .Name | lower }}.{{ .Target }}`
	env.Cfg.Migration.FileNameTransliterate = true

	m, _ := newTestMigrator(env, src, dst)
	if err := m.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	for _, name := range []string{"a-tailwind.html", "sub-dir/my-page-tailwind.html"} {
		if !exists(filepath.Join(dst, filepath.FromSlash(name))) {
			t.Errorf("%s was not written", name)
		}
	}
}

func TestMigrator_PlainCSS(t *testing.T) {
	ctx, env := setupTestEnv(t)
	env.Target = common.TargetPlainCss
	src := filepath.Join(t.TempDir(), "page.html")
	writeFile(t, src, `<div fxLayout="row" fxLayout.md="column"></div>`)

	m, rec := newTestMigrator(env, src, "")
	if err := m.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	// breakpoint variants cannot be expressed with inline declarations
	want := `<div fxLayout.md="column" style="display: flex; flex-direction: row;"></div>`
	if got := readFile(t, src); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
	if data, _ := rec.find(EventFileCompleted); data.Converted != 1 {
		t.Errorf("Converted = %d, want 1", data.Converted)
	}
}

func TestMigrator_Extensions(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(src, "a.html"), `<div fxLayout></div>`)
	writeFile(t, filepath.Join(src, "b.htm"), `<div fxLayout></div>`)
	env.Cfg.Migration.Extensions = []string{".HTM", ".vue"}

	m, _ := newTestMigrator(env, src, dst)
	if err := m.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if exists(filepath.Join(dst, "a.html")) || !exists(filepath.Join(dst, "b.htm")) {
		t.Error("only .htm templates must be migrated")
	}

	env.Cfg.Migration.Extensions = []string{".vue"}
	m, _ = newTestMigrator(env, src, dst)
	if err := m.Migrate(ctx); err == nil {
		t.Error("Migrate() must fail when no extension is supported")
	}
}

func createTemplateZip(t *testing.T, entries map[string]string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "templates.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	for name, content := range entries {
		f, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file in zip: %v", err)
		}
		if _, err := f.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write to zip: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return zipPath
}

func TestMigrator_Archive(t *testing.T) {
	ctx, env := setupTestEnv(t)
	zipPath := createTemplateZip(t, map[string]string{
		"src/app/page.html":      `<div fxLayout="column"></div>`,
		"src/app/page.ts":        `export class Page {}`,
		"src/app/page.spec.html": `<div fxLayout></div>`,
	})
	env.Cfg.Migration.Ignore = []string{"*.spec.html"}
	dst := t.TempDir()

	m, rec := newTestMigrator(env, zipPath, dst)
	if err := m.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if got := readFile(t, filepath.Join(dst, "src", "app", "page.html")); got != `<div class="flex flex-col"></div>` {
		t.Errorf("got %s", got)
	}
	if rec.count(EventFileIgnored) != 1 || rec.count(EventFolderStarted) != 1 || rec.count(EventFolderCompleted) != 1 {
		t.Errorf("events = %v", rec.filtered())
	}
	data, _ := rec.find(EventFileCompleted)
	if data.ID != zipPath+":src/app/page.html" {
		t.Errorf("ID = %s", data.ID)
	}
}

func TestMigrator_ArchiveRequiresDestination(t *testing.T) {
	ctx, env := setupTestEnv(t)
	zipPath := createTemplateZip(t, map[string]string{"a.html": `<div fxLayout></div>`})

	m, _ := newTestMigrator(env, zipPath, "")
	if err := m.Migrate(ctx); err == nil || !strings.Contains(err.Error(), "destination directory is required") {
		t.Errorf("Migrate() error = %v", err)
	}
}

func TestMigrator_RemoveObserver(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src := t.TempDir()

	m, rec := newTestMigrator(env, src, "")
	m.RemoveObserver(rec)
	if err := m.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if len(rec.events) != 0 {
		t.Errorf("removed observer received %d events", len(rec.events))
	}
}

func TestMigrator_DebugReport(t *testing.T) {
	ctx, env := setupTestEnv(t)
	src, dst := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(src, "app", "page.html"), `<div fxLayout="row"><span>text</span></div>`)

	reportPath := filepath.Join(t.TempDir(), "report.zip")
	rpt, err := (&config.ReporterConfig{Destination: reportPath}).Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	env.Rpt = rpt

	m, _ := newTestMigrator(env, src, dst)
	if err := m.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if err := rpt.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	zr, err := zip.OpenReader(reportPath)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()

	names := make(map[string]*zip.File)
	for _, f := range zr.File {
		names[f.Name] = f
	}
	for _, want := range []string{"source/app-page.html", "result/app-page.html", "tree/app/page.html.txt"} {
		if _, ok := names[want]; !ok {
			t.Errorf("report misses %s, has %v", want, reflect.ValueOf(names).MapKeys())
		}
	}

	if f, ok := names["tree/app/page.html.txt"]; ok {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open tree: %v", err)
		}
		defer rc.Close()
		var sb strings.Builder
		if _, err := io.Copy(&sb, rc); err != nil {
			t.Fatalf("unable to read tree: %v", err)
		}
		if !strings.Contains(sb.String(), "<div> *") || !strings.Contains(sb.String(), `@class: "flex flex-row"`) {
			t.Errorf("unexpected tree:\n%s", sb.String())
		}
	}
}

func TestFolderMigrator_UnreadableDirectory(t *testing.T) {
	ctx, env := setupTestEnv(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "sub", "a.html"), `<div fxLayout></div>`)

	newFolderMigrator := func(failing string) (*FolderMigrator, *eventRecorder) {
		rec := &eventRecorder{}
		subject := NewSubject(env.Log)
		subject.AddObserver(rec)
		return &FolderMigrator{
			migration:        &migration{subject: subject, env: env, log: env.Log},
			root:             root,
			dst:              root,
			filesConcurrency: 1,
			listDir: func(dir string) ([]os.DirEntry, error) {
				if dir == failing {
					return nil, fs.ErrPermission
				}
				return os.ReadDir(dir)
			},
		}, rec
	}

	// input directory itself aborts the run
	fm, rec := newFolderMigrator(root)
	err := fm.Migrate(ctx)
	if !errors.Is(err, fs.ErrPermission) || !strings.Contains(err.Error(), "unable to read input directory") {
		t.Errorf("Migrate() error = %v", err)
	}
	if rec.count(EventFolderCompleted) != 0 {
		t.Error("unreadable input directory must not be reported completed")
	}

	// nested directory is skipped, walk continues
	fm, rec = newFolderMigrator(filepath.Join(root, "sub"))
	if err := fm.Migrate(ctx); err != nil {
		t.Errorf("Migrate() error = %v", err)
	}
	if rec.count(EventFolderCompleted) != 2 || rec.count(EventFileStarted) != 0 {
		t.Errorf("unexpected events: %v", rec.filtered())
	}
}

func TestMigrator_UnreadableInputDirectoryFailsRun(t *testing.T) {
	ctx, env := setupTestEnv(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.html"), `<div fxLayout></div>`)

	m, rec := newTestMigrator(env, root, "")
	m.listDir = func(string) ([]os.DirEntry, error) { return nil, fs.ErrPermission }
	if err := m.Migrate(ctx); err == nil || !errors.Is(err, fs.ErrPermission) {
		t.Errorf("Migrate() error = %v, want permission error", err)
	}
	if rec.count(EventRunCompleted) != 1 {
		t.Error("run must be reported completed")
	}
	if got := readFile(t, filepath.Join(root, "a.html")); got != `<div fxLayout></div>` {
		t.Errorf("file must not be touched: %s", got)
	}
}

func TestMigrator_UnitlessValuesPerTarget(t *testing.T) {
	tests := []struct {
		target common.Target
		want   string
	}{
		{common.TargetTailwind, `<div class="flex flex-row gap-4"><span class="ml-4"></span></div>`},
		{common.TargetPlainCss, `<div style="display: flex; flex-direction: row; gap: 4px;"><span style="margin-left: 4%;"></span></div>`},
	}
	for _, tt := range tests {
		t.Run(tt.target.String(), func(t *testing.T) {
			ctx, env := setupTestEnv(t)
			env.Target = tt.target
			src := filepath.Join(t.TempDir(), "page.html")
			writeFile(t, src, `<div fxLayout="row" fxLayoutGap="4"><span fxFlexOffset="4"></span></div>`)

			m, _ := newTestMigrator(env, src, "")
			if err := m.Migrate(ctx); err != nil {
				t.Fatalf("Migrate() error = %v", err)
			}
			if got := readFile(t, src); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}
