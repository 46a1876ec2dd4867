package convert

import (
	"fmt"
	"io"

	"github.com/pterm/pterm"
)

// ProgressReporter shows migration progress on console: a spinner for the
// whole run and a line for every finished file and folder.
type ProgressReporter struct {
	w       io.Writer
	animate bool
	spinner *pterm.SpinnerPrinter

	started, finished int
}

// NewProgressReporter returns reporter writing to w. Spinner is only
// animated when requested, it requires terminal.
func NewProgressReporter(w io.Writer, animate bool) *ProgressReporter {
	return &ProgressReporter{w: w, animate: animate}
}

func (p *ProgressReporter) Update(event Event, data EventData) {
	switch event {
	case EventRunStarted:
		p.start(fmt.Sprintf("Migrating %s", data.FileName))
	case EventFolderStarted:
		p.status(fmt.Sprintf("Migrating directory: %s", data.FolderName))
	case EventFileStarted:
		p.started++
		p.status(fmt.Sprintf("Migrating file: %s", data.FileName))
	case EventFilePreparationProgress:
		p.status(fmt.Sprintf("Preparing %s: %d%% (%d elements)", data.FileName, data.Percentage, data.ProcessedElements))
	case EventFileMigrationProgress:
		p.status(fmt.Sprintf("Migrating %s: %d%% (%d elements)", data.FileName, data.Percentage, data.ProcessedElements))
	case EventFileCompleted:
		p.finished++
		p.println(pterm.Success, fmt.Sprintf("Migrated file: %s (%d attributes)", data.FileName, data.Converted))
	case EventFileNoElements:
		p.finished++
		p.println(pterm.Info, fmt.Sprintf("Nothing to migrate: %s", data.FileName))
	case EventFileFailed:
		p.finished++
		p.println(pterm.Error, fmt.Sprintf("Unable to migrate file: %s: %v", data.FileName, data.Err))
	case EventFolderCompleted:
		p.println(pterm.Success, fmt.Sprintf("Migrated directory: %s", data.FolderName))
	case EventRunCompleted:
		p.stop()
	}
}

func (p *ProgressReporter) start(text string) {
	if !p.animate {
		return
	}
	sp, err := pterm.DefaultSpinner.WithWriter(p.w).WithRemoveWhenDone().Start(text)
	if err == nil {
		p.spinner = sp
	}
}

func (p *ProgressReporter) status(text string) {
	if p.spinner == nil {
		return
	}
	p.spinner.UpdateText(fmt.Sprintf("[%d/%d] %s", p.finished, p.started, text))
}

func (p *ProgressReporter) println(printer pterm.PrefixPrinter, text string) {
	printer.WithWriter(p.w).Println(text)
}

func (p *ProgressReporter) stop() {
	if p.spinner == nil {
		return
	}
	_ = p.spinner.Stop()
	p.spinner = nil
}
