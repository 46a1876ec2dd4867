package convert

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"go.uber.org/zap"
)

// Statistics of a single run.
type Statistics struct {
	Folders    int
	Files      int
	NoElements int
	Failed     int
	Ignored    int
	Elements   int
	Attributes int
	Skipped    int
	Start      time.Time
	End        time.Time
}

func (s *Statistics) Duration() time.Duration {
	if s.End.IsZero() || s.Start.IsZero() {
		return 0
	}
	return s.End.Sub(s.Start)
}

// StatisticsReporter aggregates statistics from migration notifications.
type StatisticsReporter struct {
	Stats Statistics
}

func (r *StatisticsReporter) Update(event Event, data EventData) {
	s := &r.Stats
	switch event {
	case EventRunStarted:
		s.Start = time.Now()
	case EventRunCompleted:
		s.End = time.Now()
	case EventFolderCompleted:
		s.Folders++
	case EventFileCompleted:
		s.Files++
		s.Elements += data.TotalElements
		s.Attributes += data.Converted
		s.Skipped += data.Skipped
	case EventFileNoElements:
		s.NoElements++
	case EventFileFailed:
		s.Failed++
	case EventFileIgnored:
		s.Ignored++
	}
}

func (s *Statistics) rows() [][]string {
	return [][]string{
		{"Folders processed", strconv.Itoa(s.Folders)},
		{"Files migrated", strconv.Itoa(s.Files)},
		{"Files without layout attributes", strconv.Itoa(s.NoElements)},
		{"Files ignored", strconv.Itoa(s.Ignored)},
		{"Files failed", strconv.Itoa(s.Failed)},
		{"Elements", strconv.Itoa(s.Elements)},
		{"Attributes converted", strconv.Itoa(s.Attributes)},
		{"Attributes skipped", strconv.Itoa(s.Skipped)},
		{"Duration", s.Duration().Round(time.Millisecond).String()},
	}
}

// Print renders statistics table.
func (s *Statistics) Print(w io.Writer) error {
	data := append([][]string{{"Migration statistics", ""}}, s.rows()...)
	out, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("unable to render statistics: %w", err)
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// Log writes statistics as a single structured entry.
func (s *Statistics) Log(log *zap.Logger) {
	log.Info("Migration statistics",
		zap.Int("folders", s.Folders),
		zap.Int("files", s.Files),
		zap.Int("no_elements", s.NoElements),
		zap.Int("ignored", s.Ignored),
		zap.Int("failed", s.Failed),
		zap.Int("elements", s.Elements),
		zap.Int("attributes", s.Attributes),
		zap.Int("skipped", s.Skipped),
		zap.Duration("elapsed", s.Duration()),
	)
}
