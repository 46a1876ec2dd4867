package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"fxmig/common"
	"fxmig/config"
	"fxmig/engine"
	"fxmig/state"
)

// Run is the action of migrate command: fxmig migrate SOURCE [DESTINATION].
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Logger().Named("migrate")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src, err = filepath.Abs(src); err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) != 0 {
		if dst, err = filepath.Abs(dst); err != nil {
			return err
		}
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	if err := applyFlags(cmd, env, log); err != nil {
		return err
	}

	log.Info("Migration starting",
		zap.String("source", src),
		zap.String("destination", dst),
		zap.Stringer("target", env.Target),
		zap.Stringer("run_id", env.RunID))
	defer func(start time.Time) {
		log.Info("Migration completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	stats := &StatisticsReporter{}
	m := NewMigrator(env, src, dst)
	m.AddObserver(stats)
	m.AddObserver(newLogReporter(log))
	if !env.NoProgress {
		m.AddObserver(NewProgressReporter(os.Stdout, config.IsTerminal(os.Stdout)))
	}

	err = m.Migrate(ctx)

	stats.Stats.Log(log)
	if !env.NoProgress {
		printStatistics(os.Stdout, &stats.Stats, log)
	}
	if err != nil {
		return err
	}
	if stats.Stats.Failed > 0 {
		return fmt.Errorf("unable to migrate %d file(s)", stats.Stats.Failed)
	}
	return nil
}

// applyFlags puts command line settings into environment, command line takes
// precedence over configuration.
func applyFlags(cmd *cli.Command, env *state.LocalEnv, log *zap.Logger) error {
	mc := &env.Cfg.Migration

	env.Target = mc.Target
	if cmd.IsSet("target") {
		target, err := common.ParseTarget(cmd.String("target"))
		if err != nil {
			return fmt.Errorf("unknown conversion target requested: %w", err)
		}
		env.Target = target
	}
	if cmd.IsSet("concurrency") {
		n := int(cmd.Int("concurrency"))
		if n < 1 {
			log.Warn("Wrong concurrency requested, using default", zap.Int("requested", n), zap.Int("default", engine.DefaultConcurrency))
			n = engine.DefaultConcurrency
		}
		mc.Concurrency = n
	}
	if cmd.IsSet("files-concurrency") {
		if n := int(cmd.Int("files-concurrency")); n > 0 {
			mc.FilesConcurrency = n
		}
	}
	env.Overwrite = mc.Overwrite || cmd.Bool("overwrite")
	env.NoFormat = cmd.Bool("noformat")
	env.NoProgress = cmd.Bool("noprogress")
	return nil
}

func printStatistics(w io.Writer, s *Statistics, log *zap.Logger) {
	if err := s.Print(w); err != nil {
		log.Debug("Unable to print statistics", zap.Error(err))
	}
}

// logReporter mirrors notifications into log.
type logReporter struct {
	log *zap.Logger
}

func newLogReporter(log *zap.Logger) *logReporter {
	return &logReporter{log: log.Named("events")}
}

func (r *logReporter) Update(event Event, data EventData) {
	switch event {
	case EventFilePreparationProgress, EventFileMigrationProgress:
		// too chatty even for debug
	case EventFileFailed:
		r.log.Warn("File failed", zap.String("file", data.ID), zap.Error(data.Err))
	case EventFileIgnored:
		r.log.Debug("File ignored", zap.String("file", data.ID), zap.String("reason", data.Reason))
	case EventFileCompleted:
		r.log.Debug(string(event), zap.String("file", data.ID), zap.String("output", data.Output),
			zap.Int("converted", data.Converted), zap.Int("skipped", data.Skipped))
	default:
		id := data.ID
		if id == "" {
			id = data.FolderName
		}
		r.log.Debug(string(event), zap.String("id", id))
	}
}
