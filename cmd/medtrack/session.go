package main

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/unowned-ai/medtrack/pkg/calendar"
	"github.com/unowned-ai/medtrack/pkg/config"
	"github.com/unowned-ai/medtrack/pkg/controller"
	"github.com/unowned-ai/medtrack/pkg/datekey"
	pkgdb "github.com/unowned-ai/medtrack/pkg/db"
	"github.com/unowned-ai/medtrack/pkg/locale"
	"github.com/unowned-ai/medtrack/pkg/logger"
	"github.com/unowned-ai/medtrack/pkg/reminders"
	"github.com/unowned-ai/medtrack/pkg/utils"
)

// loadConfig reads MEDTRACK_* variables and applies the flags given on the
// command line on top of them.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		cfg.DBPath = dbPath
	}
	if flags.Changed("wal") {
		cfg.WAL = walMode
	}
	if flags.Changed("sync") {
		cfg.Sync = syncMode
	}
	if localeFlag != "" {
		cfg.Locale = localeFlag
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) zerolog.Logger {
	return logger.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}

// session is one command's view of the database: the loaded store and a
// controller that reports to the terminal.
type session struct {
	cfg    *config.Config
	log    zerolog.Logger
	db     *sql.DB
	dbPath string
	loc    *locale.Locale
	store  *reminders.Store
	ctl    *controller.Controller
	errOut io.Writer

	// notice is the last message the controller asked to show.
	notice string
}

// openSession opens (and if needed creates) the database and loads the store.
// assumeYes answers every delete confirmation without asking.
func openSession(cmd *cobra.Command, assumeYes bool) (*session, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log := newLogger(cfg)

	loc, err := locale.Lookup(cfg.Locale)
	if err != nil {
		return nil, err
	}
	path, err := utils.ResolveAndEnsureDBPath(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	dbConn, err := pkgdb.OpenDBConnection(path, cfg.WAL, cfg.Sync)
	if err != nil {
		return nil, err
	}
	if err := pkgdb.UpgradeDB(dbConn, path, pkgdb.TargetSchemaVersion, log); err != nil {
		dbConn.Close()
		return nil, err
	}

	gw := reminders.NewGateway(pkgdb.NewKV(dbConn), log)
	store, err := reminders.Open(cmd.Context(), gw, reminders.WithLogger(log))
	if err != nil {
		dbConn.Close()
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}

	s := &session{cfg: cfg, log: log, db: dbConn, dbPath: path, loc: loc, store: store, errOut: cmd.ErrOrStderr()}

	confirm := controller.ConfirmFunc(func(prompt string) bool {
		if assumeYes {
			return true
		}
		return askYesNo(cmd.InOrStdin(), cmd.ErrOrStderr(), prompt)
	})
	strip := calendar.NewStrip(calendar.NewBuilder(store.Today(), loc, cfg.Calendar), 0)
	s.ctl = controller.New(store, strip, loc,
		controller.WithConfirmer(confirm),
		controller.WithNotifier(controller.NotifyFunc(func(msg string) { s.notice = msg })),
		controller.WithLogger(log),
	)
	return s, nil
}

func (s *session) Close() error {
	return s.db.Close()
}

// run dispatches req. A declined delete is not an error; any other failure
// is returned with the message the controller produced for it.
func (s *session) run(ctx context.Context, req controller.Request) error {
	s.notice = ""
	err := s.ctl.Dispatch(ctx, req)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, controller.ErrDeclined):
		fmt.Fprintln(s.errOut, "Cancelled.")
		return nil
	case errors.Is(err, reminders.ErrPersist):
		return fmt.Errorf("%s", s.notice)
	case s.notice != "" && s.notice != err.Error():
		return fmt.Errorf("%s: %w", s.notice, err)
	default:
		return err
	}
}

// askYesNo prints prompt to out and reads one answer from in. Anything other
// than y or yes means no.
func askYesNo(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "s", "si", "sì":
		return true
	}
	return false
}

// parseDateFlag reads a YYYY-MM-DD flag value; empty means today.
func parseDateFlag(value string, today time.Time) (time.Time, error) {
	if value == "" {
		return today, nil
	}
	t, err := datekey.Parse(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", value, err)
	}
	return t, nil
}
