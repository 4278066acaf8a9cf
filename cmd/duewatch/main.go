package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"duewatch/internal/config"
	"duewatch/internal/evaluator"
	"duewatch/internal/habits"
	"duewatch/internal/ledger"
	"duewatch/internal/notify"
	"duewatch/internal/storage"
	"duewatch/internal/tasks"
	"duewatch/internal/update"
)

const version = "0.1.0"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "duewatch: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		dbPath     string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "duewatch",
		Short: "Deadline-aware tasks, habits, and focus sessions in the terminal",
		Long: `Duewatch keeps tasks, habits, and a focus timer in one TUI. A background
evaluator polls the task list against the clock, fires each reminder at
most once per schedule, and bumps missed tasks to high priority.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, dbPath, logLevel)
			if err != nil {
				return err
			}
			return runTUI(cfg)
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path (default ~/.config/duewatch/config.yaml)")
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "override database path")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(checkCmd(&configPath, &dbPath, &logLevel))
	cmd.AddCommand(migrateCmd(&configPath, &dbPath, &logLevel))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("duewatch %s\n", version)
		},
	})

	return cmd
}

func checkCmd(configPath, dbPath, logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Run one evaluator pass and print firings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, *dbPath, *logLevel)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runCheck(ctx, cfg, cmd.OutOrStdout())
		},
	}
}

func migrateCmd(configPath, dbPath, logLevel *string) *cobra.Command {
	var down bool
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath, *dbPath, *logLevel)
			if err != nil {
				return err
			}
			repo, err := openRepository(cfg.DBPath)
			if err != nil {
				return err
			}
			defer repo.Close()
			if down {
				if err := storage.MigrateDown(repo.DB()); err != nil {
					return fmt.Errorf("migrate down: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "migrations rolled back")
				return nil
			}
			if err := storage.MigrateUp(repo.DB()); err != nil {
				return fmt.Errorf("migrate up: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
	cmd.Flags().BoolVar(&down, "down", false, "roll the schema back instead of forward")
	return cmd
}

func loadConfig(configPath, dbPath, logLevel string) (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, err
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return f, nil
}

func openRepository(path string) (*storage.SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	repo, err := storage.OpenSQLite(path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	return repo, nil
}

func runTUI(cfg config.Config) error {
	logFile, err := openLogFile(cfg.LogPath)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	repo, err := openRepository(cfg.DBPath)
	if err != nil {
		return err
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}

	led, err := ledger.OpenFile(cfg.LedgerPath)
	if err != nil {
		return fmt.Errorf("open ledger %s: %w", cfg.LedgerPath, err)
	}

	taskSvc := tasks.NewService(repo)
	habitSvc := habits.NewService(repo)

	alerts := notify.NewChannel(cfg.EventBuffer)
	var notifier notify.Notifier = alerts
	if cfg.DesktopNotifications {
		notifier = notify.NewMulti(alerts, notify.NewDesktop())
	}

	eval := evaluator.New(taskSvc, led, notifier, evaluator.SystemClock(), logger, evaluator.Config{
		ReminderGrace: cfg.ReminderGrace(),
		MissedGrace:   cfg.MissedGrace(),
	})
	loop := evaluator.NewLoop(eval, cfg.Tick(), logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	loop.Start(ctx)
	defer loop.Stop()

	model := update.NewModelWithRuntime(update.Runtime{
		Tasks:             taskSvc,
		Habits:            habitSvc,
		Loop:              loop,
		Eval:              eval,
		Alerts:            alerts,
		FocusWorkMinutes:  cfg.FocusWorkMins,
		FocusBreakMinutes: cfg.FocusBreakMins,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithReportFocus())
	logger.Info("duewatch starting", "version", version, "db", cfg.DBPath, "tick", cfg.Tick())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}

func runCheck(ctx context.Context, cfg config.Config, out io.Writer) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	repo, err := openRepository(cfg.DBPath)
	if err != nil {
		return err
	}
	defer repo.Close()
	if err := storage.MigrateUp(repo.DB()); err != nil {
		return fmt.Errorf("migrate up: %w", err)
	}

	led, err := ledger.OpenFile(cfg.LedgerPath)
	if err != nil {
		return fmt.Errorf("open ledger %s: %w", cfg.LedgerPath, err)
	}

	alerts := notify.NewChannel(cfg.EventBuffer)
	var notifier notify.Notifier = alerts
	if cfg.DesktopNotifications {
		notifier = notify.NewMulti(alerts, notify.NewDesktop())
	}

	taskSvc := tasks.NewService(repo)
	eval := evaluator.New(taskSvc, led, notifier, evaluator.SystemClock(), logger, evaluator.Config{
		ReminderGrace: cfg.ReminderGrace(),
		MissedGrace:   cfg.MissedGrace(),
	})

	sum := eval.Scan(ctx)
	fired := 0
	for {
		select {
		case ev := <-alerts.C():
			fired++
			switch ev.Kind {
			case notify.KindOnboarding:
				fmt.Fprintln(out, "notice: desktop notifications are unavailable; enable them to get reminders outside this terminal")
			case notify.KindEscalation:
				fmt.Fprintf(out, "escalated: %s (%s) missed %s %s, priority raised to high\n", ev.Title, ev.TaskID, ev.Due, ev.Time)
			default:
				fmt.Fprintf(out, "reminder: %s (%s) due %s %s, lead %dm\n", ev.Title, ev.TaskID, ev.Due, ev.Time, ev.RemindMins)
			}
		default:
			fmt.Fprintf(out, "checked %d task(s): %d reminder(s), %d escalation(s)\n", sum.Evaluated, sum.Reminders, sum.Escalations)
			if fired == 0 {
				fmt.Fprintln(out, "nothing to fire")
			}
			return nil
		}
	}
}
