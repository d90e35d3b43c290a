// @title			wsschedule API
// @version		1.0
// @description	Workspace autostart, autostop and quiet-hours scheduling.
// @BasePath		/api/v1

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/mtlprog/wsschedule/internal/checker"
	"github.com/mtlprog/wsschedule/internal/config"
	"github.com/mtlprog/wsschedule/internal/database"
	"github.com/mtlprog/wsschedule/internal/domain"
	"github.com/mtlprog/wsschedule/internal/handler"
	"github.com/mtlprog/wsschedule/internal/logger"
	"github.com/mtlprog/wsschedule/internal/repository"
	"github.com/mtlprog/wsschedule/internal/schedule"
	"github.com/mtlprog/wsschedule/internal/service"
)

var _ service.WorkspaceStore = (*repository.WorkspaceRepository)(nil)

const shutdownTimeout = 10 * time.Second

func main() {
	databaseFlag := &cli.StringFlag{
		Name:    "database-url",
		Aliases: []string{"d"},
		Usage:   "PostgreSQL database URL",
		EnvVars: []string{"DATABASE_URL"},
	}
	timeFlag := &cli.StringFlag{
		Name:     "time",
		Usage:    "Time of day in HH:mm (24-hour)",
		Required: true,
	}
	nowFlag := &cli.TimestampFlag{
		Name:   "now",
		Usage:  "Reference instant (RFC 3339), defaults to the current time",
		Layout: time.RFC3339,
	}

	app := &cli.App{
		Name:  "wsschedule",
		Usage: "Workspace schedule calculator and deadline service",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				EnvVars: []string{"WSSCHEDULE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   config.DefaultLogLevel,
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   config.DefaultLogFormat,
				Usage:   "Log format (json, text)",
				EnvVars: []string{"LOG_FORMAT"},
			},
		},
		Before: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			logger.Setup(logger.ParseLevel(cfg.LogLevel), cfg.LogFormat)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server and the deadline checker",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
					databaseFlag,
					&cli.StringFlag{
						Name:    "viewer-timezone",
						Value:   config.DefaultViewerTimezone,
						Usage:   "Zone deadlines are rendered in when a request sends no X-Timezone header",
						EnvVars: []string{"VIEWER_TIMEZONE"},
					},
					&cli.DurationFlag{
						Name:    "check-interval",
						Value:   config.DefaultCheckInterval,
						Usage:   "How often to scan for workspaces past their deadline",
						EnvVars: []string{"CHECK_INTERVAL"},
					},
				},
				Action: runServe,
			},
			{
				Name:   "check-deadlines",
				Usage:  "List running workspaces that are past their deadline",
				Flags:  []cli.Flag{databaseFlag},
				Action: runCheckDeadlines,
			},
			{
				Name:  "cron",
				Usage: "Build a daily schedule from a time of day",
				Flags: []cli.Flag{
					timeFlag,
					&cli.StringFlag{
						Name:  "tz",
						Usage: "IANA timezone to embed as CRON_TZ",
					},
				},
				Action: runCron,
			},
			{
				Name:  "quiet-hours",
				Usage: "Describe when quiet hours next start",
				Flags: []cli.Flag{
					timeFlag,
					&cli.StringFlag{
						Name:  "tz",
						Value: schedule.DefaultTimezone,
						Usage: "IANA timezone of the time of day",
					},
					nowFlag,
				},
				Action: runQuietHours,
			},
			{
				Name:  "describe",
				Usage: "Describe a schedule in English and show its next run",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "schedule",
						Aliases:  []string{"s"},
						Usage:    `Schedule string, e.g. "CRON_TZ=Europe/Berlin 30 9 * * 1-5"`,
						Required: true,
					},
					nowFlag,
				},
				Action: runDescribe,
			},
			{
				Name:  "requirement-days",
				Usage: "Print the weekdays an autostop requirement enforces",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "value",
						Usage:    "off, daily, saturday or sunday",
						Required: true,
					},
				},
				Action: runRequirementDays,
			},
		},
		Action: runServe,
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// loadConfig reads the optional config file and applies flags that were set
// explicitly on the command line or through the environment.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return config.Config{}, err
	}

	if c.IsSet("log-level") || cfg.LogLevel == "" {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("log-format") || cfg.LogFormat == "" {
		cfg.LogFormat = c.String("log-format")
	}
	if c.IsSet("port") {
		cfg.Port = c.String("port")
	}
	if c.IsSet("database-url") {
		cfg.Database.URL = c.String("database-url")
	}
	if c.IsSet("viewer-timezone") {
		cfg.ViewerTimezone = c.String("viewer-timezone")
	}
	if c.IsSet("check-interval") {
		cfg.CheckInterval = c.Duration("check-interval")
	}

	return cfg, nil
}

// referenceTime returns the --now flag, or the current time when unset.
func referenceTime(c *cli.Context) time.Time {
	if now := c.Timestamp("now"); now != nil {
		return *now
	}
	return time.Now()
}

func openDatabase(ctx context.Context, cfg config.Config) (*database.DB, error) {
	db, err := database.New(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.RunMigrations(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

func runServe(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	viewer, err := schedule.LoadLocation(cfg.ViewerTimezone)
	if err != nil {
		return fmt.Errorf("invalid viewer timezone: %w", err)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	scheduleService := service.NewScheduleService(repository.NewWorkspaceRepository(db.Pool()))
	h := handler.New(db, scheduleService, viewer)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("starting server", "server_addr", "http://localhost:"+cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return checker.New(scheduleService, cfg.CheckInterval, slog.Default()).Start(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	slog.Info("server stopped")
	return nil
}

func runCheckDeadlines(c *cli.Context) error {
	ctx := c.Context

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	scheduleService := service.NewScheduleService(repository.NewWorkspaceRepository(db.Pool()))
	workspaces, err := checker.New(scheduleService, cfg.CheckInterval, slog.Default()).CheckOnce(ctx)
	if err != nil {
		return fmt.Errorf("deadline check failed: %w", err)
	}

	for _, ws := range workspaces {
		fmt.Fprintf(c.App.Writer, "%s\t%s\t%s\n", ws.ID, ws.Name, ws.OwnerName)
	}
	slog.Info("deadline check completed", "shutting_down", len(workspaces))

	return nil
}

func runCron(c *cli.Context) error {
	tz := c.String("tz")
	if tz != "" {
		if _, err := schedule.LoadLocation(tz); err != nil {
			return err
		}
	}

	raw, err := schedule.TimeToCron(c.String("time"), tz)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, raw)
	return nil
}

func runQuietHours(c *cli.Context) error {
	fmt.Fprintln(c.App.Writer, service.QuietHoursDisplay(c.String("time"), c.String("tz"), referenceTime(c)))
	return nil
}

func runDescribe(c *cli.Context) error {
	raw := c.String("schedule")

	sched, err := schedule.Parse(raw)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "%s %s\n", service.LabelAutostart, service.AutostartDisplay(&raw))
	fmt.Fprintf(c.App.Writer, "next: %s\n", sched.Next(referenceTime(c)).Format(time.RFC3339))
	return nil
}

func runRequirementDays(c *cli.Context) error {
	days := service.CalculateAutostopRequirementDaysValue(domain.AutostopRequirementDays(c.String("value")))

	enc := json.NewEncoder(c.App.Writer)
	return enc.Encode(days)
}
