package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spolyanaa/MyBarKeeperBot/internal/admins"
	"github.com/spolyanaa/MyBarKeeperBot/internal/config"
	"github.com/spolyanaa/MyBarKeeperBot/internal/conversation"
	"github.com/spolyanaa/MyBarKeeperBot/internal/events"
	"github.com/spolyanaa/MyBarKeeperBot/internal/export"
	"github.com/spolyanaa/MyBarKeeperBot/internal/handlers"
	"github.com/spolyanaa/MyBarKeeperBot/internal/ledger"
	"github.com/spolyanaa/MyBarKeeperBot/internal/metrics"
	"github.com/spolyanaa/MyBarKeeperBot/internal/notify"
	"github.com/spolyanaa/MyBarKeeperBot/internal/scheduler"
	"github.com/spolyanaa/MyBarKeeperBot/internal/telegram"
	"github.com/spolyanaa/MyBarKeeperBot/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type schedule struct {
	location *time.Location
	expiryAt scheduler.ClockTime
	weekday  time.Weekday
	remindAt scheduler.ClockTime
}

func parseSchedule(cfg *config.Config) (schedule, error) {
	var (
		s   schedule
		err error
	)
	if s.location, err = cfg.Location(); err != nil {
		return s, err
	}
	if s.expiryAt, err = scheduler.ParseClock(cfg.ExpiryCheckTime); err != nil {
		return s, fmt.Errorf("EXPIRY_CHECK_TIME: %w", err)
	}
	if s.weekday, err = config.ParseWeekday(cfg.ReminderWeekday); err != nil {
		return s, fmt.Errorf("REMINDER_WEEKDAY: %w", err)
	}
	if s.remindAt, err = scheduler.ParseClock(cfg.ReminderTime); err != nil {
		return s, fmt.Errorf("REMINDER_TIME: %w", err)
	}
	return s, nil
}

func runBot(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	sched, err := parseSchedule(cfg)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLogger := logger.New(cfg.Environment)
	defer appLogger.Sync()

	appLogger.Info("🚀 Starting MyBarKeeperBot",
		zap.String("environment", cfg.Environment),
		zap.String("timezone", cfg.Timezone),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	appLogger.Info("🔧 Initializing ledger database...", zap.String("sqlite_path", cfg.SQLitePath))
	db, cat, err := openLedger(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()
	appLogger.Info("✅ Ledger database initialized successfully")

	reg := metrics.NewRegistry()

	appLogger.Info("🔧 Initializing movement event stream...", zap.Bool("kafka_enabled", cfg.KafkaEnabled))
	publisher := events.NewPublisher(cfg, appLogger)
	defer publisher.Close()
	appLogger.Info("✅ Movement event stream initialized successfully")

	appLogger.Info("🔧 Initializing admin registry...", zap.Bool("redis_enabled", cfg.RedisEnabled))
	registry := admins.NewRegistry(cfg, appLogger)
	if closer, ok := registry.(io.Closer); ok {
		defer closer.Close()
	}
	appLogger.Info("✅ Admin registry initialized successfully")

	recorder := ledger.NewRecorder(db, publisher, reg, appLogger)
	thresholds := ledger.NewThresholdRegistry(db, cat, appLogger)
	planner := ledger.NewPlanner(db, db)
	expiry := ledger.NewExpiryTracker(db, appLogger)
	verifier := ledger.NewVerifier(db, db, cat.Builtins())

	appLogger.Info("🔧 Connecting to Telegram...")
	api, err := telegram.NewBotAPI(cfg, appLogger)
	if err != nil {
		return err
	}
	transport := telegram.NewTransport(api, appLogger)
	appLogger.Info("✅ Telegram connected successfully")

	engine := conversation.NewEngine(conversation.Deps{
		Catalog:    cat,
		Recorder:   recorder,
		Thresholds: thresholds,
		Planner:    planner,
		Expiry:     expiry,
		Reporter:   ledger.NewReporter(db),
		Exporter:   export.NewExporter(db, appLogger),
		Admins:     registry,
		Transport:  transport,
		Metrics:    reg,
		Logger:     appLogger,
	})
	bot := telegram.NewBot(api, engine, transport, appLogger)

	appLogger.Info("🔧 Initializing scheduler...")
	jobs := notify.NewJobs(expiry, registry, transport, appLogger, notify.Options{
		Location:    sched.location,
		HorizonDays: cfg.ExpiryHorizonDays,
		Metrics:     reg,
	})
	runner := scheduler.New(sched.location, appLogger)
	if _, err := runner.RegisterDaily(notify.JobExpiry, sched.expiryAt, jobs.ExpirySweep); err != nil {
		return err
	}
	if _, err := runner.RegisterWeekly(notify.JobReminder, sched.weekday, sched.remindAt, jobs.Reminder); err != nil {
		return err
	}
	appLogger.Info("✅ Scheduler initialized successfully")

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		appLogger.Info("📨 Starting bot polling...")
		return bot.Run(gctx)
	})
	g.Go(func() error {
		return runner.Run(gctx)
	})

	if cfg.MonitoringEnabled {
		if cfg.Environment == "production" {
			gin.SetMode(gin.ReleaseMode)
		}
		router := handlers.NewRouter(
			handlers.NewMonitoringHandler(db, verifier, planner, appLogger),
			reg.Handler(),
			appLogger,
		)
		srv := &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: router,
		}

		g.Go(func() error {
			appLogger.Info("🌐 Starting monitoring server", zap.String("address", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("monitoring server: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				appLogger.Error("Server forced to shutdown", zap.Error(err))
			}
			return nil
		})
	}

	err = g.Wait()
	appLogger.Info("MyBarKeeperBot exited")
	return err
}
