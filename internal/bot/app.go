package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mediline/apptbot/core/bootstrap"
	"github.com/mediline/apptbot/core/logger"
	coretelegram "github.com/mediline/apptbot/core/telegram"
	"github.com/mediline/apptbot/core/telegram/router"
	"github.com/mediline/apptbot/internal/booking"
	"github.com/mediline/apptbot/internal/conversation"
	"github.com/mediline/apptbot/internal/directory"
	"github.com/mediline/apptbot/internal/i18n"
	"github.com/mediline/apptbot/internal/notify"
	"github.com/mediline/apptbot/internal/storage"
)

// App holds every wired component of the appointment bot.
type App struct {
	cfg *Config

	engine  *conversation.Engine
	records *storage.Postgres
	mailer  *notify.Mailer
}

// New bootstraps infrastructure (logger, database, migrations) and wires the
// appointment services on top of it.
func New(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bot: nil config provided")
	}

	boot, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	texts, err := i18n.Load(cfg.Locale.Default)
	if err != nil {
		return nil, err
	}

	sessions, err := buildSessionStore(cfg.Session)
	if err != nil {
		return nil, err
	}

	doctors := directory.DefaultRoster()
	records := storage.NewPostgres(boot.DB)

	var mailer *notify.Mailer
	if cfg.Email.Enabled {
		mailer, err = notify.NewMailer(cfg.Email.EmailConfig)
		if err != nil {
			return nil, err
		}
	}

	var scheduler booking.Scheduler
	if cfg.Calendar.Enabled {
		cal, err := notify.NewCalendar(context.Background(), cfg.Calendar.CalendarConfig)
		if err != nil {
			return nil, err
		}
		scheduler = cal
	}

	var bookMailer booking.Mailer
	if mailer != nil {
		bookMailer = mailer
	}
	booker := booking.NewService(doctors, records, bookMailer, scheduler, nil)
	engine := conversation.NewEngine(sessions, doctors, booker, texts, nil)

	return &App{
		cfg:     cfg,
		engine:  engine,
		records: records,
		mailer:  mailer,
	}, nil
}

func buildSessionStore(cfg SessionConfig) (conversation.Store, error) {
	if cfg.Backend != SessionBackendRedis {
		return conversation.NewMemoryStore(), nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	ttl := time.Duration(cfg.TTLMinutes) * time.Minute
	return conversation.NewRedisStore(context.Background(), client, "", ttl)
}

// TelegramRunOptions assembles the registry, routes, and middleware chain
// for the shared Telegram runner.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.registerCommands(reg)
	if err := reg.RegisterCallback(statsRefreshKey, a.onStatsRefresh); err != nil {
		return coretelegram.RunOptions{}, err
	}

	fsm := &engineFSM{engine: a.engine}
	routes := router.TextRoutes(fsm, reg, router.TextOptions{
		UnknownText: a.onUnknownText,
	})
	routes = append(routes, router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Core.Telegram.AdminID,
	})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	cfg := a.cfg.CoreConfig()
	return coretelegram.RunOptions{
		Config:      cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(cfg, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, _ coretelegram.Runtime) error {
			logger.Info(ctx, "app", "bot.started")
			return nil
		},
	}, nil
}
