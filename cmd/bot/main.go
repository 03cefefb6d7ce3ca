package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/arzonmarket/arzon-bot/internal/ai"
	"github.com/arzonmarket/arzon-bot/internal/bot"
	"github.com/arzonmarket/arzon-bot/internal/config"
	"github.com/arzonmarket/arzon-bot/internal/httpserver"
	"github.com/arzonmarket/arzon-bot/internal/logging"
	"github.com/arzonmarket/arzon-bot/internal/models"
	"github.com/arzonmarket/arzon-bot/internal/mykafka"
	"github.com/arzonmarket/arzon-bot/internal/notify"
	"github.com/arzonmarket/arzon-bot/internal/repo"
	"github.com/arzonmarket/arzon-bot/internal/search"
	"github.com/arzonmarket/arzon-bot/internal/service"
	"github.com/arzonmarket/arzon-bot/internal/session"
	"github.com/arzonmarket/arzon-bot/internal/telegram"
)

func main() {
	cfg := config.Load()

	config.MustNonEmpty(cfg.BotToken, "BOT_TOKEN")
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTSecret, "JWT_SECRET")

	logger := logging.New(cfg.LogLevel, "arzon-bot")
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := config.OpenDB(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	r := repo.New(db)

	var events service.EventPublisher = service.NopPublisher{}
	var producer *mykafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err = mykafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			log.Fatalf("kafka: %v", err)
		}
		events = producer
	}

	searchSvc := &search.Service{Index: cfg.ESIndex, Repo: r}
	if cfg.ESURL != "" {
		es, err := search.NewESClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			// The SQL fallback keeps search working without the cluster.
			logger.Warn("es_unavailable", "url", cfg.ESURL, "error", err)
		} else {
			searchSvc.ES = es
		}
	}

	sender := telegram.NewClient(cfg.TelegramAPIURL, cfg.BotToken)
	sessions := session.NewStore(cfg.SessionTTL)

	notifier := &notify.Notifier{
		Sender:   sender,
		AdminIDs: cfg.AdminIDs,
		Delay:    cfg.BroadcastDelay,
	}

	userSvc := &service.UserService{Repo: r}
	cartSvc := &service.CartService{Repo: r}
	orderSvc := &service.OrderService{Repo: r, Events: events}
	referralSvc := &service.ReferralService{
		Repo:        r,
		Events:      events,
		Threshold:   cfg.ReferralThreshold,
		BonusAmount: cfg.ReferralBonus,
	}

	engine := ai.NewEngine(r, cfg.OpenAIURL, cfg.OpenAIKey)

	tgBot := &bot.Bot{
		Cfg:       cfg,
		Sender:    sender,
		Sessions:  sessions,
		Repo:      r,
		Users:     userSvc,
		Cart:      cartSvc,
		Orders:    orderSvc,
		Referrals: referralSvc,
		Search:    searchSvc,
		AI:        engine,
		Notify:    notifier,
	}

	rootCtx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()
	go sessions.Janitor(rootCtx, time.Minute)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(httpserver.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Webhook: &httpserver.WebhookHTTP{Bot: tgBot, BotToken: cfg.BotToken},
		Auth: &httpserver.AuthHTTP{
			JWTSecret:    cfg.JWTSecret,
			Login:        cfg.AdminLogin,
			PasswordHash: cfg.AdminPasswordHash,
		},
		Admin: &httpserver.AdminHTTP{
			Repo:   r,
			Orders: orderSvc,
			Users:  userSvc,
			Notify: notifier,
			AI:     engine,
		},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		log.Printf("arzon-bot listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	rootCancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)

	if producer != nil {
		_ = producer.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	log.Println("arzon-bot stopped")
}
