package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"

	"github.com/erick-ssouza/Elatho-Semijoias-sub000/configs"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/adapter/cache"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/adapter/gateway"
	httpadapter "github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/adapter/http"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/adapter/http/middleware"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/adapter/kafka"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/adapter/notify"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/adapter/queue"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/adapter/repo"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/logging"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/security"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/usecase"
)

type App struct {
	Router *gin.Engine
}

func InitWithConfig(cfg configs.Config) (*App, func(), error) {
	logger := logging.Init(cfg.App.Name, cfg.App.LogFile)

	// init database
	db, err := sql.Open("mysql", cfg.MySQL.DSN)
	if err != nil {
		return nil, nil, err
	}
	db.SetConnMaxLifetime(cfg.MySQL.ConnMaxLifetime)
	db.SetMaxOpenConns(cfg.MySQL.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MySQL.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, nil, err
	}

	logger.Info("checkout-api: starting up")

	// init redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, nil, err
	}

	// init rabbitmq
	conn, err := amqp091.Dial(cfg.Rabbit.URL)
	if err != nil {
		return nil, nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, err
	}
	producer, err := queue.NewRabbitProducer(ch)
	if err != nil {
		return nil, nil, err
	}

	// init kafka audit stream
	kafkaProducer, err := kafka.NewSyncProducer(cfg.Kafka.Brokers)
	if err != nil {
		return nil, nil, err
	}
	events := kafka.NewEventPublisher(kafkaProducer, cfg.Kafka.TopicEvents)

	// infra
	orderRepo := repo.NewMySQLOrderRepo(db)
	couponRepo := repo.NewMySQLCouponRepo(db)
	stockRepo := repo.NewMySQLStockRepo(db)
	idem := cache.NewRedisIdempotencyStore(rdb, cfg.Idempotency.TTL)
	statusCache := cache.NewRedisStatusCache(rdb, cfg.StatusCache.TTL)
	payGateway := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.AccessToken, cfg.Gateway.Timeout)

	// notification worker: drains the fan-out queues on a second channel
	// so consumer QoS never throttles publishes.
	if err := setupNotifyWorker(conn, cfg); err != nil {
		return nil, nil, err
	}

	// use cases
	validateCoupon := usecase.NewValidateCoupon(couponRepo)
	createOrder := usecase.NewCreateOrder(orderRepo)
	checkout := usecase.NewCheckout(validateCoupon, createOrder, payGateway, orderRepo, statusCache)
	fanOut := usecase.NewFanOut(producer)
	reconcile := usecase.NewReconcilePayment(orderRepo, stockRepo, payGateway, fanOut, events, idem, statusCache)
	statusQuery := usecase.NewOrderStatusQuery(orderRepo, statusCache)
	lifecycle := usecase.NewOrderLifecycle(orderRepo, statusCache, events)

	// handlers + router + middleware
	verifier := security.NewHMACVerifier(cfg.Gateway.WebhookSecret)
	checkoutHandler := httpadapter.NewCheckoutHandler(checkout, validateCoupon, statusQuery)
	webhookHandler := httpadapter.NewWebhookHandler(verifier, reconcile)
	adminHandler := httpadapter.NewAdminHandler(lifecycle, orderRepo)
	tokenHandler := httpadapter.NewTokenHandler(cfg)
	authz := middleware.NewAuthz(cfg)
	router := httpadapter.NewRouter(logging.New("http"), checkoutHandler, webhookHandler, adminHandler, tokenHandler, authz)

	cleanup := func() {
		_ = db.Close()
		_ = rdb.Close()
		_ = ch.Close()
		_ = conn.Close()
		_ = kafkaProducer.Close()
	}

	return &App{Router: router}, cleanup, nil
}

func setupNotifyWorker(conn *amqp091.Connection, cfg configs.Config) error {
	ch, err := conn.Channel()
	if err != nil {
		return err
	}

	mailer := notify.NewEmailClient(cfg.Notify.EmailAPIURL, cfg.Notify.EmailAPIKey, cfg.Notify.EmailFrom, cfg.Notify.Timeout)
	chat := notify.NewChatClient(cfg.Notify.ChatWebhookURL, cfg.Notify.Timeout)
	h := queue.NewNotificationJobHandler(mailer, chat, cfg.Notify.AdminEmail)

	router := queue.NewRouter(ch, queue.WithPrefetch(cfg.Rabbit.Prefetch))
	jsonHandler := queue.JSONHandler[usecase.NotificationJob]{HandleFunc: h.HandleJob}
	router.Register(queue.QueueCustomerEmail, jsonHandler)
	router.Register(queue.QueueAdminEmail, jsonHandler)
	router.Register(queue.QueueOperatorChat, jsonHandler)

	return router.Start()
}
