package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	defaultOrderTTL            = 30 * time.Minute
	defaultOrderExpiryInterval = 5 * time.Minute
	defaultOrderExpiryBatch    = 100
	defaultPaymentTimeout      = 5 * time.Second
	defaultKafkaPublishTimeout = 500 * time.Millisecond
	defaultPaymentGatewayURL   = "https://openapi.alipay.com/gateway.do"
)

type (
	Tasks struct {
		OrderExpiryInterval  time.Duration
		OrderExpiryBatchSize int
		OrderExpiryLockTTL   time.Duration // по умолчанию равен интервалу
		HealthcheckPort      string
	}

	HTTPServer struct {
		Port             string
		RequestTimeout   time.Duration // middleware timeout
		RateLimiterQPS   int           // скорость пополнения token bucket
		RateLimiterBurst int           // ёмкость token bucket
		PprofEnabled     bool
		PprofPort        string
	}

	Database struct {
		Host     string
		Port     string
		User     string
		Password string
		DBName   string
		SSLMode  string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Kafka struct {
		Brokers        string
		Topic          string
		ClientID       string
		PublishTimeout time.Duration // сколько запрос ждёт подтверждения брокера
		Sarama         Sarama
	}

	Sarama struct {
		Version string
	}

	Auth struct {
		JWTSecret string
	}

	Payment struct {
		AppID             string
		PrivateKey        string
		ProviderPublicKey string
		GatewayURL        string
		NotifyURL         string
		ReturnURL         string
		FrontendReturnURL string
		RequestTimeout    time.Duration
	}

	Orders struct {
		TTL time.Duration
	}

	Config struct {
		Tasks    Tasks
		Server   HTTPServer
		Database Database
		Redis    Redis
		Kafka    Kafka
		Auth     Auth
		Payment  Payment
		Orders   Orders
	}
)

func Load() (*Config, error) {
	cfg, err := loadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("environment loading: %w", err)
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return cfg, nil
}

// LoadDatabase читает только настройки postgres, мигратору остальное не нужно.
func LoadDatabase() (*Database, error) {
	db := loadDatabase()
	if err := validateDatabase(&db); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}
	return &db, nil
}

func loadDatabase() Database {
	return Database{
		Host:     os.Getenv("POSTGRES_HOST"),
		Port:     os.Getenv("POSTGRES_PORT"),
		User:     os.Getenv("POSTGRES_USER"),
		Password: os.Getenv("POSTGRES_PASSWORD"),
		DBName:   os.Getenv("POSTGRES_DB"),
		SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
	}
}

func loadFromEnv() (*Config, error) {
	expiryInterval, err := osGetEnvDuration("BACKGROUND_ORDER_EXPIRY_INTERVAL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	expiryBatch, err := osGetInt("BACKGROUND_ORDER_EXPIRY_BATCH_SIZE")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	expiryLockTTL, err := osGetEnvDuration("BACKGROUND_ORDER_EXPIRY_LOCK_TTL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	requestTimeout, err := osGetEnvDuration("MIDDLEWARE_REQUEST_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterQPS, err := osGetInt("MIDDLEWARE_RATE_LIMIT_QPS")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	rateLimiterBurst, err := osGetInt("MIDDLEWARE_RATE_LIMIT_BURST")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	pprofEnabled, err := osGetBool("PPROF_ENABLED")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	redisDB, err := osGetInt("REDIS_DB")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	paymentTimeout, err := osGetEnvDuration("PAYMENT_REQUEST_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	orderTTL, err := osGetEnvDuration("ORDER_TTL")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	publishTimeout, err := osGetEnvDuration("KAFKA_PUBLISH_TIMEOUT")
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	expiryInterval = durationOr(expiryInterval, defaultOrderExpiryInterval)

	return &Config{
		Tasks: Tasks{
			OrderExpiryInterval:  expiryInterval,
			OrderExpiryBatchSize: intOr(expiryBatch, defaultOrderExpiryBatch),
			OrderExpiryLockTTL:   durationOr(expiryLockTTL, expiryInterval),
			HealthcheckPort:      os.Getenv("WORKER_HTTP_HEALTHCHECK_PORT"),
		},
		Server: HTTPServer{
			Port:             os.Getenv("PORT"),
			RequestTimeout:   requestTimeout,
			RateLimiterQPS:   rateLimiterQPS,
			RateLimiterBurst: rateLimiterBurst,
			PprofEnabled:     pprofEnabled,
			PprofPort:        os.Getenv("PPROF_PORT"),
		},
		Database: loadDatabase(),
		Redis: Redis{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Kafka: Kafka{
			Brokers:        os.Getenv("KAFKA_BROKERS"),
			Topic:          os.Getenv("KAFKA_TOPIC"),
			ClientID:       os.Getenv("KAFKA_CLIENT_ID"),
			PublishTimeout: durationOr(publishTimeout, defaultKafkaPublishTimeout),
			Sarama: Sarama{
				Version: os.Getenv("KAFKA_SARAMA_VERSION"),
			},
		},
		Auth: Auth{
			JWTSecret: os.Getenv("AUTH_JWT_SECRET"),
		},
		Payment: Payment{
			AppID:             os.Getenv("ALIPAY_APP_ID"),
			PrivateKey:        os.Getenv("ALIPAY_PRIVATE_KEY"),
			ProviderPublicKey: os.Getenv("ALIPAY_PUBLIC_KEY"),
			GatewayURL:        stringOr(os.Getenv("ALIPAY_GATEWAY"), defaultPaymentGatewayURL),
			NotifyURL:         os.Getenv("ALIPAY_NOTIFY_URL"),
			ReturnURL:         os.Getenv("ALIPAY_RETURN_URL"),
			FrontendReturnURL: os.Getenv("PAYMENT_FRONTEND_RETURN_URL"),
			RequestTimeout:    durationOr(paymentTimeout, defaultPaymentTimeout),
		},
		Orders: Orders{
			TTL: durationOr(orderTTL, defaultOrderTTL),
		},
	}, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server port is required (set via PORT env variable)")
	}
	if cfg.Server.RequestTimeout == time.Duration(0) {
		return errors.New("MIDDLEWARE_REQUEST_TIMEOUT is required")
	}
	if cfg.Server.RateLimiterQPS == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_QPS is required")
	}
	if cfg.Server.RateLimiterBurst == 0 {
		return errors.New("MIDDLEWARE_RATE_LIMIT_BURST is required")
	}
	if cfg.Server.PprofPort == "" && cfg.Server.PprofEnabled {
		return errors.New("PprofPort is required (set via PPROF_PORT env variable)")
	}

	if err := validateDatabase(&cfg.Database); err != nil {
		return err
	}

	if cfg.Redis.Addr == "" {
		return errors.New("REDIS_ADDR is required")
	}

	if cfg.Kafka.Brokers == "" {
		return errors.New("KAFKA_BROKERS is required")
	}
	if cfg.Kafka.Topic == "" {
		return errors.New("KAFKA_TOPIC is required")
	}
	if cfg.Kafka.Sarama.Version == "" {
		return errors.New("KAFKA_SARAMA_VERSION is required")
	}

	if cfg.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET is required")
	}

	if cfg.Payment.AppID == "" {
		return errors.New("ALIPAY_APP_ID is required")
	}
	if cfg.Payment.PrivateKey == "" {
		return errors.New("ALIPAY_PRIVATE_KEY is required")
	}
	if cfg.Payment.ProviderPublicKey == "" {
		return errors.New("ALIPAY_PUBLIC_KEY is required")
	}
	if cfg.Payment.NotifyURL == "" {
		return errors.New("ALIPAY_NOTIFY_URL is required")
	}
	if cfg.Payment.ReturnURL == "" {
		return errors.New("ALIPAY_RETURN_URL is required")
	}
	if cfg.Payment.FrontendReturnURL == "" {
		return errors.New("PAYMENT_FRONTEND_RETURN_URL is required")
	}

	if cfg.Tasks.OrderExpiryBatchSize < 0 {
		return errors.New("BACKGROUND_ORDER_EXPIRY_BATCH_SIZE must be positive")
	}
	if cfg.Tasks.OrderExpiryLockTTL < cfg.Tasks.OrderExpiryInterval {
		return errors.New("BACKGROUND_ORDER_EXPIRY_LOCK_TTL must not be shorter than the sweep interval")
	}

	return nil
}

func validateDatabase(db *Database) error {
	if db.Host == "" {
		return errors.New("POSTGRES_HOST is required")
	}
	if db.Port == "" {
		return errors.New("POSTGRES_PORT is required")
	}
	if db.User == "" {
		return errors.New("POSTGRES_USER is required")
	}
	if db.Password == "" {
		return errors.New("POSTGRES_PASSWORD is required")
	}
	if db.DBName == "" {
		return errors.New("POSTGRES_DB is required")
	}
	if db.SSLMode == "" {
		return errors.New("POSTGRES_SSLMODE is required")
	}
	return nil
}

func osGetInt(s string) (int, error) {
	val := os.Getenv(s)
	if val == "" {
		return 0, nil
	}

	res, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid int format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetEnvDuration(s string) (time.Duration, error) {
	val := os.Getenv(s)
	if val == "" {
		return time.Duration(0), nil
	}

	res, err := time.ParseDuration(val)
	if err != nil {
		return time.Duration(0), fmt.Errorf("invalid duration format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func osGetBool(s string) (bool, error) {
	val := os.Getenv(s)
	if val == "" {
		return false, nil
	}

	res, err := strconv.ParseBool(val)
	if err != nil {
		return false, fmt.Errorf("invalid bool format for %s=%q: %w", s, val, err)
	}
	return res, nil
}

func durationOr(val, def time.Duration) time.Duration {
	if val == 0 {
		return def
	}
	return val
}

func intOr(val, def int) int {
	if val == 0 {
		return def
	}
	return val
}

func stringOr(val, def string) string {
	if val == "" {
		return def
	}
	return val
}
