package app

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/foodorder/internal/domain"
)

// Поддерживаемые драйверы хранилища.
const (
	StorageDriverMemory   = "memory"
	StorageDriverPostgres = "postgres"
)

// Config описывает настройки запуска приложения. Значения по умолчанию заданы
// тегами envDefault и переопределяются переменными FOODORDER_*.
type Config struct {
	HTTPAddr       string        `env:"FOODORDER_HTTP_ADDR" envDefault:":8080"`
	MetricsAddr    string        `env:"FOODORDER_METRICS_ADDR" envDefault:":9090"`
	LogLevel       string        `env:"FOODORDER_LOG_LEVEL" envDefault:"info"`
	RequestTimeout time.Duration `env:"FOODORDER_REQUEST_TIMEOUT" envDefault:"5s"`

	StorageDriver       string `env:"FOODORDER_STORAGE_DRIVER" envDefault:"memory"`
	PostgresDSN         string `env:"FOODORDER_POSTGRES_DSN"`
	PostgresAutoMigrate bool   `env:"FOODORDER_POSTGRES_AUTO_MIGRATE" envDefault:"true"`
	// MenuSeedPath - YAML-файл с позициями меню, загружаемыми при старте.
	MenuSeedPath string `env:"FOODORDER_MENU_SEED"`

	TransitionPolicy string `env:"FOODORDER_TRANSITION_POLICY" envDefault:"strict"`

	TokenKey string        `env:"FOODORDER_TOKEN_KEY"`
	TokenTTL time.Duration `env:"FOODORDER_TOKEN_TTL" envDefault:"24h"`

	KafkaBrokers         []string `env:"FOODORDER_KAFKA_BROKERS" envSeparator:","`
	KafkaTopic           string   `env:"FOODORDER_KAFKA_TOPIC" envDefault:"foodorder.order.events"`
	KafkaDeadLetterTopic string   `env:"FOODORDER_KAFKA_DLQ_TOPIC" envDefault:"foodorder.order.events.dlq"`
	RabbitMQURL          string   `env:"FOODORDER_RABBITMQ_URL"`
	RabbitMQExchange     string   `env:"FOODORDER_RABBITMQ_EXCHANGE" envDefault:"foodorder.orders"`

	OutboxPollInterval time.Duration `env:"FOODORDER_OUTBOX_POLL_INTERVAL" envDefault:"1s"`
	OutboxBatchSize    int           `env:"FOODORDER_OUTBOX_BATCH_SIZE" envDefault:"100"`
	OutboxMaxAttempts  int           `env:"FOODORDER_OUTBOX_MAX_ATTEMPTS" envDefault:"3"`
	OutboxRetryDelay   time.Duration `env:"FOODORDER_OUTBOX_RETRY_DELAY" envDefault:"200ms"`
}

// DefaultConfig возвращает конфигурацию только из значений по умолчанию.
func DefaultConfig() Config {
	cfg, err := parseConfig(map[string]string{})
	if err != nil {
		panic(fmt.Sprintf("default config: %v", err))
	}
	return cfg
}

// LoadConfig читает конфигурацию из окружения процесса и проверяет её.
func LoadConfig() (Config, error) {
	return loadConfig(nil)
}

// loadConfig читает конфигурацию из environ; nil означает окружение процесса.
func loadConfig(environ map[string]string) (Config, error) {
	cfg, err := parseConfig(environ)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func parseConfig(environ map[string]string) (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg, env.Options{Environment: environ}); err != nil {
		return Config{}, fmt.Errorf("parse env config: %w", err)
	}
	cfg.StorageDriver = strings.ToLower(strings.TrimSpace(cfg.StorageDriver))
	cfg.PostgresDSN = strings.TrimSpace(cfg.PostgresDSN)
	cfg.KafkaBrokers = compact(cfg.KafkaBrokers)
	return cfg, nil
}

// Validate отклоняет комбинации настроек, с которыми сервис не может стартовать.
func (c Config) Validate() error {
	var errs []error

	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("FOODORDER_POSTGRES_DSN is required for postgres storage"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported storage driver %q (use memory|postgres)", c.StorageDriver))
	}

	if _, err := domain.ParseTransitionPolicy(c.TransitionPolicy); err != nil {
		errs = append(errs, err)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("invalid log level: %w", err))
	}
	if len(c.KafkaBrokers) > 0 && c.RabbitMQURL != "" {
		errs = append(errs, errors.New("configure either kafka brokers or rabbitmq url, not both"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be > 0"))
	}
	if c.OutboxPollInterval <= 0 {
		errs = append(errs, errors.New("outbox poll interval must be > 0"))
	}
	if c.OutboxBatchSize <= 0 {
		errs = append(errs, errors.New("outbox batch size must be > 0"))
	}
	if c.OutboxMaxAttempts <= 0 {
		errs = append(errs, errors.New("outbox max attempts must be > 0"))
	}
	if c.OutboxRetryDelay < 0 {
		errs = append(errs, errors.New("outbox retry delay must be >= 0"))
	}

	return errors.Join(errs...)
}

// Policy возвращает разобранную политику переходов.
func (c Config) Policy() domain.TransitionPolicy {
	policy, err := domain.ParseTransitionPolicy(c.TransitionPolicy)
	if err != nil {
		return domain.TransitionPolicyStrict
	}
	return policy
}

func compact(values []string) []string {
	out := values[:0]
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			out = append(out, value)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
