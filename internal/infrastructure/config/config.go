package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type KafkaConfig struct {
	Brokers       []string
	EventsTopic   string
	IntakeTopic   string
	ConsumerGroup string
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
	TLS           bool
	SASLEnabled   bool
	IntakeEnabled bool

	// Intake messages that fail to apply are retried with backoff between
	// these bounds.
	RetryBackoff    time.Duration
	MaxRetryBackoff time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Enabled  bool
}

type AuthConfig struct {
	JWTSecret        string
	JWTPublicKeyFile string
	Issuer           string
	Enabled          bool
}

type TLSConfig struct {
	CertFile     string
	KeyFile      string
	ClientCAFile string
}

// Enabled reports whether both a certificate and key are configured.
func (t TLSConfig) Enabled() bool {
	return t.CertFile != "" && t.KeyFile != ""
}

type OutboxConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

type LogConfig struct {
	Level  string
	Format string
}

type TracingConfig struct {
	Endpoint string
	Insecure bool
}

// PartnerConfig overrides foundation-tier partner URLs. Empty keeps defaults.
type PartnerConfig struct {
	CreditStacking     string
	CreditOptimization string
	CreditRepair       string
	BusinessCredit     string
	SecuredCard        string
	RevenueCoaching    string
	InvoiceFactoring   string
	EquipmentLeasing   string
	Consultation       string
}

type Config struct {
	GRPCPort       int
	HTTPPort       int
	GRPCReflection bool
	MigrationsPath string
	DB             DatabaseConfig
	Kafka          KafkaConfig
	Redis          RedisConfig
	Auth           AuthConfig
	TLS            TLSConfig
	Outbox         OutboxConfig
	Log            LogConfig
	Tracing        TracingConfig
	Partners       PartnerConfig
	ServiceName    string
}

// Validate reports configuration that would stop the service from working.
func (c Config) Validate() error {
	var errs []error
	if c.DB.Password == "" {
		errs = append(errs, errors.New("DB_PASSWORD environment variable is required"))
	}
	if c.Auth.Enabled && c.Auth.JWTSecret == "" && c.Auth.JWTPublicKeyFile == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET or AUTH_JWT_PUBLIC_KEY_FILE is required when auth is enabled"))
	}
	if len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS must list at least one broker"))
	}
	if (c.TLS.CertFile == "") != (c.TLS.KeyFile == "") {
		errs = append(errs, errors.New("TLS_CERT_FILE and TLS_KEY_FILE must be set together"))
	}
	return errors.Join(errs...)
}

// Load reads configuration from an optional .env file, an optional
// underwriting.yaml, and the environment, in increasing precedence.
func Load() (Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("underwriting")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	return Config{
		GRPCPort:       v.GetInt("grpc.port"),
		HTTPPort:       v.GetInt("http.port"),
		GRPCReflection: v.GetBool("grpc.reflection"),
		MigrationsPath: v.GetString("migrations.path"),
		DB: DatabaseConfig{
			Host:     v.GetString("db.host"),
			Port:     v.GetInt("db.port"),
			User:     v.GetString("db.user"),
			Password: v.GetString("db.password"),
			Name:     v.GetString("db.name"),
			SSLMode:  v.GetString("db.sslmode"),
		},
		Kafka: KafkaConfig{
			Brokers:       splitList(v.GetString("kafka.brokers")),
			EventsTopic:   v.GetString("kafka.events.topic"),
			IntakeTopic:   v.GetString("kafka.intake.topic"),
			IntakeEnabled: v.GetBool("kafka.intake.enabled"),
			ConsumerGroup: v.GetString("kafka.consumer.group"),
			TLS:           v.GetBool("kafka.tls"),
			SASLEnabled:   v.GetBool("kafka.sasl.enabled"),
			SASLMechanism: v.GetString("kafka.sasl.mechanism"),
			SASLUsername:  v.GetString("kafka.sasl.username"),
			SASLPassword:  v.GetString("kafka.sasl.password"),

			RetryBackoff:    v.GetDuration("kafka.retry.backoff"),
			MaxRetryBackoff: v.GetDuration("kafka.retry.max.backoff"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("redis.addr"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			TTL:      v.GetDuration("redis.ttl"),
			Enabled:  v.GetBool("redis.enabled"),
		},
		Auth: AuthConfig{
			JWTSecret:        v.GetString("auth.jwt.secret"),
			JWTPublicKeyFile: v.GetString("auth.jwt.public.key.file"),
			Issuer:           v.GetString("auth.jwt.issuer"),
			Enabled:          v.GetBool("auth.enabled"),
		},
		TLS: TLSConfig{
			CertFile:     v.GetString("tls.cert.file"),
			KeyFile:      v.GetString("tls.key.file"),
			ClientCAFile: v.GetString("tls.client.ca.file"),
		},
		Outbox: OutboxConfig{
			PollInterval: v.GetDuration("outbox.poll.interval"),
			BatchSize:    v.GetInt("outbox.batch.size"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
		Tracing: TracingConfig{
			Endpoint: v.GetString("otel.exporter.endpoint"),
			Insecure: v.GetBool("otel.exporter.insecure"),
		},
		Partners: PartnerConfig{
			CreditStacking:     v.GetString("partner.credit.stacking.url"),
			CreditOptimization: v.GetString("partner.credit.optimization.url"),
			CreditRepair:       v.GetString("partner.credit.repair.url"),
			BusinessCredit:     v.GetString("partner.business.credit.url"),
			SecuredCard:        v.GetString("partner.secured.card.url"),
			RevenueCoaching:    v.GetString("partner.revenue.coaching.url"),
			InvoiceFactoring:   v.GetString("partner.invoice.factoring.url"),
			EquipmentLeasing:   v.GetString("partner.equipment.leasing.url"),
			Consultation:       v.GetString("partner.consultation.url"),
		},
		ServiceName: v.GetString("service.name"),
	}, nil
}

func setDefaults(v *viper.Viper) {
	defaults := map[string]any{
		"grpc.port":            9090,
		"http.port":            8080,
		"grpc.reflection":      false,
		"migrations.path":      "file://internal/infrastructure/persistence/postgres/migrations",
		"db.host":              "localhost",
		"db.port":              5432,
		"db.user":              "underwriting",
		"db.password":          "",
		"db.name":              "underwriting",
		"db.sslmode":           "require",
		"kafka.brokers":        "localhost:9092",
		"kafka.events.topic":   "underwriting-events",
		"kafka.intake.topic":   "underwriting-intake",
		"kafka.intake.enabled": false,
		"kafka.consumer.group": "underwriting-service",
		"kafka.tls":            false,
		"kafka.sasl.enabled":   false,
		"kafka.sasl.mechanism": "",
		"kafka.sasl.username":  "",
		"kafka.sasl.password":  "",

		"kafka.retry.backoff":     "200ms",
		"kafka.retry.max.backoff": "30s",

		"redis.addr":           "localhost:6379",
		"redis.password":       "",
		"redis.db":             0,
		"redis.ttl":            "15m",
		"redis.enabled":        true,
		"auth.enabled":         true,
		"auth.jwt.secret":      "",
		"auth.jwt.issuer":      "underwriting-service",
		"outbox.poll.interval": "2s",
		"outbox.batch.size":    100,
		"log.level":            "info",
		"log.format":           "json",
		"service.name":         "underwriting-service",
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

// loadEnvFile loads .env from the working directory when present. Variables
// already set in the environment win.
func loadEnvFile() {
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err == nil {
		_ = godotenv.Load(path)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
