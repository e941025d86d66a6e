package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"workorders/internal/core/domain/model/operator"
	"workorders/internal/core/domain/model/order"
	"workorders/internal/pkg/errs"
)

const (
	defaultHTTPPort              = "8080"
	defaultDBSslMode             = "disable"
	defaultOrderChangedTopic     = "order.changed"
	defaultOrderCreationDenied   = "administrator"
	defaultStalledStageThreshold = 24 * time.Hour
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	// Kafka notifications are disabled when KafkaHost is empty.
	KafkaHost              string
	KafkaOrderChangedTopic string

	JWTSecret string

	StageNames               []string
	StagesSequential         bool
	OrderCreationDeniedRoles []operator.Role

	StalledStageThreshold time.Duration
	// Empty means jobs.DefaultStalledStagesSchedule.
	StalledStageSchedule string
}

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// LoadConfig reads the configuration through lookup, applying defaults for
// optional keys. All problems are reported together.
func LoadConfig(lookup LookupFunc) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	c := Config{
		HTTPPort:               get("HTTP_PORT", defaultHTTPPort),
		DBHost:                 get("DB_HOST", ""),
		DBPort:                 get("DB_PORT", "5432"),
		DBUser:                 get("DB_USER", ""),
		DBPassword:             get("DB_PASSWORD", ""),
		DBName:                 get("DB_NAME", ""),
		DBSslMode:              get("DB_SSLMODE", defaultDBSslMode),
		KafkaHost:              get("KAFKA_HOST", ""),
		KafkaOrderChangedTopic: get("KAFKA_ORDER_CHANGED_TOPIC", defaultOrderChangedTopic),
		JWTSecret:              get("JWT_SECRET", ""),
		StageNames:             order.DefaultStageNames,
		StalledStageThreshold:  defaultStalledStageThreshold,
		StalledStageSchedule:   get("STALLED_STAGE_SCHEDULE", ""),
	}

	var problems []error
	for _, required := range []struct{ key, value string }{
		{"DB_HOST", c.DBHost},
		{"DB_USER", c.DBUser},
		{"DB_NAME", c.DBName},
		{"JWT_SECRET", c.JWTSecret},
	} {
		if required.value == "" {
			problems = append(problems, errs.NewValueIsRequiredError(required.key))
		}
	}

	if v := get("STAGE_TEMPLATE", ""); v != "" {
		c.StageNames = strings.Split(v, ",")
	}

	if v := get("STAGES_SEQUENTIAL", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("STAGES_SEQUENTIAL", err))
		}
		c.StagesSequential = b
	}

	// Set but empty means nobody is denied.
	denied, ok := lookup("ORDER_CREATION_DENIED_ROLES")
	if !ok {
		denied = defaultOrderCreationDenied
	}
	roles, err := operator.ParseRoles(denied)
	if err != nil {
		problems = append(problems, fmt.Errorf("ORDER_CREATION_DENIED_ROLES: %w", err))
	}
	c.OrderCreationDeniedRoles = roles

	if v := get("STALLED_STAGE_THRESHOLD", ""); v != "" {
		d, err := time.ParseDuration(v)
		switch {
		case err != nil:
			problems = append(problems, errs.NewValueIsInvalidErrorWithCause("STALLED_STAGE_THRESHOLD", err))
		case d <= 0:
			problems = append(problems, errs.NewValueIsOutOfRangeError("STALLED_STAGE_THRESHOLD", v, "1ms", "unbounded"))
		default:
			c.StalledStageThreshold = d
		}
	}

	if err := errors.Join(problems...); err != nil {
		return Config{}, err
	}
	return c, nil
}

// DSN is the libpq connection string for the configured database.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// KafkaBrokers splits KafkaHost on commas.
func (c Config) KafkaBrokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaHost, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
