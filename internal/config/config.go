package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment string
	// Telegram
	BotToken string
	BotDebug bool
	// SQLite Configuration
	SQLitePath string
	// Monitoring API
	MonitoringEnabled bool
	Port              string
	// Kafka Configuration
	KafkaEnabled        bool
	KafkaBrokers        []string
	KafkaTopicMovements string
	// Redis Configuration (admin registry)
	RedisEnabled  bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	// Schedule
	Timezone          string
	ExpiryCheckTime   string
	ExpiryHorizonDays int
	ReminderWeekday   string
	ReminderTime      string
}

func Load() *Config {
	// .env file is optional, continue with environment variables
	_ = godotenv.Load()

	kafkaBrokers := strings.Split(getEnv("KAFKA_BROKERS", "localhost:9093"), ",")
	for i, broker := range kafkaBrokers {
		kafkaBrokers[i] = strings.TrimSpace(broker)
	}

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		BotToken:    getEnv("BOT_TOKEN", ""),
		BotDebug:    getEnvAsBool("BOT_DEBUG", false),
		SQLitePath:  getEnv("SQLITE_PATH", "./barkeeper.db"),
		// Monitoring API
		MonitoringEnabled: getEnvAsBool("MONITORING_ENABLED", true),
		Port:              getEnv("PORT", "8082"),
		// Kafka Configuration
		KafkaEnabled:        getEnvAsBool("KAFKA_ENABLED", false),
		KafkaBrokers:        kafkaBrokers,
		KafkaTopicMovements: getEnv("KAFKA_TOPIC_MOVEMENTS", "barkeeper.movements"),
		// Redis Configuration
		RedisEnabled:  getEnvAsBool("REDIS_ENABLED", false),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		// Schedule
		Timezone:          getEnv("TIMEZONE", "UTC"),
		ExpiryCheckTime:   getEnv("EXPIRY_CHECK_TIME", "09:00"),
		ExpiryHorizonDays: getEnvAsInt("EXPIRY_HORIZON_DAYS", 30),
		ReminderWeekday:   getEnv("REMINDER_WEEKDAY", "tuesday"),
		ReminderTime:      getEnv("REMINDER_TIME", "10:00"),
	}
}

// Validate checks the settings the bot cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.BotToken == "" {
		errs = append(errs, errors.New("BOT_TOKEN is required"))
	}
	if c.SQLitePath == "" {
		errs = append(errs, errors.New("SQLITE_PATH must not be empty"))
	}
	if _, err := c.Location(); err != nil {
		errs = append(errs, err)
	}
	if c.ExpiryHorizonDays < 0 {
		errs = append(errs, fmt.Errorf("EXPIRY_HORIZON_DAYS must be non-negative, got %d", c.ExpiryHorizonDays))
	}
	if _, err := ParseWeekday(c.ReminderWeekday); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// RedisAddr returns host:port for the Redis client.
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday accepts English day names, case-insensitive.
func ParseWeekday(s string) (time.Weekday, error) {
	day, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("invalid weekday %q", s)
	}
	return day, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return result
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return strings.ToLower(value) == "true" || value == "1"
}
