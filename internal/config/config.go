package config

import (
	"os"
	"strconv"

	commoncfg "wisefido-triage/common/config"
)

// Config is the wisefido-triage service configuration.
type Config struct {
	ServiceName string

	HTTP struct {
		Addr string
	}

	DBEnabled bool
	Database  commoncfg.DatabaseConfig

	RedisEnabled bool
	Redis        commoncfg.RedisConfig

	MQTTEnabled bool
	MQTT        commoncfg.MQTTConfig

	Ticket struct {
		Prefix      string
		Width       int
		Sequence    string // "local" or "redis"
		RedisKey    string // counter key when Sequence == "redis"
		MaxAttempts int    // persist attempts before giving up on duplicate tickets
	}

	Triage struct {
		Stream       string // Redis stream receiving triage events
		StreamMaxLen int64
		StrictCPF    bool // verify CPF check digits, not only the 11-digit format
	}

	Log struct {
		Level  string
		Format string
	}
}

const (
	SequenceLocal = "local"
	SequenceRedis = "redis"
)

// MaxTicketWidth keeps the padded ticket capacity within an int64.
const MaxTicketWidth = 18

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.ServiceName = getEnv("SERVICE_NAME", "wisefido-triage")
	cfg.HTTP.Addr = getEnv("HTTP_ADDR", ":8080")

	// Without a reachable DB the service runs on memory repositories.
	cfg.DBEnabled = getEnv("DB_ENABLED", "true") == "true"
	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = parseInt(getEnv("DB_PORT", "5432"), 5432)
	cfg.Database.User = getEnv("DB_USER", "postgres")
	cfg.Database.Password = getEnv("DB_PASSWORD", "postgres")
	cfg.Database.Database = getEnv("DB_NAME", "triage")
	cfg.Database.SSLMode = getEnv("DB_SSLMODE", "disable")
	cfg.Database.MaxConns = parseInt(getEnv("DB_MAX_CONNS", "20"), 20)
	cfg.Database.MaxIdle = parseInt(getEnv("DB_MAX_IDLE", "5"), 5)

	cfg.RedisEnabled = getEnv("REDIS_ENABLED", "true") == "true"
	cfg.Redis.Addr = getEnv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", "")
	cfg.Redis.DB = parseInt(getEnv("REDIS_DB", "0"), 0)

	cfg.MQTTEnabled = getEnv("MQTT_ENABLED", "false") == "true"
	cfg.MQTT.Broker = getEnv("MQTT_BROKER", "tcp://localhost:1883")
	cfg.MQTT.ClientID = getEnv("MQTT_CLIENT_ID", "wisefido-triage")
	cfg.MQTT.Username = getEnv("MQTT_USERNAME", "")
	cfg.MQTT.Password = getEnv("MQTT_PASSWORD", "")
	cfg.MQTT.Topic = getEnv("MQTT_TOPIC", "triage/attendances")
	cfg.MQTT.QoS = byte(parseInt(getEnv("MQTT_QOS", "1"), 1))

	cfg.Ticket.Prefix = getEnv("TICKET_PREFIX", "A")
	cfg.Ticket.Width = parseInt(getEnv("TICKET_WIDTH", "3"), 3)
	cfg.Ticket.Sequence = getEnv("TICKET_SEQUENCE", SequenceLocal)
	cfg.Ticket.RedisKey = getEnv("TICKET_REDIS_KEY", "triage:ticket:seq")
	cfg.Ticket.MaxAttempts = parseInt(getEnv("TICKET_MAX_ATTEMPTS", "5"), 5)

	cfg.Triage.Stream = getEnv("TRIAGE_STREAM", "triage:attendances")
	cfg.Triage.StreamMaxLen = int64(parseInt(getEnv("TRIAGE_STREAM_MAXLEN", "10000"), 10000))
	cfg.Triage.StrictCPF = getEnv("CPF_STRICT", "false") == "true"

	cfg.Log.Level = getEnv("LOG_LEVEL", "info")
	cfg.Log.Format = getEnv("LOG_FORMAT", "json")

	if cfg.Ticket.Sequence != SequenceRedis {
		cfg.Ticket.Sequence = SequenceLocal
	}
	if cfg.Ticket.Width < 1 {
		cfg.Ticket.Width = 3
	}
	if cfg.Ticket.Width > MaxTicketWidth {
		cfg.Ticket.Width = MaxTicketWidth
	}
	if cfg.Ticket.MaxAttempts < 1 {
		cfg.Ticket.MaxAttempts = 1
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseInt(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
