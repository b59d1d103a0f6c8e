package settings

import (
	"github.com/go-playground/validator/v10"
)

type Config struct {
	Service       Service       `mapstructure:"service" validate:"required"`
	Presence      Presence      `mapstructure:"presence"`
	Stats         Stats         `mapstructure:"stats"`
	Logger        Logger        `mapstructure:"logger"`
	Redis         Redis         `mapstructure:"redis"`
	MongoDB       MongoDB       `mapstructure:"mongodb"`
	Kafka         Kafka         `mapstructure:"kafka"`
	Elasticsearch Elasticsearch `mapstructure:"elasticsearch"`
}

// Service is the configuration for the remote title service endpoint
type Service struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	TitleID string `mapstructure:"title_id" validate:"required"`
	SCID    string `mapstructure:"scid" validate:"required"`
	Token   string `mapstructure:"token"`
	Timeout int    `mapstructure:"timeout"` // Seconds
}

// Presence is the configuration for the presence heartbeat writer
type Presence struct {
	TickInterval     int `mapstructure:"tick_interval"`     // Seconds, writer tick resolution
	DefaultHeartbeat int `mapstructure:"default_heartbeat"` // Ticks, fallback when the service gives no hint
}

// Stats is the configuration for the stats manager
type Stats struct {
	FlushDebounce int `mapstructure:"flush_debounce"` // Seconds, coalescing window for explicit flush requests
	PollInterval  int `mapstructure:"poll_interval"`  // Seconds, dirty-document poll cadence
}

// Logger is the configuration for the logger
type Logger struct {
	LogLevel    string `mapstructure:"log_level"`
	FileLogName string `mapstructure:"file_log_name"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAge      int    `mapstructure:"max_age"`
	MaxSize     int    `mapstructure:"max_size"`
	Compress    bool   `mapstructure:"compress"`
}

// Redis is the configuration for the Redis offline document store
type Redis struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Password        string `mapstructure:"password"`
	Database        int    `mapstructure:"database"`
	PoolSize        int    `mapstructure:"pool_size"`
	MinIdleConns    int    `mapstructure:"min_idle_conns"`
	PoolTimeout     int    `mapstructure:"pool_timeout"`
	DialTimeout     int    `mapstructure:"dial_timeout"`
	ReadTimeout     int    `mapstructure:"read_timeout"`
	WriteTimeout    int    `mapstructure:"write_timeout"`
	MaxRetries      int    `mapstructure:"max_retries"`
	MaxRetryBackoff int    `mapstructure:"max_retry_backoff"` // Milliseconds
	MinRetryBackoff int    `mapstructure:"min_retry_backoff"` // Milliseconds
}

// MongoDB is the configuration for the MongoDB offline document store
type MongoDB struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
	Timeout    int    `mapstructure:"timeout"` // Seconds
}

// Kafka is the configuration for the Kafka in-game event sink
type Kafka struct {
	Brokers         []string `mapstructure:"brokers"`
	Topic           string   `mapstructure:"topic"`
	FlushFrequency  int      `mapstructure:"flush_frequency"`   // Milliseconds
	FlushBytes      int      `mapstructure:"flush_bytes"`       // Bytes
	MaxMessageBytes int      `mapstructure:"max_message_bytes"` // Bytes
	Timeout         int      `mapstructure:"timeout"`           // Seconds
	MaxRetries      int      `mapstructure:"max_retries"`       // Number of retries
	RetryBackoff    int      `mapstructure:"retry_backoff"`     // Milliseconds
}

// Elasticsearch is the configuration for the Elasticsearch in-game event sink
type Elasticsearch struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	Index     string   `mapstructure:"index"`
}

// Validate checks the configuration against the struct validate tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}
