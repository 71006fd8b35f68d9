package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// DatabasePath points at the SQLite file backing the polling API.
	// Empty disables persistence entirely.
	DatabasePath string `mapstructure:"database_path" yaml:"database_path"`

	MaxRoomCapacity     int `mapstructure:"max_room_capacity" yaml:"max_room_capacity"`
	DefaultRoomCapacity int `mapstructure:"default_room_capacity" yaml:"default_room_capacity"`
	MaxMessageLength    int `mapstructure:"max_message_length" yaml:"max_message_length"`
	MinAccessCodeLength int `mapstructure:"min_access_code_length" yaml:"min_access_code_length"`
	SendQueueSize       int `mapstructure:"send_queue_size" yaml:"send_queue_size"`

	// MessagesPerMinute rate-limits chat messages per connection.
	// Zero disables the limiter.
	MessagesPerMinute int `mapstructure:"messages_per_minute" yaml:"messages_per_minute"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:                ":8080",
		ReadHeaderTimeout:   5 * time.Second,
		ShutdownTimeout:     5 * time.Second,
		LogLevel:            "info",
		DatabasePath:        "",
		MaxRoomCapacity:     50,
		DefaultRoomCapacity: 10,
		MaxMessageLength:    100,
		MinAccessCodeLength: 4,
		SendQueueSize:       32,
		MessagesPerMinute:   60,
	}
}
