package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server    ServerConfig
	Assistant AssistantConfig
	Logging   LoggingConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	assistant, err := loadAssistantConfig()
	if err != nil {
		return nil, err
	}

	logging, err := loadLoggingConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Assistant: assistant, Logging: logging}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr              string
	AllowedOrigin     string
	HeartbeatInterval time.Duration
	ShutdownTimeout   time.Duration
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	heartbeat, err := parseDurationEnv("STREAM_HEARTBEAT_INTERVAL", 15*time.Second)
	if err != nil {
		return ServerConfig{}, err
	}
	if heartbeat <= 0 {
		return ServerConfig{}, fmt.Errorf("invalid STREAM_HEARTBEAT_INTERVAL value %q: must be positive", os.Getenv("STREAM_HEARTBEAT_INTERVAL"))
	}

	shutdown, err := parseDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return ServerConfig{}, err
	}

	cfg := ServerConfig{
		AllowedOrigin:     getEnvOrDefault("CORS_ALLOWED_ORIGIN", "*"),
		HeartbeatInterval: heartbeat,
		ShutdownTimeout:   shutdown,
	}

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		cfg.Addr = port
		return cfg, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	cfg.Addr = ":" + port
	return cfg, nil
}

// AssistantConfig 描述模拟助手的行为。
type AssistantConfig struct {
	// ResponseDelay is the artificial "thinking" pause before a reply is delivered.
	ResponseDelay time.Duration
	HistoryLimit  int
	// PromptsFile overrides the built-in sample prompts when set.
	PromptsFile string
}

func loadAssistantConfig() (AssistantConfig, error) {
	delay, err := parseDurationEnv("ASSISTANT_RESPONSE_DELAY", 1500*time.Millisecond)
	if err != nil {
		return AssistantConfig{}, err
	}
	if delay < 0 {
		delay = 0
	}

	history := 10
	if override, err := parseOptionalIntEnv("ASSISTANT_HISTORY_LIMIT"); err != nil {
		return AssistantConfig{}, err
	} else if override != nil {
		if *override < 0 {
			history = 0
		} else {
			history = *override
		}
	}

	return AssistantConfig{
		ResponseDelay: delay,
		HistoryLimit:  history,
		PromptsFile:   strings.TrimSpace(os.Getenv("PROMPTS_FILE")),
	}, nil
}

// LoggingConfig 描述日志输出。
type LoggingConfig struct {
	Level        string
	Encoding     string
	File         string
	Development  bool
	EnableCaller bool
	ServiceName  string
}

func loadLoggingConfig() (LoggingConfig, error) {
	development, err := parseBoolEnv("LOG_DEVELOPMENT", false)
	if err != nil {
		return LoggingConfig{}, err
	}

	caller, err := parseBoolEnv("LOG_CALLER", false)
	if err != nil {
		return LoggingConfig{}, err
	}

	return LoggingConfig{
		Level:        strings.ToLower(getEnvOrDefault("LOG_LEVEL", "info")),
		Encoding:     strings.ToLower(getEnvOrDefault("LOG_ENCODING", "console")),
		File:         strings.TrimSpace(os.Getenv("LOG_FILE")),
		Development:  development,
		EnableCaller: caller,
		ServiceName:  getEnvOrDefault("SERVICE_NAME", "navigator"),
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
