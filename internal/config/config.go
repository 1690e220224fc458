// Пакет config — загрузка и валидация конфигурации сервиса медиафайлов
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Config содержит все параметры конфигурации сервиса медиафайлов.
type Config struct {
	// Порт HTTP-сервера
	Port int
	// Адрес для bind HTTP-сервера
	Host string
	// Путь к корневой директории хранения файлов
	FileStorage string
	// Публичный базовый URL для построения ссылок скачивания
	FileServerURL string
	// Секрет подписи JWT (HS256)
	SecretKey string
	// Алгоритм подписи JWT
	Algorithm string
	// DSN подключения к PostgreSQL
	DatabaseURL string
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string
	// Максимальное количество записей в LRU-кэше метаданных
	CacheSize int
	// Время жизни записи в кэше метаданных
	CacheTTL time.Duration
	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
	// Таймаут чтения запроса HTTP-сервером
	HTTPReadTimeout time.Duration
	// Таймаут записи ответа HTTP-сервером
	HTTPWriteTimeout time.Duration
	// Таймаут простоя keep-alive соединения
	HTTPIdleTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}

	// FS_PORT — порт HTTP-сервера (по умолчанию 8000)
	port, err := getEnvInt("FS_PORT", 8000)
	if err != nil {
		return nil, fmt.Errorf("FS_PORT: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("FS_PORT: значение %d вне допустимого диапазона 1-65535", port)
	}
	cfg.Port = port

	// FS_HOST — адрес bind (по умолчанию все интерфейсы)
	cfg.Host = getEnvDefault("FS_HOST", "0.0.0.0")

	// FS_FILE_STORAGE — обязательный, корень хранилища
	cfg.FileStorage, err = getEnvRequired("FS_FILE_STORAGE")
	if err != nil {
		return nil, err
	}

	// FS_FILE_SERVER_URL — обязательный, база публичных ссылок
	cfg.FileServerURL, err = getEnvRequired("FS_FILE_SERVER_URL")
	if err != nil {
		return nil, err
	}

	// FS_SECRET_KEY — обязательный, секрет подписи JWT
	cfg.SecretKey, err = getEnvRequired("FS_SECRET_KEY")
	if err != nil {
		return nil, err
	}

	// FS_ALGORITHM — алгоритм подписи JWT (по умолчанию HS256)
	cfg.Algorithm = getEnvDefault("FS_ALGORITHM", "HS256")
	validAlgorithms := map[string]bool{"HS256": true, "HS384": true, "HS512": true}
	if !validAlgorithms[cfg.Algorithm] {
		return nil, fmt.Errorf("FS_ALGORITHM: недопустимое значение %q, допустимые: HS256, HS384, HS512", cfg.Algorithm)
	}

	// FS_DATABASE_URL — обязательный, DSN PostgreSQL
	cfg.DatabaseURL, err = getEnvRequired("FS_DATABASE_URL")
	if err != nil {
		return nil, err
	}

	// FS_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("FS_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("FS_LOG_LEVEL: %w", err)
	}

	// FS_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("FS_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("FS_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// FS_CACHE_SIZE — размер LRU-кэша метаданных (по умолчанию 1024)
	cfg.CacheSize, err = getEnvInt("FS_CACHE_SIZE", 1024)
	if err != nil {
		return nil, fmt.Errorf("FS_CACHE_SIZE: %w", err)
	}
	if cfg.CacheSize <= 0 {
		return nil, fmt.Errorf("FS_CACHE_SIZE: значение должно быть положительным")
	}

	// FS_CACHE_TTL — время жизни записи в кэше (по умолчанию 168h = 7 дней)
	cfg.CacheTTL, err = getEnvDuration("FS_CACHE_TTL", 168*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("FS_CACHE_TTL: %w", err)
	}

	// FS_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s).
	// Должен быть меньше K8s terminationGracePeriodSeconds.
	cfg.ShutdownTimeout, err = getEnvDuration("FS_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FS_SHUTDOWN_TIMEOUT: %w", err)
	}

	// FS_HTTP_READ_TIMEOUT — таймаут чтения запроса (по умолчанию 5m,
	// загрузки больших файлов по медленным каналам)
	cfg.HTTPReadTimeout, err = getEnvDuration("FS_HTTP_READ_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("FS_HTTP_READ_TIMEOUT: %w", err)
	}

	// FS_HTTP_WRITE_TIMEOUT — таймаут записи ответа (по умолчанию 5m)
	cfg.HTTPWriteTimeout, err = getEnvDuration("FS_HTTP_WRITE_TIMEOUT", 5*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("FS_HTTP_WRITE_TIMEOUT: %w", err)
	}

	// FS_HTTP_IDLE_TIMEOUT — таймаут keep-alive (по умолчанию 120s)
	cfg.HTTPIdleTimeout, err = getEnvDuration("FS_HTTP_IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("FS_HTTP_IDLE_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 5m, 168h)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
