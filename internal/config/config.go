package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"focusconsole/internal/infrastructure/storage"
	"focusconsole/pkg/focus"
)

const (
	EnvDevice      = "FOCUS_DEVICE"
	EnvQuiet       = "FOCUS_QUIET"
	EnvEncoding    = "FOCUS_ENCODING"
	EnvHistoryFile = "FOCUS_HISTORY_FILE"
	EnvLogLevel    = "FOCUS_LOG_LEVEL"

	historyFileName = ".kaleidoscope-focus.hist"
)

// Config - итоговые настройки консоли.
type Config struct {
	Device       string
	Quiet        bool
	BaudRate     int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Encoding     string
	HistoryFile  string // пустая строка отключает историю
	HistoryLimit int
	LogLevel     string
}

type fileConfig struct {
	Device       string `toml:"device"`
	Quiet        bool   `toml:"quiet"`
	BaudRate     int    `toml:"baud_rate"`
	ReadTimeout  string `toml:"read_timeout"`
	WriteTimeout string `toml:"write_timeout"`
	Encoding     string `toml:"encoding"`
	HistoryFile  string `toml:"history_file"`
	HistoryLimit int    `toml:"history_limit"`
	LogLevel     string `toml:"log_level"`
}

// Default возвращает настройки по умолчанию: 9600 8N1, таймауты 5 секунд,
// история в домашнем каталоге.
func Default() Config {
	return Config{
		Device:       DefaultDevice(),
		BaudRate:     focus.DefaultBaudRate,
		ReadTimeout:  focus.DefaultReadTimeout,
		WriteTimeout: focus.DefaultWriteTimeout,
		Encoding:     focus.DefaultEncoding,
		HistoryFile:  defaultHistoryFile(),
		HistoryLimit: storage.DefaultHistoryLimit,
		LogLevel:     "warn",
	}
}

// DefaultDevice возвращает типичный путь к клавиатуре для текущей платформы.
func DefaultDevice() string {
	switch runtime.GOOS {
	case "windows":
		return "COM3"
	case "darwin":
		return "/dev/cu.usbmodem1401"
	default:
		return "/dev/ttyACM0"
	}
}

// DefaultPath возвращает путь к файлу конфигурации по умолчанию.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "focus", "config.toml")
}

func defaultHistoryFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, historyFileName)
}

// Load собирает настройки: значения по умолчанию, затем TOML-файл, затем переменные окружения.
// Отсутствующий файл допустим, только если он не был указан явно.
func Load(path string, explicit bool) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func applyFile(cfg *Config, path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}

	if meta.IsDefined("device") {
		if device := strings.TrimSpace(raw.Device); device != "" {
			cfg.Device = device
		}
	}
	if meta.IsDefined("quiet") {
		cfg.Quiet = raw.Quiet
	}
	if meta.IsDefined("baud_rate") {
		cfg.BaudRate = raw.BaudRate
	}
	if meta.IsDefined("read_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.ReadTimeout))
		if err != nil {
			return fmt.Errorf("parse read_timeout: %w", err)
		}
		cfg.ReadTimeout = d
	}
	if meta.IsDefined("write_timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.WriteTimeout))
		if err != nil {
			return fmt.Errorf("parse write_timeout: %w", err)
		}
		cfg.WriteTimeout = d
	}
	if meta.IsDefined("encoding") {
		cfg.Encoding = strings.TrimSpace(raw.Encoding)
	}
	if meta.IsDefined("history_file") {
		cfg.HistoryFile = expandHome(strings.TrimSpace(raw.HistoryFile))
	}
	if meta.IsDefined("history_limit") {
		cfg.HistoryLimit = raw.HistoryLimit
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(EnvDevice)); v != "" {
		cfg.Device = v
	}
	if raw := strings.TrimSpace(os.Getenv(EnvQuiet)); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("parse %s: %w", EnvQuiet, err)
		}
		cfg.Quiet = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvEncoding)); v != "" {
		cfg.Encoding = v
	}
	if v, ok := os.LookupEnv(EnvHistoryFile); ok {
		cfg.HistoryFile = expandHome(strings.TrimSpace(v))
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

// Validate проверяет значения, которые нельзя исправить молча.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Device) == "" {
		return errors.New("device path is empty")
	}
	if c.BaudRate <= 0 {
		return fmt.Errorf("invalid baud_rate %d", c.BaudRate)
	}
	if c.ReadTimeout < 0 || c.WriteTimeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	return nil
}

// Transport переводит настройки в конфигурацию транспорта.
func (c Config) Transport(logger func(string)) focus.Config {
	return focus.Config{
		Device:       c.Device,
		BaudRate:     c.BaudRate,
		ReadTimeout:  c.ReadTimeout,
		WriteTimeout: c.WriteTimeout,
		Encoding:     c.Encoding,
		Logger:       logger,
	}
}

// LoadDotEnv загружает переменные окружения из path. Отсутствующий файл игнорируется.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
