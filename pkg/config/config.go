package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile читается, если -config не задан; его отсутствие не ошибка
const DefaultConfigFile = "satchart.yaml"

type AppConfig struct {
	Env       string `yaml:"env"`
	Debug     bool   `yaml:"debug"`
	Variant   string `yaml:"variant" validate:"required"`
	OutputDir string `yaml:"output_dir" validate:"required"`
	// 0 - seed варианта
	Seed     uint64 `yaml:"seed"`
	Language string `yaml:"language" validate:"oneof=en ru"`
	// JSON с переопределениями подписей
	Labels   string `yaml:"labels"`
	Workers  int    `yaml:"workers" validate:"min=1,max=32"`
	Report   bool   `yaml:"report"`
	Snapshot bool   `yaml:"snapshot"`

	Serve ServeConfig `yaml:"serve"`

	// действия командной строки, в файл не пишутся
	List        bool   `yaml:"-"`
	Check       bool   `yaml:"-"`
	WriteConfig string `yaml:"-"`
}

type ServeConfig struct {
	Addr          string        `yaml:"addr"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db" validate:"min=0"`
	CacheTTL      time.Duration `yaml:"cache_ttl" validate:"gt=0"`
	RateLimit     float64       `yaml:"rate_limit" validate:"gt=0"`
	Burst         int           `yaml:"burst" validate:"min=1"`
	Timeout       time.Duration `yaml:"timeout" validate:"gt=0"`
}

// Defaults повторяют канонический запуск: crest, chart.png в текущем каталоге
func Defaults() *AppConfig {
	return &AppConfig{
		Env:       "prod",
		Variant:   "crest",
		OutputDir: ".",
		Language:  "en",
		Workers:   4,
		Serve: ServeConfig{
			CacheTTL:  15 * time.Minute,
			RateLimit: 5,
			Burst:     10,
			Timeout:   15 * time.Second,
		},
	}
}

// Load собирает конфигурацию, приоритет: флаги > файл > окружение (.env) > значения по умолчанию
func Load(args []string, stderr io.Writer) (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := Defaults()
	applyEnv(cfg)

	flags := flag.NewFlagSet("satchart", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", DefaultConfigFile, "Path to YAML config file")
	variantFlag := flags.String("variant", "", `Variant to render, or "all"`)
	outFlag := flags.String("out", "", "Output directory")
	seedFlag := flags.Uint64("seed", 0, "Override the random seed of synthetic variants")
	langFlag := flags.String("lang", "", "Label language (en, ru)")
	labelsFlag := flags.String("labels", "", "JSON file with label overrides")
	workersFlag := flags.Int("workers", 0, "Parallel renders when -variant all")
	reportFlag := flags.Bool("report", false, "Also write a PDF report")
	snapshotFlag := flags.Bool("snapshot", false, "Also write the dataset as CSV")
	serveFlag := flags.String("serve", "", "Serve charts over HTTP on this address")
	debugFlag := flags.Bool("debug", false, "Enable debug logging")
	flags.BoolVar(&cfg.List, "list", false, "List variants and exit")
	flags.BoolVar(&cfg.Check, "check", false, "Regenerate datasets, compare them with saved CSV snapshots and exit")
	flags.StringVar(&cfg.WriteConfig, "write-config", "", "Write the effective config to this path and exit")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	set := map[string]bool{}
	flags.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if err := loadFile(cfg, *configPath); err != nil {
		// файла по умолчанию может не быть
		if set["config"] || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	if set["variant"] {
		cfg.Variant = *variantFlag
	}
	if set["out"] {
		cfg.OutputDir = *outFlag
	}
	if set["seed"] {
		cfg.Seed = *seedFlag
	}
	if set["lang"] {
		cfg.Language = *langFlag
	}
	if set["labels"] {
		cfg.Labels = *labelsFlag
	}
	if set["workers"] {
		cfg.Workers = *workersFlag
	}
	if set["report"] {
		cfg.Report = *reportFlag
	}
	if set["snapshot"] {
		cfg.Snapshot = *snapshotFlag
	}
	if set["serve"] {
		cfg.Serve.Addr = *serveFlag
	}
	if set["debug"] {
		cfg.Debug = *debugFlag
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Serve.RedisAddr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Serve.RedisPassword = v
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Serve.RedisDB = n
		}
	}
}

func loadFile(cfg *AppConfig, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

var validate = validator.New()

// Validate проверяет итоговую конфигурацию
func Validate(cfg *AppConfig) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SaveConfig пишет конфигурацию в YAML
func SaveConfig(cfg *AppConfig, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
