package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config/config.yml"

type (
	// Config -.
	Config struct {
		App      `yaml:"app"`
		Server   `yaml:"server"`
		Log      `yaml:"logger"`
		Upstream `yaml:"upstream"`
		OTEL     `yaml:"otel"`
	}

	// App -.
	App struct {
		Name    string `env-required:"true" yaml:"name"    env:"APP_NAME"`
		Version string `env-required:"true" yaml:"version" env:"APP_VERSION"`
	}

	// Server -.
	Server struct {
		Port            string        `env-required:"true" yaml:"port" env:"PORT"`
		StaticDir       string        `yaml:"static_dir"       env:"STATIC_DIR"       env-default:"./web"`
		MaxBodyBytes    int64         `yaml:"max_body_bytes"   env:"MAX_BODY_BYTES"   env-default:"104857600"`
		ReadTimeout     time.Duration `yaml:"read_timeout"     env:"HTTP_READ_TIMEOUT"`
		WriteTimeout    time.Duration `yaml:"write_timeout"    env:"HTTP_WRITE_TIMEOUT"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"30s"`
	}

	// Log -.
	Log struct {
		Level string `env-required:"true" yaml:"log_level"   env:"LOG_LEVEL"`
	}

	// Upstream holds the three third-party APIs the relay forwards to.
	Upstream struct {
		LinkResolver Endpoint `yaml:"link_resolver" env-prefix:"RAPID_API_"`
		VocalRemover Endpoint `yaml:"vocal_remover" env-prefix:"VOCAL_REMOVER_API_"`
		Speech       Endpoint `yaml:"speech"        env-prefix:"SPEECH_RECOGNITION_API_"`
	}

	// Endpoint is a fixed upstream URL plus its credential header pair.
	Endpoint struct {
		URL  string `env-required:"true" yaml:"url"  env:"URL"`
		Host string `env-required:"true" yaml:"host" env:"HOST"`
		Key  string `env-required:"true" yaml:"key"  env:"KEY"`
	}

	OTEL struct {
		// Exporter is one of none, jaeger or otlp.
		Exporter string `yaml:"exporter" env:"OTEL_EXPORTER" env-default:"none"`
		Endpoint string `yaml:"endpoint" env:"OTEL_ENDPOINT"`
	}
)

// NewConfig returns app config.
func NewConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}
	return NewConfigFrom(path)
}

// NewConfigFrom reads the yaml file at path and applies environment overrides on top.
func NewConfigFrom(path string) (*Config, error) {
	cfg := &Config{}

	err := cleanenv.ReadConfig(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	return cfg, nil
}
