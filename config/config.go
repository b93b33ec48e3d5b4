// Package config loads reader, storage and export settings from an optional
// TOML file and the environment. Environment variables win over the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/sdifrance/gribindex"
	"github.com/sdifrance/gribindex/storage"
)

// Config holds application configuration.
type Config struct {
	Reader ReaderConfig `toml:"reader"`
	MinIO  MinIOConfig  `toml:"minio"`
	Export ExportConfig `toml:"export"`
}

// ReaderConfig controls index reads.
type ReaderConfig struct {
	Attempts   int      `toml:"attempts"`
	RetryDelay Duration `toml:"retry_delay"`
	Timing     bool     `toml:"timing"`
}

// MinIOConfig locates the bucket holding index files.
type MinIOConfig struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Bucket    string `toml:"bucket"`
	UseSSL    bool   `toml:"use_ssl"`
}

// ExportConfig holds export destinations.
type ExportConfig struct {
	SQLitePath string `toml:"sqlite_path"`
}

// Duration is a time.Duration written as a string such as "1s".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// ErrMissingRequiredEnvVar is returned when a setting the chosen store needs
// is left empty by both the file and the environment.
type ErrMissingRequiredEnvVar struct {
	Name string
}

func (e *ErrMissingRequiredEnvVar) Error() string {
	return fmt.Sprintf("required environment variable %q is not set", e.Name)
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	opts := gribindex.DefaultOptions()
	return &Config{
		Reader: ReaderConfig{
			Attempts:   opts.Attempts,
			RetryDelay: Duration{opts.RetryDelay},
		},
	}
}

// Load reads the TOML file at path, if path is not empty, over the defaults
// and then applies environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, errors.Wrapf(err, "config: reading %s", path)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("config: unknown keys in %s: %v", path, undecoded)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("GRIBINDEX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.Wrap(err, "config: GRIBINDEX_ATTEMPTS")
		}
		c.Reader.Attempts = n
	}
	if v := os.Getenv("GRIBINDEX_RETRY_DELAY"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(err, "config: GRIBINDEX_RETRY_DELAY")
		}
		c.Reader.RetryDelay = Duration{d}
	}
	if v := os.Getenv("GRIBINDEX_TIMING"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(err, "config: GRIBINDEX_TIMING")
		}
		c.Reader.Timing = b
	}
	setString(&c.MinIO.Endpoint, "MINIO_ENDPOINT")
	setString(&c.MinIO.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.MinIO.SecretKey, "MINIO_SECRET_KEY")
	setString(&c.MinIO.Bucket, "MINIO_BUCKET")
	if v := os.Getenv("MINIO_USE_SSL"); v != "" {
		c.MinIO.UseSSL = v == "true"
	}
	return nil
}

func setString(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

// ReaderOptions returns the options for gribindex.NewReader.
func (c *Config) ReaderOptions() gribindex.Options {
	return gribindex.Options{
		Attempts:   c.Reader.Attempts,
		RetryDelay: c.Reader.RetryDelay.Duration,
		Timing:     c.Reader.Timing,
	}
}

// Storage returns the MinIO settings. Every field but UseSSL is required.
func (c *Config) Storage() (storage.MinIOConfig, error) {
	required := []struct {
		name  string
		value string
	}{
		{"MINIO_ENDPOINT", c.MinIO.Endpoint},
		{"MINIO_ACCESS_KEY", c.MinIO.AccessKey},
		{"MINIO_SECRET_KEY", c.MinIO.SecretKey},
		{"MINIO_BUCKET", c.MinIO.Bucket},
	}
	for _, r := range required {
		if r.value == "" {
			return storage.MinIOConfig{}, &ErrMissingRequiredEnvVar{Name: r.name}
		}
	}
	return storage.MinIOConfig{
		Endpoint:  c.MinIO.Endpoint,
		AccessKey: c.MinIO.AccessKey,
		SecretKey: c.MinIO.SecretKey,
		Bucket:    c.MinIO.Bucket,
		UseSSL:    c.MinIO.UseSSL,
	}, nil
}
