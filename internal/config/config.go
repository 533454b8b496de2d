// Package config loads mudra settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvCameraID        = "MUDRA_CAMERA_ID"
	EnvTickInterval    = "MUDRA_TICK_INTERVAL"
	EnvMaxReadFailures = "MUDRA_MAX_READ_FAILURES"
	EnvFaceCascade     = "MUDRA_FACE_CASCADE"
	EnvSmileCascade    = "MUDRA_SMILE_CASCADE"
	EnvMediaPipeScript = "MUDRA_MEDIAPIPE_SCRIPT"
	EnvPython          = "MUDRA_PYTHON"
	EnvLogLevel        = "MUDRA_LOG_LEVEL"
	EnvLogFile         = "MUDRA_LOG_FILE"
	EnvDBPath          = "MUDRA_DB_PATH"
)

// Config holds application settings.
type Config struct {
	CameraID        int           `validate:"gte=0"`
	TickInterval    time.Duration `validate:"gt=0"`
	MaxReadFailures int           `validate:"gte=1"`
	FaceCascade     string        `validate:"required"`
	SmileCascade    string        `validate:"required"`
	MediaPipeScript string
	Python          string
	LogLevel        string `validate:"oneof=trace debug info warn warning error fatal panic"`
	LogFile         string
	DBPath          string
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		CameraID:        0,
		TickInterval:    10 * time.Millisecond,
		MaxReadFailures: 5,
		FaceCascade:     "data/haarcascade_frontalface_default.xml",
		SmileCascade:    "data/haarcascade_smile.xml",
		LogLevel:        "info",
	}
}

// Load reads .env files (missing files are ignored), applies MUDRA_*
// variables over the defaults and validates the result.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, which has the signature of os.LookupEnv.
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	if v, ok := lookup(EnvCameraID); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvCameraID, err)
		}
		cfg.CameraID = n
	}
	if v, ok := lookup(EnvTickInterval); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvTickInterval, err)
		}
		cfg.TickInterval = d
	}
	if v, ok := lookup(EnvMaxReadFailures); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvMaxReadFailures, err)
		}
		cfg.MaxReadFailures = n
	}

	strs := []struct {
		key string
		dst *string
	}{
		{EnvFaceCascade, &cfg.FaceCascade},
		{EnvSmileCascade, &cfg.SmileCascade},
		{EnvMediaPipeScript, &cfg.MediaPipeScript},
		{EnvPython, &cfg.Python},
		{EnvLogLevel, &cfg.LogLevel},
		{EnvLogFile, &cfg.LogFile},
		{EnvDBPath, &cfg.DBPath},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok {
			*s.dst = v
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
