// Copyright 2026 The routex Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables read by Load.
const EnvPrefix = "ROUTEX"

// Config is the complete client configuration.
type Config struct {
	// BaseURL is prepended to relative request URIs.
	BaseURL string `mapstructure:"base_url" yaml:"base_url" validate:"omitempty,url"`
	// Timeout bounds each attempt. Zero means no timeout.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=0"`
	// Retry configures retries. Zero Times means no retries.
	Retry Retry `mapstructure:"retry" yaml:"retry"`
	// RateLimit paces requests. Zero RPS means no limit.
	RateLimit RateLimit `mapstructure:"rate_limit" yaml:"rate_limit"`
	// Log configures the request log.
	Log Log `mapstructure:"log" yaml:"log"`
	// Headers are added to every request which does not set them.
	Headers map[string]string `mapstructure:"headers" yaml:"headers" validate:"dive,keys,required,endkeys"`
	// RequestID tags every request with an X-Request-Id header.
	RequestID bool `mapstructure:"request_id" yaml:"request_id"`
	// Tracing traces every request with the global OpenTelemetry
	// tracer provider.
	Tracing bool `mapstructure:"tracing" yaml:"tracing"`
}

// Retry configures the retry plugin.
type Retry struct {
	Times int           `mapstructure:"times" yaml:"times" validate:"gte=0,lte=100"`
	Base  time.Duration `mapstructure:"base" yaml:"base" validate:"gt=0"`
	Max   time.Duration `mapstructure:"max" yaml:"max" validate:"gtefield=Base"`
	// RetryAfter honours Retry-After response headers, up to Max.
	RetryAfter bool `mapstructure:"retry_after" yaml:"retry_after"`
}

// RateLimit configures the rate limiting plugin.
type RateLimit struct {
	RPS   float64 `mapstructure:"rps" yaml:"rps" validate:"gte=0"`
	Burst int     `mapstructure:"burst" yaml:"burst" validate:"gte=0"`
}

// Log configures the logging plugin.
type Log struct {
	Level  string `mapstructure:"level" yaml:"level" validate:"oneof=trace debug info warn error disabled"`
	Format string `mapstructure:"format" yaml:"format" validate:"oneof=json console"`
}

// Default returns the configuration used for keys that are not set.
func Default() Config {
	return Config{
		Retry: Retry{
			Base: 50 * time.Millisecond,
			Max:  time.Second,
		},
		RateLimit: RateLimit{Burst: 1},
		Log: Log{
			Level:  "info",
			Format: "json",
		},
		RequestID: true,
	}
}

// Load reads the configuration file at path, if path is not empty,
// applies environment overrides and defaults, and validates the
// result.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("routex/config: reading %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("routex/config: decoding: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("base_url", d.BaseURL)
	v.SetDefault("timeout", d.Timeout)
	v.SetDefault("retry.times", d.Retry.Times)
	v.SetDefault("retry.base", d.Retry.Base)
	v.SetDefault("retry.max", d.Retry.Max)
	v.SetDefault("retry.retry_after", d.Retry.RetryAfter)
	v.SetDefault("rate_limit.rps", d.RateLimit.RPS)
	v.SetDefault("rate_limit.burst", d.RateLimit.Burst)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("request_id", d.RequestID)
	v.SetDefault("tracing", d.Tracing)
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Validate checks c and returns an error naming every invalid key.
func (c Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("routex/config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, key(e)+": "+describe(e))
	}
	return fmt.Errorf("routex/config: invalid configuration: %s", strings.Join(msgs, "; "))
}

// key turns a namespace such as "Config.retry.max" into "retry.max".
func key(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "gte":
		return "must be at least " + e.Param()
	case "lte":
		return "must be at most " + e.Param()
	case "gtefield":
		return "must not be less than " + strings.ToLower(e.Param())
	default:
		return "is invalid"
	}
}
