// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"github.com/hamma-dev/brokkr/pkg/collector"
	"github.com/hamma-dev/brokkr/pkg/collector/power"
	"github.com/hamma-dev/brokkr/pkg/defaults"
	bkerrors "github.com/hamma-dev/brokkr/pkg/errors"
	"github.com/hamma-dev/brokkr/pkg/server"
)

const (
	// CurrentVersion is the only config_version this build understands.
	CurrentVersion = 1

	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "BROKKR"

	// staleIntervals is how many missed samples make the server not ready.
	staleIntervals = 3

	// EnvConfigPath names the config file when --config is not given.
	EnvConfigPath = "BROKKR_CONFIG"
)

// Config is the root of the brokkr configuration file.
type Config struct {
	ConfigVersion int            `json:"config_version" yaml:"config_version"`
	General       GeneralConfig  `json:"general" yaml:"general"`
	Monitor       MonitorConfig  `json:"monitor" yaml:"monitor"`
	SunSaver      SunSaverConfig `json:"sunsaver" yaml:"sunsaver"`
	Server        ServerConfig   `json:"server" yaml:"server"`
}

// GeneralConfig holds the network identity of the sensor link.
type GeneralConfig struct {
	SensorIP string `json:"ip_sensor" yaml:"ip_sensor"`
	LocalIP  string `json:"ip_local" yaml:"ip_local"`
}

// MonitorConfig controls acquisition and persistence.
type MonitorConfig struct {
	StatusPort     int     `json:"hs_port" yaml:"hs_port"`
	StatusTimeout  float64 `json:"hs_timeout_s" yaml:"hs_timeout_s"`
	PingTimeout    float64 `json:"ping_timeout_s" yaml:"ping_timeout_s"`
	IntervalLog    float64 `json:"interval_log_s" yaml:"interval_log_s"`
	IntervalSleep  float64 `json:"interval_sleep_s" yaml:"interval_sleep_s"`
	OutputPath     string  `json:"output_path" yaml:"output_path"`
	FilenamePrefix string  `json:"filename_prefix" yaml:"filename_prefix"`
}

// SunSaverConfig configures the Modbus RTU power controller.
type SunSaverConfig struct {
	Enabled  bool    `json:"enabled" yaml:"enabled"`
	Port     string  `json:"port" yaml:"port"`
	BaudRate int     `json:"baud_rate" yaml:"baud_rate"`
	UnitID   int     `json:"unit_id" yaml:"unit_id"`
	Timeout  float64 `json:"timeout_s" yaml:"timeout_s"`
}

// ServerConfig configures the optional status HTTP server.
type ServerConfig struct {
	Enabled        bool    `json:"enabled" yaml:"enabled"`
	Address        string  `json:"address" yaml:"address"`
	RateLimit      float64 `json:"rate_limit" yaml:"rate_limit"`
	RateLimitBurst int     `json:"rate_limit_burst" yaml:"rate_limit_burst"`
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads the configuration at path, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (*Config, error) {
	c := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			code := bkerrors.ErrCodeInternal
			if os.IsNotExist(err) {
				code = bkerrors.ErrCodeNotFound
			}
			return nil, bkerrors.WrapWithContext(code, "failed to read config file", err,
				map[string]any{"path": path})
		}
		if err := yaml.Unmarshal(raw, c); err != nil {
			return nil, bkerrors.WrapWithContext(bkerrors.ErrCodeInvalidRequest,
				"failed to parse config file", err, map[string]any{"path": path})
		}
	}

	if err := c.applyEnv(newEnv()); err != nil {
		return nil, err
	}

	c.applyDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) applyDefaults() {
	if c.ConfigVersion == 0 {
		c.ConfigVersion = CurrentVersion
	}
	if c.General.SensorIP == "" {
		c.General.SensorIP = defaults.SensorIP
	}
	if c.General.LocalIP == "" {
		c.General.LocalIP = defaults.LocalIP
	}
	if c.Monitor.StatusPort == 0 {
		c.Monitor.StatusPort = defaults.StatusPort
	}
	if c.Monitor.StatusTimeout == 0 {
		c.Monitor.StatusTimeout = defaults.StatusTimeout.Seconds()
	}
	if c.Monitor.PingTimeout == 0 {
		c.Monitor.PingTimeout = defaults.PingTimeout.Seconds()
	}
	if c.Monitor.IntervalLog == 0 {
		c.Monitor.IntervalLog = defaults.MonitorInterval.Seconds()
	}
	if c.Monitor.IntervalSleep == 0 {
		c.Monitor.IntervalSleep = defaults.SleepInterval.Seconds()
	}
	if c.Monitor.OutputPath == "" {
		c.Monitor.OutputPath = filepath.Join(defaults.OutputBase, defaults.OutputSubpath)
	}
	if c.Monitor.FilenamePrefix == "" {
		c.Monitor.FilenamePrefix = defaults.FilenamePrefix
	}
	if c.SunSaver.Port == "" {
		c.SunSaver.Port = defaults.PowerSerialPort
	}
	if c.SunSaver.BaudRate == 0 {
		c.SunSaver.BaudRate = defaults.PowerBaudRate
	}
	if c.SunSaver.UnitID == 0 {
		c.SunSaver.UnitID = defaults.PowerUnitID
	}
	if c.SunSaver.Timeout == 0 {
		c.SunSaver.Timeout = defaults.PowerTimeout.Seconds()
	}
	if c.Server.Address == "" {
		c.Server.Address = defaults.ServerAddress
	}
	if c.Server.RateLimit == 0 {
		c.Server.RateLimit = 20
	}
	if c.Server.RateLimitBurst == 0 {
		c.Server.RateLimitBurst = 40
	}
}

func (c *Config) validate() error {
	invalid := func(key string, value any, reason string) error {
		return bkerrors.NewWithContext(bkerrors.ErrCodeInvalidRequest,
			fmt.Sprintf("invalid config value for %s: %s", key, reason),
			map[string]any{"key": key, "value": value})
	}

	if c.ConfigVersion != CurrentVersion {
		return invalid("config_version", c.ConfigVersion,
			fmt.Sprintf("unsupported version, expected %d", CurrentVersion))
	}
	if net.ParseIP(c.General.LocalIP) == nil {
		return invalid("general.ip_local", c.General.LocalIP, "not an IP address")
	}
	if strings.TrimSpace(c.General.SensorIP) == "" {
		return invalid("general.ip_sensor", c.General.SensorIP, "must not be empty")
	}
	if c.Monitor.StatusPort < 1 || c.Monitor.StatusPort > 65535 {
		return invalid("monitor.hs_port", c.Monitor.StatusPort, "must be between 1 and 65535")
	}

	positive := []struct {
		key   string
		value float64
	}{
		{"monitor.hs_timeout_s", c.Monitor.StatusTimeout},
		{"monitor.ping_timeout_s", c.Monitor.PingTimeout},
		{"monitor.interval_log_s", c.Monitor.IntervalLog},
		{"monitor.interval_sleep_s", c.Monitor.IntervalSleep},
		{"sunsaver.timeout_s", c.SunSaver.Timeout},
		{"server.rate_limit", c.Server.RateLimit},
	}
	for _, p := range positive {
		if p.value <= 0 {
			return invalid(p.key, p.value, "must be positive")
		}
	}

	if c.SunSaver.BaudRate < 0 {
		return invalid("sunsaver.baud_rate", c.SunSaver.BaudRate, "must be positive")
	}
	if c.SunSaver.UnitID < 1 || c.SunSaver.UnitID > 247 {
		return invalid("sunsaver.unit_id", c.SunSaver.UnitID, "must be between 1 and 247")
	}
	if c.Server.RateLimitBurst < 1 {
		return invalid("server.rate_limit_burst", c.Server.RateLimitBurst, "must be positive")
	}
	if c.Server.Enabled {
		if _, _, err := net.SplitHostPort(c.Server.Address); err != nil {
			return invalid("server.address", c.Server.Address, err.Error())
		}
	}
	return nil
}

// envKeys maps each overridable key to the field it sets.
func (c *Config) envKeys() map[string]any {
	return map[string]any{
		"general.ip_sensor":        &c.General.SensorIP,
		"general.ip_local":         &c.General.LocalIP,
		"monitor.hs_port":          &c.Monitor.StatusPort,
		"monitor.hs_timeout_s":     &c.Monitor.StatusTimeout,
		"monitor.ping_timeout_s":   &c.Monitor.PingTimeout,
		"monitor.interval_log_s":   &c.Monitor.IntervalLog,
		"monitor.interval_sleep_s": &c.Monitor.IntervalSleep,
		"monitor.output_path":      &c.Monitor.OutputPath,
		"monitor.filename_prefix":  &c.Monitor.FilenamePrefix,
		"sunsaver.enabled":         &c.SunSaver.Enabled,
		"sunsaver.port":            &c.SunSaver.Port,
		"sunsaver.baud_rate":       &c.SunSaver.BaudRate,
		"sunsaver.unit_id":         &c.SunSaver.UnitID,
		"sunsaver.timeout_s":       &c.SunSaver.Timeout,
		"server.enabled":           &c.Server.Enabled,
		"server.address":           &c.Server.Address,
		"server.rate_limit":        &c.Server.RateLimit,
		"server.rate_limit_burst":  &c.Server.RateLimitBurst,
	}
}

// newEnv returns a viper instance resolving section.key to
// BROKKR_SECTION_KEY.
func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// applyEnv overrides scalar keys from BROKKR_<SECTION>_<KEY> variables.
func (c *Config) applyEnv(v *viper.Viper) error {
	for key, field := range c.envKeys() {
		if !v.IsSet(key) {
			continue
		}
		raw := strings.TrimSpace(v.GetString(key))
		if err := setScalar(field, raw); err != nil {
			name := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
			return bkerrors.WrapWithContext(bkerrors.ErrCodeInvalidRequest,
				"invalid environment override", err, map[string]any{"variable": name})
		}
	}
	return nil
}

func setScalar(field any, raw string) error {
	var err error
	switch p := field.(type) {
	case *string:
		*p = raw
	case *int:
		*p, err = strconv.Atoi(raw)
	case *float64:
		*p, err = strconv.ParseFloat(raw, 64)
	case *bool:
		*p, err = strconv.ParseBool(raw)
	default:
		err = fmt.Errorf("unsupported field type %T", field)
	}
	return err
}

// OutputPath returns the telemetry output path with ~ expanded.
func (c *Config) OutputPath() string {
	return ExpandHome(c.Monitor.OutputPath)
}

// Interval returns the sampling interval.
func (c *Config) Interval() time.Duration {
	return seconds(c.Monitor.IntervalLog)
}

// SleepInterval returns the scheduler wait increment.
func (c *Config) SleepInterval() time.Duration {
	return seconds(c.Monitor.IntervalSleep)
}

// SourceConfig returns the data source settings for collector.DefaultSources.
func (c *Config) SourceConfig(logger *slog.Logger) collector.SourceConfig {
	return collector.SourceConfig{
		SensorHost:    c.General.SensorIP,
		LocalHost:     c.General.LocalIP,
		StatusPort:    c.Monitor.StatusPort,
		StatusTimeout: seconds(c.Monitor.StatusTimeout),
		PingTimeout:   seconds(c.Monitor.PingTimeout),
		Power:         c.PowerConfig(logger),
		Logger:        logger,
	}
}

// PowerConfig returns the power controller settings, or nil when disabled.
func (c *Config) PowerConfig(logger *slog.Logger) *power.Config {
	if !c.SunSaver.Enabled {
		return nil
	}
	return &power.Config{
		Port:     c.SunSaver.Port,
		BaudRate: c.SunSaver.BaudRate,
		UnitID:   byte(c.SunSaver.UnitID),
		Timeout:  seconds(c.SunSaver.Timeout),
		Logger:   logger,
	}
}

// ServerConfig returns the status server settings.
func (c *Config) ServerConfig(version string) *server.Config {
	sc := server.NewConfig()
	sc.Address = c.Server.Address
	sc.RateLimit = rate.Limit(c.Server.RateLimit)
	sc.RateLimitBurst = c.Server.RateLimitBurst
	sc.StaleAfter = staleIntervals * c.Interval()
	if version != "" {
		sc.Version = version
	}
	return sc
}

// ExpandHome replaces a leading ~ with the current user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
