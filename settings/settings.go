// Package settings loads runtime settings from an optional YAML file and
// STRANDS_* environment variables.
package settings

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "STRANDS"

type Settings struct {
	ServerURL string

	PingInterval time.Duration
	WriteWait    time.Duration
	ReplayStep   time.Duration

	IdentityFile string
	BoardsDir    string

	HTTPHost string
	HTTPPort int

	RequestTimeout time.Duration
}

// Addr is the local API listen address.
func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.HTTPHost, s.HTTPPort)
}

// Load reads path when it is set, then the environment. A missing file is
// an error only when path is given explicitly; without a path, settings.yaml
// in the working directory is used if present.
func Load(path string) (Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("settings")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.url", "ws://localhost:8802")
	v.SetDefault("link.ping_interval", 2*time.Minute)
	v.SetDefault("link.write_wait", 10*time.Second)
	v.SetDefault("sync.replay_step", 50*time.Millisecond)
	v.SetDefault("identity.file", "identity.json")
	v.SetDefault("boards.dir", "boards")
	v.SetDefault("http.host", "localhost")
	v.SetDefault("http.port", 8090)
	v.SetDefault("request.timeout", 10*time.Second)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("read settings: %w", err)
		}
	}

	s := Settings{
		ServerURL:      strings.TrimSpace(v.GetString("server.url")),
		PingInterval:   v.GetDuration("link.ping_interval"),
		WriteWait:      v.GetDuration("link.write_wait"),
		ReplayStep:     v.GetDuration("sync.replay_step"),
		IdentityFile:   strings.TrimSpace(v.GetString("identity.file")),
		BoardsDir:      strings.TrimSpace(v.GetString("boards.dir")),
		HTTPHost:       strings.TrimSpace(v.GetString("http.host")),
		HTTPPort:       v.GetInt("http.port"),
		RequestTimeout: v.GetDuration("request.timeout"),
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate checks ranges and formats.
func (s Settings) Validate() error {
	u, err := url.Parse(s.ServerURL)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
		return fmt.Errorf("invalid server.url %q: want ws:// or wss://", s.ServerURL)
	}
	if s.PingInterval <= 0 {
		return fmt.Errorf("invalid link.ping_interval %s", s.PingInterval)
	}
	if s.WriteWait <= 0 {
		return fmt.Errorf("invalid link.write_wait %s", s.WriteWait)
	}
	if s.ReplayStep < 0 {
		return fmt.Errorf("invalid sync.replay_step %s", s.ReplayStep)
	}
	if s.HTTPPort <= 0 || s.HTTPPort > 65535 {
		return fmt.Errorf("invalid http.port %d", s.HTTPPort)
	}
	if s.RequestTimeout <= 0 {
		return fmt.Errorf("invalid request.timeout %s", s.RequestTimeout)
	}
	if s.BoardsDir == "" {
		return fmt.Errorf("boards.dir must not be empty")
	}
	return nil
}
