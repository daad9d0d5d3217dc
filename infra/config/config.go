package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBlobURL    = "https://blob.vercel-storage.com"
	DefaultAddr       = ":3000"
	DefaultGatewayURL = "http://localhost:3000"
)

// Config holds application-level configuration.
type Config struct {
	BackendURL  string `yaml:"backend_url"`  // Hosted auth + rows backend, e.g. "https://xyz.supabase.co"
	BackendKey  string `yaml:"backend_key"`  // Public (anon) key sent as apikey
	BlobToken   string `yaml:"blob_token"`   // Upload storage credential, gateway only
	BlobURL     string `yaml:"blob_url"`     // Upload storage API base
	RedirectURL string `yaml:"redirect_url"` // Optional sign-up confirmation target
	Addr        string `yaml:"addr"`         // Gateway listen address
	GatewayURL  string `yaml:"gateway_url"`  // Where the terminal client uploads images
	SessionPath string `yaml:"session_path"` // Terminal client session file
	DatabaseURL string `yaml:"database_url"` // Optional direct Postgres DSN
}

// BackendConfigured reports whether the hosted backend can be reached.
func (c Config) BackendConfigured() bool {
	return c.BackendURL != "" && c.BackendKey != ""
}

// UploadConfigured reports whether the gateway can store images.
func (c Config) UploadConfigured() bool {
	return c.BlobToken != ""
}

// Load reads the optional YAML file, then applies environment overrides.
//
//	OURJOURNAL_CONFIG      : YAML file (default: ~/.config/ourjournal/config.yaml)
//	OURJOURNAL_BACKEND_URL : Backend URL
//	OURJOURNAL_BACKEND_KEY : Backend public key
//	OURJOURNAL_BLOB_TOKEN  : Upload storage token
//	OURJOURNAL_BLOB_URL    : Upload storage API (default: https://blob.vercel-storage.com)
//	OURJOURNAL_REDIRECT_URL: Sign-up redirect override
//	OURJOURNAL_ADDR        : Gateway listen address (default: ":3000")
//	OURJOURNAL_GATEWAY_URL : Gateway base URL (default: http://localhost:3000)
//	OURJOURNAL_SESSION     : Session file (default: ~/.config/ourjournal/session.json)
//	OURJOURNAL_DATABASE_URL: Direct Postgres DSN
//
// Missing credentials are not an error; each component degrades on its own.
func Load() (Config, error) {
	dir, err := configDir()
	if err != nil {
		return Config{}, err
	}

	path := os.Getenv("OURJOURNAL_CONFIG")
	if path == "" {
		path = filepath.Join(dir, "config.yaml")
	}
	cfg, err := readFile(path)
	if err != nil {
		return Config{}, err
	}

	override(&cfg.BackendURL, "OURJOURNAL_BACKEND_URL")
	override(&cfg.BackendKey, "OURJOURNAL_BACKEND_KEY")
	override(&cfg.BlobToken, "OURJOURNAL_BLOB_TOKEN")
	override(&cfg.BlobURL, "OURJOURNAL_BLOB_URL")
	override(&cfg.RedirectURL, "OURJOURNAL_REDIRECT_URL")
	override(&cfg.Addr, "OURJOURNAL_ADDR")
	override(&cfg.GatewayURL, "OURJOURNAL_GATEWAY_URL")
	override(&cfg.SessionPath, "OURJOURNAL_SESSION")
	override(&cfg.DatabaseURL, "OURJOURNAL_DATABASE_URL")

	if cfg.BlobURL == "" {
		cfg.BlobURL = DefaultBlobURL
	}
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.GatewayURL == "" {
		cfg.GatewayURL = DefaultGatewayURL
	}
	if cfg.SessionPath == "" {
		cfg.SessionPath = filepath.Join(dir, "session.json")
	}

	if cfg.BackendURL != "" {
		if cfg.BackendURL, err = normalizeURL("OURJOURNAL_BACKEND_URL", cfg.BackendURL); err != nil {
			return Config{}, err
		}
	}
	if cfg.BlobURL, err = normalizeURL("OURJOURNAL_BLOB_URL", cfg.BlobURL); err != nil {
		return Config{}, err
	}
	if cfg.GatewayURL, err = normalizeURL("OURJOURNAL_GATEWAY_URL", cfg.GatewayURL); err != nil {
		return Config{}, err
	}
	if cfg.RedirectURL != "" {
		if _, err := url.ParseRequestURI(cfg.RedirectURL); err != nil {
			return Config{}, fmt.Errorf("invalid OURJOURNAL_REDIRECT_URL: %w", err)
		}
	}
	return cfg, nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", "ourjournal"), nil
}

func readFile(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func override(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// normalizeURL requires an absolute URL, https unless the host is loopback,
// and strips the trailing slash.
func normalizeURL(name, raw string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("invalid %s: must be an absolute URL", name)
	}
	switch parsed.Scheme {
	case "https":
	case "http":
		if !isLoopback(parsed.Hostname()) {
			return "", fmt.Errorf("invalid %s: only https is allowed for non-local hosts", name)
		}
	default:
		return "", fmt.Errorf("invalid %s: unsupported scheme %q", name, parsed.Scheme)
	}
	return strings.TrimRight(parsed.String(), "/"), nil
}

func isLoopback(host string) bool {
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
