package config

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultConfigPath = "/etc/vault"
	ConfigFileName    = "vault.yml"
)

// VaultConfig holds all vault server settings. Values come from the
// config file with VAULT_* environment variables taking precedence, and
// every attribute remembers which source supplied it.
type VaultConfig struct {
	// TrustedProxies is a list of CIDR ranges for trusted proxies
	TrustedProxies []string `yaml:"trusted_proxies" json:"trusted_proxies"`

	// ListLimitMax caps the page size of child-listing requests
	ListLimitMax int `yaml:"list_limit_max" json:"list_limit_max"`

	// TokenTTL is the lifetime of issued authorization tokens in seconds
	TokenTTL int `yaml:"token_ttl" json:"token_ttl"`

	// AuditEnabled turns the audit log on or off
	AuditEnabled bool `yaml:"audit_enabled" json:"audit_enabled"`

	// AttachmentURLTTL is the lifetime of presigned attachment download
	// URLs in seconds
	AttachmentURLTTL int `yaml:"attachment_url_ttl" json:"attachment_url_ttl"`

	// BindAddress is the address the API server listens on
	BindAddress string `yaml:"bind_address" json:"bind_address"`

	// Port is the port the API server listens on
	Port int `yaml:"port" json:"port"`

	// sources tracks where each value came from
	sources map[string]string

	// configFilePath is the path to the config file
	configFilePath string
}

// Attribute represents a configuration attribute with its value and source
type Attribute struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Source string `json:"source"`
}

// Global singleton config
var (
	globalConfig *VaultConfig
	configMu     sync.RWMutex
)

// Get returns the global configuration, loading it if necessary
func Get() *VaultConfig {
	configMu.RLock()
	if globalConfig != nil {
		configMu.RUnlock()
		return globalConfig
	}
	configMu.RUnlock()

	configMu.Lock()
	defer configMu.Unlock()

	if globalConfig == nil {
		cfg, err := Load()
		if err != nil {
			// Return defaults on error
			globalConfig = newDefault()
		} else {
			globalConfig = cfg
		}
	}
	return globalConfig
}

// Reload reloads the configuration from file and environment
func Reload() error {
	cfg, err := Load()
	if err != nil {
		return err
	}

	configMu.Lock()
	globalConfig = cfg
	configMu.Unlock()
	return nil
}

// newDefault returns a config with default values
func newDefault() *VaultConfig {
	return &VaultConfig{
		TrustedProxies:   []string{},
		ListLimitMax:     100,
		TokenTTL:         480,
		AuditEnabled:     true,
		AttachmentURLTTL: 900,
		BindAddress:      "0.0.0.0",
		Port:             8080,
		sources:          make(map[string]string),
	}
}

// Load loads configuration from file and environment variables.
// Environment variables take precedence over file values.
func Load() (*VaultConfig, error) {
	config := newDefault()

	for _, name := range attributeNames() {
		config.sources[name] = "default"
	}

	configPath := os.Getenv("VAULT_CONFIG_PATH")
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	config.configFilePath = filepath.Join(configPath, ConfigFileName)

	if data, err := os.ReadFile(config.configFilePath); err == nil {
		var fileConfig VaultConfig
		if err := yaml.Unmarshal(data, &fileConfig); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", config.configFilePath, err)
		}
		config.applyFileConfig(&fileConfig)
	}

	config.applyEnvConfig()

	return config, nil
}

func attributeNames() []string {
	return []string{
		"trusted_proxies", "list_limit_max", "token_ttl",
		"audit_enabled", "attachment_url_ttl", "bind_address", "port",
	}
}

func (c *VaultConfig) applyFileConfig(file *VaultConfig) {
	if len(file.TrustedProxies) > 0 {
		c.TrustedProxies = file.TrustedProxies
		c.sources["trusted_proxies"] = "file"
	}
	if file.ListLimitMax != 0 {
		c.ListLimitMax = file.ListLimitMax
		c.sources["list_limit_max"] = "file"
	}
	if file.TokenTTL != 0 {
		c.TokenTTL = file.TokenTTL
		c.sources["token_ttl"] = "file"
	}
	if file.AttachmentURLTTL != 0 {
		c.AttachmentURLTTL = file.AttachmentURLTTL
		c.sources["attachment_url_ttl"] = "file"
	}
	if file.BindAddress != "" {
		c.BindAddress = file.BindAddress
		c.sources["bind_address"] = "file"
	}
	if file.Port != 0 {
		c.Port = file.Port
		c.sources["port"] = "file"
	}
}

func (c *VaultConfig) applyEnvConfig() {
	if val := os.Getenv("VAULT_TRUSTED_PROXIES"); val != "" {
		c.TrustedProxies = splitAndTrim(val)
		c.sources["trusted_proxies"] = "environment"
	}
	if val := os.Getenv("VAULT_LIST_LIMIT_MAX"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.ListLimitMax = i
			c.sources["list_limit_max"] = "environment"
		}
	}
	if val := os.Getenv("VAULT_TOKEN_TTL"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.TokenTTL = i
			c.sources["token_ttl"] = "environment"
		}
	}
	if val := os.Getenv("VAULT_AUDIT_ENABLED"); val != "" {
		c.AuditEnabled = val == "true" || val == "1"
		c.sources["audit_enabled"] = "environment"
	}
	if val := os.Getenv("VAULT_ATTACHMENT_URL_TTL"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.AttachmentURLTTL = i
			c.sources["attachment_url_ttl"] = "environment"
		}
	}
	if val := os.Getenv("VAULT_BIND_ADDRESS"); val != "" {
		c.BindAddress = val
		c.sources["bind_address"] = "environment"
	}
	if val := os.Getenv("VAULT_PORT"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			c.Port = i
			c.sources["port"] = "environment"
		}
	}
}

// ConfigFilePath returns the path to the config file
func (c *VaultConfig) ConfigFilePath() string {
	return c.configFilePath
}

// Source returns the source of a configuration attribute
func (c *VaultConfig) Source(name string) string {
	if c.sources == nil {
		return "default"
	}
	if s, ok := c.sources[name]; ok {
		return s
	}
	return "default"
}

// TokenLifetime returns the token TTL as a duration
func (c *VaultConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenTTL) * time.Second
}

// AttachmentURLLifetime returns the presigned URL TTL as a duration
func (c *VaultConfig) AttachmentURLLifetime() time.Duration {
	return time.Duration(c.AttachmentURLTTL) * time.Second
}

// ListenAddr returns the bind address and port joined for net.Listen
func (c *VaultConfig) ListenAddr() string {
	return net.JoinHostPort(c.BindAddress, strconv.Itoa(c.Port))
}

// IsTrustedProxy checks if an IP is from a trusted proxy
func (c *VaultConfig) IsTrustedProxy(ip string) bool {
	if len(c.TrustedProxies) == 0 {
		return false
	}

	parsedIP := net.ParseIP(ip)
	if parsedIP == nil {
		return false
	}

	for _, cidr := range c.TrustedProxies {
		_, network, err := net.ParseCIDR(cidr)
		if err != nil {
			// Try as plain IP
			if net.ParseIP(cidr) != nil && cidr == ip {
				return true
			}
			continue
		}
		if network.Contains(parsedIP) {
			return true
		}
	}
	return false
}

// Validate validates the configuration
func (c *VaultConfig) Validate() error {
	for _, cidr := range c.TrustedProxies {
		if _, _, err := net.ParseCIDR(cidr); err != nil {
			if net.ParseIP(cidr) == nil {
				return fmt.Errorf("invalid trusted_proxies value: %s", cidr)
			}
		}
	}
	if c.ListLimitMax < 1 {
		return fmt.Errorf("list_limit_max must be positive, got %d", c.ListLimitMax)
	}
	if c.TokenTTL < 1 {
		return fmt.Errorf("token_ttl must be positive, got %d", c.TokenTTL)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port out of range: %d", c.Port)
	}
	return nil
}

// Attributes returns all configuration attributes with their values and sources
func (c *VaultConfig) Attributes() []Attribute {
	return []Attribute{
		{Name: "trusted_proxies", Value: strings.Join(c.TrustedProxies, ","), Source: c.Source("trusted_proxies")},
		{Name: "list_limit_max", Value: strconv.Itoa(c.ListLimitMax), Source: c.Source("list_limit_max")},
		{Name: "token_ttl", Value: strconv.Itoa(c.TokenTTL), Source: c.Source("token_ttl")},
		{Name: "audit_enabled", Value: strconv.FormatBool(c.AuditEnabled), Source: c.Source("audit_enabled")},
		{Name: "attachment_url_ttl", Value: strconv.Itoa(c.AttachmentURLTTL), Source: c.Source("attachment_url_ttl")},
		{Name: "bind_address", Value: c.BindAddress, Source: c.Source("bind_address")},
		{Name: "port", Value: strconv.Itoa(c.Port), Source: c.Source("port")},
	}
}

// FormatText returns a text representation of the configuration
func (c *VaultConfig) FormatText() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Config file: %s\n\n", c.configFilePath))
	sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", "NAME", "VALUE", "SOURCE"))
	sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", "----", "-----", "------"))

	for _, attr := range c.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		sb.WriteString(fmt.Sprintf("%-30s %-30s %s\n", attr.Name, value, attr.Source))
	}
	return sb.String()
}

// FormatJSON returns a JSON representation of the configuration
func (c *VaultConfig) FormatJSON() (string, error) {
	result := map[string]interface{}{
		"config_file": c.configFilePath,
		"attributes":  c.Attributes(),
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
