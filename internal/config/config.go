package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// OutputConfig holds configuration settings related to output and logging.
type OutputConfig struct {
	File     string `yaml:"file"`      // Plain-text file vulnerable URLs are appended to.
	JSONFile string `yaml:"json_file"` // Path to save the scan report in JSON format.
	Verbose  bool   `yaml:"verbose"`   // Enable verbose (DEBUG) logging.
}

// Config is the main struct holding all configuration data from the YAML file.
// Command-line flags override these values.
type Config struct {
	Target    string `yaml:"target"`    // Seed URL for crawling mode.
	URLsFile  string `yaml:"urls_file"` // File of URLs for target testing mode.
	Threads   int    `yaml:"threads"`   // Worker count for target testing mode.
	Timeout   int    `yaml:"timeout"`   // Per-request timeout in seconds.
	MaxDepth  int    `yaml:"max_depth"` // Maximum crawling depth.
	MaxVisits int    `yaml:"max_visits"` // Total-visit cap for a crawl; 0 disables.
	UserAgent string `yaml:"user_agent"`

	// MaxRetries and Delay tune the HTTP client's retry behavior.
	MaxRetries int `yaml:"max_retries"`
	Delay      int `yaml:"delay"` // Delay between retries in milliseconds.

	Output OutputConfig `yaml:"output"`
}

// Defaults mirror the scanner's classic command-line defaults.
const (
	DefaultThreads   = 15
	DefaultTimeout   = 8
	DefaultMaxVisits = 500
	DefaultUserAgent = "Xspect-Scanner/1.0"
)

// LoadConfig reads the configuration from a YAML file. A missing file is not
// an error: the defaults are returned so the tool works flag-only.
func LoadConfig(filePath string) (*Config, error) {
	config := &Config{
		Threads:   DefaultThreads,
		Timeout:   DefaultTimeout,
		MaxVisits: DefaultMaxVisits,
		UserAgent: DefaultUserAgent,
	}

	yamlFile, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(yamlFile, config); err != nil {
		return nil, err
	}

	// Guard against nonsense values from the file.
	if config.Threads <= 0 {
		config.Threads = DefaultThreads
	}
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.MaxVisits < 0 {
		config.MaxVisits = DefaultMaxVisits
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	return config, nil
}
