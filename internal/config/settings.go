package config

import (
	"errors"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Auth type constants
const (
	AuthTypeNone   = "none"
	AuthTypeBasic  = "basic"
	AuthTypeAPIKey = "apikey"
)

// AuthSettings configuration for authentication on the SSE transport
type AuthSettings struct {
	Type    string            `mapstructure:"type"` // AuthTypeNone, AuthTypeBasic, or AuthTypeAPIKey
	Basic   BasicAuthSettings `mapstructure:"basic"`
	APIKeys []string          `mapstructure:"api_keys"`
}

// BasicAuthSettings configuration for basic auth
type BasicAuthSettings struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// PapersSettings configuration for the paper index and ingestion pipeline
type PapersSettings struct {
	PDFDir          string  `mapstructure:"pdf_dir"`
	IndexPath       string  `mapstructure:"index_path"`
	Workers         int     `mapstructure:"workers"` // 0 selects the default
	DefaultTopK     int     `mapstructure:"default_top_k"`
	TitleWeight     float64 `mapstructure:"title_weight"`
	KeywordsWeight  float64 `mapstructure:"keywords_weight"`
	AbstractWeight  float64 `mapstructure:"abstract_weight"`
	BodyMaxPages    int     `mapstructure:"body_max_pages"`    // 0 reads all pages
	AskContextPages int     `mapstructure:"ask_context_pages"` // pages fed to the LLM per source
}

// LLMSettings configuration for the OpenAI-compatible chat client
type LLMSettings struct {
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	APIKeyEnv   string        `mapstructure:"api_key_env"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxKeywords int           `mapstructure:"max_keywords"`
}

// Settings application settings
type Settings struct {
	Transport string         `mapstructure:"transport"`
	Host      string         `mapstructure:"host"`
	Port      int            `mapstructure:"port"`
	Auth      AuthSettings   `mapstructure:"auth"`
	Papers    PapersSettings `mapstructure:"papers"`
	LLM       LLMSettings    `mapstructure:"llm"`
}

// LoadSettings loads settings from environment variables and optional .env file
func LoadSettings() (*Settings, error) {
	return LoadSettingsWithFlags(nil)
}

// LoadSettingsWithFlags loads settings with optional CLI flag overrides.
// Priority: CLI flags > environment variables > .env file > defaults.
// If flags is nil, only env vars and defaults are used.
func LoadSettingsWithFlags(flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()

	// Default values
	v.SetDefault("transport", "stdio")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("auth.type", AuthTypeNone)

	// Paper index defaults
	v.SetDefault("papers.pdf_dir", "")
	v.SetDefault("papers.index_path", "storage/paper_index.json")
	v.SetDefault("papers.workers", defaultWorkers())
	v.SetDefault("papers.default_top_k", 5)
	v.SetDefault("papers.title_weight", 3.0)
	v.SetDefault("papers.keywords_weight", 2.0)
	v.SetDefault("papers.abstract_weight", 1.0)
	v.SetDefault("papers.body_max_pages", 0)
	v.SetDefault("papers.ask_context_pages", 12)

	// LLM defaults
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.api_key_env", "OPENAI_API_KEY")
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("llm.max_keywords", 6)

	// Environment variables
	v.SetEnvPrefix("PAPERS_MCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind specific env vars for nested config
	_ = v.BindEnv("auth.type", "PAPERS_MCP_AUTH_TYPE")
	_ = v.BindEnv("auth.basic.username", "PAPERS_MCP_AUTH_BASIC_USERNAME")
	_ = v.BindEnv("auth.basic.password", "PAPERS_MCP_AUTH_BASIC_PASSWORD")
	_ = v.BindEnv("auth.api_keys", "PAPERS_MCP_AUTH_API_KEYS")

	// Paper index env var bindings
	_ = v.BindEnv("papers.pdf_dir", "PAPERS_MCP_PDF_DIR")
	_ = v.BindEnv("papers.index_path", "PAPERS_MCP_INDEX_PATH")
	_ = v.BindEnv("papers.workers", "PAPERS_MCP_WORKERS")
	_ = v.BindEnv("papers.default_top_k", "PAPERS_MCP_DEFAULT_TOP_K")
	_ = v.BindEnv("papers.title_weight", "PAPERS_MCP_TITLE_WEIGHT")
	_ = v.BindEnv("papers.keywords_weight", "PAPERS_MCP_KEYWORDS_WEIGHT")
	_ = v.BindEnv("papers.abstract_weight", "PAPERS_MCP_ABSTRACT_WEIGHT")
	_ = v.BindEnv("papers.body_max_pages", "PAPERS_MCP_BODY_MAX_PAGES")
	_ = v.BindEnv("papers.ask_context_pages", "PAPERS_MCP_ASK_CONTEXT_PAGES")

	// LLM env var bindings
	_ = v.BindEnv("llm.base_url", "PAPERS_MCP_LLM_BASE_URL")
	_ = v.BindEnv("llm.model", "PAPERS_MCP_LLM_MODEL")
	_ = v.BindEnv("llm.api_key_env", "PAPERS_MCP_LLM_API_KEY_ENV")
	_ = v.BindEnv("llm.timeout", "PAPERS_MCP_LLM_TIMEOUT")
	_ = v.BindEnv("llm.max_keywords", "PAPERS_MCP_LLM_MAX_KEYWORDS")

	// Bind CLI flags if provided (highest priority)
	if flags != nil {
		_ = v.BindPFlag("transport", flags.Lookup("transport"))
		_ = v.BindPFlag("host", flags.Lookup("host"))
		_ = v.BindPFlag("port", flags.Lookup("port"))
		_ = v.BindPFlag("auth.type", flags.Lookup("auth-type"))
		_ = v.BindPFlag("auth.basic.username", flags.Lookup("auth-basic-username"))
		_ = v.BindPFlag("auth.basic.password", flags.Lookup("auth-basic-password"))
		_ = v.BindPFlag("auth.api_keys", flags.Lookup("auth-api-keys"))

		_ = v.BindPFlag("papers.pdf_dir", flags.Lookup("pdf-dir"))
		_ = v.BindPFlag("papers.index_path", flags.Lookup("index-path"))
		_ = v.BindPFlag("papers.workers", flags.Lookup("workers"))
		_ = v.BindPFlag("papers.default_top_k", flags.Lookup("top-k"))

		_ = v.BindPFlag("llm.base_url", flags.Lookup("llm-base-url"))
		_ = v.BindPFlag("llm.model", flags.Lookup("llm-model"))
	}

	// Helper to look for .env file
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if .env doesn't exist

	var settings Settings
	if err := v.Unmarshal(&settings); err != nil {
		return nil, err
	}

	// Handle explicit parsing of API keys if provided via env var as comma-separated string
	apiKeysEnv := os.Getenv("PAPERS_MCP_AUTH_API_KEYS")
	if apiKeysEnv != "" {
		if len(settings.Auth.APIKeys) == 0 || (len(settings.Auth.APIKeys) == 1 && strings.Contains(settings.Auth.APIKeys[0], ",")) {
			settings.Auth.APIKeys = strings.Split(apiKeysEnv, ",")
		}
	}

	// Trim spaces from API keys
	for i := range settings.Auth.APIKeys {
		settings.Auth.APIKeys[i] = strings.TrimSpace(settings.Auth.APIKeys[i])
	}

	return &settings, nil
}

// defaultWorkers mirrors the ingestion default of min(4, NumCPU).
func defaultWorkers() int {
	if n := runtime.NumCPU(); n < 4 {
		return n
	}
	return 4
}

// ValidateSettings checks for conflicting or nonsensical configurations.
func ValidateSettings(s *Settings) error {
	// Validate transport type
	switch s.Transport {
	case "stdio", "sse":
		// valid
	default:
		return errors.New("transport must be 'stdio' or 'sse', got: " + s.Transport)
	}

	hasBasicCreds := s.Auth.Basic.Username != "" || s.Auth.Basic.Password != ""
	hasAPIKeys := len(s.Auth.APIKeys) > 0

	switch s.Auth.Type {
	case AuthTypeNone, "":
		if hasBasicCreds || hasAPIKeys {
			return errors.New("auth-type 'none' is incompatible with auth credentials")
		}
	case AuthTypeBasic:
		if hasAPIKeys {
			return errors.New("auth-type 'basic' is mutually exclusive with auth-api-keys")
		}
		if s.Auth.Basic.Username == "" || s.Auth.Basic.Password == "" {
			return errors.New("auth-type 'basic' requires both username and password")
		}
	case AuthTypeAPIKey:
		if hasBasicCreds {
			return errors.New("auth-type 'apikey' is mutually exclusive with basic auth credentials")
		}
		if !hasAPIKeys {
			return errors.New("auth-type 'apikey' requires at least one API key")
		}
	default:
		return errors.New("unknown auth-type: " + s.Auth.Type)
	}

	return validatePapersSettings(&s.Papers)
}

// validatePapersSettings validates the paper index configuration
func validatePapersSettings(p *PapersSettings) error {
	if p.IndexPath == "" {
		return errors.New("index-path cannot be empty")
	}
	if p.Workers < 0 {
		return errors.New("workers must be >= 0 (0 selects the default)")
	}
	if p.DefaultTopK < 1 {
		return errors.New("top-k must be >= 1")
	}
	if p.TitleWeight <= 0 || p.KeywordsWeight <= 0 || p.AbstractWeight <= 0 {
		return errors.New("field weights must be positive")
	}
	if p.BodyMaxPages < 0 {
		return errors.New("body-max-pages must be >= 0")
	}
	if p.AskContextPages < 0 {
		return errors.New("ask-context-pages must be >= 0")
	}
	return nil
}
