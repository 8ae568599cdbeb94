package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
)

type Config struct {
	Port string

	// HTTP surface
	CORSAllowedOrigins []string
	MaxRequestBytes    int64

	// Fetching
	FetchTimeout     time.Duration
	FetchMaxBytes    int64
	FetchMaxAttempts int
	FetchUserAgent   string

	// Cleaning
	ExtractMode          string
	PDFFallbackPdftotext bool

	// Answer extraction
	ChunkSize      int
	ChunkSeparator string
	Sentinel       string
	NoMatchMessage string
	MaxQueryChars  int
	LLMTimeout     time.Duration
	LLMMaxAttempts int
	LLMStatsWindow time.Duration

	// Primary backend
	PrimaryProvider string
	GroqAPIKey      string
	GroqBaseURL     string
	GroqModel       string
	AnthropicAPIKey string
	AnthropicModel  string
	GeminiAPIKey    string
	GeminiModel     string

	// Local backend
	OllamaURL   string
	OllamaModel string

	// Content store
	ContentTTL   time.Duration
	ContentSweep time.Duration

	LogLevel  string
	LogFormat string
}

const (
	ProviderGroq      = "groq"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

var defaults = map[string]any{
	"port":                   "8000",
	"cors_allowed_origins":   "http://localhost:3000,http://localhost:5173,http://127.0.0.1:3000,http://127.0.0.1:5173",
	"max_request_bytes":      10 << 20,
	"fetch_timeout":          "20s",
	"fetch_max_bytes":        5 << 20,
	"fetch_max_attempts":     2,
	"fetch_user_agent":       "Mozilla/5.0 (compatible; pagesift/1.0)",
	"extract_mode":           "body",
	"pdf_fallback_pdftotext": false,
	"chunk_size":             6000,
	"chunk_separator":        "\n",
	"no_match_sentinel":      "No matching information found",
	"no_match_message":       "No matching information found. Try being more specific in your query.",
	"max_query_chars":        2000,
	"llm_timeout":            "120s",
	"llm_max_attempts":       3,
	"llm_stats_window":       "1h",
	"primary_provider":       ProviderGroq,
	"groq_api_key":           "",
	"groq_base_url":          "https://api.groq.com/openai/v1",
	"groq_model":             "llama-3.3-70b-versatile",
	"anthropic_api_key":      "",
	"anthropic_model":        "claude-sonnet-4-5-20250929",
	"gemini_api_key":         "",
	"gemini_model":           "gemini-2.5-flash",
	"ollama_url":             "http://localhost:11434",
	"ollama_model":           "llama3",
	"content_ttl":            "1h",
	"content_sweep":          "5m",
	"log_level":              "info",
	"log_format":             "json",
}

// Load reads configuration from the environment and an optional
// pagesift.yaml in the working directory. Environment variables win.
func Load() (Config, error) {
	v := viper.New()
	v.SetConfigName("pagesift")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, eris.Wrap(err, "config: read file")
		}
	}
	return fromViper(v), nil
}

func fromViper(v *viper.Viper) Config {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	return Config{
		Port: v.GetString("port"),

		CORSAllowedOrigins: splitList(v.GetString("cors_allowed_origins")),
		MaxRequestBytes:    v.GetInt64("max_request_bytes"),

		FetchTimeout:     v.GetDuration("fetch_timeout"),
		FetchMaxBytes:    v.GetInt64("fetch_max_bytes"),
		FetchMaxAttempts: v.GetInt("fetch_max_attempts"),
		FetchUserAgent:   v.GetString("fetch_user_agent"),

		ExtractMode:          strings.ToLower(v.GetString("extract_mode")),
		PDFFallbackPdftotext: v.GetBool("pdf_fallback_pdftotext"),

		ChunkSize:      v.GetInt("chunk_size"),
		ChunkSeparator: v.GetString("chunk_separator"),
		Sentinel:       v.GetString("no_match_sentinel"),
		NoMatchMessage: v.GetString("no_match_message"),
		MaxQueryChars:  v.GetInt("max_query_chars"),
		LLMTimeout:     v.GetDuration("llm_timeout"),
		LLMMaxAttempts: v.GetInt("llm_max_attempts"),
		LLMStatsWindow: v.GetDuration("llm_stats_window"),

		PrimaryProvider: strings.ToLower(v.GetString("primary_provider")),
		GroqAPIKey:      v.GetString("groq_api_key"),
		GroqBaseURL:     v.GetString("groq_base_url"),
		GroqModel:       v.GetString("groq_model"),
		AnthropicAPIKey: v.GetString("anthropic_api_key"),
		AnthropicModel:  v.GetString("anthropic_model"),
		GeminiAPIKey:    v.GetString("gemini_api_key"),
		GeminiModel:     v.GetString("gemini_model"),

		OllamaURL:   v.GetString("ollama_url"),
		OllamaModel: v.GetString("ollama_model"),

		ContentTTL:   v.GetDuration("content_ttl"),
		ContentSweep: v.GetDuration("content_sweep"),

		LogLevel:  strings.ToLower(v.GetString("log_level")),
		LogFormat: strings.ToLower(v.GetString("log_format")),
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c Config) Validate() error {
	switch c.PrimaryProvider {
	case ProviderGroq:
		if c.GroqAPIKey == "" {
			return fmt.Errorf("GROQ_API_KEY is required")
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required")
		}
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required")
		}
	default:
		return fmt.Errorf("PRIMARY_PROVIDER %q is not one of groq, anthropic, gemini", c.PrimaryProvider)
	}
	switch c.ExtractMode {
	case "body", "readability", "trafilatura":
	default:
		return fmt.Errorf("EXTRACT_MODE %q is not one of body, readability, trafilatura", c.ExtractMode)
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive")
	}
	if c.MaxQueryChars <= 0 {
		return fmt.Errorf("MAX_QUERY_CHARS must be positive")
	}
	if c.ContentTTL <= 0 {
		return fmt.Errorf("CONTENT_TTL must be positive")
	}
	return nil
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c Config) NewLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "text" {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}
