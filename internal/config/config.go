package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

// Provider identifies an LLM backend.
type Provider string

const (
	ProviderOllama    Provider = "ollama"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderBedrock   Provider = "bedrock"
)

// SourceMode selects between live upstream adapters and deterministic mocks.
type SourceMode string

const (
	// SourceLive calls the real upstream services (PubChem, ChEMBL, predictor).
	SourceLive SourceMode = "live"

	// SourceMock uses fixture-backed adapters; no network, no credentials.
	SourceMock SourceMode = "mock"
)

// AgentMode selects how the synthesis agent obtains its data.
type AgentMode string

const (
	// AgentPrefetched renders the aggregated lookups into the prompt context.
	AgentPrefetched AgentMode = "prefetched"

	// AgentTools lets the model fetch data itself through declared tool calls.
	AgentTools AgentMode = "tools"
)

// CacheBackend selects the optional lookup cache store.
type CacheBackend string

const (
	CacheNone    CacheBackend = "none"
	CacheMemory  CacheBackend = "memory"
	CacheSurreal CacheBackend = "surreal"
)

// Config holds all configuration values.
type Config struct {
	// Source adapters
	SourceMode     SourceMode
	PubChemBaseURL string
	PubChemDelay   time.Duration // minimum delay between the two PubChem calls
	ChEMBLBaseURL  string
	PredictorURL   string
	FixturesFile   string // optional YAML file extending the mock fixtures

	// LLM
	LLMProvider     Provider
	LLMModel        string
	OllamaHost      string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// Synthesis agent
	AgentMode    AgentMode
	MaxToolTurns int

	// Lookup cache
	CacheBackend       CacheBackend
	SurrealDBURL       string
	SurrealDBNamespace string
	SurrealDBDatabase  string
	SurrealDBUser      string
	SurrealDBPass      string
	SurrealDBAuthLevel string

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// minPubChemDelay is the floor for the inter-call delay required by PubChem
// usage policy. Configured values below it are clamped up.
const minPubChemDelay = 200 * time.Millisecond

// Load reads configuration from environment variables.
func Load() Config {
	cfg := Config{
		SourceMode:     SourceMode(getEnv("MOLSCOPE_SOURCE_MODE", string(SourceMock))),
		PubChemBaseURL: getEnv("MOLSCOPE_PUBCHEM_URL", "https://pubchem.ncbi.nlm.nih.gov/rest/pug"),
		PubChemDelay:   parseDuration(getEnv("MOLSCOPE_PUBCHEM_DELAY", "200ms")),
		ChEMBLBaseURL:  getEnv("MOLSCOPE_CHEMBL_URL", "https://www.ebi.ac.uk/chembl/api/data"),
		PredictorURL:   getEnv("MOLSCOPE_PREDICTOR_URL", "http://localhost:8090"),
		FixturesFile:   getEnv("MOLSCOPE_FIXTURES_FILE", ""),

		LLMProvider:     Provider(getEnv("MOLSCOPE_LLM_PROVIDER", string(ProviderOllama))),
		LLMModel:        getEnv("MOLSCOPE_LLM_MODEL", "llama3.1"),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),

		AgentMode:    AgentMode(getEnv("MOLSCOPE_AGENT_MODE", string(AgentPrefetched))),
		MaxToolTurns: 6,

		CacheBackend:       CacheBackend(getEnv("MOLSCOPE_CACHE", string(CacheNone))),
		SurrealDBURL:       getEnv("SURREALDB_URL", "ws://localhost:8000/rpc"),
		SurrealDBNamespace: getEnv("SURREALDB_NAMESPACE", "molscope"),
		SurrealDBDatabase:  getEnv("SURREALDB_DATABASE", "lookups"),
		SurrealDBUser:      getEnv("SURREALDB_USER", "root"),
		SurrealDBPass:      getEnv("SURREALDB_PASS", "root"),
		SurrealDBAuthLevel: getEnv("SURREALDB_AUTH_LEVEL", "root"),

		LogFile:  getEnv("MOLSCOPE_LOG_FILE", "/tmp/molscope.log"),
		LogLevel: parseLogLevel(getEnv("MOLSCOPE_LOG_LEVEL", "INFO")),
	}

	if cfg.PubChemDelay < minPubChemDelay {
		cfg.PubChemDelay = minPubChemDelay
	}

	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func parseDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return minPubChemDelay
	}
	return d
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
