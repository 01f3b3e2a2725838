package ingestkit

import (
	"strings"

	"github.com/gobeaver/beaver-kit/config"
)

// EnvConfig is the environment-driven configuration surface for callers
// that wire the engine from process env rather than code.
type EnvConfig struct {
	// Validation settings
	MaxContentLength int64  `env:"INGESTKIT_MAX_CONTENT_LENGTH,default:10485760"` // 10MB default
	AcceptedTypes    string `env:"INGESTKIT_ACCEPTED_TYPES"`                      // comma-separated

	// Engine settings
	DigestAlgorithm string `env:"INGESTKIT_DIGEST_ALGORITHM,default:sha256"`
	SpoolDir        string `env:"INGESTKIT_SPOOL_DIR"`
	ChunkSize       int    `env:"INGESTKIT_CHUNK_SIZE,default:8192"`
}

// GetConfig returns config loaded from environment
func GetConfig() (*EnvConfig, error) {
	cfg := &EnvConfig{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validation converts the env surface into the engine's validation config.
func (c *EnvConfig) Validation() Config {
	var accepted []string
	for _, t := range strings.Split(c.AcceptedTypes, ",") {
		if t = strings.TrimSpace(t); t != "" {
			accepted = append(accepted, t)
		}
	}
	return Config{
		MaxContentLength: c.MaxContentLength,
		AcceptedTypes:    accepted,
	}
}

// Options converts the env surface into engine options.
func (c *EnvConfig) Options() []IngestorOption {
	return []IngestorOption{
		WithSpoolDir(c.SpoolDir),
		WithDigestAlgorithm(DigestAlgorithm(c.DigestAlgorithm)),
	}
}
