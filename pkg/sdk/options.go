package docrank

import (
	"time"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	username string
	password string
	db       int

	embedder Embedder
	expander Expander
	openAI   *OpenAIConfig

	defaultKeywordWeight float64
	defaultVectorWeight  float64
	defaultThreshold     float64

	stopWords []string
	tuning    *Tuning
	readiness time.Duration
	logger    *zap.Logger
}

// OpenAIConfig configures the built-in OpenAI-compatible embedding
// provider. BaseURL is optional.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	Dimensions int
	Provider   string
}

// WithRedis configures the client to connect to a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithAddrs sets multiple store addresses (cluster).
func WithAddrs(addrs ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = addrs
	})
}

// WithAuth sets the store username and password.
func WithAuth(username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.username = username
		c.password = password
	})
}

// WithDB selects the Redis logical database.
func WithDB(db int) Option {
	return optionFunc(func(c *clientConfig) {
		c.db = db
	})
}

// WithOpenAI enables the built-in OpenAI-compatible embedding provider.
func WithOpenAI(cfg OpenAIConfig) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAI = &cfg
	})
}

// WithEmbedder plugs in a custom embedding provider.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithExpander plugs in a query-expansion collaborator.
func WithExpander(e Expander) Option {
	return optionFunc(func(c *clientConfig) {
		c.expander = e
	})
}

// WithDefaults overrides the fusion defaults applied to zero-valued
// request fields.
func WithDefaults(keywordWeight, vectorWeight, threshold float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultKeywordWeight = keywordWeight
		c.defaultVectorWeight = vectorWeight
		c.defaultThreshold = threshold
	})
}

// WithTuning overrides the engine's ranking calibration.
func WithTuning(t Tuning) Option {
	return optionFunc(func(c *clientConfig) {
		c.tuning = &t
	})
}

// WithStopWords layers additional stop words over the built-in sets.
func WithStopWords(words ...string) Option {
	return optionFunc(func(c *clientConfig) {
		c.stopWords = words
	})
}

// WithReadinessTimeout bounds the initial store readiness wait.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readiness = d
	})
}

// WithLogger attaches a zap logger; defaults to zap.NewNop().
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}
