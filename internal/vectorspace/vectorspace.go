// Package vectorspace turns free-text items into fixed-length vectors and
// scalar importance scores. Both operations are deterministic, total
// functions over any string input.
package vectorspace

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// DefaultDimensions is the vector length used when none is configured.
const DefaultDimensions = 64

// EmbeddingProvider generates vector embeddings for text. Implementations
// must be deterministic: embedding the same text twice yields bit-identical
// vectors of exactly Dimensions() length.
type EmbeddingProvider interface {
	// Embed generates the embedding for a single text.
	Embed(text string) []float64

	// Dimensions returns the dimensionality of embeddings.
	Dimensions() int

	// Name returns the provider name.
	Name() string
}

// Config holds vector space settings.
type Config struct {
	// Dimensions is the embedding dimensionality for the built-in provider.
	Dimensions int
	// Signals is the keyword list that raises importance when matched.
	Signals []string
	// SignalWeight is the increment added per matched signal.
	SignalWeight float64
	// LengthThreshold is the rune count above which the length bonus applies.
	LengthThreshold int
	// LengthBonus is added when the text exceeds LengthThreshold.
	LengthBonus float64
	// QuestionBonus is added when the text contains a question marker.
	QuestionBonus float64
	// CodeBonus is added when the text contains a fenced code block marker.
	CodeBonus float64
}

// DefaultConfig returns the default signal list and weights.
func DefaultConfig() Config {
	return Config{
		Dimensions: DefaultDimensions,
		Signals: []string{
			"error", "fail", "bug", "crash", "urgent", "blocked",
			"deadline", "release", "security", "regression", "fix",
			"deploy", "outage", "customer",
		},
		SignalWeight:    0.1,
		LengthThreshold: 120,
		LengthBonus:     0.1,
		QuestionBonus:   0.1,
		CodeBonus:       0.2,
	}
}

// VectorSpace combines an embedding provider with an importance scorer.
type VectorSpace struct {
	provider EmbeddingProvider
	cfg      Config
}

// New creates a VectorSpace with the given configuration and the built-in
// hashing provider.
func New(cfg Config) *VectorSpace {
	if cfg.Dimensions <= 0 {
		cfg.Dimensions = DefaultDimensions
	}
	return &VectorSpace{
		provider: NewHashingProvider(cfg.Dimensions),
		cfg:      cfg,
	}
}

// NewWithProvider creates a VectorSpace backed by a custom provider.
func NewWithProvider(cfg Config, provider EmbeddingProvider) *VectorSpace {
	return &VectorSpace{provider: provider, cfg: cfg}
}

// Dimensions returns the vector length this space produces.
func (v *VectorSpace) Dimensions() int {
	return v.provider.Dimensions()
}

// Embed returns the embedding for text. The result always has exactly
// Dimensions() entries and is L2-normalized unless its norm is zero, in
// which case the zero vector passes through unchanged.
func (v *VectorSpace) Embed(text string) []float64 {
	return v.provider.Embed(text)
}

// ScoreImportance scores text with a bounded additive model: a fixed
// increment per matched signal keyword, a length bonus, a question bonus,
// and a larger code-fence bonus, clamped to [0,1]. Empty text scores 0.
func (v *VectorSpace) ScoreImportance(text string) float64 {
	if text == "" {
		return 0.0
	}

	score := 0.0
	lower := strings.ToLower(text)

	for _, signal := range v.cfg.Signals {
		if strings.Contains(lower, signal) {
			score += v.cfg.SignalWeight
		}
	}

	if len([]rune(text)) > v.cfg.LengthThreshold {
		score += v.cfg.LengthBonus
	}
	if strings.Contains(text, "?") {
		score += v.cfg.QuestionBonus
	}
	if strings.Contains(text, "```") {
		score += v.cfg.CodeBonus
	}

	return clamp01(score)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// HashingProvider is the built-in deterministic embedding provider. It
// hashes each token into a fixed number of buckets and L2-normalizes the
// result. It carries no model weights; it exists so the pipeline runs
// end-to-end without a remote embedding service.
type HashingProvider struct {
	dims int
}

// NewHashingProvider creates a HashingProvider with the given
// dimensionality.
func NewHashingProvider(dims int) *HashingProvider {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &HashingProvider{dims: dims}
}

// Embed hashes tokens into buckets and normalizes. An empty or
// token-free text yields the zero vector.
func (h *HashingProvider) Embed(text string) []float64 {
	vec := make([]float64, h.dims)
	for _, tok := range Tokenize(text) {
		hash := fnv.New64a()
		hash.Write([]byte(tok))
		vec[hash.Sum64()%uint64(h.dims)] += 1.0
	}
	return Normalize(vec)
}

// Dimensions returns the configured dimensionality.
func (h *HashingProvider) Dimensions() int {
	return h.dims
}

// Name returns the provider name.
func (h *HashingProvider) Name() string {
	return "hashing"
}

// Tokenize lowercases text and splits it on non-alphanumeric runes.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// Normalize L2-normalizes v in place and returns it. The zero vector is
// returned unchanged.
func Normalize(v []float64) []float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	if sum == 0 {
		return v
	}
	norm := math.Sqrt(sum)
	for i := range v {
		v[i] /= norm
	}
	return v
}

// CosineSimilarity returns the cosine similarity between two equal-length
// vectors, 0 when either has zero norm.
func CosineSimilarity(a, b []float64) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
