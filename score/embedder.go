package score

import (
	"context"
	"math"
	"strings"
)

// Embedder maps text into a vector space. Implementations may call a remote
// embedding API; the HashEmbedder below is fully local and deterministic.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// HashEmbedder is a deterministic token-hashing embedder suitable for tests
// and offline use. Tokens are hashed into a fixed-dimension vector which is
// then L2-normalized, so texts sharing tokens land near each other.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder returns a HashEmbedder with the given dimensionality
// (64 if dim <= 0).
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = 64
	}
	return &HashEmbedder{dim: dim}
}

// Embed implements Embedder.
func (h *HashEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	v := make([]float64, h.dim)
	for _, t := range strings.Fields(strings.ToLower(text)) {
		hash := 0
		for j := 0; j < len(t); j++ {
			hash = hash*31 + int(t[j])
		}
		idx := hash % h.dim
		if idx < 0 {
			idx += h.dim
		}
		v[idx] += float64(hash%10 + 1)
	}
	norm := 0.0
	for _, x := range v {
		norm += x * x
	}
	if norm == 0 {
		return v, nil
	}
	norm = math.Sqrt(norm)
	for i := range v {
		v[i] /= norm
	}
	return v, nil
}

// cosine computes cosine similarity; zero for mismatched or empty vectors.
func cosine(a, b []float64) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, da, db float64
	for i := range a {
		dot += a[i] * b[i]
		da += a[i] * a[i]
		db += b[i] * b[i]
	}
	if da == 0 || db == 0 {
		return 0
	}
	return dot / (math.Sqrt(da) * math.Sqrt(db))
}

// checkVector rejects embeddings containing NaN or infinities so a broken
// backend surfaces as a ScoringError rather than poisoning scores.
func checkVector(metric string, vec []float64) error {
	if len(vec) == 0 {
		return scoringErrf(metric, "embedding backend returned an empty vector")
	}
	for _, x := range vec {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return scoringErrf(metric, "embedding backend returned a non-finite component")
		}
	}
	return nil
}

// clamp01 bounds mathematically valid similarity values into [0,1]. A
// negative cosine means "no similarity" and maps to zero.
func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
