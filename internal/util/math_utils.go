package util

import (
	"fmt"
	"math"
)

// CosineSimilarity scores how close a chunk embedding is to the retrieval
// query embedding. Zero-magnitude vectors score 0.
func CosineSimilarity(query, chunk []float32) (float64, error) {
	if len(query) == 0 || len(chunk) == 0 {
		return 0, fmt.Errorf("embedding vectors cannot be empty")
	}
	if len(query) != len(chunk) {
		return 0, fmt.Errorf("embedding dimensions do not match: %d vs %d", len(query), len(chunk))
	}

	var dot, queryNorm, chunkNorm float64
	for i := range query {
		q, c := float64(query[i]), float64(chunk[i])
		dot += q * c
		queryNorm += q * q
		chunkNorm += c * c
	}
	if queryNorm == 0 || chunkNorm == 0 {
		return 0, nil
	}
	return dot / (math.Sqrt(queryNorm) * math.Sqrt(chunkNorm)), nil
}
