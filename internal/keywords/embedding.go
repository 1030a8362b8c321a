package keywords

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/econsult-tools/econsult/internal/models"
)

// EmbeddingExtractor ranks candidate terms by cosine similarity between
// the term embedding and the document embedding, using a local ONNX
// sentence-embedding model. Callers fall back to FrequencyExtractor
// when construction or inference fails.
type EmbeddingExtractor struct {
	session  *hugot.Session
	pipeline *pipelines.FeatureExtractionPipeline
}

// NewEmbeddingExtractor downloads modelID into modelDir if needed and
// builds the feature-extraction pipeline.
func NewEmbeddingExtractor(modelID, modelDir string) (*EmbeddingExtractor, error) {
	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create model directory: %w", err)
	}

	modelPath, err := hugot.DownloadModel(modelID, modelDir, hugot.NewDownloadOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %v", models.ErrModelUnavailable, modelID, err)
	}
	slog.Info("[KeywordExtractor] Embedding model ready",
		slog.String("model", modelID),
		slog.String("path", modelPath))

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("%w: init hugot session: %v", models.ErrModelUnavailable, err)
	}

	config := hugot.FeatureExtractionConfig{
		ModelPath: modelPath,
		Name:      "keywordEmbeddingPipeline",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("%w: init embedding pipeline: %v", models.ErrModelUnavailable, err)
	}

	return &EmbeddingExtractor{session: session, pipeline: pipeline}, nil
}

// Extract embeds the document and its candidate terms in one batch and
// keeps the topN terms closest to the document vector.
func (e *EmbeddingExtractor) Extract(ctx context.Context, text string, topN int) ([]models.Keyword, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	candidates := candidateTerms(text)
	if len(candidates) == 0 || topN <= 0 {
		return nil, nil
	}

	inputs := append([]string{text}, candidates...)
	output, err := e.pipeline.RunPipeline(inputs)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding inference: %v", models.ErrModelUnavailable, err)
	}
	if len(output.Embeddings) != len(inputs) {
		return nil, fmt.Errorf("%w: embedding count mismatch", models.ErrModelUnavailable)
	}

	docVec := output.Embeddings[0]
	scored := make([]models.Keyword, len(candidates))
	for i, term := range candidates {
		scored[i] = models.Keyword{
			Term:  term,
			Score: cosineSimilarity(docVec, output.Embeddings[i+1]),
		}
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Term < scored[j].Term
	})

	if len(scored) > topN {
		scored = scored[:topN]
	}
	return scored, nil
}

// Close releases the ONNX session.
func (e *EmbeddingExtractor) Close() {
	if e.session != nil {
		e.session.Destroy()
	}
}

// candidateTerms gathers unique unigrams and adjacent bigrams from the
// stopword-filtered token stream, preserving first-seen order.
func candidateTerms(text string) []string {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(tokens)*2)
	var candidates []string
	add := func(term string) {
		if _, ok := seen[term]; ok {
			return
		}
		seen[term] = struct{}{}
		candidates = append(candidates, term)
	}

	for i, token := range tokens {
		add(token)
		if i+1 < len(tokens) {
			add(tokens[i] + " " + tokens[i+1])
		}
	}
	return candidates
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
