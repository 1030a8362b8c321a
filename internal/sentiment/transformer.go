package sentiment

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/knights-analytics/hugot"
	"github.com/knights-analytics/hugot/pipelines"

	"github.com/econsult-tools/econsult/internal/models"
)

// TransformerClassifier runs a pretrained ONNX text-classification
// pipeline locally through hugot. The model is downloaded on first use
// and the session lives for the whole process.
type TransformerClassifier struct {
	session  *hugot.Session
	pipeline *pipelines.TextClassificationPipeline
}

// NewTransformerClassifier downloads modelID into modelDir if needed and
// builds the classification pipeline. Callers should fall back to the
// VADER classifier when this returns an error.
func NewTransformerClassifier(modelID, modelDir string) (*TransformerClassifier, error) {
	if err := os.MkdirAll(modelDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("create model directory: %w", err)
	}

	modelPath, err := hugot.DownloadModel(modelID, modelDir, hugot.NewDownloadOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: download %s: %v", models.ErrModelUnavailable, modelID, err)
	}
	slog.Info("[SentimentClassifier] Model ready",
		slog.String("model", modelID),
		slog.String("path", modelPath))

	session, err := hugot.NewORTSession()
	if err != nil {
		return nil, fmt.Errorf("%w: init hugot session: %v", models.ErrModelUnavailable, err)
	}

	config := hugot.TextClassificationConfig{
		ModelPath: modelPath,
		Name:      "sentimentClassificationPipeline",
	}
	pipeline, err := hugot.NewPipeline(session, config)
	if err != nil {
		session.Destroy()
		return nil, fmt.Errorf("%w: init sentiment pipeline: %v", models.ErrModelUnavailable, err)
	}

	return &TransformerClassifier{session: session, pipeline: pipeline}, nil
}

// Classify runs the pipeline on a single text. The hugot runtime has no
// cancellation hook, so ctx is only checked before the call.
func (c *TransformerClassifier) Classify(ctx context.Context, text string) (models.RawSentiment, error) {
	if err := ctx.Err(); err != nil {
		return models.RawSentiment{}, err
	}

	output, err := c.pipeline.RunPipeline([]string{text})
	if err != nil {
		return models.RawSentiment{}, fmt.Errorf("%w: sentiment inference: %v", models.ErrModelUnavailable, err)
	}

	if len(output.ClassificationOutputs) == 0 || len(output.ClassificationOutputs[0]) == 0 {
		return models.RawSentiment{}, fmt.Errorf("%w: empty sentiment output", models.ErrModelUnavailable)
	}

	best := output.ClassificationOutputs[0][0]
	for _, candidate := range output.ClassificationOutputs[0][1:] {
		if candidate.Score > best.Score {
			best = candidate
		}
	}

	return models.RawSentiment{
		Label: best.Label,
		Score: float64(best.Score),
	}, nil
}

// Close releases the ONNX session.
func (c *TransformerClassifier) Close() {
	if c.session != nil {
		c.session.Destroy()
	}
}
