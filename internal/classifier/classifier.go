// Package classifier predicts a transaction category from its description
// with a naive bayes model. Class labels are category UUIDs.
package classifier

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/gofrs/uuid/v5"
	"github.com/jbrukh/bayesian"
	"gopkg.in/yaml.v3"
)

const (
	DefaultThreshold = 0.5
	DefaultTopK      = 3
)

// ErrArtifactsMissing is returned by Load when the model or its metadata file
// does not exist. Callers run without a predictor in that case.
var ErrArtifactsMissing = errors.New("classifier artifacts not found")

// Metadata is the YAML sidecar stored next to the model.
type Metadata struct {
	ModelVersion string    `yaml:"model_version"`
	Threshold    float64   `yaml:"threshold"`
	CreatedAt    time.Time `yaml:"created_at"`
}

type Score struct {
	Label string
	Score float64
}

// Prediction is the outcome for one description. CategoryID is nil when the
// best score is below the threshold or the label is not a UUID.
type Prediction struct {
	CategoryID   *uuid.UUID
	Confidence   float64
	ModelVersion string
	TopK         []Score
}

// Predictor is anything that can label a description.
type Predictor interface {
	Predict(text string) Prediction
}

type Classifier struct {
	model     *bayesian.Classifier
	threshold float64
	version   string
	topK      int
}

var _ Predictor = (*Classifier)(nil)

// New wraps a trained model. A non-positive threshold uses DefaultThreshold.
func New(model *bayesian.Classifier, meta Metadata) *Classifier {
	threshold := meta.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Classifier{
		model:     model,
		threshold: threshold,
		version:   meta.ModelVersion,
		topK:      DefaultTopK,
	}
}

// Load reads a gob model written by bayesian.Classifier.WriteToFile and its
// YAML metadata.
func Load(modelPath, metaPath string) (*Classifier, error) {
	for _, path := range []string{modelPath, metaPath} {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrArtifactsMissing, path)
		}
	}

	model, err := bayesian.NewClassifierFromFile(modelPath)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}

	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}
	var meta Metadata
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata: %w", err)
	}

	return New(model, meta), nil
}

func (c *Classifier) ModelVersion() string {
	return c.version
}

func (c *Classifier) Threshold() float64 {
	return c.threshold
}

// Predict scores text against every class. Empty text yields an empty
// prediction carrying only the model version.
func (c *Classifier) Predict(text string) Prediction {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return Prediction{ModelVersion: c.version}
	}

	logScores, _, _ := c.model.LogScores(tokens)
	probs := softmax(logScores)

	scores := make([]Score, len(probs))
	for i, p := range probs {
		scores[i] = Score{Label: string(c.model.Classes[i]), Score: p}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})
	if len(scores) > c.topK {
		scores = scores[:c.topK]
	}

	prediction := Prediction{
		Confidence:   scores[0].Score,
		ModelVersion: c.version,
		TopK:         scores,
	}
	if scores[0].Score >= c.threshold {
		if id, err := uuid.FromString(scores[0].Label); err == nil {
			prediction.CategoryID = &id
		}
	}
	return prediction
}

// Tokenize lowercases text and splits it on anything that is not a letter or digit.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func softmax(logScores []float64) []float64 {
	maxScore := math.Inf(-1)
	for _, s := range logScores {
		maxScore = math.Max(maxScore, s)
	}
	var sum float64
	out := make([]float64, len(logScores))
	for i, s := range logScores {
		out[i] = math.Exp(s - maxScore)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}
