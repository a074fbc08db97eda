package prediction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-tracker/internal/auth"
	"github.com/carson-networks/finance-tracker/internal/classifier"
	"github.com/carson-networks/finance-tracker/internal/handlers/params"
	"github.com/carson-networks/finance-tracker/internal/logging"
)

type PredictCategoryBody struct {
	Description string `json:"description" maxLength:"500" doc:"Transaction description to classify" example:"Makan siang warteg"`
}

type PredictCategoryInput struct {
	Body PredictCategoryBody
}

// Score is one candidate label with its probability.
type Score struct {
	Label string  `json:"label" doc:"Category UUID the model was trained with"`
	Score float64 `json:"score" doc:"Probability in [0, 1]"`
}

// Prediction is the response body. CategoryID is null when no candidate
// reached the model threshold or no model is loaded.
type Prediction struct {
	CategoryID   *string `json:"category_id" doc:"Predicted category UUID"`
	Confidence   float64 `json:"confidence" doc:"Probability of the best candidate"`
	ModelVersion *string `json:"model_version" doc:"Version of the loaded model, null without one"`
	TopK         []Score `json:"top_k" doc:"Best candidates, highest first"`
}

type PredictCategoryOutput struct {
	Body Prediction
}

type categoryPredictor interface {
	PredictCategory(description string) classifier.Prediction
}

// PredictCategoryHandler handles POST /ai/predict_category.
type PredictCategoryHandler struct {
	Predictions categoryPredictor
}

func NewPredictCategoryHandler(svc categoryPredictor) *PredictCategoryHandler {
	return &PredictCategoryHandler{Predictions: svc}
}

func (h *PredictCategoryHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "predict-category",
		Method:      http.MethodPost,
		Path:        "/ai/predict_category",
		Summary:     "Predict a category",
		Description: "Runs the category classifier on a description without storing anything.",
		Tags:        []string{"AI"},
		Security:    auth.Security,
	}, h.handle)
}

func (h *PredictCategoryHandler) handle(ctx context.Context, input *PredictCategoryInput) (*PredictCategoryOutput, error) {
	logData := logging.GetLogData(ctx)
	if _, err := auth.Require(ctx); err != nil {
		return nil, err
	}

	prediction := h.Predictions.PredictCategory(input.Body.Description)
	if logData != nil {
		logData.AddData("predicted", prediction.CategoryID != nil)
	}

	return &PredictCategoryOutput{Body: fromClassifier(prediction)}, nil
}

func fromClassifier(p classifier.Prediction) Prediction {
	out := Prediction{
		CategoryID: params.OptionalID(p.CategoryID),
		Confidence: p.Confidence,
		TopK:       make([]Score, len(p.TopK)),
	}
	if p.ModelVersion != "" {
		version := p.ModelVersion
		out.ModelVersion = &version
	}
	for i, s := range p.TopK {
		out.TopK[i] = Score{Label: s.Label, Score: s.Score}
	}
	return out
}
