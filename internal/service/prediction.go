package service

import (
	"github.com/carson-networks/finance-tracker/internal/classifier"
)

// Annotate asks predictor about description. A nil predictor is not an error
// and produces an empty prediction. The predictor owns its threshold, so the
// result is returned as is.
func Annotate(predictor classifier.Predictor, description string) classifier.Prediction {
	if predictor == nil {
		return classifier.Prediction{}
	}
	return predictor.Predict(description)
}

// PredictionService exposes the predictor on its own.
type PredictionService struct {
	predictor classifier.Predictor
}

func NewPredictionService(predictor classifier.Predictor) *PredictionService {
	return &PredictionService{predictor: predictor}
}

// PredictCategory returns the prediction for description.
func (s *PredictionService) PredictCategory(description string) classifier.Prediction {
	return Annotate(s.predictor, description)
}
