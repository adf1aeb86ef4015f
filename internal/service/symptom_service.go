package service

import (
	"context"
	"fmt"

	"wisefido-triage/internal/models"
	"wisefido-triage/internal/repository"

	"go.uber.org/zap"
)

// SymptomService exposes the symptom catalog.
type SymptomService interface {
	ListSymptoms(ctx context.Context, category string) ([]models.Symptom, error)
	ListCategories(ctx context.Context) ([]string, error)
}

type symptomService struct {
	symptoms repository.SymptomsRepository
	logger   *zap.Logger
}

func NewSymptomService(symptoms repository.SymptomsRepository, logger *zap.Logger) SymptomService {
	return &symptomService{symptoms: symptoms, logger: logger}
}

func (s *symptomService) ListSymptoms(ctx context.Context, category string) ([]models.Symptom, error) {
	items, err := s.symptoms.ListSymptoms(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list symptoms: %w", err)
	}
	if items == nil {
		items = []models.Symptom{}
	}
	return items, nil
}

func (s *symptomService) ListCategories(ctx context.Context) ([]string, error) {
	items, err := s.symptoms.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list symptom categories: %w", err)
	}
	if items == nil {
		items = []string{}
	}
	return items, nil
}
