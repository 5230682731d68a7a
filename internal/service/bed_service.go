// Package service contains the application's business logic layer.
package service

import (
	"context"

	"trellis/internal/models"
	"trellis/internal/repository"
	"trellis/internal/validation"
)

// BedService handles garden bed business logic.
type BedService interface {
	List(ctx context.Context, ownerID uint) ([]*models.Bed, error)
	GetOrCreate(ctx context.Context, rawName string, ownerID uint) (uint, error)
	Rename(ctx context.Context, id, ownerID uint, rawName string) error
	Delete(ctx context.Context, id, ownerID uint) error
}

type bedService struct {
	beds repository.BedRepository
}

// NewBedService creates a new bed service
func NewBedService(beds repository.BedRepository) BedService {
	return &bedService{beds: beds}
}

func (s *bedService) List(ctx context.Context, ownerID uint) ([]*models.Bed, error) {
	return s.beds.List(ctx, ownerID)
}

// GetOrCreate normalizes the submitted name before the upsert, so "north
// bed", "North bed" and " north  bed " all land on the same row.
func (s *bedService) GetOrCreate(ctx context.Context, rawName string, ownerID uint) (uint, error) {
	name := validation.NormalizeBedName(rawName)
	if name == "" {
		return 0, models.NewValidationError("bed name cannot be empty")
	}
	return s.beds.GetOrCreate(ctx, name, ownerID)
}

func (s *bedService) Rename(ctx context.Context, id, ownerID uint, rawName string) error {
	name := validation.NormalizeBedName(rawName)
	if name == "" {
		return models.NewValidationError("bed name cannot be empty")
	}
	return s.beds.Rename(ctx, id, ownerID, name)
}

func (s *bedService) Delete(ctx context.Context, id, ownerID uint) error {
	return s.beds.Delete(ctx, id, ownerID)
}
