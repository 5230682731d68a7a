package service

import (
	"context"
	"testing"

	"trellis/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBedService_GetOrCreateNormalizesName(t *testing.T) {
	beds := noopBedRepo()
	var requested string
	beds.getOrCreateFn = func(_ context.Context, name string, _ uint) (uint, error) {
		requested = name
		return 5, nil
	}

	svc := NewBedService(beds)

	id, err := svc.GetOrCreate(context.Background(), "  ne   corner bed ", 7)
	require.NoError(t, err)
	assert.Equal(t, uint(5), id)
	assert.Equal(t, "Ne Corner Bed", requested)
}

func TestBedService_GetOrCreatePreservesAcronyms(t *testing.T) {
	beds := noopBedRepo()
	var requested string
	beds.getOrCreateFn = func(_ context.Context, name string, _ uint) (uint, error) {
		requested = name
		return 5, nil
	}

	svc := NewBedService(beds)

	_, err := svc.GetOrCreate(context.Background(), "NE corner", 7)
	require.NoError(t, err)
	assert.Equal(t, "NE Corner", requested)
}

func TestBedService_RejectsEmptyNames(t *testing.T) {
	svc := NewBedService(noopBedRepo())
	ctx := context.Background()

	_, err := svc.GetOrCreate(ctx, "   ", 7)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	err = svc.Rename(ctx, 1, 7, "")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
}
