package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"rentals-api/domain"
	"rentals-api/dto"
)

func TestAmenityService(t *testing.T) {
	ctx := context.Background()
	service := NewAmenityService(&mockAmenityRepository{}, zap.NewNop())

	_, err := service.Create(ctx, dto.CreateAmenityRequest{Name: "Wifi", Category: "basics"})
	require.NoError(t, err)
	_, err = service.Create(ctx, dto.CreateAmenityRequest{Name: "Smoke alarm", Category: "SAFETY"})
	require.NoError(t, err)
	_, err = service.Create(ctx, dto.CreateAmenityRequest{Name: "Kitchen", Category: "BASICS"})
	require.NoError(t, err)

	_, err = service.Create(ctx, dto.CreateAmenityRequest{Name: "Wifi", Category: "BASICS"})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = service.Create(ctx, dto.CreateAmenityRequest{Name: "Moat", Category: "CASTLE"})
	assert.True(t, domain.IsValidation(err))

	all, err := service.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Kitchen", all[0].Name)

	basics, err := service.List(ctx, "basics")
	require.NoError(t, err)
	assert.Len(t, basics, 2)

	_, err = service.List(ctx, "CASTLE")
	assert.True(t, domain.IsValidation(err))
}
