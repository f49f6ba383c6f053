package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "smartparking/internal/errors"
)

func TestLocationService_ListSlots(t *testing.T) {
	locations := newFakeLocations()
	locations.slots[11].IsAvailable = false
	svc := NewLocationService(locations)
	ctx := context.Background()

	free, err := svc.ListSlots(ctx, 1, "Car", false)
	require.NoError(t, err)
	assert.Len(t, free, 1)

	all, err := svc.ListSlots(ctx, 1, "four-wheeler", true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.ListSlots(ctx, 1, "truck", false)
	assert.Equal(t, http.StatusBadRequest, apperrors.GetCode(err))

	_, err = svc.ListSlots(ctx, 42, "car", false)
	assert.Equal(t, http.StatusNotFound, apperrors.GetCode(err))
}

func TestLocationService_Locations(t *testing.T) {
	svc := NewLocationService(newFakeLocations())
	ctx := context.Background()

	list, err := svc.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "City Centre", list[0].Name)

	loc, err := svc.GetLocation(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Riverfront", loc.Name)

	_, err = svc.GetLocation(ctx, 3)
	assert.Equal(t, http.StatusNotFound, apperrors.GetCode(err))
}

func TestLocationService_EmptyListIsNotNil(t *testing.T) {
	locations := newFakeLocations()
	for id := range locations.slots {
		locations.slots[id].IsAvailable = false
	}
	slots, err := NewLocationService(locations).ListSlots(context.Background(), 2, "four-wheeler", false)
	require.NoError(t, err)
	assert.NotNil(t, slots)
	assert.Empty(t, slots)
}
