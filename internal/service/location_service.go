package service

import (
	"context"

	"smartparking/internal/db"
	apperrors "smartparking/internal/errors"
	"smartparking/internal/utils"
)

type LocationService struct {
	repo LocationStore
}

func NewLocationService(repo LocationStore) *LocationService {
	return &LocationService{repo: repo}
}

func (s *LocationService) ListLocations(ctx context.Context) ([]db.ParkingLocation, error) {
	locations, err := s.repo.ListLocations(ctx)
	if err != nil {
		return nil, err
	}
	if locations == nil {
		locations = []db.ParkingLocation{}
	}
	return locations, nil
}

func (s *LocationService) GetLocation(ctx context.Context, id int) (*db.ParkingLocation, error) {
	location, err := s.repo.GetLocation(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "parking location not found")
	}
	return location, nil
}

// ListSlots returns the slots of one vehicle pool at a location. Only free
// slots are listed unless all is set.
func (s *LocationService) ListSlots(ctx context.Context, locationID int, vehicleType string, all bool) ([]db.ParkingSlot, error) {
	vehicleType = utils.NormalizeVehicleType(vehicleType)
	if !utils.IsValidVehicleType(vehicleType) {
		return nil, apperrors.ErrBadRequest("Invalid vehicle type")
	}
	if _, err := s.GetLocation(ctx, locationID); err != nil {
		return nil, err
	}

	slots, err := s.repo.ListSlots(ctx, locationID, vehicleType, !all)
	if err != nil {
		return nil, err
	}
	if slots == nil {
		slots = []db.ParkingSlot{}
	}
	return slots, nil
}
