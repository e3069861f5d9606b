package services

import (
	"context"
	"strconv"

	"chamaai_backend/internal/geo"
	"chamaai_backend/internal/services/dto"
	"chamaai_backend/pkg/apperrors"
)

// GeoService отдает справочник штатов и муниципалитетов для форм
type GeoService interface {
	ListStates(ctx context.Context) (*dto.ListResponse[geo.State], error)
	ListCities(ctx context.Context, stateID string) (*dto.ListResponse[geo.City], error)
}

type geoService struct {
	client geo.Client
}

func NewGeoService(client geo.Client) GeoService {
	return &geoService{client: client}
}

func (s *geoService) ListStates(ctx context.Context) (*dto.ListResponse[geo.State], error) {
	res, err := loadList(ctx, "geo", struct{}{}, func(ctx context.Context, _ struct{}) ([]geo.State, error) {
		return s.client.States(ctx)
	})
	return dto.NewListResponse(res, nil), err
}

func (s *geoService) ListCities(ctx context.Context, stateID string) (*dto.ListResponse[geo.City], error) {
	id, err := strconv.Atoi(stateID)
	if err != nil || id <= 0 {
		return nil, apperrors.FieldError("state_id", "Must be a positive number")
	}
	res, err := loadList(ctx, "geo", id, func(ctx context.Context, id int) ([]geo.City, error) {
		return s.client.Cities(ctx, id)
	})
	return dto.NewListResponse(res, nil), err
}
