package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"climate-api/internal/modules/climate/repository"
	"climate-api/internal/modules/climate/types"
)

// ErrNoMeasurements is returned when a query needs the latest observation
// date or the most active station and the store holds no measurements.
var ErrNoMeasurements = errors.New("no measurements in store")

const (
	DateLayout = "2006-01-02"
	windowDays = 365
)

type Service struct {
	repository repository.ClimateRepository
}

func NewService(repository repository.ClimateRepository) *Service {
	return &Service{repository: repository}
}

// Precipitation returns the last twelve months of precipitation keyed by
// date. When several stations report the same date the row stored last wins.
func (s *Service) Precipitation(ctx context.Context) (types.Precipitation, error) {
	since, err := s.windowStart(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.repository.GetPrecipitationSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("precipitation since %s: %w", since, err)
	}
	out := make(types.Precipitation, len(rows))
	for _, m := range rows {
		out[m.Date] = m.Prcp
	}
	return out, nil
}

func (s *Service) StationIDs(ctx context.Context) ([]string, error) {
	ids, err := s.repository.GetStationIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("station ids: %w", err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// TemperatureObservations returns the last twelve months of temperature
// readings for the station with the most measurements.
func (s *Service) TemperatureObservations(ctx context.Context) ([]types.TemperatureObservation, error) {
	station, ok, err := s.repository.GetMostActiveStation(ctx)
	if err != nil {
		return nil, fmt.Errorf("most active station: %w", err)
	}
	if !ok {
		return nil, ErrNoMeasurements
	}
	since, err := s.windowStart(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := s.repository.GetTemperatureObservations(ctx, station, since)
	if err != nil {
		return nil, fmt.Errorf("temperature observations for %s since %s: %w", station, since, err)
	}
	out := make([]types.TemperatureObservation, 0, len(rows))
	for _, m := range rows {
		out = append(out, types.TemperatureObservation{Date: m.Date, Temperature: m.Tobs})
	}
	return out, nil
}

// TemperatureStats aggregates temperature from start onwards, or over
// [start, end] when end is given. Inputs are compared as strings and are
// not validated; a bad date simply matches nothing.
func (s *Service) TemperatureStats(ctx context.Context, start string, end *string) ([]types.TemperatureStats, error) {
	stats, err := s.repository.GetTemperatureStats(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("temperature stats: %w", err)
	}
	return []types.TemperatureStats{stats}, nil
}

func (s *Service) windowStart(ctx context.Context) (string, error) {
	maxDate, ok, err := s.repository.GetMaxDate(ctx)
	if err != nil {
		return "", fmt.Errorf("max date: %w", err)
	}
	if !ok {
		return "", ErrNoMeasurements
	}
	return OneYearBefore(maxDate)
}

// OneYearBefore returns the date 365 days before an ISO date.
func OneYearBefore(date string) (string, error) {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", fmt.Errorf("parse date %q: %w", date, err)
	}
	return t.AddDate(0, 0, -windowDays).Format(DateLayout), nil
}
