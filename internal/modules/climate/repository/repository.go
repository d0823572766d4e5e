package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"log/slog"

	"climate-api/internal/db"
	"climate-api/internal/modules/climate/types"
)

//go:embed sql/get-max-date.sql
var getMaxDateSQL string

//go:embed sql/get-station-ids.sql
var getStationIDsSQL string

//go:embed sql/get-most-active-station.sql
var getMostActiveStationSQL string

//go:embed sql/get-precipitation-since.sql
var getPrecipitationSinceSQL string

//go:embed sql/get-temperature-observations.sql
var getTemperatureObservationsSQL string

//go:embed sql/get-temperature-stats-from.sql
var getTemperatureStatsFromSQL string

//go:embed sql/get-temperature-stats-range.sql
var getTemperatureStatsRangeSQL string

type ClimateRepository interface {
	// GetMaxDate reports ok=false when the measurement table is empty.
	GetMaxDate(ctx context.Context) (date string, ok bool, err error)
	GetStationIDs(ctx context.Context) ([]string, error)
	// GetMostActiveStation reports ok=false when there are no measurements.
	GetMostActiveStation(ctx context.Context) (station string, ok bool, err error)
	GetPrecipitationSince(ctx context.Context, since string) ([]types.Measurement, error)
	GetTemperatureObservations(ctx context.Context, station string, since string) ([]types.Measurement, error)
	// GetTemperatureStats aggregates over date >= start, and date <= *end when end is non-nil.
	GetTemperatureStats(ctx context.Context, start string, end *string) (types.TemperatureStats, error)
}

type queries struct {
	maxDate, stationIDs, mostActive, precipitation, observations, statsFrom, statsRange string
}

type repositoryImpl struct {
	db *sql.DB
	q  queries
}

func NewRepository(conn *sql.DB, driverName string) ClimateRepository {
	return &repositoryImpl{
		db: conn,
		q: queries{
			maxDate:       db.Rebind(driverName, getMaxDateSQL),
			stationIDs:    db.Rebind(driverName, getStationIDsSQL),
			mostActive:    db.Rebind(driverName, getMostActiveStationSQL),
			precipitation: db.Rebind(driverName, getPrecipitationSinceSQL),
			observations:  db.Rebind(driverName, getTemperatureObservationsSQL),
			statsFrom:     db.Rebind(driverName, getTemperatureStatsFromSQL),
			statsRange:    db.Rebind(driverName, getTemperatureStatsRangeSQL),
		},
	}
}

func (r *repositoryImpl) GetMaxDate(ctx context.Context) (string, bool, error) {
	var d sql.NullString
	if err := r.db.QueryRowContext(ctx, r.q.maxDate).Scan(&d); err != nil {
		return "", false, err
	}
	return d.String, d.Valid, nil
}

func (r *repositoryImpl) GetStationIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, r.q.stationIDs)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close station rows", "error", err)
		}
	}()
	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetMostActiveStation(ctx context.Context) (string, bool, error) {
	var station string
	err := r.db.QueryRowContext(ctx, r.q.mostActive).Scan(&station)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return station, true, nil
}

func (r *repositoryImpl) GetPrecipitationSince(ctx context.Context, since string) ([]types.Measurement, error) {
	rows, err := r.db.QueryContext(ctx, r.q.precipitation, since)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close precipitation rows", "error", err)
		}
	}()
	var out []types.Measurement
	for rows.Next() {
		var m types.Measurement
		var prcp sql.NullFloat64
		if err := rows.Scan(&m.Date, &prcp); err != nil {
			return nil, err
		}
		if prcp.Valid {
			v := prcp.Float64
			m.Prcp = &v
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetTemperatureObservations(ctx context.Context, station string, since string) ([]types.Measurement, error) {
	rows, err := r.db.QueryContext(ctx, r.q.observations, station, since)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close observation rows", "error", err)
		}
	}()
	var out []types.Measurement
	for rows.Next() {
		m := types.Measurement{Station: station}
		if err := rows.Scan(&m.Date, &m.Tobs); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetTemperatureStats(ctx context.Context, start string, end *string) (types.TemperatureStats, error) {
	var row *sql.Row
	if end == nil {
		row = r.db.QueryRowContext(ctx, r.q.statsFrom, start)
	} else {
		row = r.db.QueryRowContext(ctx, r.q.statsRange, start, *end)
	}
	var tmin, tavg, tmax sql.NullFloat64
	if err := row.Scan(&tmin, &tavg, &tmax); err != nil {
		return types.TemperatureStats{}, err
	}
	return types.TemperatureStats{
		TMIN: nullFloat(tmin),
		TAVG: nullFloat(tavg),
		TMAX: nullFloat(tmax),
	}, nil
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
