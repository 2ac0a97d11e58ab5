package database

import "github.com/leca/dt-valet/internal/model"

// Database defines the persistence interface for series and observations.
type Database interface {
	// Series
	CreateSeries(s *model.Series) error
	GetSeries(name string) (*model.Series, error)
	ListSeries() ([]*model.Series, error)

	// Observations
	InsertObservations(obs []model.Observation) error
	ListObservations(series string, q model.ObservationQuery) ([]model.Observation, error)
	LatestDate(series string) (string, error)
	CountObservations(series string) (int, error)

	Close() error
}
