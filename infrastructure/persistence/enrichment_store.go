package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vehiclegraph/vehiclegraph/domain/vehicle"
	"github.com/vehiclegraph/vehiclegraph/internal/database"
)

// EnrichmentStore implements vehicle.Store on top of a GORM database.
type EnrichmentStore struct {
	db       database.Database
	vehicles database.Repository[int64, VehicleModel]
	values   database.Repository[fieldValue, VehicleEnrichmentModel]
}

// NewEnrichmentStore migrates the schema and returns a store.
//
// Existing rows are removed: memoized values only live as long as the
// process that generated them.
func NewEnrichmentStore(ctx context.Context, db database.Database) (EnrichmentStore, error) {
	if err := AutoMigrate(db); err != nil {
		return EnrichmentStore{}, err
	}

	s := EnrichmentStore{
		db:       db,
		vehicles: database.NewRepository[int64, VehicleModel](db, VehicleMapper{}, "vehicle"),
		values:   database.NewRepository[fieldValue, VehicleEnrichmentModel](db, EnrichmentMapper{}, "vehicle enrichment"),
	}

	err := database.WithTransaction(ctx, db, func(tx *gorm.DB) error {
		if err := s.values.DeleteByTx(tx, database.NewQuery()); err != nil {
			return err
		}
		return s.vehicles.DeleteByTx(tx, database.NewQuery())
	})
	if err != nil {
		return EnrichmentStore{}, fmt.Errorf("reset enrichment tables: %w", err)
	}

	return s, nil
}

func byFin(fin int64) database.Query {
	return database.NewQuery().Equal("fin", fin)
}

// Get returns the enrichment set for fin.
func (s EnrichmentStore) Get(ctx context.Context, fin int64) (vehicle.Enrichments, bool, error) {
	ok, err := s.vehicles.Exists(ctx, byFin(fin))
	if err != nil {
		return vehicle.Enrichments{}, false, fmt.Errorf("get vehicle %d: %w", fin, err)
	}
	if !ok {
		return vehicle.Enrichments{}, false, nil
	}

	values, err := s.values.Find(ctx, byFin(fin).OrderAsc("field"))
	if err != nil {
		return vehicle.Enrichments{}, false, fmt.Errorf("get vehicle %d: %w", fin, err)
	}
	return toEnrichments(values), true, nil
}

// Put replaces the enrichment set for fin in a single transaction.
func (s EnrichmentStore) Put(ctx context.Context, fin int64, enrichments vehicle.Enrichments) error {
	err := database.WithTransaction(ctx, s.db, func(tx *gorm.DB) error {
		if err := s.ensure(tx, fin); err != nil {
			return err
		}
		if err := s.values.DeleteByTx(tx, byFin(fin)); err != nil {
			return err
		}
		return s.values.CreateTx(tx, fromEnrichments(fin, enrichments))
	})
	if err != nil {
		return fmt.Errorf("put enrichments for %d: %w", fin, err)
	}
	return nil
}

// Ensure creates an empty entry for fin if none exists.
func (s EnrichmentStore) Ensure(ctx context.Context, fin int64) error {
	if err := s.ensure(s.db.Session(ctx), fin); err != nil {
		return fmt.Errorf("ensure vehicle %d: %w", fin, err)
	}
	return nil
}

// Len returns the number of initialized keys.
func (s EnrichmentStore) Len(ctx context.Context) (int, error) {
	n, err := s.vehicles.Count(ctx, database.NewQuery())
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s EnrichmentStore) ensure(tx *gorm.DB, fin int64) error {
	model := s.vehicles.Mapper().ToModel(fin)
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&model).Error
}
