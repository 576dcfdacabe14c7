package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vehiclegraph/vehiclegraph/application/service"
	"github.com/vehiclegraph/vehiclegraph/domain/vehicle"
)

// Vehicles looks up vehicle views by fin.
type Vehicles interface {
	Lookup(ctx context.Context, fin int64) (*service.View, error)
}

// rootResolver serves the Query type.
type rootResolver struct {
	vehicles Vehicles
	logger   *slog.Logger
}

// GetVehicleByFin resolves Query.getVehicleByFin. Every fin resolves to a
// vehicle; unseen fins start with no enrichments.
func (r *rootResolver) GetVehicleByFin(ctx context.Context, args struct{ Fin int32 }) (*vehicleResolver, error) {
	view, err := r.vehicles.Lookup(ctx, int64(args.Fin))
	if err != nil {
		r.logger.ErrorContext(ctx, "vehicle lookup failed", "fin", args.Fin, "error", err)
		return nil, fmt.Errorf("lookup vehicle %d: %w", args.Fin, err)
	}
	return &vehicleResolver{view: view, logger: r.logger}, nil
}

// vehicleResolver serves the Vehicle type. Field methods take a context and
// return an error so the executor runs them concurrently.
type vehicleResolver struct {
	view   *service.View
	logger *slog.Logger
}

// Fin echoes the looked-up key.
func (v *vehicleResolver) Fin() *int32 {
	fin := int32(v.view.Fin())
	return &fin
}

// Texts resolves Vehicle.texts.
func (v *vehicleResolver) Texts(ctx context.Context) (*string, error) {
	return v.field(ctx, vehicle.FieldTexts)
}

// Codes resolves Vehicle.codes.
func (v *vehicleResolver) Codes(ctx context.Context) (*string, error) {
	return v.field(ctx, vehicle.FieldCodes)
}

// Pics resolves Vehicle.pics.
func (v *vehicleResolver) Pics(ctx context.Context) (*string, error) {
	return v.field(ctx, vehicle.FieldPics)
}

func (v *vehicleResolver) field(ctx context.Context, field vehicle.Field) (*string, error) {
	value, err := v.view.Resolve(ctx, field)
	if err != nil {
		v.logger.ErrorContext(ctx, "field resolution failed", "fin", v.view.Fin(), "field", field.String(), "error", err)
		return nil, err
	}
	return &value, nil
}
