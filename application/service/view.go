package service

import (
	"context"

	"github.com/vehiclegraph/vehiclegraph/domain/vehicle"
)

// View is a request-scoped view of one vehicle. Its snapshot is the
// enrichment set as it was at lookup time.
type View struct {
	fin      int64
	snapshot vehicle.Enrichments
	service  *Vehicle
}

// Fin returns the vehicle identifier.
func (v *View) Fin() int64 { return v.fin }

// Snapshot returns the enrichments known when the view was created.
func (v *View) Snapshot() vehicle.Enrichments { return v.snapshot }

// Resolve returns the value of field, generating and storing it when the
// snapshot does not have it yet.
func (v *View) Resolve(ctx context.Context, field vehicle.Field) (string, error) {
	return v.service.resolve(ctx, v.fin, v.snapshot, field)
}

// Texts resolves the texts enrichment.
func (v *View) Texts(ctx context.Context) (string, error) {
	return v.Resolve(ctx, vehicle.FieldTexts)
}

// Codes resolves the codes enrichment.
func (v *View) Codes(ctx context.Context) (string, error) {
	return v.Resolve(ctx, vehicle.FieldCodes)
}

// Pics resolves the pics enrichment.
func (v *View) Pics(ctx context.Context) (string, error) {
	return v.Resolve(ctx, vehicle.FieldPics)
}
