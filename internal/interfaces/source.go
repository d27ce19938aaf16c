package interfaces

import (
	"context"

	"widget-gateway/internal/models"
)

//go:generate mockgen -package=mock -source=source.go -destination=mock/source.go

// Source is a Source Adapter: it fetches and normalizes the data of one widget kind.
type Source interface {
	// Kind is the widget kind served by this source
	Kind() models.WidgetKind

	// TTL is the constant cache lifetime for records of this kind
	TTL() models.TTL

	// RequiredParams lists the parameter names a request must carry
	RequiredParams() []string

	// Normalize validates params and returns their canonical form.
	// It must not perform any I/O.
	Normalize(params models.Params) (models.Params, error)

	// Fetch calls the upstream service with normalized params
	Fetch(ctx context.Context, params models.Params) (models.Record, error)

	// Decode restores a record previously serialized from Fetch's result
	Decode(data []byte) (models.Record, error)
}
