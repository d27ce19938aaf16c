package interfaces

import "widget-gateway/internal/models"

//go:generate mockgen -package=mock -source=keybuilder.go -destination=mock/keybuilder.go

// KeyBuilder canonizes widget requests into deterministic cache keys
type KeyBuilder interface {
	Build(kind models.WidgetKind, params models.Params) (string, error)
}
