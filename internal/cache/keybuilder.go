package cache

import (
	"crypto/md5"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"widget-gateway/internal/interfaces"
	"widget-gateway/internal/models"
)

// keyPrefix namespaces gateway entries in a shared KeyDB. The version segment
// is bumped whenever a record's serialized shape changes.
const keyPrefix = "widget:v1"

// Ensure KeyBuilderImpl implements interfaces.KeyBuilder
var _ interfaces.KeyBuilder = (*KeyBuilderImpl)(nil)

// KeyBuilderImpl implements the KeyBuilder interface
type KeyBuilderImpl struct{}

// NewKeyBuilder creates a new KeyBuilder instance
func NewKeyBuilder() interfaces.KeyBuilder {
	return &KeyBuilderImpl{}
}

// Build creates a cache key for a widget request. Params are expected to be
// normalized already; they are sorted here so that bag order never matters.
func (kb *KeyBuilderImpl) Build(kind models.WidgetKind, params models.Params) (string, error) {
	if kind == "" {
		return "", errors.New("widget kind cannot be empty")
	}

	if !kind.IsValid() {
		return "", fmt.Errorf("unknown widget kind: %s", kind)
	}

	canonical := canonicalize(params)

	hasher := md5.New()
	hasher.Write([]byte(canonical))
	paramsHashStr := fmt.Sprintf("%x", hasher.Sum(nil))

	// Create final cache key: prefix:kind:paramsHash
	key := fmt.Sprintf("%s:%s:%s", keyPrefix, kind, paramsHashStr)

	return key, nil
}

// canonicalize renders params as a sorted, escaped query string
func canonicalize(params models.Params) string {
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, url.QueryEscape(p.Name)+"="+url.QueryEscape(p.Value))
	}
	sort.Strings(parts)
	return strings.Join(parts, "&")
}
