package sources

import (
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"widget-gateway/internal/apperr"
	"widget-gateway/internal/models"
)

var (
	// GitHub login rule: alphanumerics with single inner hyphens, 1-39 chars.
	// Length is enforced by the max tag.
	handlePattern  = regexp.MustCompile(`(?i)^[a-z\d](?:-?[a-z\d])*$`)
	assetIDPattern = regexp.MustCompile(`^[a-z\d][a-z\d-]*$`)

	validate = newValidator()
)

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("github_handle", func(fl validator.FieldLevel) bool {
		return handlePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("asset_id", func(fl validator.FieldLevel) bool {
		return assetIDPattern.MatchString(fl.Field().String())
	})
	return v
}

// requireParam returns the trimmed value of a required parameter
func requireParam(params models.Params, name string) (string, error) {
	value, ok := params.Get(name)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", apperr.Validation("missing required parameter: "+name, nil)
	}
	return value, nil
}

// checkParam validates value against validator tags
func checkParam(name, value, tags string) error {
	if err := validate.Var(value, tags); err != nil {
		return apperr.Validation("invalid parameter: "+name, err)
	}
	return nil
}

// splitList splits a comma separated value into trimmed, de-duplicated,
// sorted items. Empty items are dropped.
func splitList(value string, normalize func(string) string) []string {
	seen := make(map[string]struct{})
	var items []string
	for _, raw := range strings.Split(value, ",") {
		item := strings.TrimSpace(raw)
		if normalize != nil {
			item = normalize(item)
		}
		if item == "" {
			continue
		}
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		items = append(items, item)
	}
	sort.Strings(items)
	return items
}
