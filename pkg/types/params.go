package domain

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxLimit is the largest page size a caller may request.
const MaxLimit = 200

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidationError reports every field that failed boundary validation.
type ValidationError struct {
	Subject  string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Subject, strings.Join(e.Problems, "; "))
}

func validateStruct(subject string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating %s: %w", subject, err)
	}

	ve := &ValidationError{Subject: subject}
	for _, fe := range verrs {
		ve.Problems = append(ve.Problems, describeFieldError(fe))
	}
	return ve
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be <= %s", fe.Field(), fe.Param())
	case "gtefield":
		return fmt.Sprintf("%s must be >= %s", fe.Field(), strings.ToLower(fe.Param()))
	default:
		return fmt.Sprintf("%s failed %q validation", fe.Field(), fe.Tag())
	}
}

// FilterSpec is the mutable input used to build a Filters value.
type FilterSpec struct {
	Query         string
	Sizes         []string
	CategoryIDs   []string
	CollectionIDs []string
	PriceMin      *float64
	PriceMax      *float64
	Order         string
}

// Filters is the immutable filter combination of a single request. It is
// built once at the boundary and passed by value down the call chain.
type Filters struct {
	query         string
	sizes         []string
	categoryIDs   []string
	collectionIDs []string
	priceMin      *float64
	priceMax      *float64
	order         string
}

// NewFilters normalizes spec into a Filters value. Blank entries are dropped
// and surrounding whitespace is trimmed.
func NewFilters(spec FilterSpec) Filters {
	return Filters{
		query:         strings.TrimSpace(spec.Query),
		sizes:         cleanValues(spec.Sizes),
		categoryIDs:   cleanValues(spec.CategoryIDs),
		collectionIDs: cleanValues(spec.CollectionIDs),
		priceMin:      copyFloat(spec.PriceMin),
		priceMax:      copyFloat(spec.PriceMax),
		order:         strings.TrimSpace(spec.Order),
	}
}

// Query returns the trimmed free-text query.
func (f Filters) Query() string { return f.query }

// Sizes returns a copy of the size/variant attribute values.
func (f Filters) Sizes() []string { return slices.Clone(f.sizes) }

// CategoryIDs returns a copy of the category filter.
func (f Filters) CategoryIDs() []string { return slices.Clone(f.categoryIDs) }

// CollectionIDs returns a copy of the collection filter.
func (f Filters) CollectionIDs() []string { return slices.Clone(f.collectionIDs) }

// PriceMin returns the lower price bound, if any.
func (f Filters) PriceMin() *float64 { return copyFloat(f.priceMin) }

// PriceMax returns the upper price bound, if any.
func (f Filters) PriceMax() *float64 { return copyFloat(f.priceMax) }

// Order returns the catalog sort order, if any.
func (f Filters) Order() string { return f.order }

// HasQuery reports whether a free-text query is present.
func (f Filters) HasQuery() bool { return f.query != "" }

// HasSizes reports whether at least one size filter is present.
func (f Filters) HasSizes() bool { return len(f.sizes) > 0 }

// Native returns the filters the catalog applies itself, as request params.
func (f Filters) Native() map[string]any {
	params := map[string]any{}
	if len(f.categoryIDs) > 0 {
		params["category_id"] = f.CategoryIDs()
	}
	if len(f.collectionIDs) > 0 {
		params["collection_id"] = f.CollectionIDs()
	}
	if f.priceMin != nil {
		params["price_min"] = *f.priceMin
	}
	if f.priceMax != nil {
		params["price_max"] = *f.priceMax
	}
	if f.order != "" {
		params["order"] = f.order
	}
	return params
}

// QueryParams is a validated product list request.
type QueryParams struct {
	Filters     Filters `json:"-"`
	Limit       int     `json:"limit"        validate:"min=1,max=200"`
	Offset      int     `json:"offset"       validate:"min=0"`
	Fields      string  `json:"fields"`
	RegionID    string  `json:"region_id"`
	CountryCode string  `json:"country_code" validate:"required,len=2,lowercase,alpha"`
}

// NewQueryParams builds and validates a QueryParams value.
func NewQueryParams(
	filters Filters,
	limit, offset int,
	fields, regionID, countryCode string,
) (QueryParams, error) {
	p := QueryParams{
		Filters:     filters,
		Limit:       limit,
		Offset:      offset,
		Fields:      strings.TrimSpace(fields),
		RegionID:    strings.TrimSpace(regionID),
		CountryCode: strings.ToLower(strings.TrimSpace(countryCode)),
	}
	if err := p.Validate(); err != nil {
		return QueryParams{}, err
	}
	return p, nil
}

// Validate checks the limit, offset and country code invariants.
func (p QueryParams) Validate() error {
	return validateStruct("query params", &p)
}

func cleanValues(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
