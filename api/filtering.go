package api

import (
	"net/http"

	"autocatalog/core"
)

// parseCarFilters extracts the car listing filters. Values pass
// through verbatim; normalization (trim, case folding) happens in the
// predicate builder and year parsing is validated there.
func parseCarFilters(r *http.Request) core.CarFilters {
	q := r.URL.Query()
	return core.CarFilters{
		Model:    q.Get("model"),
		Category: q.Get("category"),
		YearFrom: q.Get("yearOfManufacturingFrom"),
		YearTill: q.Get("yearOfManufacturingTill"),
	}
}

// parseModelFilters extracts the model listing filters.
func parseModelFilters(r *http.Request) core.ModelFilters {
	q := r.URL.Query()
	return core.ModelFilters{
		Name:       q.Get("name"),
		Generation: q.Get("generation"),
		Brand:      q.Get("brand"),
	}
}
