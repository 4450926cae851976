package products

import "strings"

// Sort fields are allow-listed; anything else falls back to name to keep the
// ORDER BY clause out of reach of request input.
var validSortFields = map[string]string{
	"name":       "products.name",
	"price":      "products.price",
	"created_at": "products.created_at",
}

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	Category string
	Search   string
	Sort     string
	Order    string
}

func (f ListFilters) sortColumn() string {
	if col, ok := validSortFields[strings.ToLower(strings.TrimSpace(f.Sort))]; ok {
		return col
	}
	return validSortFields["name"]
}

func (f ListFilters) sortDirection() string {
	if strings.EqualFold(strings.TrimSpace(f.Order), "desc") {
		return "DESC"
	}
	return "ASC"
}

func (f ListFilters) orderClause() string {
	return f.sortColumn() + " " + f.sortDirection()
}
