package models

// PokemonPage is one page of catalog entries. The offline path produces the
// same shape as the remote API so callers cannot tell which path served them.
type PokemonPage struct {
	Items      []Pokemon `json:"items"`
	Page       int       `json:"page"`
	PageSize   int       `json:"pageSize"`
	TotalCount int64     `json:"totalCount"`
	TotalPages int       `json:"totalPages"`
}

// CaughtPage is one page of ownership records.
type CaughtPage struct {
	Items           []CaughtPokemon `json:"caughtPokemon"`
	Page            int             `json:"page"`
	PageSize        int             `json:"pageSize"`
	TotalCount      int64           `json:"totalCount"`
	HasNextPage     bool            `json:"hasNextPage"`
	HasPreviousPage bool            `json:"hasPreviousPage"`
}

// TotalPages computes the page count for a given total and page size.
func TotalPages(totalCount int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return int((totalCount + int64(pageSize) - 1) / int64(pageSize))
}
