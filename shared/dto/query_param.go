package dto

import (
	"net/http"
	"strconv"
	"strings"

	"escaperoom/shared/constant"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty"`
	Limit   int    `json:"limit"    validate:"omitempty"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest reads page, limit and sort options from the query string.
// Limits above constant.MaxValueLimit are capped. With defaultRequest set, missing
// page and limit fall back to the defaults so listings are always paginated.
func (q *QueryParams) FromRequest(r *http.Request, defaultRequest bool) {
	query := r.URL.Query()

	q.Page = positiveInt(query.Get(constant.RequestParamPage), q.Page)
	q.Limit = min(positiveInt(query.Get(constant.RequestParamLimit), q.Limit), constant.MaxValueLimit)

	if sortBy := query.Get(constant.RequestParamSortBy); sortBy != "" {
		q.SortBy = sortBy
	}

	switch sortDir := strings.ToUpper(query.Get(constant.RequestParamSortDir)); sortDir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = sortDir
	}

	if !defaultRequest {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

// Pagination returns the LIMIT/OFFSET clause and its named args. Without a limit nothing is paginated.
func (q *QueryParams) Pagination() (string, map[string]any) {
	if q.Limit <= 0 {
		return "", map[string]any{}
	}

	if q.Page <= 0 {
		return "LIMIT :limit", map[string]any{"limit": q.Limit}
	}

	return "LIMIT :limit OFFSET :offset", map[string]any{
		"limit":  q.Limit,
		"offset": (q.Page - 1) * q.Limit,
	}
}

func positiveInt(value string, fallback int) int {
	if value == "" {
		return fallback
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return fallback
	}

	return parsed
}
