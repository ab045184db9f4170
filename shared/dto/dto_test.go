package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"escaperoom/shared/constant"
	"escaperoom/shared/dto"
	"escaperoom/shared/model"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2025, 1, 2, 12, 0, 0, 0, time.UTC)

	metadata := dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	})

	parsedCreated, err := time.Parse(constant.DateFormat, metadata.CreatedAt)
	assert.NoError(t, err)
	assert.True(t, parsedCreated.Equal(createdAt))

	parsedModified, err := time.Parse(constant.DateFormat, metadata.ModifiedAt)
	assert.NoError(t, err)
	assert.True(t, parsedModified.Equal(modifiedAt))

	assert.Equal(t, "creator", metadata.CreatedBy)
	assert.Equal(t, "modifier", metadata.ModifiedBy)

	metadata.FromModel(model.Metadata{CreatedAt: createdAt})
	assert.Empty(t, metadata.ModifiedAt)
	assert.Empty(t, metadata.ModifiedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name:     "all parameters",
			query:    "page=2&limit=20&sort_by=name&sort_dir=asc",
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "name", SortDir: dto.SortDirAsc},
		},
		{
			name:           "defaults applied",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "no defaults",
			expected: dto.QueryParams{},
		},
		{
			name:           "invalid numbers fall back to defaults",
			query:          "page=-1&limit=abc",
			defaultRequest: true,
			expected:       dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "limit capped",
			query:    "limit=5000",
			expected: dto.QueryParams{Limit: constant.MaxValueLimit},
		},
		{
			name:     "unknown sort direction ignored",
			query:    "sort_dir=sideways",
			expected: dto.QueryParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/bookings?"+tt.query, nil)

			params := dto.QueryParams{}
			params.FromRequest(req, tt.defaultRequest)

			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestQueryParams_Pagination(t *testing.T) {
	tests := []struct {
		name      string
		params    dto.QueryParams
		wantQuery string
		wantArgs  map[string]any
	}{
		{name: "no limit", params: dto.QueryParams{Page: 3}, wantQuery: "", wantArgs: map[string]any{}},
		{name: "limit only", params: dto.QueryParams{Limit: 5}, wantQuery: "LIMIT :limit", wantArgs: map[string]any{"limit": 5}},
		{
			name:      "third page",
			params:    dto.QueryParams{Page: 3, Limit: 10},
			wantQuery: "LIMIT :limit OFFSET :offset",
			wantArgs:  map[string]any{"limit": 10, "offset": 20},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args := tt.params.Pagination()

			assert.Equal(t, tt.wantQuery, query)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "equal with table",
			filter:    dto.Filter{Field: "status", Value: "pending", Operator: dto.FilterOperatorEq, Table: "bookings"},
			wantWhere: "bookings.status = :status",
			wantArgs:  map[string]any{"status": "pending"},
		},
		{
			name:      "strictly greater with arg name",
			filter:    dto.Filter{ArgName: "threshold", Field: "created_at", Value: 5, Operator: dto.FilterOperatorGreater},
			wantWhere: "created_at > :threshold",
			wantArgs:  map[string]any{"threshold": 5},
		},
		{
			name:      "strictly less",
			filter:    dto.Filter{Field: "end_time", Value: 1, Operator: dto.FilterOperatorLess},
			wantWhere: "end_time < :end_time",
			wantArgs:  map[string]any{"end_time": 1},
		},
		{
			name:      "in slice",
			filter:    dto.Filter{Field: "status", Value: []string{"pending", "confirmed"}, Operator: dto.FilterOperatorIn},
			wantWhere: "status IN (:status_0, :status_1) ",
			wantArgs:  map[string]any{"status_0": "pending", "status_1": "confirmed"},
		},
		{
			name:      "in scalar",
			filter:    dto.Filter{Field: "status", Value: "pending", Operator: dto.FilterOperatorIn, Table: "bookings"},
			wantWhere: "bookings.status IN (:status_0) ",
			wantArgs:  map[string]any{"status_0": "pending"},
		},
		{
			name:      "unknown operator",
			filter:    dto.Filter{Field: "x", Operator: "between"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "id", Value: "b1", Operator: dto.FilterOperatorEq},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{ArgName: "s1", Field: "status", Value: "pending", Operator: dto.FilterOperatorEq},
					dto.Filter{ArgName: "s2", Field: "status", Value: "confirmed", Operator: dto.FilterOperatorEq},
				},
			},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(id = :id AND (status = :s1 OR status = :s2))", where)
	assert.Equal(t, map[string]any{"id": "b1", "s1": "pending", "s2": "confirmed"}, args)

	empty := dto.FilterGroup{}
	where, args = empty.GetWhereClause()
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestFilterGroup_Add(t *testing.T) {
	group := dto.NewFilterGroup(dto.FilterGroupOperatorAnd)
	group.Add(dto.Filter{Field: "room_id", Value: "r1", Operator: dto.FilterOperatorEq})
	group.Add("ignored", dto.Filter{Field: "user_id", Value: "u1", Operator: dto.FilterOperatorEq})

	where, args := group.GetWhereClause()

	assert.Equal(t, "(room_id = :room_id AND user_id = :user_id)", where)
	assert.Equal(t, map[string]any{"room_id": "r1", "user_id": "u1"}, args)
}
