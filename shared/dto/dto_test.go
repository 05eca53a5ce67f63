package dto_test

import (
	"testing"
	"time"

	"conroom/shared/constant"
	"conroom/shared/dto"
	"conroom/shared/model"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2023, 1, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2023, 1, 2, 12, 0, 0, 0, time.UTC)

	metadata := &dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	})

	assert.Equal(t, createdAt.Format(constant.DateFormat), metadata.CreatedAt)
	assert.Equal(t, modifiedAt.Format(constant.DateFormat), metadata.ModifiedAt)
	assert.Equal(t, "creator", metadata.CreatedBy)
	assert.Equal(t, "modifier", metadata.ModifiedBy)
}

func TestMetadata_FromModel_ZeroTimes(t *testing.T) {
	metadata := &dto.Metadata{}
	metadata.FromModel(model.Metadata{CreatedBy: "system"})

	assert.Empty(t, metadata.CreatedAt)
	assert.Empty(t, metadata.ModifiedAt)
	assert.Equal(t, "system", metadata.CreatedBy)
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "eq with table",
			filter:    dto.Filter{Field: "id", Value: "b-1", Operator: dto.FilterOperatorEq, Table: "bookings"},
			wantWhere: "bookings.id = :id",
			wantArgs:  map[string]any{"id": "b-1"},
		},
		{
			name:      "not eq with arg name",
			filter:    dto.Filter{ArgName: "skip", Field: "status", Value: "CANCELLED", Operator: dto.FilterOperatorNotEq},
			wantWhere: "status != :skip",
			wantArgs:  map[string]any{"skip": "CANCELLED"},
		},
		{
			name:      "in expands slice",
			filter:    dto.Filter{Field: "status", Value: []string{"CONFIRMED", "IN_USE"}, Operator: dto.FilterOperatorIn},
			wantWhere: "status IN (:status_0, :status_1)",
			wantArgs:  map[string]any{"status_0": "CONFIRMED", "status_1": "IN_USE"},
		},
		{
			name:      "in with empty slice is skipped",
			filter:    dto.Filter{Field: "status", Value: []string{}, Operator: dto.FilterOperatorIn},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
		{
			name:      "greater eq",
			filter:    dto.Filter{Field: "end_time", Value: 10, Operator: dto.FilterOperatorGreaterEq},
			wantWhere: "end_time >= :end_time",
			wantArgs:  map[string]any{"end_time": 10},
		},
		{
			name:      "less eq",
			filter:    dto.Filter{Field: "start_time", Value: 5, Operator: dto.FilterOperatorLessEq},
			wantWhere: "start_time <= :start_time",
			wantArgs:  map[string]any{"start_time": 5},
		},
		{
			name:      "unknown operator",
			filter:    dto.Filter{Field: "id", Value: 1, Operator: "like"},
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
		Filters: []any{
			dto.Filter{Field: "room_id", Value: "r-1", Operator: dto.FilterOperatorEq},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{ArgName: "s1", Field: "status", Value: "CONFIRMED", Operator: dto.FilterOperatorEq},
					dto.Filter{ArgName: "s2", Field: "status", Value: "IN_USE", Operator: dto.FilterOperatorEq},
				},
			},
			"ignored",
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(room_id = :room_id AND (status = :s1 OR status = :s2))", where)
	assert.Equal(t, map[string]any{"room_id": "r-1", "s1": "CONFIRMED", "s2": "IN_USE"}, args)

	empty := dto.FilterGroup{}
	where, args = empty.GetWhereClause()

	assert.Empty(t, where)
	assert.Empty(t, args)
}
