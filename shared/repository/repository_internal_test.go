package repository

import (
	"context"
	"reflect"
	"testing"
	"time"

	"conroom/infras/otel/mocks"
	"conroom/shared/dto"
	"conroom/shared/model"

	"github.com/stretchr/testify/assert"
)

type sample struct {
	ID      string    `db:"id"`
	Name    string    `db:"name"`
	Skipped string    `db:"-"`
	Plain   string
	At      time.Time `db:"at"`
	model.Metadata
}

func TestGetColumns(t *testing.T) {
	columns := getColumns(reflect.TypeOf(sample{}))

	assert.Equal(t, []string{"id", "name", "at", "created_at", "modified_at", "created_by", "modified_by"}, columns)
}

func TestSelectQuery(t *testing.T) {
	repo := NewRepository[sample]("sample", "samples", nil, mocks.NewOtel())

	assert.Equal(t,
		"samples.id, samples.name, samples.at, samples.created_at, samples.modified_at, samples.created_by, samples.modified_by",
		repo.selectQuery(),
	)
}

func TestBuildWhereClause(t *testing.T) {
	repo := NewRepository[sample]("sample", "samples", nil, mocks.NewOtel())

	where, args := repo.BuildWhereClause(dto.FilterGroup{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = repo.BuildWhereClause(dto.FilterGroup{
		Filters: []any{dto.Filter{Field: "id", Value: "x", Operator: dto.FilterOperatorEq}},
	})
	assert.Equal(t, " WHERE (id = :id) ", where)
	assert.Equal(t, map[string]any{"id": "x"}, args)
}

func TestUpdate_RequiresFieldsAndFilter(t *testing.T) {
	repo := NewRepository[sample]("sample", "samples", nil, mocks.NewOtel())
	ctx := context.Background()

	err := repo.Update(ctx, nil, dto.FilterGroup{})
	assert.ErrorIs(t, err, errRequiredFields)

	err = repo.Update(ctx, map[string]any{"name": "n"}, dto.FilterGroup{})
	assert.ErrorIs(t, err, errRequiredFilter)
}

func TestGet_RequiresFilter(t *testing.T) {
	repo := NewRepository[sample]("sample", "samples", nil, mocks.NewOtel())

	_, err := repo.Get(context.Background(), dto.FilterGroup{})
	assert.ErrorIs(t, err, errRequiredFilter)
}
