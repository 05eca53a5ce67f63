package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"time"

	"conroom/infras/otel"
	"conroom/infras/postgres"
	"conroom/internal/domains/booking/model"
	gDto "conroom/shared/dto"
	gRepo "conroom/shared/repository"
)

type Booking interface {
	Get(ctx context.Context, filter gDto.FilterGroup) (model.Booking, error)
	GetAll(ctx context.Context, filter gDto.FilterGroup) ([]model.Booking, error)
	Update(ctx context.Context, fields map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, db, otel),
	}
}

// FilterActive selects bookings that may still affect occupancy: not yet
// closed and ending at or after since.
func FilterActive(since time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldStatus,
				Value:    []string{model.StatusConfirmed, model.StatusInUse, model.StatusPendingPayment},
				Operator: gDto.FilterOperatorIn,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldEndTime,
				Value:    since,
				Operator: gDto.FilterOperatorGreaterEq,
				Table:    model.TableName,
			},
		},
	}
}
