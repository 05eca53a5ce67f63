package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"conroom/infras/otel"
	"conroom/infras/postgres"
	"conroom/internal/domains/room/model"
	gDto "conroom/shared/dto"
	gRepo "conroom/shared/repository"
)

type Room interface {
	GetAll(ctx context.Context, filter gDto.FilterGroup) ([]model.Room, error)
	Update(ctx context.Context, fields map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, db, otel),
	}
}
