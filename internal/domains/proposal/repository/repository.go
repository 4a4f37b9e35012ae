package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"maps"

	"splitlease/infras/otel"
	"splitlease/infras/postgres"
	"splitlease/internal/domains/proposal/model"
	"splitlease/shared"
	"splitlease/shared/constant"
	gDto "splitlease/shared/dto"
	gRepo "splitlease/shared/repository"
	"splitlease/shared/timezone"
)

type Proposal interface {
	Insert(ctx context.Context, model model.Proposal) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Proposal, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Proposal, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	UpdateStatus(ctx context.Context, id string, to model.Status, extra map[string]any, user string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Proposal]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Proposal {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Proposal](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// UpdateStatus writes status and usual_order in one UPDATE. The rank is always
// derived from the target status here, so the two columns cannot drift apart.
func (repo *repositoryImpl) UpdateStatus(ctx context.Context, id string, to model.Status, extra map[string]any, user string) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.UpdateStatus", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()

	fields := map[string]any{
		model.FieldStatus:        string(to),
		model.FieldUsualOrder:    to.UsualOrder(),
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}
	maps.Copy(fields, extra)

	return repo.Update(ctx, fields, shared.FilterByID(id, model.FieldID, model.TableName)) //nolint:wrapcheck
}
