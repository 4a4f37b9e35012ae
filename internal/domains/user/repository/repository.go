package repository

import (
	"context"
	"fmt"

	"splitlease/infras/otel"
	"splitlease/infras/postgres"
	"splitlease/internal/domains/user/model"
	"splitlease/shared/constant"
	gDto "splitlease/shared/dto"
	"splitlease/shared/logger"
	gRepo "splitlease/shared/repository"
	"splitlease/shared/timezone"
)

type User interface {
	Insert(ctx context.Context, model model.User) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.User, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	AppendProposalRef(ctx context.Context, userID, proposalID string) error
	AppendFavoritedListing(ctx context.Context, userID, listingID string) error
	RemoveFavoritedListing(ctx context.Context, userID, listingID string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// appendElement pushes one string element onto a JSONB array column in a
// single UPDATE. The concatenation happens inside Postgres, so two concurrent
// appends can never overwrite each other the way a read-modify-write would.
// The containment guard keeps the operation idempotent.
func (repo *repositoryImpl) appendElement(ctx context.Context, column, userID, element string) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.appendElement", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = COALESCE(%s, '[]'::jsonb) || to_jsonb($1::text),
			modified_at = $2,
			modified_by = $3
		WHERE id = $4
			AND NOT COALESCE(%s, '[]'::jsonb) @> to_jsonb($1::text)`,
		model.TableName, column, column, column)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	_, err := repo.db.Write.ExecContext(ctx, query, element, timezone.Now(), userID, userID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to append %s element (%s): %w", column, model.EntityName, err)
	}

	return nil
}

func (repo *repositoryImpl) AppendProposalRef(ctx context.Context, userID, proposalID string) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.AppendProposalRef", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()

	return repo.appendElement(ctx, model.FieldProposalsList, userID, proposalID) //nolint:wrapcheck
}

func (repo *repositoryImpl) AppendFavoritedListing(ctx context.Context, userID, listingID string) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.AppendFavoritedListing", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()

	return repo.appendElement(ctx, model.FieldFavoritedListings, userID, listingID) //nolint:wrapcheck
}

func (repo *repositoryImpl) RemoveFavoritedListing(ctx context.Context, userID, listingID string) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.RemoveFavoritedListing", constant.OtelRepositoryScopeName, model.EntityName))
	defer scope.End()

	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = COALESCE(%s, '[]'::jsonb) - $1,
			modified_at = $2,
			modified_by = $3
		WHERE id = $4`,
		model.TableName, model.FieldFavoritedListings, model.FieldFavoritedListings)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	_, err := repo.db.Write.ExecContext(ctx, query, listingID, timezone.Now(), userID, userID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to remove favorited listing (%s): %w", model.EntityName, err)
	}

	return nil
}
