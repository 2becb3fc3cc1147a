// Package store persists transactions and executes compiled query plans.
package store

import (
	"context"
	"strings"

	"spendlog/internal/models"
	"spendlog/internal/pagination"
	"spendlog/internal/query"
)

// Store is the transaction ledger. Errors are *errors.AppError values.
type Store interface {
	// Create persists tx and its keywords. A zero CreatedAt is set to now.
	Create(ctx context.Context, tx *models.Transaction) error
	Get(ctx context.Context, id string) (*models.Transaction, error)
	// AddKeywords appends keywords not already on the transaction.
	AddKeywords(ctx context.Context, id string, keywords models.KeywordList) (*models.Transaction, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error)

	// Aggregate runs an aggregate plan. Groups are ordered by total
	// descending, then key; an empty result means nothing matched.
	Aggregate(ctx context.Context, plan query.Plan) (query.Aggregate, error)
	// Find runs a list plan, newest first.
	Find(ctx context.Context, plan query.Plan) ([]models.Transaction, error)
}

// likePattern turns a predicate into a lower-cased LIKE operand.
func likePattern(p *query.Predicate) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.ToLower(p.Pattern))
	return "%" + escaped + "%"
}
