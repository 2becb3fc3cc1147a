package store

import (
	"context"
	"errors"

	sq "github.com/Masterminds/squirrel"
	"gorm.io/gorm"

	apperrors "spendlog/internal/errors"
	"spendlog/internal/models"
	"spendlog/internal/pagination"
	"spendlog/internal/query"
	"spendlog/internal/uuid"
)

// SQLStore keeps transactions in a relational database. Keyword lists live
// in the transaction_keywords join table.
type SQLStore struct {
	db      *gorm.DB
	builder sq.StatementBuilderType
}

// NewSQLStore creates a SQLStore over db. Tables must already exist.
func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Question),
	}
}

var _ Store = (*SQLStore)(nil)

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}

// Create persists tx inside a database transaction.
func (s *SQLStore) Create(ctx context.Context, tx *models.Transaction) error {
	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		return db.Create(tx).Error
	})
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// Get loads a transaction with its keywords in order.
func (s *SQLStore) Get(ctx context.Context, id string) (*models.Transaction, error) {
	return s.get(s.db.WithContext(ctx), id)
}

func (s *SQLStore) get(db *gorm.DB, id string) (*models.Transaction, error) {
	if !uuid.IsValid(id) {
		return nil, apperrors.ErrTransactionNotFound
	}

	var tx models.Transaction
	if err := db.Preload("Keywords", byPosition).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTransactionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &tx, nil
}

// AddKeywords inserts the keywords missing from the transaction after the
// existing ones.
func (s *SQLStore) AddKeywords(ctx context.Context, id string, keywords models.KeywordList) (*models.Transaction, error) {
	var result *models.Transaction
	err := s.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
		tx, err := s.get(db, id)
		if err != nil {
			return err
		}

		current := tx.KeywordList()
		merged := current.Add(keywords...)
		for i := len(current); i < len(merged); i++ {
			row := models.TransactionKeyword{
				TransactionID: tx.ID,
				Position:      i,
				Value:         merged[i],
				Normalized:    models.NormalizeKeyword(merged[i]),
			}
			if err := db.Create(&row).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		result, err = s.get(db, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete soft-deletes a transaction.
func (s *SQLStore) Delete(ctx context.Context, id string) error {
	if !uuid.IsValid(id) {
		return apperrors.ErrTransactionNotFound
	}

	res := s.db.WithContext(ctx).Delete(&models.Transaction{}, "id = ?", id)
	if res.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTransactionNotFound
	}
	return nil
}

// List returns one page of transactions, newest first.
func (s *SQLStore) List(ctx context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()
	base := s.db.WithContext(ctx).Model(&models.Transaction{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := base.Scopes(pagination.Paginate(page)).
		Preload("Keywords", byPosition).
		Order("created_at DESC").
		Order("id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(transactions, page.Page, page.PageSize, totalItems)
	return &result, nil
}

type aggregateRow struct {
	GroupKey string
	Total    int64
	Count    int64
}

// Aggregate renders plan to one grouped SELECT.
func (s *SQLStore) Aggregate(ctx context.Context, plan query.Plan) (query.Aggregate, error) {
	stmt, args, err := s.aggregateSQL(plan)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var rows []aggregateRow
	if err := s.db.WithContext(ctx).Raw(stmt, args...).Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	out := make(query.Aggregate, 0, len(rows))
	for _, r := range rows {
		if r.Count == 0 {
			continue
		}
		out = append(out, query.Group{Key: r.GroupKey, Total: models.FromCents(r.Total), Count: r.Count})
	}
	return out, nil
}

func (s *SQLStore) aggregateSQL(plan query.Plan) (string, []interface{}, error) {
	total := "CAST(COALESCE(SUM(transactions.amount), 0) AS BIGINT) AS total"
	count := "COUNT(*) AS count"

	q := s.builder.Select().From("transactions").Where("transactions.deleted_at IS NULL")
	q = q.Where(windowClause(plan.Window))

	switch plan.GroupBy {
	case query.GroupKeyword:
		q = q.Columns("MIN(tk.value) AS group_key", total, count).
			Join("transaction_keywords tk ON tk.transaction_id = transactions.id").
			GroupBy("tk.normalized")
		if plan.Predicate != nil && plan.Predicate.Field == query.FieldKeywords {
			q = q.Where(`tk.normalized LIKE ? ESCAPE '\'`, likePattern(plan.Predicate))
		} else if plan.Predicate != nil {
			q = q.Where(predicateClause(plan.Predicate))
		}
	case query.GroupCategory:
		q = q.Columns("transactions.category AS group_key", total, count).GroupBy("transactions.category")
		if plan.Predicate != nil {
			q = q.Where(predicateClause(plan.Predicate))
		}
	default:
		q = q.Columns("'' AS group_key", total, count)
		if plan.Predicate != nil {
			q = q.Where(predicateClause(plan.Predicate))
		}
	}

	return q.OrderBy("total DESC", "group_key ASC").ToSql()
}

// Find loads the transactions matching a plan, newest first.
func (s *SQLStore) Find(ctx context.Context, plan query.Plan) ([]models.Transaction, error) {
	conds := sq.And{windowClause(plan.Window)}
	if plan.Predicate != nil {
		conds = append(conds, predicateClause(plan.Predicate))
	}
	where, args, err := conds.ToSql()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var transactions []models.Transaction
	if err := s.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where(where, args...).
		Preload("Keywords", byPosition).
		Order("transactions.created_at DESC").
		Order("transactions.id DESC").
		Find(&transactions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return transactions, nil
}

func windowClause(w query.Window) sq.Sqlizer {
	conds := sq.And{sq.LtOrEq{"transactions.created_at": w.End.UTC()}}
	if w.Start != nil {
		conds = append(conds, sq.GtOrEq{"transactions.created_at": w.Start.UTC()})
	}
	return conds
}

func predicateClause(p *query.Predicate) sq.Sqlizer {
	pattern := likePattern(p)
	if p.Field == query.FieldKeywords {
		return sq.Expr(`EXISTS (SELECT 1 FROM transaction_keywords k WHERE k.transaction_id = transactions.id AND k.normalized LIKE ? ESCAPE '\')`, pattern)
	}
	return sq.Expr(`LOWER(transactions.category) LIKE ? ESCAPE '\'`, pattern)
}
