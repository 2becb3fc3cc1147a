package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	apperrors "spendlog/internal/errors"
	"spendlog/internal/models"
	"spendlog/internal/pagination"
	"spendlog/internal/query"
	"spendlog/internal/uuid"
)

// MemoryStore is an in-process Store. It is safe for concurrent use.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]*models.Transaction
	now  func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: make(map[string]*models.Transaction), now: time.Now}
}

var _ Store = (*MemoryStore)(nil)

func (s *MemoryStore) Create(_ context.Context, tx *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	if tx.ID == "" {
		tx.ID = uuid.New()
	}
	if _, exists := s.rows[tx.ID]; exists {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "transaction already exists")
	}
	if tx.CreatedAt.IsZero() {
		tx.CreatedAt = now
	}
	tx.CreatedAt = tx.CreatedAt.UTC()
	tx.UpdatedAt = now
	tx.SetKeywords(tx.KeywordList())

	s.rows[tx.ID] = clone(tx)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, ok := s.rows[id]
	if !ok {
		return nil, apperrors.ErrTransactionNotFound
	}
	return clone(tx), nil
}

func (s *MemoryStore) AddKeywords(_ context.Context, id string, keywords models.KeywordList) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, ok := s.rows[id]
	if !ok {
		return nil, apperrors.ErrTransactionNotFound
	}
	tx.SetKeywords(tx.KeywordList().Add(keywords...))
	tx.UpdatedAt = s.now().UTC()
	return clone(tx), nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return apperrors.ErrTransactionNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *MemoryStore) List(_ context.Context, page pagination.PageRequest) (*pagination.PageResponse[models.Transaction], error) {
	page.Defaults()

	s.mu.RLock()
	all := s.sorted(func(*models.Transaction) bool { return true })
	s.mu.RUnlock()

	start, end := page.Bounds(len(all))
	result := pagination.NewPageResponse(all[start:end], page.Page, page.PageSize, int64(len(all)))
	return &result, nil
}

func (s *MemoryStore) Find(_ context.Context, plan query.Plan) ([]models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sorted(func(tx *models.Transaction) bool { return matches(plan, tx) }), nil
}

func (s *MemoryStore) Aggregate(_ context.Context, plan query.Plan) (query.Aggregate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type bucket struct {
		key   string
		total int64
		count int64
	}
	buckets := make(map[string]*bucket)
	add := func(norm, display string, amount int64) {
		b, ok := buckets[norm]
		if !ok {
			b = &bucket{key: display}
			buckets[norm] = b
		}
		if display < b.key {
			b.key = display
		}
		b.total += amount
		b.count++
	}

	for _, tx := range s.rows {
		if !plan.Window.Contains(tx.CreatedAt) {
			continue
		}
		switch plan.GroupBy {
		case query.GroupKeyword:
			if plan.Predicate != nil && plan.Predicate.Field != query.FieldKeywords && !matchField(plan.Predicate, tx) {
				continue
			}
			for _, kw := range tx.Keywords {
				if plan.Predicate == nil || plan.Predicate.Field != query.FieldKeywords || plan.Predicate.Match(kw.Value) {
					add(kw.Normalized, kw.Value, tx.Amount)
				}
			}
		case query.GroupCategory:
			if matches(plan, tx) {
				add(string(tx.Category), string(tx.Category), tx.Amount)
			}
		default:
			if matches(plan, tx) {
				add("", "", tx.Amount)
			}
		}
	}

	out := make(query.Aggregate, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, query.Group{Key: b.key, Total: decimal.New(b.total, -2), Count: b.count})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Total.Cmp(out[j].Total); c != 0 {
			return c > 0
		}
		return out[i].Key < out[j].Key
	})
	return out, nil
}

// sorted returns copies of the rows accepted by keep, newest first. The
// caller must hold the lock.
func (s *MemoryStore) sorted(keep func(*models.Transaction) bool) []models.Transaction {
	out := make([]models.Transaction, 0, len(s.rows))
	for _, tx := range s.rows {
		if keep(tx) {
			out = append(out, *clone(tx))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func matches(plan query.Plan, tx *models.Transaction) bool {
	if !plan.Window.Contains(tx.CreatedAt) {
		return false
	}
	return plan.Predicate == nil || matchField(plan.Predicate, tx)
}

func matchField(p *query.Predicate, tx *models.Transaction) bool {
	if p.Field == query.FieldKeywords {
		return p.MatchAny(tx.KeywordList())
	}
	return p.Match(string(tx.Category))
}

func clone(tx *models.Transaction) *models.Transaction {
	c := *tx
	c.Keywords = append([]models.TransactionKeyword(nil), tx.Keywords...)
	if tx.ImageURL != nil {
		url := *tx.ImageURL
		c.ImageURL = &url
	}
	return &c
}
