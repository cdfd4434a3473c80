package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	inErrors "github.com/Alturino/storefront/internal/errors"
)

const codeForeignKeyViolation = "23503"

// Store adds the operations that span several queries in one transaction.
type Store struct {
	*Queries
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{Queries: New(pool), pool: pool}
}

// ExecTx runs fn inside a transaction, committing when fn returns nil.
func (s *Store) ExecTx(c context.Context, fn func(*Queries) error) error {
	tx, err := s.pool.BeginTx(c, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed initializing transaction with error=%w", err)
	}
	defer func() {
		_ = tx.Rollback(c)
	}()
	if err = fn(s.WithTx(tx)); err != nil {
		return err
	}
	if err = tx.Commit(c); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("failed committing transaction with error=%w", err)
	}
	return nil
}

func (s *Store) CreateProduct(c context.Context, arg InsertProductParams, tags []string) (ProductWithTags, error) {
	created := ProductWithTags{}
	err := s.ExecTx(c, func(q *Queries) error {
		product, err := q.InsertProduct(c, arg)
		if err != nil {
			return fmt.Errorf("failed inserting product with error=%w", err)
		}
		if len(tags) > 0 {
			if err = q.InsertProductTags(c, product.ID, tags); err != nil {
				return fmt.Errorf("failed inserting product tags with error=%w", err)
			}
		}
		created, err = q.FindProductBySlug(c, product.Slug)
		if err != nil {
			return fmt.Errorf("failed reading created product with error=%w", err)
		}
		return nil
	})
	return created, err
}

// CreateLead inserts the lead with its requested products. A product that does not exist fails the
// whole lead with ErrProductNotFound.
func (s *Store) CreateLead(c context.Context, arg InsertLeadParams, products []InsertLeadProductParams) (LeadDetail, error) {
	created := LeadDetail{}
	err := s.ExecTx(c, func(q *Queries) error {
		lead, err := q.InsertLead(c, arg)
		if err != nil {
			return fmt.Errorf("failed inserting lead with error=%w", err)
		}
		created.Lead = lead
		created.Products = make([]LeadProduct, 0, len(products))
		for _, product := range products {
			product.LeadID = lead.ID
			inserted, err := q.InsertLeadProduct(c, product)
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation {
				return fmt.Errorf("failed inserting product=%s with error=%w", product.ProductID, inErrors.ErrProductNotFound)
			}
			if err != nil {
				return fmt.Errorf("failed inserting lead product with error=%w", err)
			}
			created.Products = append(created.Products, inserted)
		}
		created.Notes = []LeadNote{}
		return nil
	})
	return created, err
}

// FindLeadDetail returns the lead with its products and notes, or pgx.ErrNoRows.
func (s *Store) FindLeadDetail(c context.Context, id uuid.UUID) (LeadDetail, error) {
	lead, err := s.FindLeadById(c, id)
	if err != nil {
		return LeadDetail{}, err
	}
	products, err := s.FindLeadProductsByLeadId(c, id)
	if err != nil {
		return LeadDetail{}, fmt.Errorf("failed finding lead products with error=%w", err)
	}
	notes, err := s.FindLeadNotesByLeadId(c, id)
	if err != nil {
		return LeadDetail{}, fmt.Errorf("failed finding lead notes with error=%w", err)
	}
	return LeadDetail{Lead: lead, Products: products, Notes: notes}, nil
}

// ModifyLead updates the lead and appends note when it is not empty, in one transaction.
func (s *Store) ModifyLead(c context.Context, arg UpdateLeadParams, note string, author string) (Lead, error) {
	updated := Lead{}
	err := s.ExecTx(c, func(q *Queries) error {
		lead, err := q.UpdateLead(c, arg)
		if err != nil {
			return err
		}
		updated = lead
		if note == "" {
			return nil
		}
		if _, err = q.InsertLeadNote(c, arg.ID, note, author); err != nil {
			return fmt.Errorf("failed inserting lead note with error=%w", err)
		}
		return nil
	})
	return updated, err
}
