package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const leadColumns = `id, customer_name, email, phone, company, address, project_details,
       additional_requirements, hear_about_us, status, priority, quoted_amount, follow_up_date,
       created_at, updated_at`

func scanLead(row scanner) (Lead, error) {
	var i Lead
	err := row.Scan(
		&i.ID,
		&i.CustomerName,
		&i.Email,
		&i.Phone,
		&i.Company,
		&i.Address,
		&i.ProjectDetails,
		&i.AdditionalRequirements,
		&i.HearAboutUs,
		&i.Status,
		&i.Priority,
		&i.QuotedAmount,
		&i.FollowUpDate,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const insertLead = `-- name: InsertLead :one
INSERT INTO leads (
    customer_name, email, phone, company, address, project_details, additional_requirements,
    hear_about_us, status, priority
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + leadColumns

type InsertLeadParams struct {
	CustomerName           string
	Email                  string
	Phone                  string
	Company                string
	Address                []byte
	ProjectDetails         []byte
	AdditionalRequirements string
	HearAboutUs            string
	Status                 string
	Priority               string
}

func (q *Queries) InsertLead(c context.Context, arg InsertLeadParams) (Lead, error) {
	return scanLead(q.db.QueryRow(c, insertLead,
		arg.CustomerName,
		arg.Email,
		arg.Phone,
		arg.Company,
		arg.Address,
		arg.ProjectDetails,
		arg.AdditionalRequirements,
		arg.HearAboutUs,
		arg.Status,
		arg.Priority,
	))
}

const insertLeadProduct = `-- name: InsertLeadProduct :one
WITH inserted AS (
    INSERT INTO lead_products (lead_id, product_id, quantity, custom_requirements)
    VALUES ($1, $2, $3, $4)
    RETURNING id, lead_id, product_id, quantity, custom_requirements
)
SELECT i.id, i.lead_id, i.product_id, p.name, i.quantity, i.custom_requirements
FROM inserted i JOIN products p ON p.id = i.product_id`

type InsertLeadProductParams struct {
	LeadID             uuid.UUID
	ProductID          uuid.UUID
	Quantity           int32
	CustomRequirements string
}

func scanLeadProduct(row scanner) (LeadProduct, error) {
	var i LeadProduct
	err := row.Scan(&i.ID, &i.LeadID, &i.ProductID, &i.ProductName, &i.Quantity, &i.CustomRequirements)
	return i, err
}

func (q *Queries) InsertLeadProduct(c context.Context, arg InsertLeadProductParams) (LeadProduct, error) {
	return scanLeadProduct(q.db.QueryRow(c, insertLeadProduct,
		arg.LeadID,
		arg.ProductID,
		arg.Quantity,
		arg.CustomRequirements,
	))
}

const findLeadById = `-- name: FindLeadById :one
SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

func (q *Queries) FindLeadById(c context.Context, id uuid.UUID) (Lead, error) {
	return scanLead(q.db.QueryRow(c, findLeadById, id))
}

const findLeadProductsByLeadId = `-- name: FindLeadProductsByLeadId :many
SELECT lp.id, lp.lead_id, lp.product_id, p.name, lp.quantity, lp.custom_requirements
FROM lead_products lp JOIN products p ON p.id = lp.product_id
WHERE lp.lead_id = $1 ORDER BY p.name, lp.id`

func (q *Queries) FindLeadProductsByLeadId(c context.Context, leadID uuid.UUID) ([]LeadProduct, error) {
	rows, err := q.db.Query(c, findLeadProductsByLeadId, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []LeadProduct{}
	for rows.Next() {
		i, err := scanLeadProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const findLeads = `-- name: FindLeads :many
SELECT ` + leadColumns + ` FROM leads
WHERE ($1::text = '' OR status = $1)
ORDER BY created_at DESC, id LIMIT $2 OFFSET $3`

func (q *Queries) FindLeads(c context.Context, status string, limit int32, offset int32) ([]Lead, error) {
	rows, err := q.db.Query(c, findLeads, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []Lead{}
	for rows.Next() {
		i, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countLeads = `-- name: CountLeads :one
SELECT COUNT(*) FROM leads WHERE ($1::text = '' OR status = $1)`

func (q *Queries) CountLeads(c context.Context, status string) (int64, error) {
	var count int64
	err := q.db.QueryRow(c, countLeads, status).Scan(&count)
	return count, err
}

const updateLead = `-- name: UpdateLead :one
UPDATE leads
SET status = COALESCE(NULLIF($2::text, ''), status),
    priority = COALESCE(NULLIF($3::text, ''), priority),
    quoted_amount = COALESCE($4, quoted_amount),
    follow_up_date = COALESCE($5, follow_up_date),
    updated_at = NOW()
WHERE id = $1
RETURNING ` + leadColumns

// UpdateLeadParams leaves a column untouched when its value is empty or NULL.
type UpdateLeadParams struct {
	ID           uuid.UUID
	Status       string
	Priority     string
	QuotedAmount pgtype.Numeric
	FollowUpDate pgtype.Timestamptz
}

func (q *Queries) UpdateLead(c context.Context, arg UpdateLeadParams) (Lead, error) {
	return scanLead(q.db.QueryRow(c, updateLead,
		arg.ID,
		arg.Status,
		arg.Priority,
		arg.QuotedAmount,
		arg.FollowUpDate,
	))
}

const insertLeadNote = `-- name: InsertLeadNote :one
INSERT INTO lead_notes (lead_id, note, author) VALUES ($1, $2, $3)
RETURNING id, lead_id, note, author, created_at`

func (q *Queries) InsertLeadNote(c context.Context, leadID uuid.UUID, note string, author string) (LeadNote, error) {
	var i LeadNote
	err := q.db.QueryRow(c, insertLeadNote, leadID, note, author).
		Scan(&i.ID, &i.LeadID, &i.Note, &i.Author, &i.CreatedAt)
	return i, err
}

const findLeadNotesByLeadId = `-- name: FindLeadNotesByLeadId :many
SELECT id, lead_id, note, author, created_at FROM lead_notes WHERE lead_id = $1 ORDER BY created_at, id`

func (q *Queries) FindLeadNotesByLeadId(c context.Context, leadID uuid.UUID) ([]LeadNote, error) {
	rows, err := q.db.Query(c, findLeadNotesByLeadId, leadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []LeadNote{}
	for rows.Next() {
		var i LeadNote
		if err := rows.Scan(&i.ID, &i.LeadID, &i.Note, &i.Author, &i.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
