package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openclinic/formsync/internal/platform/schema"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates a Postgres-backed form repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) GetForm(ctx context.Context, id int) (*Form, error) {
	var f Form
	err := r.pool.QueryRow(ctx,
		`SELECT form_id, name, version, published
		 FROM forms WHERE form_id = $1 AND published`, id).
		Scan(&f.ID, &f.Name, &f.Version, &f.Published)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("form get: %w", err)
	}
	return &f, nil
}

func (r *repoPG) ListFields(ctx context.Context, formID int) ([]*Field, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ff.token, ff.required, ff.multiple, ff.sort_order,
		        c.concept_id, c.datatype,
		        c.low_absolute, c.hi_absolute, COALESCE(c.allow_decimal, false)
		 FROM form_fields ff
		 JOIN concepts c ON c.concept_id = ff.concept_id
		 WHERE ff.form_id = $1
		 ORDER BY ff.sort_order`, formID)
	if err != nil {
		return nil, fmt.Errorf("form fields: %w", err)
	}
	defer rows.Close()

	var fields []*Field
	for rows.Next() {
		f := &Field{Concept: &schema.Concept{}}
		if err := rows.Scan(&f.Token, &f.Required, &f.Multiple, &f.SortOrder,
			&f.Concept.ID, &f.Concept.Datatype,
			&f.Concept.LowAbsolute, &f.Concept.HiAbsolute, &f.Concept.AllowDecimal); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, f := range fields {
		if f.Concept.Names, err = r.conceptNames(ctx, f.Concept.ID); err != nil {
			return nil, err
		}
		if f.Concept.Datatype == schema.DatatypeCoded {
			if f.Answers, err = r.conceptAnswers(ctx, f.Concept.ID); err != nil {
				return nil, err
			}
		}
	}
	return fields, nil
}

func (r *repoPG) conceptNames(ctx context.Context, conceptID int) (map[string]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT locale, name FROM concept_names WHERE concept_id = $1`, conceptID)
	if err != nil {
		return nil, fmt.Errorf("concept names: %w", err)
	}
	defer rows.Close()

	names := make(map[string]string)
	for rows.Next() {
		var locale, name string
		if err := rows.Scan(&locale, &name); err != nil {
			return nil, err
		}
		names[locale] = name
	}
	return names, rows.Err()
}

// conceptAnswers returns a coded concept's answers in sort order. The
// order determines only schema enumeration order, never validity.
func (r *repoPG) conceptAnswers(ctx context.Context, conceptID int) ([]schema.Answer, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT ca.answer_concept_id, ac.datatype,
		        d.drug_id, d.name
		 FROM concept_answers ca
		 JOIN concepts ac ON ac.concept_id = ca.answer_concept_id
		 LEFT JOIN drugs d ON d.drug_id = ca.drug_id
		 WHERE ca.concept_id = $1
		 ORDER BY ca.sort_order`, conceptID)
	if err != nil {
		return nil, fmt.Errorf("concept answers: %w", err)
	}
	defer rows.Close()

	answers := make([]schema.Answer, 0)
	for rows.Next() {
		var (
			a        schema.Answer
			drugID   *int
			drugName *string
		)
		a.Concept = &schema.Concept{}
		if err := rows.Scan(&a.Concept.ID, &a.Concept.Datatype, &drugID, &drugName); err != nil {
			return nil, err
		}
		if drugID != nil && drugName != nil {
			a.Drug = &schema.Drug{ID: *drugID, Name: *drugName}
		}
		answers = append(answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range answers {
		if answers[i].Concept.Names, err = r.conceptNames(ctx, answers[i].Concept.ID); err != nil {
			return nil, err
		}
	}
	return answers, nil
}
