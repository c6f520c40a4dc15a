package patient

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates a Postgres-backed patient repository.
func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const patientColumns = `patient_id, prefix, family_name, middle_name, given_name,
	gender, birthdate, identifier`

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM patients`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("patient count: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+patientColumns+`
		 FROM patients ORDER BY patient_id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("patient list: %w", err)
	}
	patients, err := scanPatients(rows)
	if err != nil {
		return nil, 0, err
	}
	return patients, total, nil
}

func (r *repoPG) ListAll(ctx context.Context) ([]*Patient, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+patientColumns+` FROM patients ORDER BY patient_id`)
	if err != nil {
		return nil, fmt.Errorf("patient list all: %w", err)
	}
	return scanPatients(rows)
}

func scanPatients(rows pgx.Rows) ([]*Patient, error) {
	defer rows.Close()
	var patients []*Patient
	for rows.Next() {
		var p Patient
		if err := rows.Scan(&p.ID, &p.Prefix, &p.FamilyName, &p.MiddleName,
			&p.GivenName, &p.Gender, &p.BirthDate, &p.Identifier); err != nil {
			return nil, err
		}
		patients = append(patients, &p)
	}
	return patients, rows.Err()
}

func (r *repoPG) ListTableFields(ctx context.Context) ([]*TableField, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT field_id, name FROM patient_table_fields ORDER BY field_id`)
	if err != nil {
		return nil, fmt.Errorf("table fields: %w", err)
	}
	defer rows.Close()

	var fields []*TableField
	for rows.Next() {
		var f TableField
		if err := rows.Scan(&f.ID, &f.Name); err != nil {
			return nil, err
		}
		fields = append(fields, &f)
	}
	return fields, rows.Err()
}

func (r *repoPG) ListTableFieldValues(ctx context.Context) ([]*TableFieldValue, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT field_id, patient_id, value
		 FROM patient_table_field_values ORDER BY field_id, patient_id`)
	if err != nil {
		return nil, fmt.Errorf("table field values: %w", err)
	}
	defer rows.Close()

	var values []*TableFieldValue
	for rows.Next() {
		var v TableFieldValue
		if err := rows.Scan(&v.FieldID, &v.PatientID, &v.Value); err != nil {
			return nil, err
		}
		values = append(values, &v)
	}
	return values, rows.Err()
}
