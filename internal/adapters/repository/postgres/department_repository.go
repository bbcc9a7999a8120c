package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-staff-registry/internal/core/department"
	pgdb "github.com/ogurasousui/codex-staff-registry/internal/platform/db/postgres"
)

const departmentColumns = `id, name, description, location, head_staff_id`

// DepartmentRepository は PostgreSQL を利用した部署永続化の実装です。
type DepartmentRepository struct {
	pool pgdb.Queryer
}

// NewDepartmentRepository は DepartmentRepository を生成します。
func NewDepartmentRepository(pool pgdb.Queryer) *DepartmentRepository {
	return &DepartmentRepository{pool: pool}
}

// Create は部署を新規作成します。
func (r *DepartmentRepository) Create(ctx context.Context, d *department.Department) (*department.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO departments (name, description, location, head_staff_id)
        VALUES ($1, $2, $3, $4)
        RETURNING `+departmentColumns+`
    `, d.Name, nullableText(d.Description), nullableText(d.Location), nullableID(d.HeadStaffID))

	created, err := scanDepartment(row)
	if err != nil {
		return nil, translateDepartmentPgError(err)
	}
	return created, nil
}

// Update は部署情報を更新します。
func (r *DepartmentRepository) Update(ctx context.Context, d *department.Department) (*department.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE departments
           SET name = $1,
               description = $2,
               location = $3,
               head_staff_id = $4
         WHERE id = $5
        RETURNING `+departmentColumns+`
    `, d.Name, nullableText(d.Description), nullableText(d.Location), nullableID(d.HeadStaffID), d.ID)

	updated, err := scanDepartment(row)
	if err != nil {
		return nil, translateDepartmentPgError(err)
	}
	return updated, nil
}

// Delete は部署を削除します。
func (r *DepartmentRepository) Delete(ctx context.Context, id int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return translateDepartmentPgError(err)
	}
	if tag.RowsAffected() == 0 {
		return department.ErrDepartmentNotFound
	}
	return nil
}

// FindByID は ID で部署を取得します。
func (r *DepartmentRepository) FindByID(ctx context.Context, id int64) (*department.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+departmentColumns+`
          FROM departments
         WHERE id = $1
         LIMIT 1
    `, id)

	return scanDepartment(row)
}

// FindByName は部署名で部署を取得します。
func (r *DepartmentRepository) FindByName(ctx context.Context, name string) (*department.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+departmentColumns+`
          FROM departments
         WHERE name = $1
         LIMIT 1
    `, name)

	return scanDepartment(row)
}

// ExistsByName は部署名が登録済みかを返します。
func (r *DepartmentRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var exists bool
	if err := exec.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM departments WHERE name = $1)`, name).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// FindAll は全部署を取得します。
func (r *DepartmentRepository) FindAll(ctx context.Context) ([]*department.Department, error) {
	return r.list(ctx, `
        SELECT `+departmentColumns+`
          FROM departments
         ORDER BY id
    `)
}

// FindByLocation は所在地が一致する部署を取得します。
func (r *DepartmentRepository) FindByLocation(ctx context.Context, location string) ([]*department.Department, error) {
	return r.list(ctx, `
        SELECT `+departmentColumns+`
          FROM departments
         WHERE location = $1
         ORDER BY id
    `, location)
}

func (r *DepartmentRepository) list(ctx context.Context, query string, args ...any) ([]*department.Department, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*department.Department{}
	for rows.Next() {
		found, err := scanDepartment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, found)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func scanDepartment(row pgx.Row) (*department.Department, error) {
	var (
		d                     department.Department
		description, location sql.NullString
		headStaffID           sql.NullInt64
	)

	if err := row.Scan(&d.ID, &d.Name, &description, &location, &headStaffID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, department.ErrDepartmentNotFound
		}
		return nil, err
	}

	d.Description = textOrEmpty(description)
	d.Location = textOrEmpty(location)
	if headStaffID.Valid {
		id := headStaffID.Int64
		d.HeadStaffID = &id
	}
	return &d, nil
}

func translateDepartmentPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolationCode {
			return department.ErrNameAlreadyExists
		}
	}
	return err
}
