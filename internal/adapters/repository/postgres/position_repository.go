package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-staff-registry/internal/core/position"
	pgdb "github.com/ogurasousui/codex-staff-registry/internal/platform/db/postgres"
)

const positionColumns = `id, domain, title, description`

// PositionRepository は PostgreSQL を利用した職位永続化の実装です。
type PositionRepository struct {
	pool pgdb.Queryer
}

// NewPositionRepository は PositionRepository を生成します。
func NewPositionRepository(pool pgdb.Queryer) *PositionRepository {
	return &PositionRepository{pool: pool}
}

// Create は職位を新規作成します。
func (r *PositionRepository) Create(ctx context.Context, p *position.Position) (*position.Position, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        INSERT INTO positions (domain, title, description)
        VALUES ($1, $2, $3)
        RETURNING `+positionColumns+`
    `, p.Domain, p.Title, nullableText(p.Description))

	created, err := scanPosition(row)
	if err != nil {
		return nil, translatePositionPgError(err)
	}
	return created, nil
}

// Update は職位を更新します。
func (r *PositionRepository) Update(ctx context.Context, p *position.Position) (*position.Position, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        UPDATE positions
           SET domain = $1,
               title = $2,
               description = $3
         WHERE id = $4
        RETURNING `+positionColumns+`
    `, p.Domain, p.Title, nullableText(p.Description), p.ID)

	updated, err := scanPosition(row)
	if err != nil {
		return nil, translatePositionPgError(err)
	}
	return updated, nil
}

// Delete は職位を削除します。
func (r *PositionRepository) Delete(ctx context.Context, id int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM positions WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return position.ErrPositionNotFound
	}
	return nil
}

// FindByID は ID で職位を取得します。
func (r *PositionRepository) FindByID(ctx context.Context, id int64) (*position.Position, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+positionColumns+`
          FROM positions
         WHERE id = $1
         LIMIT 1
    `, id)

	return scanPosition(row)
}

// FindByDomainAndTitle は domain と title の組で職位を取得します。
func (r *PositionRepository) FindByDomainAndTitle(ctx context.Context, domain, title string) (*position.Position, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+positionColumns+`
          FROM positions
         WHERE domain = $1
           AND title = $2
         LIMIT 1
    `, domain, title)

	return scanPosition(row)
}

// ExistsByDomainAndTitle は domain と title の組が登録済みかを返します。
func (r *PositionRepository) ExistsByDomainAndTitle(ctx context.Context, domain, title string) (bool, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)

	var exists bool
	if err := exec.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM positions WHERE domain = $1 AND title = $2)`, domain, title).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// FindAll は全職位を取得します。
func (r *PositionRepository) FindAll(ctx context.Context) ([]*position.Position, error) {
	return r.list(ctx, `
        SELECT `+positionColumns+`
          FROM positions
         ORDER BY id
    `)
}

// FindByDomain は domain に属する職位を取得します。
func (r *PositionRepository) FindByDomain(ctx context.Context, domain string) ([]*position.Position, error) {
	return r.list(ctx, `
        SELECT `+positionColumns+`
          FROM positions
         WHERE domain = $1
         ORDER BY id
    `, domain)
}

func (r *PositionRepository) list(ctx context.Context, query string, args ...any) ([]*position.Position, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*position.Position{}
	for rows.Next() {
		found, err := scanPosition(rows)
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

func scanPosition(row pgx.Row) (*position.Position, error) {
	var (
		p           position.Position
		description sql.NullString
	)

	if err := row.Scan(&p.ID, &p.Domain, &p.Title, &description); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, position.ErrPositionNotFound
		}
		return nil, err
	}

	p.Description = textOrEmpty(description)
	return &p, nil
}

func translatePositionPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == uniqueViolationCode {
			return position.ErrPositionAlreadyExists
		}
	}
	return err
}
