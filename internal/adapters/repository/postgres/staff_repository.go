package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/ogurasousui/codex-staff-registry/internal/core/staff"
	pgdb "github.com/ogurasousui/codex-staff-registry/internal/platform/db/postgres"
)

const staffColumns = `id, username, password_hash, email, status, domain_role, full_name, office_location, photo_key, bio, phone`

const staffInsertColumns = `username, password_hash, email, status, domain_role, full_name, office_location, photo_key, bio, phone`

// StaffRepository は PostgreSQL を利用した職員永続化の実装です。
type StaffRepository struct {
	pool pgdb.Queryer
}

// NewStaffRepository は StaffRepository を生成します。
func NewStaffRepository(pool pgdb.Queryer) *StaffRepository {
	return &StaffRepository{pool: pool}
}

// Save は職員を登録し、同じ ID が存在する場合はレコード全体を置き換えます。
// ID が 0 の場合は staff_id_seq から採番して新規行として挿入し、既存行を上書きしません。
// ID を指定した場合は書き込み後に staff_id_seq をその ID 以上へ進めます。
func (r *StaffRepository) Save(ctx context.Context, s *staff.Staff) (*staff.Staff, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	args := []any{s.Username, s.PasswordHash, s.Email, string(s.Status),
		nullableText(s.DomainRole), nullableText(s.FullName), nullableText(s.OfficeLocation),
		nullableText(s.PhotoKey), nullableText(s.Bio), nullableText(s.Phone)}

	if s.ID == 0 {
		row := exec.QueryRow(ctx, `
        INSERT INTO staff (`+staffInsertColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING `+staffColumns+`
    `, args...)

		saved, err := scanStaff(row)
		if err != nil {
			return nil, translateStaffPgError(err)
		}
		return saved, nil
	}

	row := exec.QueryRow(ctx, `
        INSERT INTO staff (`+staffColumns+`)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        ON CONFLICT (id) DO UPDATE
           SET username = EXCLUDED.username,
               password_hash = EXCLUDED.password_hash,
               email = EXCLUDED.email,
               status = EXCLUDED.status,
               domain_role = EXCLUDED.domain_role,
               full_name = EXCLUDED.full_name,
               office_location = EXCLUDED.office_location,
               photo_key = EXCLUDED.photo_key,
               bio = EXCLUDED.bio,
               phone = EXCLUDED.phone
        RETURNING `+staffColumns+`
    `, append([]any{s.ID}, args...)...)

	saved, err := scanStaff(row)
	if err != nil {
		return nil, translateStaffPgError(err)
	}

	if _, err := exec.Exec(ctx,
		`SELECT setval('staff_id_seq', GREATEST($1, (SELECT last_value FROM staff_id_seq)))`, saved.ID); err != nil {
		return nil, err
	}
	return saved, nil
}

// Delete は職員を物理削除します。
func (r *StaffRepository) Delete(ctx context.Context, id int64) error {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	tag, err := exec.Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return staff.ErrStaffNotFound
	}
	return nil
}

// FindByID は ID で職員を取得します。
func (r *StaffRepository) FindByID(ctx context.Context, id int64) (*staff.Staff, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	row := exec.QueryRow(ctx, `
        SELECT `+staffColumns+`
          FROM staff
         WHERE id = $1
         LIMIT 1
    `, id)

	return scanStaff(row)
}

// FindAll は全職員を取得します。
func (r *StaffRepository) FindAll(ctx context.Context) ([]*staff.Staff, error) {
	return r.list(ctx, `
        SELECT `+staffColumns+`
          FROM staff
         ORDER BY id
    `)
}

// FindByStatus は status が一致する職員を取得します。
func (r *StaffRepository) FindByStatus(ctx context.Context, status staff.Status) ([]*staff.Staff, error) {
	return r.list(ctx, `
        SELECT `+staffColumns+`
          FROM staff
         WHERE status = $1
         ORDER BY id
    `, string(status))
}

// FindByDomainRole は domain role が一致する職員を取得します。
func (r *StaffRepository) FindByDomainRole(ctx context.Context, role string) ([]*staff.Staff, error) {
	return r.list(ctx, `
        SELECT `+staffColumns+`
          FROM staff
         WHERE domain_role = $1
         ORDER BY id
    `, role)
}

// FindByDomainRoleAndStatus は domain role と status が共に一致する職員を取得します。
func (r *StaffRepository) FindByDomainRoleAndStatus(ctx context.Context, role string, status staff.Status) ([]*staff.Staff, error) {
	return r.list(ctx, `
        SELECT `+staffColumns+`
          FROM staff
         WHERE domain_role = $1
           AND status = $2
         ORDER BY id
    `, role, string(status))
}

// FindByFullNameContaining は氏名に keyword を含む職員を取得します。大文字小文字は区別します。
func (r *StaffRepository) FindByFullNameContaining(ctx context.Context, keyword string) ([]*staff.Staff, error) {
	return r.list(ctx, `
        SELECT `+staffColumns+`
          FROM staff
         WHERE full_name LIKE '%' || $1 || '%' ESCAPE '\'
         ORDER BY id
    `, escapeLike(keyword))
}

func (r *StaffRepository) list(ctx context.Context, query string, args ...any) ([]*staff.Staff, error) {
	exec := pgdb.QueryerFromContext(ctx, r.pool)
	rows, err := exec.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []*staff.Staff{}
	for rows.Next() {
		found, err := scanStaff(rows)
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

func scanStaff(row pgx.Row) (*staff.Staff, error) {
	var (
		s                                    staff.Staff
		status                               string
		domainRole, fullName, officeLocation sql.NullString
		photoKey, bio, phone                 sql.NullString
	)

	if err := row.Scan(&s.ID, &s.Username, &s.PasswordHash, &s.Email, &status,
		&domainRole, &fullName, &officeLocation, &photoKey, &bio, &phone); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, staff.ErrStaffNotFound
		}
		return nil, err
	}

	s.Status = staff.Status(status)
	s.DomainRole = textOrEmpty(domainRole)
	s.FullName = textOrEmpty(fullName)
	s.OfficeLocation = textOrEmpty(officeLocation)
	s.PhotoKey = textOrEmpty(photoKey)
	s.Bio = textOrEmpty(bio)
	s.Phone = textOrEmpty(phone)
	return &s, nil
}

func translateStaffPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return staff.ErrStaffAlreadyExists
	}
	return err
}
