package department

import (
	"context"
	"fmt"
	"strings"
)

// TransactionManager はトランザクション制御の抽象化です。
type TransactionManager interface {
	WithinReadOnly(ctx context.Context, fn func(context.Context) error) error
	WithinReadWrite(ctx context.Context, fn func(context.Context) error) error
}

type noopTransactionManager struct{}

func (noopTransactionManager) WithinReadOnly(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

func (noopTransactionManager) WithinReadWrite(ctx context.Context, fn func(context.Context) error) error {
	if fn == nil {
		return nil
	}
	return fn(ctx)
}

// Service は部署に関するユースケースをまとめます。
type Service struct {
	repo Repository
	tx   TransactionManager
}

// UseCase は部署ユースケースの公開インターフェースです。
type UseCase interface {
	CreateDepartment(ctx context.Context, in CreateDepartmentInput) (*Department, error)
	GetDepartment(ctx context.Context, in GetDepartmentInput) (*Department, error)
	GetDepartmentByName(ctx context.Context, name string) (*Department, error)
	ListDepartments(ctx context.Context) ([]*Department, error)
	ListDepartmentsByLocation(ctx context.Context, location string) ([]*Department, error)
	UpdateDepartment(ctx context.Context, in UpdateDepartmentInput) (*Department, error)
	DeleteDepartment(ctx context.Context, in DeleteDepartmentInput) error
}

// NewService は Service を生成します。
func NewService(repo Repository, tx TransactionManager) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, tx: tx}
}

// CreateDepartmentInput は部署作成時の入力です。
type CreateDepartmentInput struct {
	Name        string
	Description string
	Location    string
	HeadStaffID *int64
}

// UpdateDepartmentInput は部署更新時の入力です。nil の項目は変更しません。
// ClearHeadStaff が true の場合は部署長を解除します。
type UpdateDepartmentInput struct {
	ID             int64
	Name           *string
	Description    *string
	Location       *string
	HeadStaffID    *int64
	ClearHeadStaff bool
}

// GetDepartmentInput は部署取得時の入力です。
type GetDepartmentInput struct {
	ID int64
}

// DeleteDepartmentInput は部署削除時の入力です。
type DeleteDepartmentInput struct {
	ID int64
}

// CreateDepartment は新しい部署を作成します。
func (s *Service) CreateDepartment(ctx context.Context, in CreateDepartmentInput) (*Department, error) {
	name, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}

	if in.HeadStaffID != nil && *in.HeadStaffID <= 0 {
		return nil, fmt.Errorf("head_staff_id: %w", ErrInvalidID)
	}

	var created *Department
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureNameNotExists(txCtx, name); err != nil {
			return err
		}

		result, err := s.repo.Create(txCtx, &Department{
			Name:        name,
			Description: strings.TrimSpace(in.Description),
			Location:    strings.TrimSpace(in.Location),
			HeadStaffID: copyID(in.HeadStaffID),
		})
		if err != nil {
			return err
		}

		created = result
		return nil
	}); err != nil {
		return nil, err
	}

	return created, nil
}

// UpdateDepartment は部署情報を更新します。
func (s *Service) UpdateDepartment(ctx context.Context, in UpdateDepartmentInput) (*Department, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	if in.HeadStaffID != nil && *in.HeadStaffID <= 0 {
		return nil, fmt.Errorf("head_staff_id: %w", ErrInvalidID)
	}

	var updated *Department
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}

		if in.Name != nil {
			name, err := normalizeName(*in.Name)
			if err != nil {
				return err
			}
			if name != existing.Name {
				if err := s.ensureNameNotExists(txCtx, name); err != nil {
					return err
				}
				existing.Name = name
			}
		}

		if in.Description != nil {
			existing.Description = strings.TrimSpace(*in.Description)
		}

		if in.Location != nil {
			existing.Location = strings.TrimSpace(*in.Location)
		}

		switch {
		case in.ClearHeadStaff:
			existing.HeadStaffID = nil
		case in.HeadStaffID != nil:
			existing.HeadStaffID = copyID(in.HeadStaffID)
		}

		result, err := s.repo.Update(txCtx, existing)
		if err != nil {
			return err
		}

		updated = result
		return nil
	}); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteDepartment は部署を削除します。
func (s *Service) DeleteDepartment(ctx context.Context, in DeleteDepartmentInput) error {
	if in.ID <= 0 {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, in.ID)
	})
}

// GetDepartment は ID で部署を取得します。
func (s *Service) GetDepartment(ctx context.Context, in GetDepartmentInput) (*Department, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var department *Department
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}
		department = result
		return nil
	}); err != nil {
		return nil, err
	}

	return department, nil
}

// GetDepartmentByName は部署名で部署を取得します。大文字小文字は区別します。
func (s *Service) GetDepartmentByName(ctx context.Context, name string) (*Department, error) {
	normalized, err := normalizeName(name)
	if err != nil {
		return nil, err
	}

	var department *Department
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByName(txCtx, normalized)
		if err != nil {
			return err
		}
		department = result
		return nil
	}); err != nil {
		return nil, err
	}

	return department, nil
}

// ListDepartments は部署の一覧を取得します。
func (s *Service) ListDepartments(ctx context.Context) ([]*Department, error) {
	var departments []*Department
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindAll(txCtx)
		if err != nil {
			return err
		}
		departments = result
		return nil
	}); err != nil {
		return nil, err
	}

	return departments, nil
}

// ListDepartmentsByLocation は所在地が完全一致する部署を取得します。
func (s *Service) ListDepartmentsByLocation(ctx context.Context, location string) ([]*Department, error) {
	location = strings.TrimSpace(location)

	var departments []*Department
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByLocation(txCtx, location)
		if err != nil {
			return err
		}
		departments = result
		return nil
	}); err != nil {
		return nil, err
	}

	return departments, nil
}

func (s *Service) ensureNameNotExists(ctx context.Context, name string) error {
	exists, err := s.repo.ExistsByName(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return ErrNameAlreadyExists
	}
	return nil
}

func normalizeName(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidName
	}
	return trimmed, nil
}

func copyID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}
