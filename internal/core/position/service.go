package position

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

// Service は職位に関するユースケースをまとめます。
type Service struct {
	repo Repository
	tx   TransactionManager
}

// UseCase は職位ユースケースの公開インターフェースです。
type UseCase interface {
	CreatePosition(ctx context.Context, in CreatePositionInput) (*Position, error)
	GetPosition(ctx context.Context, in GetPositionInput) (*Position, error)
	FindPosition(ctx context.Context, in FindPositionInput) (*Position, error)
	ListPositions(ctx context.Context) ([]*Position, error)
	ListPositionsByDomain(ctx context.Context, domain string) ([]*Position, error)
	UpdatePosition(ctx context.Context, in UpdatePositionInput) (*Position, error)
	DeletePosition(ctx context.Context, in DeletePositionInput) error
}

// NewService は Service を生成します。
func NewService(repo Repository, tx TransactionManager) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	return &Service{repo: repo, tx: tx}
}

// CreatePositionInput は職位作成時の入力です。
type CreatePositionInput struct {
	Domain      string
	Title       string
	Description string
}

// UpdatePositionInput は職位更新時の入力です。nil の項目は変更しません。
type UpdatePositionInput struct {
	ID          int64
	Domain      *string
	Title       *string
	Description *string
}

// GetPositionInput は職位取得時の入力です。
type GetPositionInput struct {
	ID int64
}

// FindPositionInput は domain と title による職位取得時の入力です。
type FindPositionInput struct {
	Domain string
	Title  string
}

// DeletePositionInput は職位削除時の入力です。
type DeletePositionInput struct {
	ID int64
}

// CreatePosition は新しい職位を作成します。
func (s *Service) CreatePosition(ctx context.Context, in CreatePositionInput) (*Position, error) {
	domain, err := normalizeDomain(in.Domain)
	if err != nil {
		return nil, err
	}

	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}

	var created *Position
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		if err := s.ensureNotExists(txCtx, domain, title); err != nil {
			return err
		}

		result, err := s.repo.Create(txCtx, &Position{
			Domain:      domain,
			Title:       title,
			Description: strings.TrimSpace(in.Description),
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

// UpdatePosition は職位を更新します。
func (s *Service) UpdatePosition(ctx context.Context, in UpdatePositionInput) (*Position, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var updated *Position
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}

		domain, title := existing.Domain, existing.Title
		if in.Domain != nil {
			if domain, err = normalizeDomain(*in.Domain); err != nil {
				return err
			}
		}
		if in.Title != nil {
			if title, err = normalizeTitle(*in.Title); err != nil {
				return err
			}
		}

		if domain != existing.Domain || title != existing.Title {
			if err := s.ensureNotExists(txCtx, domain, title); err != nil {
				return err
			}
			existing.Domain = domain
			existing.Title = title
		}

		if in.Description != nil {
			existing.Description = strings.TrimSpace(*in.Description)
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

// DeletePosition は職位を削除します。
func (s *Service) DeletePosition(ctx context.Context, in DeletePositionInput) error {
	if in.ID <= 0 {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	return s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, in.ID)
	})
}

// GetPosition は ID で職位を取得します。
func (s *Service) GetPosition(ctx context.Context, in GetPositionInput) (*Position, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var position *Position
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}
		position = result
		return nil
	}); err != nil {
		return nil, err
	}

	return position, nil
}

// FindPosition は domain と title の完全一致で職位を取得します。
func (s *Service) FindPosition(ctx context.Context, in FindPositionInput) (*Position, error) {
	domain, err := normalizeDomain(in.Domain)
	if err != nil {
		return nil, err
	}

	title, err := normalizeTitle(in.Title)
	if err != nil {
		return nil, err
	}

	var position *Position
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByDomainAndTitle(txCtx, domain, title)
		if err != nil {
			return err
		}
		position = result
		return nil
	}); err != nil {
		return nil, err
	}

	return position, nil
}

// ListPositions は職位の一覧を取得します。
func (s *Service) ListPositions(ctx context.Context) ([]*Position, error) {
	var positions []*Position
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindAll(txCtx)
		if err != nil {
			return err
		}
		positions = result
		return nil
	}); err != nil {
		return nil, err
	}

	return positions, nil
}

// ListPositionsByDomain は domain に属する職位を取得します。
func (s *Service) ListPositionsByDomain(ctx context.Context, domain string) ([]*Position, error) {
	normalized, err := normalizeDomain(domain)
	if err != nil {
		return nil, err
	}

	var positions []*Position
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		result, err := s.repo.FindByDomain(txCtx, normalized)
		if err != nil {
			return err
		}
		positions = result
		return nil
	}); err != nil {
		return nil, err
	}

	return positions, nil
}

func (s *Service) ensureNotExists(ctx context.Context, domain, title string) error {
	exists, err := s.repo.ExistsByDomainAndTitle(ctx, domain, title)
	if err != nil {
		return err
	}
	if exists {
		return ErrPositionAlreadyExists
	}
	return nil
}

func normalizeDomain(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidDomain
	}
	return trimmed, nil
}

func normalizeTitle(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", ErrInvalidTitle
	}
	return trimmed, nil
}
