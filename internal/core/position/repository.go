package position

import "context"

// Repository は職位エンティティの永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, position *Position) (*Position, error)
	Update(ctx context.Context, position *Position) (*Position, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Position, error)
	FindAll(ctx context.Context) ([]*Position, error)
	FindByDomain(ctx context.Context, domain string) ([]*Position, error)
	FindByDomainAndTitle(ctx context.Context, domain, title string) (*Position, error)
	ExistsByDomainAndTitle(ctx context.Context, domain, title string) (bool, error)
}
