package department

import "context"

// Repository は部署エンティティの永続化を行うインターフェースです。
type Repository interface {
	Create(ctx context.Context, department *Department) (*Department, error)
	Update(ctx context.Context, department *Department) (*Department, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Department, error)
	FindAll(ctx context.Context) ([]*Department, error)
	FindByName(ctx context.Context, name string) (*Department, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	FindByLocation(ctx context.Context, location string) ([]*Department, error)
}
