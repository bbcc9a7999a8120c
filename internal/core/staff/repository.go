package staff

import (
	"context"
	"io"
)

// Repository は職員永続化の抽象です。
type Repository interface {
	// Save は主キーで insert-or-replace します。ID が 0 の場合は採番された ID を含めて返します。
	Save(ctx context.Context, staff *Staff) (*Staff, error)
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*Staff, error)
	FindAll(ctx context.Context) ([]*Staff, error)
	FindByStatus(ctx context.Context, status Status) ([]*Staff, error)
	FindByDomainRole(ctx context.Context, domainRole string) ([]*Staff, error)
	FindByDomainRoleAndStatus(ctx context.Context, domainRole string, status Status) ([]*Staff, error)
	FindByFullNameContaining(ctx context.Context, keyword string) ([]*Staff, error)
}

// PhotoStore は職員写真を保存する外部ストアの抽象です。
type PhotoStore interface {
	Save(ctx context.Context, photo Photo) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
