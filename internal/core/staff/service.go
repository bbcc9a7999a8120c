package staff

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
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

const minPasswordLength = 8

// 検索条件です。フロントエンドの /search?condition= と対応します。
const (
	SearchByName       = "name"
	SearchByStatus     = "status"
	SearchByDomainRole = "domain_role"
	SearchByStaffID    = "staff_id"
	// SearchByStaffType はフロントエンドの「職群」指定で、domain_role の別名です。
	SearchByStaffType  = "staff_type"
)

// Service は職員に関するユースケースをまとめます。
type Service struct {
	repo   Repository
	photos PhotoStore
	tx     TransactionManager
	logger logrus.FieldLogger
	hash   func(password string) (string, error)
}

// UseCase は職員ユースケースの公開インターフェースです。
type UseCase interface {
	CreateStaff(ctx context.Context, in CreateStaffInput) (*Staff, error)
	ListStaff(ctx context.Context) ([]*Staff, error)
	GetStaff(ctx context.Context, in GetStaffInput) (*Staff, error)
	UpdateStaff(ctx context.Context, in UpdateStaffInput) (*Staff, error)
	DeleteStaff(ctx context.Context, in DeleteStaffInput) error
	DeactivateStaff(ctx context.Context, in DeactivateStaffInput) (*Staff, error)
	SearchStaff(ctx context.Context, in SearchStaffInput) ([]*Staff, error)
	FilterStaff(ctx context.Context, in FilterStaffInput) ([]*Staff, error)
	OpenPhoto(ctx context.Context, in GetStaffInput) (*StoredPhoto, error)
}

// NewService は Service を生成します。photos が nil の場合、写真付きの登録・更新は
// ErrPhotoStorageUnavailable で失敗します。
func NewService(repo Repository, photos PhotoStore, tx TransactionManager, logger logrus.FieldLogger) *Service {
	if tx == nil {
		tx = noopTransactionManager{}
	}
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	return &Service{repo: repo, photos: photos, tx: tx, logger: logger, hash: hashPassword}
}

// CreateStaffInput は職員登録時の入力です。
// Password が指定された場合は bcrypt でハッシュ化し PasswordHash を置き換えます。
type CreateStaffInput struct {
	Staff    Staff
	Password string
	Photo    *Photo
}

// UpdateStaffInput は職員更新時の入力です。レコード全体で上書きします。
// PasswordHash と Password が共に空なら既存のハッシュを、PhotoKey と Photo が共に空なら既存の写真を引き継ぎます。
type UpdateStaffInput struct {
	Staff    Staff
	Password string
	Photo    *Photo
}

// GetStaffInput は職員取得時の入力です。
type GetStaffInput struct {
	ID int64
}

// DeleteStaffInput は職員削除時の入力です。
type DeleteStaffInput struct {
	ID int64
}

// DeactivateStaffInput は職員の論理削除 (status=inactive) 時の入力です。
type DeactivateStaffInput struct {
	ID int64
}

// SearchStaffInput は条件検索の入力です。
type SearchStaffInput struct {
	Condition string
	Value     string
}

// FilterStaffInput は一覧の絞り込み条件です。空の項目は条件に含めません。
type FilterStaffInput struct {
	Status     Status
	DomainRole string
}

// CreateStaff は職員を登録します。同じ ID のレコードが存在する場合は置き換えます。
func (s *Service) CreateStaff(ctx context.Context, in CreateStaffInput) (*Staff, error) {
	rec := normalizeStaff(in.Staff)
	if rec.ID < 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	if in.Password != "" {
		hashed, err := s.hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		rec.PasswordHash = hashed
	}

	if rec.Status == "" {
		rec.Status = StatusActive
	}

	if err := validateRequired(rec); err != nil {
		return nil, err
	}

	uploadedKey, err := s.storePhoto(ctx, in.Photo)
	if err != nil {
		return nil, err
	}
	if uploadedKey != "" {
		rec.PhotoKey = uploadedKey
	}

	var created *Staff
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		result, err := s.repo.Save(txCtx, rec)
		if err != nil {
			return err
		}
		created = result
		return nil
	}); err != nil {
		s.discardPhoto(ctx, uploadedKey)
		return nil, err
	}

	return created, nil
}

// ListStaff は全職員を取得します。
func (s *Service) ListStaff(ctx context.Context) ([]*Staff, error) {
	var result []*Staff
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindAll(txCtx)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

// GetStaff は ID で職員を取得します。存在しない場合は ErrStaffNotFound を返します。
func (s *Service) GetStaff(ctx context.Context, in GetStaffInput) (*Staff, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var result *Staff
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		found, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

// UpdateStaff は既存の職員レコードを上書きします。
func (s *Service) UpdateStaff(ctx context.Context, in UpdateStaffInput) (*Staff, error) {
	rec := normalizeStaff(in.Staff)
	if rec.ID <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	if in.Password != "" {
		hashed, err := s.hashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		rec.PasswordHash = hashed
	}

	uploadedKey, err := s.storePhoto(ctx, in.Photo)
	if err != nil {
		return nil, err
	}
	if uploadedKey != "" {
		rec.PhotoKey = uploadedKey
	}

	var (
		updated     *Staff
		previousKey string
	)
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, rec.ID)
		if err != nil {
			return err
		}
		previousKey = existing.PhotoKey

		if rec.PasswordHash == "" {
			rec.PasswordHash = existing.PasswordHash
		}
		if rec.PhotoKey == "" {
			rec.PhotoKey = existing.PhotoKey
		}
		if rec.Status == "" {
			rec.Status = existing.Status
		}

		if err := validateRequired(rec); err != nil {
			return err
		}

		result, err := s.repo.Save(txCtx, rec)
		if err != nil {
			return err
		}
		updated = result
		return nil
	}); err != nil {
		s.discardPhoto(ctx, uploadedKey)
		return nil, err
	}

	if uploadedKey != "" && previousKey != uploadedKey {
		s.discardPhoto(ctx, previousKey)
	}

	return updated, nil
}

// DeleteStaff は職員レコードを物理削除します。写真も削除を試みます。
func (s *Service) DeleteStaff(ctx context.Context, in DeleteStaffInput) error {
	if in.ID <= 0 {
		return fmt.Errorf("id: %w", ErrInvalidID)
	}

	var photoKey string
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}
		photoKey = existing.PhotoKey
		return s.repo.Delete(txCtx, in.ID)
	}); err != nil {
		return err
	}

	s.discardPhoto(ctx, photoKey)
	return nil
}

// DeactivateStaff は職員の status を inactive にします (論理削除)。
func (s *Service) DeactivateStaff(ctx context.Context, in DeactivateStaffInput) (*Staff, error) {
	if in.ID <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}

	var updated *Staff
	if err := s.tx.WithinReadWrite(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.FindByID(txCtx, in.ID)
		if err != nil {
			return err
		}
		if existing.Status == StatusInactive {
			updated = existing
			return nil
		}
		existing.Status = StatusInactive
		result, err := s.repo.Save(txCtx, existing)
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

// SearchStaff は単一条件で職員を検索します。
func (s *Service) SearchStaff(ctx context.Context, in SearchStaffInput) ([]*Staff, error) {
	condition := strings.ToLower(strings.TrimSpace(in.Condition))
	value := strings.TrimSpace(in.Value)
	if value == "" {
		return nil, fmt.Errorf("value: %w", ErrInvalidSearchCondition)
	}

	var id int64
	if condition == SearchByStaffID {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil || parsed <= 0 {
			return nil, fmt.Errorf("staff_id: %w", ErrInvalidID)
		}
		id = parsed
	}

	var result []*Staff
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		var (
			found []*Staff
			err   error
		)
		switch condition {
		case SearchByName:
			found, err = s.repo.FindByFullNameContaining(txCtx, value)
		case SearchByStatus:
			found, err = s.repo.FindByStatus(txCtx, Status(value))
		case SearchByDomainRole, SearchByStaffType:
			found, err = s.repo.FindByDomainRole(txCtx, value)
		case SearchByStaffID:
			var one *Staff
			one, err = s.repo.FindByID(txCtx, id)
			switch {
			case errors.Is(err, ErrStaffNotFound):
				found, err = []*Staff{}, nil
			case err == nil:
				found = []*Staff{one}
			}
		default:
			return fmt.Errorf("condition %q: %w", in.Condition, ErrInvalidSearchCondition)
		}
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

// FilterStaff は status / domain role で職員一覧を絞り込みます。
func (s *Service) FilterStaff(ctx context.Context, in FilterStaffInput) ([]*Staff, error) {
	status := Status(strings.TrimSpace(string(in.Status)))
	role := strings.TrimSpace(in.DomainRole)

	var result []*Staff
	if err := s.tx.WithinReadOnly(ctx, func(txCtx context.Context) error {
		var (
			found []*Staff
			err   error
		)
		switch {
		case status != "" && role != "":
			found, err = s.repo.FindByDomainRoleAndStatus(txCtx, role, status)
		case status != "":
			found, err = s.repo.FindByStatus(txCtx, status)
		case role != "":
			found, err = s.repo.FindByDomainRole(txCtx, role)
		default:
			found, err = s.repo.FindAll(txCtx)
		}
		if err != nil {
			return err
		}
		result = found
		return nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}

// OpenPhoto は職員写真を開きます。呼び出し側で Content を Close してください。
func (s *Service) OpenPhoto(ctx context.Context, in GetStaffInput) (*StoredPhoto, error) {
	if s.photos == nil {
		return nil, ErrPhotoStorageUnavailable
	}

	found, err := s.GetStaff(ctx, in)
	if err != nil {
		return nil, err
	}
	if found.PhotoKey == "" {
		return nil, ErrPhotoNotFound
	}

	rc, err := s.photos.Open(ctx, found.PhotoKey)
	if err != nil {
		return nil, err
	}
	return &StoredPhoto{Key: found.PhotoKey, ContentType: PhotoContentType(found.PhotoKey), Content: rc}, nil
}

func (s *Service) storePhoto(ctx context.Context, photo *Photo) (string, error) {
	if photo == nil {
		return "", nil
	}
	if s.photos == nil {
		return "", ErrPhotoStorageUnavailable
	}
	return s.photos.Save(ctx, *photo)
}

// discardPhoto は写真を削除します。失敗してもレコード操作の結果は変えません。
func (s *Service) discardPhoto(ctx context.Context, key string) {
	if key == "" || s.photos == nil {
		return
	}
	if err := s.photos.Delete(ctx, key); err != nil {
		s.logger.WithError(err).WithField("photo_key", key).Warn("staff: failed to delete photo")
	}
}

func (s *Service) hashPassword(password string) (string, error) {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return "", fmt.Errorf("password: %w", ErrInvalidPassword)
	}
	hashed, err := s.hash(password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("password: %w", ErrInvalidPassword)
		}
		return "", err
	}
	return hashed, nil
}

func hashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func normalizeStaff(in Staff) *Staff {
	return &Staff{
		ID:             in.ID,
		Username:       strings.TrimSpace(in.Username),
		PasswordHash:   in.PasswordHash,
		Email:          strings.TrimSpace(in.Email),
		Status:         Status(strings.TrimSpace(string(in.Status))),
		DomainRole:     strings.TrimSpace(in.DomainRole),
		FullName:       strings.TrimSpace(in.FullName),
		OfficeLocation: strings.TrimSpace(in.OfficeLocation),
		PhotoKey:       strings.TrimSpace(in.PhotoKey),
		Bio:            in.Bio,
		Phone:          strings.TrimSpace(in.Phone),
	}
}

func validateRequired(rec *Staff) error {
	if rec.Username == "" {
		return ErrInvalidUsername
	}
	if rec.PasswordHash == "" {
		return fmt.Errorf("password_hash: %w", ErrInvalidPassword)
	}

	email, err := normalizeEmail(rec.Email)
	if err != nil {
		return err
	}
	rec.Email = email
	return nil
}

func normalizeEmail(raw string) (string, error) {
	if raw == "" {
		return "", ErrInvalidEmail
	}

	addr, err := mail.ParseAddress(raw)
	if err != nil {
		return "", ErrInvalidEmail
	}

	return strings.ToLower(addr.Address), nil
}
