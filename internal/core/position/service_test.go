package position

import (
	"context"
	"errors"
	"testing"
)

type fakeRepo struct {
	positions map[int64]*Position
	order     []int64
	seq       int64
	creates   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{positions: make(map[int64]*Position)}
}

func (r *fakeRepo) Create(_ context.Context, position *Position) (*Position, error) {
	r.creates++
	for _, p := range r.positions {
		if p.Domain == position.Domain && p.Title == position.Title {
			return nil, ErrPositionAlreadyExists
		}
	}
	clone := *position
	r.seq++
	clone.ID = r.seq
	r.positions[clone.ID] = &clone
	r.order = append(r.order, clone.ID)
	out := clone
	return &out, nil
}

func (r *fakeRepo) Update(_ context.Context, position *Position) (*Position, error) {
	if _, ok := r.positions[position.ID]; !ok {
		return nil, ErrPositionNotFound
	}
	clone := *position
	r.positions[position.ID] = &clone
	out := clone
	return &out, nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.positions[id]; !ok {
		return ErrPositionNotFound
	}
	delete(r.positions, id)
	for i, existingID := range r.order {
		if existingID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id int64) (*Position, error) {
	position, ok := r.positions[id]
	if !ok {
		return nil, ErrPositionNotFound
	}
	clone := *position
	return &clone, nil
}

func (r *fakeRepo) FindAll(_ context.Context) ([]*Position, error) {
	return r.filter(func(*Position) bool { return true }), nil
}

func (r *fakeRepo) FindByDomain(_ context.Context, domain string) ([]*Position, error) {
	return r.filter(func(p *Position) bool { return p.Domain == domain }), nil
}

func (r *fakeRepo) FindByDomainAndTitle(_ context.Context, domain, title string) (*Position, error) {
	found := r.filter(func(p *Position) bool { return p.Domain == domain && p.Title == title })
	if len(found) == 0 {
		return nil, ErrPositionNotFound
	}
	return found[0], nil
}

func (r *fakeRepo) ExistsByDomainAndTitle(ctx context.Context, domain, title string) (bool, error) {
	_, err := r.FindByDomainAndTitle(ctx, domain, title)
	if errors.Is(err, ErrPositionNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeRepo) filter(match func(*Position) bool) []*Position {
	result := []*Position{}
	for _, id := range r.order {
		if match(r.positions[id]) {
			clone := *r.positions[id]
			result = append(result, &clone)
		}
	}
	return result
}

func ptr[T any](v T) *T {
	return &v
}

func TestService_CreatePosition(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, nil)

	created, err := svc.CreatePosition(context.Background(), CreatePositionInput{
		Domain:      " MEDICAL ",
		Title:       "Chief Physician",
		Description: "Leads the ward",
	})
	if err != nil {
		t.Fatalf("CreatePosition returned error: %v", err)
	}
	if created.ID == 0 || created.Domain != "MEDICAL" || created.Title != "Chief Physician" {
		t.Fatalf("unexpected position: %+v", created)
	}

	_, err = svc.CreatePosition(context.Background(), CreatePositionInput{Domain: "MEDICAL", Title: "Chief Physician"})
	if !errors.Is(err, ErrPositionAlreadyExists) {
		t.Fatalf("expected ErrPositionAlreadyExists, got %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("expected duplicate to be rejected before insert, got %d creates", repo.creates)
	}

	// 同じ title でも domain が異なれば登録できる
	if _, err := svc.CreatePosition(context.Background(), CreatePositionInput{Domain: "ADMIN", Title: "Chief Physician"}); err != nil {
		t.Fatalf("CreatePosition returned error: %v", err)
	}
}

func TestService_CreatePosition_Validation(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), nil)

	if _, err := svc.CreatePosition(context.Background(), CreatePositionInput{Domain: "", Title: "Nurse"}); !errors.Is(err, ErrInvalidDomain) {
		t.Fatalf("expected ErrInvalidDomain, got %v", err)
	}
	if _, err := svc.CreatePosition(context.Background(), CreatePositionInput{Domain: "MEDICAL", Title: " "}); !errors.Is(err, ErrInvalidTitle) {
		t.Fatalf("expected ErrInvalidTitle, got %v", err)
	}
}

func TestService_FindPositionAndListByDomain(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, nil)

	seed := []CreatePositionInput{
		{Domain: "MEDICAL", Title: "Resident"},
		{Domain: "MEDICAL", Title: "Head Nurse"},
		{Domain: "ADMIN", Title: "Clerk"},
	}
	for _, in := range seed {
		if _, err := svc.CreatePosition(context.Background(), in); err != nil {
			t.Fatalf("CreatePosition returned error: %v", err)
		}
	}

	found, err := svc.FindPosition(context.Background(), FindPositionInput{Domain: "MEDICAL", Title: "Head Nurse"})
	if err != nil {
		t.Fatalf("FindPosition returned error: %v", err)
	}
	if found.Title != "Head Nurse" {
		t.Fatalf("unexpected position: %+v", found)
	}

	if _, err := svc.FindPosition(context.Background(), FindPositionInput{Domain: "ADMIN", Title: "Resident"}); !errors.Is(err, ErrPositionNotFound) {
		t.Fatalf("expected ErrPositionNotFound, got %v", err)
	}

	medical, err := svc.ListPositionsByDomain(context.Background(), "MEDICAL")
	if err != nil {
		t.Fatalf("ListPositionsByDomain returned error: %v", err)
	}
	if len(medical) != 2 {
		t.Fatalf("expected 2 medical positions, got %d", len(medical))
	}

	all, err := svc.ListPositions(context.Background())
	if err != nil {
		t.Fatalf("ListPositions returned error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 positions, got %d", len(all))
	}
}

func TestService_UpdatePosition(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, nil)

	resident, err := svc.CreatePosition(context.Background(), CreatePositionInput{Domain: "MEDICAL", Title: "Resident"})
	if err != nil {
		t.Fatalf("CreatePosition returned error: %v", err)
	}
	if _, err := svc.CreatePosition(context.Background(), CreatePositionInput{Domain: "MEDICAL", Title: "Fellow"}); err != nil {
		t.Fatalf("CreatePosition returned error: %v", err)
	}

	updated, err := svc.UpdatePosition(context.Background(), UpdatePositionInput{
		ID:          resident.ID,
		Description: ptr("First-year doctors"),
	})
	if err != nil {
		t.Fatalf("UpdatePosition returned error: %v", err)
	}
	if updated.Description != "First-year doctors" || updated.Title != "Resident" {
		t.Fatalf("unexpected position after update: %+v", updated)
	}

	_, err = svc.UpdatePosition(context.Background(), UpdatePositionInput{ID: resident.ID, Title: ptr("Fellow")})
	if !errors.Is(err, ErrPositionAlreadyExists) {
		t.Fatalf("expected ErrPositionAlreadyExists, got %v", err)
	}

	if _, err := svc.UpdatePosition(context.Background(), UpdatePositionInput{ID: 404}); !errors.Is(err, ErrPositionNotFound) {
		t.Fatalf("expected ErrPositionNotFound, got %v", err)
	}
}

func TestService_DeletePosition(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, nil)

	created, err := svc.CreatePosition(context.Background(), CreatePositionInput{Domain: "MEDICAL", Title: "Intern"})
	if err != nil {
		t.Fatalf("CreatePosition returned error: %v", err)
	}

	if err := svc.DeletePosition(context.Background(), DeletePositionInput{ID: created.ID}); err != nil {
		t.Fatalf("DeletePosition returned error: %v", err)
	}
	if _, err := svc.GetPosition(context.Background(), GetPositionInput{ID: created.ID}); !errors.Is(err, ErrPositionNotFound) {
		t.Fatalf("expected ErrPositionNotFound, got %v", err)
	}
	if err := svc.DeletePosition(context.Background(), DeletePositionInput{ID: created.ID}); !errors.Is(err, ErrPositionNotFound) {
		t.Fatalf("expected ErrPositionNotFound on second delete, got %v", err)
	}
}
