package department

import (
	"context"
	"errors"
	"testing"
)

type fakeRepo struct {
	departments map[int64]*Department
	order       []int64
	seq         int64
	creates     int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{departments: make(map[int64]*Department)}
}

func (r *fakeRepo) Create(_ context.Context, department *Department) (*Department, error) {
	r.creates++
	for _, d := range r.departments {
		if d.Name == department.Name {
			return nil, ErrNameAlreadyExists
		}
	}
	clone := cloneDepartment(department)
	r.seq++
	clone.ID = r.seq
	r.departments[clone.ID] = clone
	r.order = append(r.order, clone.ID)
	return cloneDepartment(clone), nil
}

func (r *fakeRepo) Update(_ context.Context, department *Department) (*Department, error) {
	if _, ok := r.departments[department.ID]; !ok {
		return nil, ErrDepartmentNotFound
	}
	for _, d := range r.departments {
		if d.ID != department.ID && d.Name == department.Name {
			return nil, ErrNameAlreadyExists
		}
	}
	r.departments[department.ID] = cloneDepartment(department)
	return cloneDepartment(department), nil
}

func (r *fakeRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.departments[id]; !ok {
		return ErrDepartmentNotFound
	}
	delete(r.departments, id)
	for i, existingID := range r.order {
		if existingID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func (r *fakeRepo) FindByID(_ context.Context, id int64) (*Department, error) {
	department, ok := r.departments[id]
	if !ok {
		return nil, ErrDepartmentNotFound
	}
	return cloneDepartment(department), nil
}

func (r *fakeRepo) FindAll(_ context.Context) ([]*Department, error) {
	result := []*Department{}
	for _, id := range r.order {
		result = append(result, cloneDepartment(r.departments[id]))
	}
	return result, nil
}

func (r *fakeRepo) FindByName(_ context.Context, name string) (*Department, error) {
	for _, id := range r.order {
		if r.departments[id].Name == name {
			return cloneDepartment(r.departments[id]), nil
		}
	}
	return nil, ErrDepartmentNotFound
}

func (r *fakeRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	_, err := r.FindByName(ctx, name)
	if errors.Is(err, ErrDepartmentNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (r *fakeRepo) FindByLocation(_ context.Context, location string) ([]*Department, error) {
	result := []*Department{}
	for _, id := range r.order {
		if r.departments[id].Location == location {
			result = append(result, cloneDepartment(r.departments[id]))
		}
	}
	return result, nil
}

func cloneDepartment(department *Department) *Department {
	if department == nil {
		return nil
	}
	clone := *department
	clone.HeadStaffID = copyID(department.HeadStaffID)
	return &clone
}

func ptr[T any](v T) *T {
	return &v
}

func TestService_CreateDepartment(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, nil)

	created, err := svc.CreateDepartment(context.Background(), CreateDepartmentInput{
		Name:        "  Cardiology ",
		Description: "Heart care",
		Location:    "Building A",
		HeadStaffID: ptr(int64(12)),
	})
	if err != nil {
		t.Fatalf("CreateDepartment returned error: %v", err)
	}

	if created.ID == 0 {
		t.Fatalf("expected id to be assigned")
	}
	if created.Name != "Cardiology" {
		t.Fatalf("expected trimmed name, got %q", created.Name)
	}
	if created.HeadStaffID == nil || *created.HeadStaffID != 12 {
		t.Fatalf("expected head staff id 12, got %v", created.HeadStaffID)
	}
}

func TestService_CreateDepartment_DuplicateName(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, nil)

	if _, err := svc.CreateDepartment(context.Background(), CreateDepartmentInput{Name: "Finance"}); err != nil {
		t.Fatalf("CreateDepartment returned error: %v", err)
	}

	exists, err := repo.ExistsByName(context.Background(), "Finance")
	if err != nil || !exists {
		t.Fatalf("expected Finance to exist, got %v / %v", exists, err)
	}

	_, err = svc.CreateDepartment(context.Background(), CreateDepartmentInput{Name: "Finance"})
	if !errors.Is(err, ErrNameAlreadyExists) {
		t.Fatalf("expected ErrNameAlreadyExists, got %v", err)
	}
	if repo.creates != 1 {
		t.Fatalf("expected duplicate to be rejected before insert, got %d creates", repo.creates)
	}
}

func TestService_CreateDepartment_Validation(t *testing.T) {
	t.Parallel()

	svc := NewService(newFakeRepo(), nil)

	if _, err := svc.CreateDepartment(context.Background(), CreateDepartmentInput{Name: "   "}); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got %v", err)
	}

	_, err := svc.CreateDepartment(context.Background(), CreateDepartmentInput{Name: "Radiology", HeadStaffID: ptr(int64(0))})
	if !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}

func TestService_GetDepartmentByName(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, nil)

	if _, err := svc.CreateDepartment(context.Background(), CreateDepartmentInput{Name: "Pediatrics"}); err != nil {
		t.Fatalf("CreateDepartment returned error: %v", err)
	}

	found, err := svc.GetDepartmentByName(context.Background(), "Pediatrics")
	if err != nil {
		t.Fatalf("GetDepartmentByName returned error: %v", err)
	}
	if found.Name != "Pediatrics" {
		t.Fatalf("unexpected department: %+v", found)
	}

	if _, err := svc.GetDepartmentByName(context.Background(), "pediatrics"); !errors.Is(err, ErrDepartmentNotFound) {
		t.Fatalf("expected case-sensitive lookup to miss, got %v", err)
	}
}

func TestService_ListDepartmentsByLocation(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, nil)

	seed := []CreateDepartmentInput{
		{Name: "Cardiology", Location: "Building A"},
		{Name: "Neurology", Location: "Building B"},
		{Name: "Oncology", Location: "Building A"},
	}
	for _, in := range seed {
		if _, err := svc.CreateDepartment(context.Background(), in); err != nil {
			t.Fatalf("CreateDepartment returned error: %v", err)
		}
	}

	found, err := svc.ListDepartmentsByLocation(context.Background(), "Building A")
	if err != nil {
		t.Fatalf("ListDepartmentsByLocation returned error: %v", err)
	}
	if len(found) != 2 || found[0].Name != "Cardiology" || found[1].Name != "Oncology" {
		t.Fatalf("unexpected departments: %+v", found)
	}

	none, err := svc.ListDepartmentsByLocation(context.Background(), "Annex")
	if err != nil {
		t.Fatalf("ListDepartmentsByLocation returned error: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected empty result, got %d", len(none))
	}

	all, err := svc.ListDepartments(context.Background())
	if err != nil {
		t.Fatalf("ListDepartments returned error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 departments, got %d", len(all))
	}
}

func TestService_UpdateDepartment(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, nil)

	created, err := svc.CreateDepartment(context.Background(), CreateDepartmentInput{
		Name:        "Surgery",
		Location:    "Building C",
		HeadStaffID: ptr(int64(3)),
	})
	if err != nil {
		t.Fatalf("CreateDepartment returned error: %v", err)
	}
	if _, err := svc.CreateDepartment(context.Background(), CreateDepartmentInput{Name: "Emergency"}); err != nil {
		t.Fatalf("CreateDepartment returned error: %v", err)
	}

	updated, err := svc.UpdateDepartment(context.Background(), UpdateDepartmentInput{
		ID:             created.ID,
		Location:       ptr("Building D"),
		ClearHeadStaff: true,
	})
	if err != nil {
		t.Fatalf("UpdateDepartment returned error: %v", err)
	}
	if updated.Name != "Surgery" || updated.Location != "Building D" || updated.HeadStaffID != nil {
		t.Fatalf("unexpected department after update: %+v", updated)
	}

	_, err = svc.UpdateDepartment(context.Background(), UpdateDepartmentInput{ID: created.ID, Name: ptr("Emergency")})
	if !errors.Is(err, ErrNameAlreadyExists) {
		t.Fatalf("expected ErrNameAlreadyExists, got %v", err)
	}

	if _, err := svc.UpdateDepartment(context.Background(), UpdateDepartmentInput{ID: 999}); !errors.Is(err, ErrDepartmentNotFound) {
		t.Fatalf("expected ErrDepartmentNotFound, got %v", err)
	}
}

func TestService_DeleteDepartment(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := NewService(repo, nil)

	created, err := svc.CreateDepartment(context.Background(), CreateDepartmentInput{Name: "Dermatology"})
	if err != nil {
		t.Fatalf("CreateDepartment returned error: %v", err)
	}

	if err := svc.DeleteDepartment(context.Background(), DeleteDepartmentInput{ID: created.ID}); err != nil {
		t.Fatalf("DeleteDepartment returned error: %v", err)
	}

	if _, err := svc.GetDepartment(context.Background(), GetDepartmentInput{ID: created.ID}); !errors.Is(err, ErrDepartmentNotFound) {
		t.Fatalf("expected ErrDepartmentNotFound, got %v", err)
	}

	if err := svc.DeleteDepartment(context.Background(), DeleteDepartmentInput{ID: 0}); !errors.Is(err, ErrInvalidID) {
		t.Fatalf("expected ErrInvalidID, got %v", err)
	}
}
