package services

import (
	"context"
	"maps"
	"slices"
	"strings"
	"sync"

	"gorm.io/datatypes"

	"github.com/esc-directory/consultants/internal/models"
	"github.com/esc-directory/consultants/internal/repository"
	appErr "github.com/esc-directory/consultants/pkg/errors"
)

// fakeRepo is an in-memory ConsultantRepository. Transactions are serialized
// and roll back on error, mirroring the Postgres implementation closely
// enough for service tests.
type fakeRepo struct {
	txMu sync.Mutex

	mu      sync.Mutex
	rows    map[uint]models.Consultant
	nextID  uint
	locked  []string
	listErr error
}

var _ repository.ConsultantRepository = (*fakeRepo)(nil)

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[uint]models.Consultant{}}
}

func cloneConsultant(c models.Consultant) models.Consultant {
	c.Regions = datatypes.JSONSlice[string](slices.Clone([]string(c.Regions)))
	return c
}

func (r *fakeRepo) emailOwner(email string) (uint, bool) {
	for id, c := range r.rows {
		if c.Email == email {
			return id, true
		}
	}
	return 0, false
}

func (r *fakeRepo) Create(_ context.Context, obj *models.Consultant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.emailOwner(obj.Email); ok {
		return appErr.New(appErr.CodeConflict, "entity already exists")
	}
	r.nextID++
	obj.ID = r.nextID
	r.rows[obj.ID] = cloneConsultant(*obj)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id any, dest *models.Consultant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.rows[id.(uint)]
	if !ok {
		return appErr.New(appErr.CodeNotFound, "entity not found")
	}
	*dest = cloneConsultant(c)
	return nil
}

func (r *fakeRepo) Update(_ context.Context, obj *models.Consultant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if owner, ok := r.emailOwner(obj.Email); ok && owner != obj.ID {
		return appErr.New(appErr.CodeConflict, "entity already exists")
	}
	r.rows[obj.ID] = cloneConsultant(*obj)
	return nil
}

func (r *fakeRepo) Delete(_ context.Context, id any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id.(uint)]; !ok {
		return appErr.New(appErr.CodeNotFound, "entity not found")
	}
	delete(r.rows, id.(uint))
	return nil
}

func (r *fakeRepo) List(_ context.Context, f repository.ConsultantFilter) ([]models.Consultant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, appErr.Wrap(r.listErr, appErr.CodeInternal, "list consultants failed")
	}
	out := []models.Consultant{}
	for _, c := range r.rows {
		if f.Service != "" && c.Service != f.Service {
			continue
		}
		if f.Region != "" && !c.HasRegion(f.Region) {
			continue
		}
		if f.Search != "" && !matchesSearch(c, f.Search) {
			continue
		}
		out = append(out, cloneConsultant(c))
	}
	slices.SortFunc(out, func(a, b models.Consultant) int {
		if c := strings.Compare(a.Firm, b.Firm); c != 0 {
			return c
		}
		return int(a.ID) - int(b.ID)
	})
	return out, nil
}

func matchesSearch(c models.Consultant, term string) bool {
	term = strings.ToLower(term)
	for _, field := range []string{c.Firm, c.Contact, c.Email, c.Service} {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

func (r *fakeRepo) EmailTaken(_ context.Context, email string, excludeID uint) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.emailOwner(email)
	return ok && owner != excludeID, nil
}

func (r *fakeRepo) LockEmail(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.locked = append(r.locked, email)
	return nil
}

func (r *fakeRepo) InsertIgnore(_ context.Context, items []models.Consultant) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, c := range items {
		if _, ok := r.emailOwner(c.Email); ok {
			continue
		}
		r.nextID++
		c.ID = r.nextID
		r.rows[c.ID] = cloneConsultant(c)
		n++
	}
	return n, nil
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(tx repository.ConsultantRepository) error) error {
	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.Lock()
	snapshot := maps.Clone(r.rows)
	r.mu.Unlock()

	if err := fn(r); err != nil {
		r.mu.Lock()
		r.rows = snapshot
		r.mu.Unlock()
		return err
	}
	return nil
}

func (r *fakeRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rows)
}

// put inserts c as-is, bypassing every check.
func (r *fakeRepo) put(c models.Consultant) models.Consultant {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c.ID = r.nextID
	r.rows[c.ID] = cloneConsultant(c)
	return c
}
