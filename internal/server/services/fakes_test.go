package services

import (
	"context"
	"database/sql"
	"sort"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/innovatepam/ideatracker/internal/common"
	"github.com/innovatepam/ideatracker/internal/dbx"
	"github.com/innovatepam/ideatracker/internal/server/auth"
	"github.com/innovatepam/ideatracker/internal/server/models"
	"github.com/innovatepam/ideatracker/internal/server/repositories/attempts"
	"github.com/innovatepam/ideatracker/internal/server/repositories/roles"
	"github.com/innovatepam/ideatracker/internal/server/repositories/users"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fakeUsersRepo struct {
	byEmail map[string]models.Identity

	lookups []string
	saves   []models.LockState

	getErr    error
	saveErr   error
	createErr error
	existsErr error
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byEmail: map[string]models.Identity{}}
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.Identity, error) {
	f.lookups = append(f.lookups, email)
	if f.getErr != nil {
		return nil, f.getErr
	}
	id, ok := f.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &id, nil
}

func (f *fakeUsersRepo) SaveLockState(_ context.Context, identity *models.Identity) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves = append(f.saves, identity.Lock)
	stored := f.byEmail[identity.Email]
	stored.Lock = identity.Lock
	f.byEmail[identity.Email] = stored
	return nil
}

func (f *fakeUsersRepo) Create(_ context.Context, identity *models.Identity) (*models.Identity, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.byEmail[identity.Email]; ok {
		return nil, common.ErrEmailTaken
	}
	if identity.ID == "" {
		identity.ID = "id-" + identity.Email
	}
	f.byEmail[identity.Email] = *identity
	return identity, nil
}

func (f *fakeUsersRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.byEmail[email]
	return ok, nil
}

type fakeAttemptsRepo struct {
	records   []models.AttemptRecord
	createErr error
}

func (f *fakeAttemptsRepo) Create(_ context.Context, a *models.AttemptRecord) (*models.AttemptRecord, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.records = append(f.records, *a)
	return a, nil
}

func (f *fakeAttemptsRepo) CountFailuresSince(_ context.Context, email string, since time.Time) (int, error) {
	n := 0
	for _, r := range f.records {
		if r.Email == email && !r.Success && r.AttemptedAt.After(since) {
			n++
		}
	}
	return n, nil
}

func (f *fakeAttemptsRepo) ListRecent(_ context.Context, email string, limit int) ([]models.AttemptRecord, error) {
	var out []models.AttemptRecord
	for _, r := range f.records {
		if r.Email == email {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].AttemptedAt.After(out[j].AttemptedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeRolesRepo struct {
	byName map[string]models.Role
	err    error
}

func (f *fakeRolesRepo) GetByName(_ context.Context, name string) (*models.Role, error) {
	if f.err != nil {
		return nil, f.err
	}
	r, ok := f.byName[name]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &r, nil
}

func (f *fakeRolesRepo) List(context.Context) ([]models.Role, error) {
	out := make([]models.Role, 0, len(f.byName))
	for _, r := range f.byName {
		out = append(out, r)
	}
	return out, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	a *fakeAttemptsRepo
	r *fakeRolesRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: newFakeUsersRepo(),
		a: &fakeAttemptsRepo{},
		r: &fakeRolesRepo{byName: map[string]models.Role{
			"submitter":       {ID: 1, Name: "submitter"},
			"evaluator/admin": {ID: 2, Name: "evaluator/admin"},
		}},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.u }
func (m *fakeRepoManager) Attempts(dbx.DBTX) attempts.Repository       { return m.a }
func (m *fakeRepoManager) Roles(dbx.DBTX) roles.Repository             { return m.r }

func newTestHasher(t *testing.T) *auth.PasswordHasher {
	t.Helper()
	h, err := auth.NewPasswordHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewPasswordHasher: %v", err)
	}
	return h
}

func mustHash(t *testing.T, h *auth.PasswordHasher, password string) string {
	t.Helper()
	hash, err := h.Hash(password)
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	return hash
}
