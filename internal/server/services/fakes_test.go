package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/pressroom/internal/cache"
	"github.com/dmitrijs2005/pressroom/internal/common"
	"github.com/dmitrijs2005/pressroom/internal/dbx"
	"github.com/dmitrijs2005/pressroom/internal/logging"
	"github.com/dmitrijs2005/pressroom/internal/server/auth"
	"github.com/dmitrijs2005/pressroom/internal/server/models"
	"github.com/dmitrijs2005/pressroom/internal/server/repositories/articles"
	"github.com/dmitrijs2005/pressroom/internal/server/repositories/users"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
)

var errBoom = errors.New("boom")

// --- articles ---

type memArticles struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.Article
	clock  func() time.Time

	findCalls int
	getCalls  int

	findErr, getErr, createErr, updateErr, deleteErr error
}

func newMemArticles() *memArticles {
	t := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &memArticles{
		rows: map[int64]models.Article{},
		clock: func() time.Time {
			t = t.Add(time.Second)
			return t
		},
	}
}

func (r *memArticles) FindPage(_ context.Context, f models.ArticleFilter, offset, limit int) ([]models.Article, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.findCalls++
	if r.findErr != nil {
		return nil, 0, r.findErr
	}

	var matched []models.Article
	for _, a := range r.rows {
		if f.Author != "" && a.Author != f.Author {
			continue
		}
		if f.PublishedDate != "" && a.PublishedDate != f.PublishedDate {
			continue
		}
		matched = append(matched, a)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID < matched[j].ID })

	total := len(matched)
	if offset >= total {
		return []models.Article{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return append([]models.Article(nil), matched[offset:end]...), total, nil
}

func (r *memArticles) GetByID(_ context.Context, id int64) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getCalls++
	if r.getErr != nil {
		return nil, r.getErr
	}
	a, ok := r.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &a, nil
}

func (r *memArticles) Create(_ context.Context, d models.ArticleDraft) (*models.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	now := r.clock()
	a := models.Article{
		ID: r.nextID, Title: d.Title, Description: d.Description,
		PublishedDate: d.PublishedDate, Author: d.Author,
		CreatedAt: now, UpdatedAt: now,
	}
	r.rows[a.ID] = a
	return &a, nil
}

func (r *memArticles) Update(_ context.Context, id int64, p models.ArticlePatch) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return 0, r.updateErr
	}
	a, ok := r.rows[id]
	if !ok {
		return 0, nil
	}
	if p.Title != nil {
		a.Title = *p.Title
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.PublishedDate != nil {
		a.PublishedDate = *p.PublishedDate
	}
	if p.Author != nil {
		a.Author = *p.Author
	}
	a.UpdatedAt = r.clock()
	r.rows[id] = a
	return 1, nil
}

func (r *memArticles) Delete(_ context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	if _, ok := r.rows[id]; !ok {
		return 0, nil
	}
	delete(r.rows, id)
	return 1, nil
}

// --- users ---

type memUsers struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]models.User

	createErr, getErr, listErr, deleteErr error
}

func newMemUsers() *memUsers {
	return &memUsers{rows: map[int64]models.User{}}
}

func uniqueViolation() error {
	return fmt.Errorf("db error: %w", &pgconn.PgError{Code: "23505", Message: "duplicate key value"})
}

func (r *memUsers) emailTaken(email string, except int64) bool {
	for id, u := range r.rows {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (r *memUsers) Create(_ context.Context, email, hash string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	if r.emailTaken(email, 0) {
		return nil, uniqueViolation()
	}
	r.nextID++
	now := time.Now().UTC()
	u := models.User{ID: r.nextID, Email: email, PasswordHash: hash, CreatedAt: now, UpdatedAt: now}
	r.rows[u.ID] = u
	return &u, nil
}

func (r *memUsers) find(match func(models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	for _, u := range r.rows {
		if match(u) {
			return &u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *memUsers) List(context.Context) ([]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := []models.User{}
	for _, u := range r.rows {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *memUsers) Update(_ context.Context, id int64, email, hash *string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.rows[id]
	if !ok {
		return 0, nil
	}
	if email != nil {
		if r.emailTaken(*email, id) {
			return 0, uniqueViolation()
		}
		u.Email = *email
	}
	if hash != nil {
		u.PasswordHash = *hash
	}
	u.UpdatedAt = time.Now().UTC()
	r.rows[id] = u
	return 1, nil
}

func (r *memUsers) Delete(_ context.Context, id int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return 0, r.deleteErr
	}
	if _, ok := r.rows[id]; !ok {
		return 0, nil
	}
	delete(r.rows, id)
	return 1, nil
}

// --- manager & helpers ---

type fakeRepoManager struct {
	a *memArticles
	u *memUsers
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Articles(dbx.DBTX) articles.Repository       { return m.a }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.u }

// countingHasher counts Verify calls on top of a real bcrypt hasher.
type countingHasher struct {
	PasswordHasher
	verifies int
}

func (h *countingHasher) Verify(secret, digest string) (bool, error) {
	h.verifies++
	return h.PasswordHasher.Verify(secret, digest)
}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newHasher(t *testing.T) *countingHasher {
	t.Helper()
	h, err := auth.NewBcryptHasher(bcrypt.MinCost)
	if err != nil {
		t.Fatalf("NewBcryptHasher: %v", err)
	}
	return &countingHasher{PasswordHasher: h}
}

type articleFixture struct {
	svc   *ArticleService
	repo  *memArticles
	store *cache.MemoryStore
	mock  sqlmock.Sqlmock
}

func newArticleFixture(t *testing.T) *articleFixture {
	t.Helper()
	db, mock := newSQLMockDB(t)
	repo := newMemArticles()
	store := cache.NewMemoryStore(1000, time.Hour)
	log := logging.Nop()

	svc := NewArticleService(db, &fakeRepoManager{a: repo},
		cache.NewReader(store, time.Hour, nil, log),
		cache.NewInvalidator(store, nil, log),
		log)
	return &articleFixture{svc: svc, repo: repo, store: store, mock: mock}
}

type userFixture struct {
	users  *UserService
	auth   *AuthService
	repo   *memUsers
	hasher *countingHasher
	issuer *auth.TokenIssuer
	mock   sqlmock.Sqlmock
}

func newUserFixture(t *testing.T) *userFixture {
	t.Helper()
	db, mock := newSQLMockDB(t)
	repo := newMemUsers()
	hasher := newHasher(t)
	issuer := auth.NewTokenIssuer([]byte("k"), time.Hour)

	us := NewUserService(db, &fakeRepoManager{u: repo}, hasher, logging.Nop())
	return &userFixture{
		users:  us,
		auth:   NewAuthService(us, hasher, issuer, logging.Nop()),
		repo:   repo,
		hasher: hasher,
		issuer: issuer,
		mock:   mock,
	}
}

func strPtr(s string) *string { return &s }
