package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"bookshelf/internal/domain"
	"bookshelf/internal/repository"
	"bookshelf/internal/storage"
)

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[int64]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]domain.User{}}
}

func (r *fakeUserRepo) Init(ctx context.Context) error { return nil }

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email || u.Username == user.Username {
			return 0, fmt.Errorf("user: %w", repository.ErrDuplicate)
		}
	}
	r.nextID++
	user.ID = r.nextID
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return user.ID, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) find(match func(domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if match(u) {
			copied := u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user: %w", repository.ErrNotFound)
}

type fakeBookRepo struct {
	mu        sync.Mutex
	nextID    int64
	books     map[int64]domain.Book
	owners    map[int64]domain.OwnerProfile
	createErr error
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{
		books:  map[int64]domain.Book{},
		owners: map[int64]domain.OwnerProfile{},
	}
}

func (r *fakeBookRepo) Init(ctx context.Context) error { return nil }

func (r *fakeBookRepo) Create(ctx context.Context, book *domain.Book) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return 0, r.createErr
	}
	r.nextID++
	book.ID = r.nextID
	now := time.Now().UTC()
	book.CreatedAt = now
	book.UpdatedAt = now
	r.books[book.ID] = *book
	return book.ID, nil
}

func (r *fakeBookRepo) Get(ctx context.Context, id int64) (*domain.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	book, ok := r.books[id]
	if !ok {
		return nil, fmt.Errorf("book: %w", repository.ErrNotFound)
	}
	r.project(&book)
	return &book, nil
}

func (r *fakeBookRepo) List(ctx context.Context, offset, limit int) ([]domain.Book, error) {
	all := r.sorted(func(domain.Book) bool { return true })
	if offset >= len(all) {
		return nil, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

func (r *fakeBookRepo) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Book, error) {
	return r.sorted(func(b domain.Book) bool { return b.OwnerID == ownerID }), nil
}

func (r *fakeBookRepo) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.books)), nil
}

func (r *fakeBookRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.books[id]; !ok {
		return fmt.Errorf("book: %w", repository.ErrNotFound)
	}
	delete(r.books, id)
	return nil
}

func (r *fakeBookRepo) sorted(match func(domain.Book) bool) []domain.Book {
	r.mu.Lock()
	defer r.mu.Unlock()
	var books []domain.Book
	for _, b := range r.books {
		if match(b) {
			r.project(&b)
			books = append(books, b)
		}
	}
	sort.Slice(books, func(i, j int) bool {
		if !books[i].CreatedAt.Equal(books[j].CreatedAt) {
			return books[i].CreatedAt.After(books[j].CreatedAt)
		}
		return books[i].ID > books[j].ID
	})
	return books
}

func (r *fakeBookRepo) project(book *domain.Book) {
	if owner, ok := r.owners[book.OwnerID]; ok {
		copied := owner
		book.Owner = &copied
	}
}

const fakeStoreBaseURL = "https://objects.test"

type fakeStorage struct {
	mu          sync.Mutex
	uploadCalls int
	uploadErr   error
	deleteErr   error
	deleted     []string
	objects     map[string]struct{}
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string]struct{}{}}
}

func (s *fakeStorage) Upload(ctx context.Context, payload string, opts storage.UploadOptions) (storage.UploadResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadCalls++
	if s.uploadErr != nil {
		return storage.UploadResult{}, s.uploadErr
	}
	key := fmt.Sprintf("%s/img-%d.png", opts.KeyPrefix, s.uploadCalls)
	s.objects[key] = struct{}{}
	return storage.UploadResult{
		URL: fmt.Sprintf("%s/%s/%s", fakeStoreBaseURL, opts.Bucket, key),
		Key: key,
	}, nil
}

func (s *fakeStorage) Delete(ctx context.Context, bucket, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deleteErr != nil {
		return s.deleteErr
	}
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *fakeStorage) KeyFromURL(rawURL, bucket string) (string, bool) {
	base := fmt.Sprintf("%s/%s/", fakeStoreBaseURL, bucket)
	if !strings.HasPrefix(rawURL, base) {
		return "", false
	}
	return strings.TrimPrefix(rawURL, base), true
}
