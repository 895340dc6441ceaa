package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"bookshelf/internal/domain"
	"bookshelf/internal/repository"
	"bookshelf/internal/storage"
)

const (
	// DefaultPageSize applies when the caller omits a limit.
	DefaultPageSize = 5
	maxPageSize     = 100
)

// CreateBookInput is the validated boundary record for book creation.
// Image carries the cover payload as a base64 data URI.
type CreateBookInput struct {
	Title   string
	Caption string
	Image   string
	Rating  float64
}

// BookService coordinates the book lifecycle: asset upload, persistence,
// paginated listing, and owner-scoped deletion.
type BookService interface {
	Create(ctx context.Context, ownerID int64, in CreateBookInput) (*domain.Book, error)
	List(ctx context.Context, page, limit int) (*domain.BookPage, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Book, error)
	Delete(ctx context.Context, ownerID, bookID int64) error
}

type bookService struct {
	books      repository.BookRepository
	storage    storage.Service
	uploadOpts storage.UploadOptions
	logger     *logrus.Logger
}

func NewBookService(books repository.BookRepository, store storage.Service, uploadOpts storage.UploadOptions, logger *logrus.Logger) BookService {
	if logger == nil {
		logger = logrus.New()
	}
	return &bookService{
		books:      books,
		storage:    store,
		uploadOpts: uploadOpts,
		logger:     logger,
	}
}

func (s *bookService) Create(ctx context.Context, ownerID int64, in CreateBookInput) (*domain.Book, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Caption = strings.TrimSpace(in.Caption)

	if in.Title == "" || in.Caption == "" || strings.TrimSpace(in.Image) == "" {
		return nil, fmt.Errorf("%w: title, caption and image are required", ErrInvalidInput)
	}
	if in.Rating < 0 || in.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 0 and 5", ErrInvalidInput)
	}

	uploaded, err := s.storage.Upload(ctx, in.Image, s.uploadOpts)
	if err != nil {
		return nil, fmt.Errorf("upload cover image: %w", err)
	}

	book := &domain.Book{
		Title:    in.Title,
		Caption:  in.Caption,
		ImageURL: uploaded.URL,
		Rating:   in.Rating,
		OwnerID:  ownerID,
	}

	if _, err := s.books.Create(ctx, book); err != nil {
		// the uploaded object is orphaned; surfaced, not retried
		s.logger.Warnf("book insert failed, asset %s is orphaned: %v", uploaded.Key, err)
		return nil, fmt.Errorf("save book: %w", err)
	}

	return s.books.Get(ctx, book.ID)
}

func (s *bookService) List(ctx context.Context, page, limit int) (*domain.BookPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := (page - 1) * limit

	// the window and the count are independent reads; read skew between
	// them is accepted
	var (
		wg       sync.WaitGroup
		books    []domain.Book
		total    int64
		listErr  error
		countErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		books, listErr = s.books.List(ctx, offset, limit)
	}()
	go func() {
		defer wg.Done()
		total, countErr = s.books.Count(ctx)
	}()
	wg.Wait()

	if listErr != nil {
		return nil, listErr
	}
	if countErr != nil {
		return nil, countErr
	}

	return &domain.BookPage{
		Books:       books,
		CurrentPage: page,
		TotalBooks:  total,
		TotalPages:  (total + int64(limit) - 1) / int64(limit),
		HasMore:     int64(offset+len(books)) < total,
	}, nil
}

func (s *bookService) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Book, error) {
	return s.books.ListByOwner(ctx, ownerID)
}

func (s *bookService) Delete(ctx context.Context, ownerID, bookID int64) error {
	book, err := s.books.Get(ctx, bookID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("book %w", ErrNotFound)
		}
		return err
	}

	if book.OwnerID != ownerID {
		return fmt.Errorf("%w: not the owner of this book", ErrForbidden)
	}

	// asset cleanup is best effort: a stray object is tolerable, an
	// undeletable record is not
	if key, ok := s.storage.KeyFromURL(book.ImageURL, s.uploadOpts.Bucket); ok {
		if err := s.storage.Delete(ctx, s.uploadOpts.Bucket, key); err != nil {
			s.logger.Warnf("delete asset %s for book %d: %v", key, book.ID, err)
		}
	}

	return s.books.Delete(ctx, book.ID)
}
