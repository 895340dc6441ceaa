package repository

import (
	"context"

	"bookshelf/internal/domain"
)

// BookRepository exposes persistence operations for Book records.
// List and ListByOwner return books in descending creation order (ties broken
// by descending insert id) with the owner projection populated.
type BookRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, book *domain.Book) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Book, error)
	List(ctx context.Context, offset, limit int) ([]domain.Book, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Book, error)
	Count(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error
}
