package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"bookshelf/internal/domain"
	"bookshelf/internal/repository"
)

const createBooksTable = `
CREATE TABLE IF NOT EXISTS books (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	caption TEXT NOT NULL,
	image_url TEXT NOT NULL,
	rating REAL NOT NULL,
	owner_id INTEGER NOT NULL REFERENCES users(id),
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

const selectBookColumns = `
b.id, b.title, b.caption, b.image_url, b.rating, b.owner_id, b.created_at, b.updated_at,
u.id, u.username, u.profile_image`

type BookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) repository.BookRepository {
	return &BookRepository{db: db}
}

func (r *BookRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createBooksTable); err != nil {
		return fmt.Errorf("create books table: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_books_owner ON books(owner_id)`); err != nil {
		return fmt.Errorf("create books owner index: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS idx_books_created_at ON books(created_at)`); err != nil {
		return fmt.Errorf("create books created_at index: %w", err)
	}
	return nil
}

func (r *BookRepository) Create(ctx context.Context, book *domain.Book) (int64, error) {
	now := time.Now().UTC()
	book.CreatedAt = now
	book.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO books (title, caption, image_url, rating, owner_id, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?)`,
		book.Title,
		book.Caption,
		book.ImageURL,
		book.Rating,
		book.OwnerID,
		book.CreatedAt,
		book.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert book: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("book last insert id: %w", err)
	}
	book.ID = id
	return id, nil
}

func (r *BookRepository) Get(ctx context.Context, id int64) (*domain.Book, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT `+selectBookColumns+`
FROM books b
JOIN users u ON u.id = b.owner_id
WHERE b.id = ?`,
		id,
	)
	book, err := scanBook(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("book: %w", repository.ErrNotFound)
		}
		return nil, err
	}
	return book, nil
}

func (r *BookRepository) List(ctx context.Context, offset, limit int) ([]domain.Book, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+selectBookColumns+`
FROM books b
JOIN users u ON u.id = b.owner_id
ORDER BY b.created_at DESC, b.id DESC
LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	defer rows.Close()
	return collectBooks(rows)
}

func (r *BookRepository) ListByOwner(ctx context.Context, ownerID int64) ([]domain.Book, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT `+selectBookColumns+`
FROM books b
JOIN users u ON u.id = b.owner_id
WHERE b.owner_id = ?
ORDER BY b.created_at DESC, b.id DESC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list books by owner: %w", err)
	}
	defer rows.Close()
	return collectBooks(rows)
}

func (r *BookRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return total, nil
}

func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete book: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("book: %w", repository.ErrNotFound)
	}
	return nil
}

func scanBook(row interface {
	Scan(dest ...any) error
}) (*domain.Book, error) {
	var (
		book  domain.Book
		owner domain.OwnerProfile
	)
	if err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Caption,
		&book.ImageURL,
		&book.Rating,
		&book.OwnerID,
		&book.CreatedAt,
		&book.UpdatedAt,
		&owner.ID,
		&owner.Username,
		&owner.ProfileImage,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan book: %w", err)
	}
	book.Owner = &owner
	return &book, nil
}

func collectBooks(rows *sql.Rows) ([]domain.Book, error) {
	var books []domain.Book
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate books: %w", err)
	}
	return books, nil
}
