package postgres

import (
	"context"
	"errors"

	"bookstore/internal/app_errors"
	"bookstore/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BookPostgres stores books. Every read and write is scoped by the
// owning user id, a book is never visible outside its owner.
type BookPostgres struct {
	db *pgxpool.Pool
}

func NewBookPostgres(db *pgxpool.Pool) *BookPostgres {
	return &BookPostgres{db: db}
}

func (r *BookPostgres) BooksByUser(ctx context.Context, userID int64) ([]models.Book, error) {
	query := `
		SELECT id, user_id, title, description, author, cover_key
		FROM books WHERE user_id = $1 ORDER BY id
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.UserID, &b.Title, &b.Description, &b.Author, &b.CoverKey); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *BookPostgres) BookByIDAndUser(ctx context.Context, userID, bookID int64) (*models.Book, error) {
	query := `
		SELECT id, user_id, title, description, author, cover_key
		FROM books WHERE id = $1 AND user_id = $2
	`
	var b models.Book
	err := r.db.QueryRow(ctx, query, bookID, userID).
		Scan(&b.ID, &b.UserID, &b.Title, &b.Description, &b.Author, &b.CoverKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrBookNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *BookPostgres) BooksByIDsAndUser(ctx context.Context, userID int64, ids []int64) ([]models.Book, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `
		SELECT id, user_id, title, description, author, cover_key
		FROM books WHERE user_id = $1 AND id = ANY($2)
	`
	rows, err := r.db.Query(ctx, query, userID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []models.Book
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(&b.ID, &b.UserID, &b.Title, &b.Description, &b.Author, &b.CoverKey); err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *BookPostgres) CreateBook(ctx context.Context, book models.Book) (*models.Book, error) {
	query := `
		INSERT INTO books (user_id, title, description, author)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.db.QueryRow(ctx, query, book.UserID, book.Title, book.Description, book.Author).Scan(&book.ID)
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (r *BookPostgres) UpdateBook(ctx context.Context, book models.Book) (*models.Book, error) {
	query := `
		UPDATE books SET description = $3, author = $4
		WHERE id = $1 AND user_id = $2
		RETURNING title, cover_key
	`
	err := r.db.QueryRow(ctx, query, book.ID, book.UserID, book.Description, book.Author).
		Scan(&book.Title, &book.CoverKey)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, app_errors.ErrBookNotFound
		}
		return nil, err
	}
	return &book, nil
}

func (r *BookPostgres) UpdateCoverKey(ctx context.Context, userID, bookID int64, coverKey string) error {
	query := `UPDATE books SET cover_key = $3 WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, bookID, userID, coverKey)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrBookNotFound
	}
	return nil
}

func (r *BookPostgres) DeleteBook(ctx context.Context, userID, bookID int64) error {
	query := `DELETE FROM books WHERE id = $1 AND user_id = $2`

	tag, err := r.db.Exec(ctx, query, bookID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return app_errors.ErrBookNotFound
	}
	return nil
}
