package book

import (
	"context"
	"errors"
	"io"

	"bookstore/internal/app_errors"
	"bookstore/internal/models"
	"bookstore/pkg/logger"
)

type bookRepo interface {
	BooksByUser(ctx context.Context, userID int64) ([]models.Book, error)
	BookByIDAndUser(ctx context.Context, userID, bookID int64) (*models.Book, error)
	BooksByIDsAndUser(ctx context.Context, userID int64, ids []int64) ([]models.Book, error)
	CreateBook(ctx context.Context, book models.Book) (*models.Book, error)
	UpdateBook(ctx context.Context, book models.Book) (*models.Book, error)
	UpdateCoverKey(ctx context.Context, userID, bookID int64, coverKey string) error
	DeleteBook(ctx context.Context, userID, bookID int64) error
}

type searchRepo interface {
	Index(ctx context.Context, book models.Book) error
	Update(ctx context.Context, book models.Book) error
	Delete(ctx context.Context, bookID int64) error
	Search(ctx context.Context, userID int64, query string, size int) ([]int64, error)
}

type coverStorage interface {
	UploadCover(ctx context.Context, userID, bookID int64, filename string, reader io.Reader, size int64, contentType string) (string, error)
	CoverURL(ctx context.Context, objectKey string) (string, error)
	DeleteCover(ctx context.Context, objectKey string) error
}

// BookService composes the relational repository with the search index
// and the cover object storage. The index is maintained best-effort:
// search unavailability must never fail a write to the primary store.
type BookService struct {
	log      logger.Log
	bookRepo bookRepo
	search   searchRepo
	covers   coverStorage
}

func NewBookService(l logger.Log, repo bookRepo, search searchRepo, covers coverStorage) *BookService {
	return &BookService{log: l, bookRepo: repo, search: search, covers: covers}
}

func (s *BookService) BooksByUser(ctx context.Context, userID int64) ([]models.Book, error) {
	return s.bookRepo.BooksByUser(ctx, userID)
}

func (s *BookService) BookByID(ctx context.Context, userID, bookID int64) (*models.Book, error) {
	return s.bookRepo.BookByIDAndUser(ctx, userID, bookID)
}

func (s *BookService) CreateBook(ctx context.Context, book models.Book) (*models.Book, error) {
	created, err := s.bookRepo.CreateBook(ctx, book)
	if err != nil {
		s.log.ErrorErr("failed to create book", err, "user_id", book.UserID)
		return nil, app_errors.ErrCreateBook
	}

	if err := s.search.Index(ctx, *created); err != nil {
		s.log.ErrorErr("failed to index book", err, "book_id", created.ID)
	}
	return created, nil
}

// UpdateBook changes the description and/or author. Title is immutable
// after creation.
func (s *BookService) UpdateBook(ctx context.Context, userID, bookID int64, description, author string) (*models.Book, error) {
	book, err := s.bookRepo.BookByIDAndUser(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	if description != "" {
		book.Description = description
	}
	if author != "" {
		book.Author = author
	}

	updated, err := s.bookRepo.UpdateBook(ctx, *book)
	if err != nil {
		if errors.Is(err, app_errors.ErrBookNotFound) {
			return nil, err
		}
		s.log.ErrorErr("failed to update book", err, "book_id", bookID)
		return nil, app_errors.ErrUpdateBook
	}

	if err := s.search.Update(ctx, *updated); err != nil {
		s.log.ErrorErr("failed to update book index", err, "book_id", bookID)
	}
	return updated, nil
}

func (s *BookService) DeleteBook(ctx context.Context, userID, bookID int64) error {
	book, err := s.bookRepo.BookByIDAndUser(ctx, userID, bookID)
	if err != nil {
		return err
	}

	if err := s.bookRepo.DeleteBook(ctx, userID, bookID); err != nil {
		if errors.Is(err, app_errors.ErrBookNotFound) {
			return err
		}
		s.log.ErrorErr("failed to delete book", err, "book_id", bookID)
		return app_errors.ErrDeleteBook
	}

	if err := s.search.Delete(ctx, bookID); err != nil {
		s.log.ErrorErr("failed to delete book from index", err, "book_id", bookID)
	}
	if book.CoverKey != "" {
		if err := s.covers.DeleteCover(ctx, book.CoverKey); err != nil {
			s.log.ErrorErr("failed to delete book cover", err, "book_id", bookID)
		}
	}
	return nil
}

// SearchBooks resolves the index hits back through the relational
// store, so stale index entries never leak deleted books.
func (s *BookService) SearchBooks(ctx context.Context, userID int64, query string, size int) ([]models.Book, error) {
	ids, err := s.search.Search(ctx, userID, query, size)
	if err != nil {
		s.log.ErrorErr("book search failed", err, "user_id", userID)
		return nil, err
	}
	return s.bookRepo.BooksByIDsAndUser(ctx, userID, ids)
}

func (s *BookService) UploadCover(ctx context.Context, userID, bookID int64, filename string, reader io.Reader, size int64, contentType string) (string, error) {
	if _, err := s.bookRepo.BookByIDAndUser(ctx, userID, bookID); err != nil {
		return "", err
	}

	key, err := s.covers.UploadCover(ctx, userID, bookID, filename, reader, size, contentType)
	if err != nil {
		s.log.ErrorErr("failed to upload cover", err, "book_id", bookID)
		return "", app_errors.ErrUpdateBook
	}
	if err := s.bookRepo.UpdateCoverKey(ctx, userID, bookID, key); err != nil {
		return "", err
	}
	return s.covers.CoverURL(ctx, key)
}

func (s *BookService) CoverURL(ctx context.Context, userID, bookID int64) (string, error) {
	book, err := s.bookRepo.BookByIDAndUser(ctx, userID, bookID)
	if err != nil {
		return "", err
	}
	if book.CoverKey == "" {
		return "", app_errors.ErrBookNotFound
	}
	return s.covers.CoverURL(ctx, book.CoverKey)
}
