package book

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"bookstore/internal/app_errors"
	"bookstore/internal/models"
	"bookstore/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memBookRepo struct {
	books  map[int64]models.Book
	nextID int64
}

func newMemBookRepo() *memBookRepo {
	return &memBookRepo{books: make(map[int64]models.Book)}
}

func (r *memBookRepo) BooksByUser(_ context.Context, userID int64) ([]models.Book, error) {
	var out []models.Book
	for _, b := range r.books {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *memBookRepo) BookByIDAndUser(_ context.Context, userID, bookID int64) (*models.Book, error) {
	b, ok := r.books[bookID]
	if !ok || b.UserID != userID {
		return nil, app_errors.ErrBookNotFound
	}
	return &b, nil
}

func (r *memBookRepo) BooksByIDsAndUser(ctx context.Context, userID int64, ids []int64) ([]models.Book, error) {
	var out []models.Book
	for _, id := range ids {
		if b, err := r.BookByIDAndUser(ctx, userID, id); err == nil {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookRepo) CreateBook(_ context.Context, book models.Book) (*models.Book, error) {
	r.nextID++
	book.ID = r.nextID
	r.books[book.ID] = book
	return &book, nil
}

func (r *memBookRepo) UpdateBook(_ context.Context, book models.Book) (*models.Book, error) {
	if _, ok := r.books[book.ID]; !ok {
		return nil, app_errors.ErrBookNotFound
	}
	r.books[book.ID] = book
	return &book, nil
}

func (r *memBookRepo) UpdateCoverKey(_ context.Context, userID, bookID int64, coverKey string) error {
	b, ok := r.books[bookID]
	if !ok || b.UserID != userID {
		return app_errors.ErrBookNotFound
	}
	b.CoverKey = coverKey
	r.books[bookID] = b
	return nil
}

func (r *memBookRepo) DeleteBook(_ context.Context, userID, bookID int64) error {
	b, ok := r.books[bookID]
	if !ok || b.UserID != userID {
		return app_errors.ErrBookNotFound
	}
	delete(r.books, bookID)
	return nil
}

// memSearchRepo records index maintenance calls and serves canned hits.
type memSearchRepo struct {
	indexed  map[int64]models.Book
	failing  bool
	searchFn func(userID int64, query string, size int) ([]int64, error)
}

func newMemSearchRepo() *memSearchRepo {
	return &memSearchRepo{indexed: make(map[int64]models.Book)}
}

func (r *memSearchRepo) Index(_ context.Context, book models.Book) error {
	if r.failing {
		return errors.New("index unavailable")
	}
	r.indexed[book.ID] = book
	return nil
}

func (r *memSearchRepo) Update(ctx context.Context, book models.Book) error {
	return r.Index(ctx, book)
}

func (r *memSearchRepo) Delete(_ context.Context, bookID int64) error {
	if r.failing {
		return errors.New("index unavailable")
	}
	delete(r.indexed, bookID)
	return nil
}

func (r *memSearchRepo) Search(_ context.Context, userID int64, query string, size int) ([]int64, error) {
	if r.searchFn != nil {
		return r.searchFn(userID, query, size)
	}
	var ids []int64
	for id := range r.indexed {
		ids = append(ids, id)
	}
	return ids, nil
}

type memCoverStorage struct {
	objects map[string][]byte
}

func newMemCoverStorage() *memCoverStorage {
	return &memCoverStorage{objects: make(map[string][]byte)}
}

func (s *memCoverStorage) UploadCover(_ context.Context, userID, bookID int64, _ string, reader io.Reader, _ int64, _ string) (string, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("users/%d/books/%d/cover", userID, bookID)
	s.objects[key] = data
	return key, nil
}

func (s *memCoverStorage) CoverURL(_ context.Context, objectKey string) (string, error) {
	if _, ok := s.objects[objectKey]; !ok {
		return "", errors.New("no such object")
	}
	return "https://storage.local/" + objectKey, nil
}

func (s *memCoverStorage) DeleteCover(_ context.Context, objectKey string) error {
	delete(s.objects, objectKey)
	return nil
}

func newTestService(t *testing.T) (*BookService, *memBookRepo, *memSearchRepo, *memCoverStorage) {
	t.Helper()
	repo := newMemBookRepo()
	search := newMemSearchRepo()
	covers := newMemCoverStorage()
	svc := NewBookService(logger.New("local"), repo, search, covers)
	return svc, repo, search, covers
}

func TestBookService_CreateBook(t *testing.T) {
	t.Parallel()

	t.Run("creates and indexes", func(t *testing.T) {
		svc, _, search, _ := newTestService(t)

		created, err := svc.CreateBook(context.Background(), models.Book{
			UserID: 1, Title: "Dune", Author: "Frank Herbert",
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Contains(t, search.indexed, created.ID)
	})

	t.Run("index outage does not fail the write", func(t *testing.T) {
		svc, repo, search, _ := newTestService(t)
		search.failing = true

		created, err := svc.CreateBook(context.Background(), models.Book{UserID: 1, Title: "Dune"})
		require.NoError(t, err)
		assert.Contains(t, repo.books, created.ID)
	})
}

func TestBookService_UpdateBook(t *testing.T) {
	t.Parallel()

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)
		created, err := repo.CreateBook(context.Background(), models.Book{
			UserID: 1, Title: "Dune", Description: "old", Author: "Frank Herbert",
		})
		require.NoError(t, err)

		updated, err := svc.UpdateBook(context.Background(), 1, created.ID, "new description", "")
		require.NoError(t, err)
		assert.Equal(t, "new description", updated.Description)
		assert.Equal(t, "Frank Herbert", updated.Author)
		assert.Equal(t, "Dune", updated.Title)
	})

	t.Run("scoped to the owning user", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)
		created, err := repo.CreateBook(context.Background(), models.Book{UserID: 1, Title: "Dune"})
		require.NoError(t, err)

		_, err = svc.UpdateBook(context.Background(), 2, created.ID, "hijack", "")
		assert.ErrorIs(t, err, app_errors.ErrBookNotFound)
	})
}

func TestBookService_DeleteBook(t *testing.T) {
	t.Parallel()

	svc, repo, search, covers := newTestService(t)
	created, err := svc.CreateBook(context.Background(), models.Book{UserID: 1, Title: "Dune"})
	require.NoError(t, err)

	key, err := svc.UploadCover(context.Background(), 1, created.ID, "cover.png",
		bytesReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)
	assert.NotEmpty(t, key)

	require.NoError(t, svc.DeleteBook(context.Background(), 1, created.ID))
	assert.NotContains(t, repo.books, created.ID)
	assert.NotContains(t, search.indexed, created.ID)
	assert.Empty(t, covers.objects)
}

func TestBookService_SearchBooks(t *testing.T) {
	t.Parallel()

	t.Run("stale hits are filtered by the relational store", func(t *testing.T) {
		svc, repo, search, _ := newTestService(t)
		kept, err := repo.CreateBook(context.Background(), models.Book{UserID: 1, Title: "Dune"})
		require.NoError(t, err)

		search.searchFn = func(int64, string, int) ([]int64, error) {
			return []int64{kept.ID, kept.ID + 100}, nil
		}

		books, err := svc.SearchBooks(context.Background(), 1, "dune", 20)
		require.NoError(t, err)
		require.Len(t, books, 1)
		assert.Equal(t, kept.ID, books[0].ID)
	})

	t.Run("search failure surfaces", func(t *testing.T) {
		svc, _, search, _ := newTestService(t)
		search.searchFn = func(int64, string, int) ([]int64, error) {
			return nil, errors.New("cluster down")
		}

		_, err := svc.SearchBooks(context.Background(), 1, "dune", 20)
		assert.Error(t, err)
	})
}

func TestBookService_Covers(t *testing.T) {
	t.Parallel()

	t.Run("upload persists the key and returns a URL", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)
		created, err := repo.CreateBook(context.Background(), models.Book{UserID: 1, Title: "Dune"})
		require.NoError(t, err)

		url, err := svc.UploadCover(context.Background(), 1, created.ID, "cover.png",
			bytesReader("png-bytes"), 9, "image/png")
		require.NoError(t, err)
		assert.NotEmpty(t, url)
		assert.NotEmpty(t, repo.books[created.ID].CoverKey)

		got, err := svc.CoverURL(context.Background(), 1, created.ID)
		require.NoError(t, err)
		assert.Equal(t, url, got)
	})

	t.Run("cover of a book without one", func(t *testing.T) {
		svc, repo, _, _ := newTestService(t)
		created, err := repo.CreateBook(context.Background(), models.Book{UserID: 1, Title: "Dune"})
		require.NoError(t, err)

		_, err = svc.CoverURL(context.Background(), 1, created.ID)
		assert.ErrorIs(t, err, app_errors.ErrBookNotFound)
	})

	t.Run("upload for an unknown book", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)

		_, err := svc.UploadCover(context.Background(), 1, 42, "cover.png",
			bytesReader("x"), 1, "image/png")
		assert.ErrorIs(t, err, app_errors.ErrBookNotFound)
	})
}

func bytesReader(s string) io.Reader {
	return strings.NewReader(s)
}
