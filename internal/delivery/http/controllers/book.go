package controllers

import (
	"context"
	"io"
	"net/http"

	"bookstore/internal/app_errors"
	"bookstore/internal/models"
	"bookstore/pkg/logger"

	"github.com/gin-gonic/gin"
)

type BookService interface {
	BooksByUser(ctx context.Context, userID int64) ([]models.Book, error)
	BookByID(ctx context.Context, userID, bookID int64) (*models.Book, error)
	CreateBook(ctx context.Context, book models.Book) (*models.Book, error)
	UpdateBook(ctx context.Context, userID, bookID int64, description, author string) (*models.Book, error)
	DeleteBook(ctx context.Context, userID, bookID int64) error
	SearchBooks(ctx context.Context, userID int64, query string, size int) ([]models.Book, error)
	UploadCover(ctx context.Context, userID, bookID int64, filename string, reader io.Reader, size int64, contentType string) (string, error)
	CoverURL(ctx context.Context, userID, bookID int64) (string, error)
}

type BooksHandler struct {
	BookService BookService
	log         logger.Log
}

func NewBooksHandler(l logger.Log, books BookService) *BooksHandler {
	return &BooksHandler{BookService: books, log: l}
}

type bookView struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Author      string `json:"author"`
}

func toBookView(b *models.Book) bookView {
	return bookView{ID: b.ID, Title: b.Title, Description: b.Description, Author: b.Author}
}

func (h *BooksHandler) List(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	books, err := h.BookService.BooksByUser(c.Request.Context(), userID)
	if err != nil {
		h.log.ErrorErr("error listing books", err, "user_id", userID)
		AbortWithError(c, err)
		return
	}

	views := make([]bookView, 0, len(books))
	for i := range books {
		views = append(views, toBookView(&books[i]))
	}
	c.JSON(http.StatusOK, views)
}

func (h *BooksHandler) Get(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	bookID, ok := pathID(c, "bookId")
	if !ok {
		return
	}

	book, err := h.BookService.BookByID(c.Request.Context(), userID, bookID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookView(book))
}

type createBookRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Author      string `json:"author" binding:"required"`
}

func (h *BooksHandler) Create(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	var input createBookRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		AbortWithError(c, app_errors.New("ValidationError", "Invalid request body.", http.StatusBadRequest))
		return
	}

	created, err := h.BookService.CreateBook(c.Request.Context(), models.Book{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Author:      input.Author,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookView(created))
}

type updateBookRequest struct {
	Description string `json:"description"`
	Author      string `json:"author"`
}

func (h *BooksHandler) Update(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	bookID, ok := pathID(c, "bookId")
	if !ok {
		return
	}

	var input updateBookRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		AbortWithError(c, app_errors.New("ValidationError", "Invalid request body.", http.StatusBadRequest))
		return
	}

	updated, err := h.BookService.UpdateBook(c.Request.Context(), userID, bookID, input.Description, input.Author)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookView(updated))
}

func (h *BooksHandler) Delete(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	bookID, ok := pathID(c, "bookId")
	if !ok {
		return
	}

	if err := h.BookService.DeleteBook(c.Request.Context(), userID, bookID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BooksHandler) Search(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	query := c.Query("q")
	if query == "" {
		AbortWithError(c, app_errors.New("ValidationError", "Query parameter 'q' is required.", http.StatusBadRequest))
		return
	}

	books, err := h.BookService.SearchBooks(c.Request.Context(), userID, query, 20)
	if err != nil {
		h.log.ErrorErr("error searching books", err, "user_id", userID)
		AbortWithError(c, err)
		return
	}

	views := make([]bookView, 0, len(books))
	for i := range books {
		views = append(views, toBookView(&books[i]))
	}
	c.JSON(http.StatusOK, views)
}

func (h *BooksHandler) UploadCover(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	bookID, ok := pathID(c, "bookId")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, app_errors.New("ValidationError", "A 'file' form field is required.", http.StatusBadRequest))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		AbortWithError(c, err)
		return
	}
	defer file.Close()

	url, err := h.BookService.UploadCover(
		c.Request.Context(),
		userID, bookID,
		fileHeader.Filename,
		file,
		fileHeader.Size,
		fileHeader.Header.Get("Content-Type"),
	)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coverUrl": url})
}

func (h *BooksHandler) GetCover(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	bookID, ok := pathID(c, "bookId")
	if !ok {
		return
	}

	url, err := h.BookService.CoverURL(c.Request.Context(), userID, bookID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coverUrl": url})
}
