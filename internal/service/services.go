package service

import (
	"bookstore/internal/service/auth"
	"bookstore/internal/service/book"
	"bookstore/internal/service/user"
)

type Collection struct {
	*auth.AuthService
	*user.UserService
	*book.BookService
}
