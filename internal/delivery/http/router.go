package http

import (
	"time"

	"bookstore/internal/delivery/http/controllers"
	"bookstore/internal/service"
	"bookstore/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func InitRoutes(l logger.Log, u service.Collection, cookies controllers.CookieConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	config := cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(config))
	r.Use(controllers.LoggingMiddleware(l))

	filter := controllers.NewAuthFilterProvider(l, u.AuthService, cookies.AccessName)
	r.Use(filter.Filter)

	statusController := controllers.NewStatusHandler()
	authController := controllers.NewAuthHandler(l, u.AuthService, cookies)
	usersController := controllers.NewUsersHandler(l, u.UserService)
	booksController := controllers.NewBooksHandler(l, u.BookService)

	r.GET("/status", statusController.Status)

	auth := r.Group("/auth")
	{
		auth.POST("/login", authController.Login)
		auth.POST("/register", authController.Register)
		auth.POST("/refresh", authController.Refresh)
		auth.POST("/logout", authController.Logout)
	}

	users := r.Group("/users", controllers.RequireAuth)
	{
		users.GET("", usersController.List)
		users.GET("/:userId", usersController.Get)
		users.PATCH("/:userId", usersController.Update)
		users.DELETE("/:userId", usersController.Delete)

		books := users.Group("/:userId/books")
		{
			books.GET("", booksController.List)
			books.GET("/search", booksController.Search)
			books.POST("", booksController.Create)
			books.GET("/:bookId", booksController.Get)
			books.PATCH("/:bookId", booksController.Update)
			books.DELETE("/:bookId", booksController.Delete)
			books.PUT("/:bookId/cover", booksController.UploadCover)
			books.GET("/:bookId/cover", booksController.GetCover)
		}
	}

	return r
}
