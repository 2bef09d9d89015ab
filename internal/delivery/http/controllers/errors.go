package controllers

import (
	"bookstore/internal/app_errors"

	"github.com/gin-gonic/gin"
)

// ResourceErrorResponse is the uniform error body of the API.
type ResourceErrorResponse struct {
	ErrorCode    string `json:"errorCode"`
	ErrorMessage string `json:"errorMessage"`
	RequestURL   string `json:"requestURL"`
	Status       int    `json:"status"`
}

// AbortWithError renders err as the uniform JSON body and stops the
// handler chain.
func AbortWithError(c *gin.Context, err error) {
	re := app_errors.From(err)
	c.AbortWithStatusJSON(re.Status, ResourceErrorResponse{
		ErrorCode:    re.Code,
		ErrorMessage: re.Message,
		RequestURL:   c.Request.URL.Path,
		Status:       re.Status,
	})
}
