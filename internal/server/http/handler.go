// Package http exposes the services over a JSON REST API built on gin.
package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/pressroom/internal/common"
	"github.com/dmitrijs2005/pressroom/internal/logging"
	"github.com/dmitrijs2005/pressroom/internal/server/auth"
	"github.com/dmitrijs2005/pressroom/internal/server/models"
	"github.com/gin-gonic/gin"
)

type ArticleService interface {
	List(ctx context.Context, q models.PageQuery) (*models.Page[models.Article], error)
	Get(ctx context.Context, id int64) (*models.Article, error)
	Create(ctx context.Context, draft models.ArticleDraft) (*models.Article, error)
	Update(ctx context.Context, id int64, patch models.ArticlePatch) (*models.Article, error)
	Delete(ctx context.Context, id int64) error
}

type UserService interface {
	Create(ctx context.Context, email, password string) (*models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id int64, patch models.UserPatch) (*models.User, error)
	Delete(ctx context.Context, id int64) error
}

type AuthService interface {
	Register(ctx context.Context, email, password string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
}

// TokenParser verifies bearer tokens for RequireAuth.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// Handler carries the services behind the REST endpoints.
type Handler struct {
	Articles ArticleService
	Users    UserService
	Auth     AuthService
	Logger   logging.Logger
}

// writeError maps service errors onto HTTP statuses. Unexpected failures
// are answered with a generic message; their details are logged by the
// services.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, common.ErrorConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "already exists"})
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, common.ErrorValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		badRequest(c, "invalid id")
		return 0, false
	}
	return id, true
}
