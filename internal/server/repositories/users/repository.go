package users

import (
	"context"

	"github.com/dmitrijs2005/pressroom/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, email, passwordHash string) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id int64, email, passwordHash *string) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}
