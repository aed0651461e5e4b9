package articles

import (
	"context"

	"github.com/dmitrijs2005/pressroom/internal/server/models"
)

type Repository interface {
	FindPage(ctx context.Context, filter models.ArticleFilter, offset, limit int) ([]models.Article, int, error)
	GetByID(ctx context.Context, id int64) (*models.Article, error)
	Create(ctx context.Context, draft models.ArticleDraft) (*models.Article, error)
	Update(ctx context.Context, id int64, patch models.ArticlePatch) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
}
