// Package services contains the server-side business logic: the cached
// article catalog, the user directory and the register/login flow.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pressroom/internal/cache"
	"github.com/dmitrijs2005/pressroom/internal/common"
	"github.com/dmitrijs2005/pressroom/internal/dbx"
	"github.com/dmitrijs2005/pressroom/internal/logging"
	"github.com/dmitrijs2005/pressroom/internal/server/models"
	"github.com/dmitrijs2005/pressroom/internal/server/repositories/repomanager"
)

// ArticleKind prefixes every cache key owned by ArticleService.
const ArticleKind = "articles"

// ArticleService serves articles through the cache-aside reader and drops
// stale cache entries after every successful write.
type ArticleService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	reader      *cache.Reader
	invalidator *cache.Invalidator
	log         logging.Logger
}

func NewArticleService(db *sql.DB, m repomanager.RepositoryManager, reader *cache.Reader, invalidator *cache.Invalidator, log logging.Logger) *ArticleService {
	return &ArticleService{
		db:          db,
		repomanager: m,
		reader:      reader,
		invalidator: invalidator,
		log:         log.With("module", "articles"),
	}
}

// List returns one page of articles matching q.Filter, ordered by id.
func (s *ArticleService) List(ctx context.Context, q models.PageQuery) (*models.Page[models.Article], error) {
	if err := validatePageQuery(q); err != nil {
		return nil, err
	}

	key := cache.ListKey(ArticleKind, q.Page, q.Limit, q.Filter.Fields())
	page, err := cache.Read(ctx, s.reader, key, func(ctx context.Context) (*models.Page[models.Article], error) {
		items, total, err := s.repomanager.Articles(s.db).FindPage(ctx, q.Filter, q.Offset(), q.Limit)
		if err != nil {
			return nil, err
		}
		return models.NewPage(items, total, q), nil
	})
	if err != nil {
		s.log.Error(ctx, "list articles failed", "key", key, "error", err)
		return nil, fmt.Errorf("list articles: %w", common.ErrorRetrieval)
	}
	return page, nil
}

// Get returns the article with id, or common.ErrorNotFound.
func (s *ArticleService) Get(ctx context.Context, id int64) (*models.Article, error) {
	a, err := cache.Read(ctx, s.reader, cache.ItemKey(ArticleKind, id), func(ctx context.Context) (*models.Article, error) {
		return s.repomanager.Articles(s.db).GetByID(ctx, id)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.log.Error(ctx, "get article failed", "id", id, "error", err)
		return nil, fmt.Errorf("get article: %w", common.ErrorRetrieval)
	}
	return a, nil
}

// Create stores a new article and invalidates every cached article list.
func (s *ArticleService) Create(ctx context.Context, draft models.ArticleDraft) (*models.Article, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	a, err := s.repomanager.Articles(s.db).Create(ctx, draft)
	if err != nil {
		s.log.Error(ctx, "create article failed", "error", err)
		return nil, fmt.Errorf("create article: %w", common.ErrorWrite)
	}

	if err := s.invalidator.InvalidateLists(ctx, ArticleKind); err != nil {
		s.log.Error(ctx, "cache invalidation failed", "id", a.ID, "error", err)
	}

	s.log.Info(ctx, "article created", "id", a.ID)
	return a, nil
}

// Update applies patch to an existing article and returns the stored
// result. The existence check, update and re-read share one transaction.
func (s *ArticleService) Update(ctx context.Context, id int64, patch models.ArticlePatch) (*models.Article, error) {
	if err := validateArticlePatch(patch); err != nil {
		return nil, err
	}

	updated, err := dbx.InTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.Article, error) {
		repo := s.repomanager.Articles(tx)

		if _, err := repo.GetByID(ctx, id); err != nil {
			return nil, err
		}
		if !patch.Empty() {
			if _, err := repo.Update(ctx, id, patch); err != nil {
				return nil, err
			}
		}
		return repo.GetByID(ctx, id)
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		s.log.Error(ctx, "update article failed", "id", id, "error", err)
		return nil, fmt.Errorf("update article: %w", common.ErrorWrite)
	}

	if err := s.invalidator.Invalidate(ctx, ArticleKind, id); err != nil {
		s.log.Error(ctx, "cache invalidation failed", "id", id, "error", err)
	}

	return updated, nil
}

// Delete removes the article; a missing id is common.ErrorNotFound.
func (s *ArticleService) Delete(ctx context.Context, id int64) error {
	n, err := s.repomanager.Articles(s.db).Delete(ctx, id)
	if err != nil {
		s.log.Error(ctx, "delete article failed", "id", id, "error", err)
		return fmt.Errorf("delete article: %w", common.ErrorWrite)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	if err := s.invalidator.Invalidate(ctx, ArticleKind, id); err != nil {
		s.log.Error(ctx, "cache invalidation failed", "id", id, "error", err)
	}

	s.log.Info(ctx, "article deleted", "id", id)
	return nil
}
