// Package articles provides the PostgreSQL-backed article repository with
// filtered, paginated listing.
package articles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/pressroom/internal/common"
	"github.com/dmitrijs2005/pressroom/internal/dbx"
	"github.com/dmitrijs2005/pressroom/internal/server/models"
)

const articleColumns = `id, title, description, to_char(published_date, 'YYYY-MM-DD'), author, created_at, updated_at`

// PostgresRepository implements article storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(s scanner, a *models.Article) error {
	return s.Scan(&a.ID, &a.Title, &a.Description, &a.PublishedDate, &a.Author, &a.CreatedAt, &a.UpdatedAt)
}

// whereClause renders the exact-match filter predicates. Placeholders are
// numbered from 1 in the order of the returned args.
func whereClause(filter models.ArticleFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if filter.Author != "" {
		args = append(args, filter.Author)
		conds = append(conds, "author = $"+strconv.Itoa(len(args)))
	}
	if filter.PublishedDate != "" {
		args = append(args, filter.PublishedDate)
		conds = append(conds, "published_date = $"+strconv.Itoa(len(args))+"::date")
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// FindPage returns one page of articles matching filter, ordered by id, and
// the total number of matching rows ignoring pagination.
func (r *PostgresRepository) FindPage(ctx context.Context, filter models.ArticleFilter, offset, limit int) ([]models.Article, int, error) {
	where, args := whereClause(filter)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM articles`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	n := len(args)
	query := `SELECT ` + articleColumns + ` FROM articles` + where +
		` ORDER BY id ASC LIMIT $` + strconv.Itoa(n+1) + ` OFFSET $` + strconv.Itoa(n+2)

	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Article, 0, limit)
	for rows.Next() {
		var a models.Article
		if err := scanArticle(rows, &a); err != nil {
			return nil, 0, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("db error: %w", err)
	}

	return result, total, nil
}

// GetByID returns common.ErrorNotFound when no article has the id.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles WHERE id = $1`

	a := &models.Article{}
	if err := scanArticle(r.db.QueryRowContext(ctx, query, id), a); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

// Create inserts an article; created_at and updated_at come from the same now().
func (r *PostgresRepository) Create(ctx context.Context, draft models.ArticleDraft) (*models.Article, error) {
	query :=
		`INSERT INTO articles (title, description, published_date, author)
		 VALUES ($1, $2, $3::date, $4)
		 RETURNING ` + articleColumns

	a := &models.Article{}
	row := r.db.QueryRowContext(ctx, query, draft.Title, draft.Description, draft.PublishedDate, draft.Author)
	if err := scanArticle(row, a); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

// Update applies the non-nil patch fields and bumps updated_at. It returns
// the number of rows affected.
func (r *PostgresRepository) Update(ctx context.Context, id int64, patch models.ArticlePatch) (int64, error) {
	query :=
		`UPDATE articles
		 SET title = COALESCE($2, title),
		     description = COALESCE($3, description),
		     published_date = COALESCE($4::date, published_date),
		     author = COALESCE($5, author),
		     updated_at = now()
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, patch.Title, patch.Description, patch.PublishedDate, patch.Author)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

// Delete removes the article and returns the number of rows affected.
func (r *PostgresRepository) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}
