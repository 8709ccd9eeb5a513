package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"blog-backend/internal/domains/article/model"
	"blog-backend/internal/shared/utils"
	"blog-backend/pkg/database"
)

// sortColumns whitelists the ORDER BY targets reachable from the API.
// Anything not listed here never reaches the SQL string.
var sortColumns = map[string]string{
	model.SortByTitle:       "a.title",
	model.SortByDescription: "a.description",
	model.SortByPublishedAt: "a.published_at",
	model.SortByCreatedAt:   "a.created_at",
}

const articleColumns = `
	a.id, a.title, a.description, a.published_at, a.updated_at,
	u.id, u.first_name, u.last_name
`

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository returns the Postgres-backed ArticleRepository.
func NewPostgresRepository(pool *pgxpool.Pool) ArticleRepository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) Insert(ctx context.Context, article *model.Article) (*model.Article, error) {
	// Insert and author lookup run in one transaction so the returned DTO
	// cannot name an author that was deleted in between.
	return database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (*model.Article, error) {
		query := `
			INSERT INTO articles (title, description, published_at, author_id)
			VALUES ($1, $2, $3, $4)
			RETURNING id, published_at, updated_at
		`

		err := tx.QueryRow(ctx, query,
			article.Title,
			article.Description,
			article.PublishedAt,
			article.Author.ID,
		).Scan(&article.ID, &article.PublishedAt, &article.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to insert article: %w", err)
		}

		// Denormalize the author's public fields into the returned DTO.
		authorQuery := `SELECT first_name, last_name FROM users WHERE id = $1`
		err = tx.QueryRow(ctx, authorQuery, article.Author.ID).Scan(
			&article.Author.FirstName,
			&article.Author.LastName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load article author: %w", err)
		}

		return article, nil
	})
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*model.Article, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM articles a
		JOIN users u ON u.id = a.author_id
		WHERE a.id = $1
	`, articleColumns)

	article := &model.Article{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&article.ID,
		&article.Title,
		&article.Description,
		&article.PublishedAt,
		&article.UpdatedAt,
		&article.Author.ID,
		&article.Author.FirstName,
		&article.Author.LastName,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrArticleNotFound
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	return article, nil
}

func (r *postgresRepository) UpdateByID(ctx context.Context, id int64, patch model.UpdateArticleRequest) (int64, error) {
	assignments := []string{}
	args := []any{}
	arg := 1

	if patch.Title != nil {
		assignments = append(assignments, fmt.Sprintf("title = $%d", arg))
		args = append(args, *patch.Title)
		arg++
	}
	if patch.Description != nil {
		assignments = append(assignments, fmt.Sprintf("description = $%d", arg))
		args = append(args, *patch.Description)
		arg++
	}
	if publishedAt, ok, err := patch.PublishedAtTime(); err != nil {
		return 0, fmt.Errorf("invalid publishedAt: %w", err)
	} else if ok {
		assignments = append(assignments, fmt.Sprintf("published_at = $%d", arg))
		args = append(args, publishedAt)
		arg++
	}

	if len(assignments) == 0 {
		return 0, fmt.Errorf("no fields to update")
	}

	assignments = append(assignments, "updated_at = now()")
	args = append(args, id)

	query := fmt.Sprintf(
		"UPDATE articles SET %s WHERE id = $%d",
		utils.JoinWithComma(assignments),
		arg,
	)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update article: %w", err)
	}

	return tag.RowsAffected(), nil
}

func (r *postgresRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("failed to delete article: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *postgresRepository) Query(ctx context.Context, q model.ListQuery) ([]model.Article, int64, error) {
	whereClause, args := buildWhereClause(q)

	total, err := r.countArticles(ctx, whereClause, args)
	if err != nil {
		return nil, 0, err
	}

	sortColumn, ok := sortColumns[q.SortBy]
	if !ok {
		return nil, 0, fmt.Errorf("unsupported sort field: %q", q.SortBy)
	}

	// SortOrder is validated against {ASC, DESC} before it gets here.
	query := fmt.Sprintf(`
		SELECT %s
		FROM articles a
		JOIN users u ON u.id = a.author_id
		%s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, articleColumns, whereClause, sortColumn, q.SortOrder, len(args)+1, len(args)+2)

	args = append(args, q.Limit, q.Skip)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	articles := []model.Article{}
	for rows.Next() {
		var a model.Article
		if err := rows.Scan(
			&a.ID,
			&a.Title,
			&a.Description,
			&a.PublishedAt,
			&a.UpdatedAt,
			&a.Author.ID,
			&a.Author.FirstName,
			&a.Author.LastName,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan article: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read articles: %w", err)
	}

	return articles, total, nil
}

func (r *postgresRepository) countArticles(ctx context.Context, whereClause string, args []any) (int64, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM articles a
		JOIN users u ON u.id = a.author_id
		%s
	`, whereClause)

	var total int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return total, nil
}

func buildWhereClause(q model.ListQuery) (string, []any) {
	clauses := []string{}
	args := []any{}

	if q.AuthorID > 0 {
		args = append(args, q.AuthorID)
		clauses = append(clauses, fmt.Sprintf("a.author_id = $%d", len(args)))
	}
	if publishedAfter, ok := q.PublishedAfterTime(); ok {
		args = append(args, publishedAfter)
		clauses = append(clauses, fmt.Sprintf("a.published_at >= $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return "WHERE " + utils.JoinWithAnd(clauses), args
}
