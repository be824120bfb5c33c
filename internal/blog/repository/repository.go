package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/avolkov/bloglist/internal/blog/domain"
	"github.com/avolkov/bloglist/internal/common/db"
)

var ErrBlogNotFound = errors.New("blog not found")

type Repository interface {
	FindAll(ctx context.Context) ([]domain.Blog, error)
	FindByID(ctx context.Context, id domain.ID) (domain.Blog, error)
	FindByOwner(ctx context.Context, ownerID string) ([]domain.Blog, error)
	Insert(ctx context.Context, blog domain.Blog) error
	Update(ctx context.Context, id domain.ID, update domain.Update) (domain.Blog, error)
	Remove(ctx context.Context, id domain.ID) error
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

const blogColumns = `id, title, author, url, likes, user_id, created_at`

func (r *PgRepository) FindAll(ctx context.Context) ([]domain.Blog, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT `+blogColumns+` FROM blogs ORDER BY created_at ASC`,
	)
	if err != nil {
		return nil, db.HandleExecError(err, "list blogs", start)
	}
	defer rows.Close()

	var blogs []domain.Blog
	for rows.Next() {
		var b domain.Blog
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &b.OwnerID, &b.CreatedAt); err != nil {
			return nil, db.HandleExecError(err, "scan blog", start)
		}
		blogs = append(blogs, b)
	}

	if rows.Err() != nil {
		return nil, db.HandleExecError(rows.Err(), "list blogs", start)
	}

	return blogs, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id domain.ID) (domain.Blog, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT `+blogColumns+` FROM blogs WHERE id = $1`,
		string(id),
	)

	var b domain.Blog
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &b.OwnerID, &b.CreatedAt)
	if err != nil {
		return domain.Blog{}, db.HandleQueryError(err, ErrBlogNotFound, "find blog by id", start)
	}

	return b, nil
}

func (r *PgRepository) FindByOwner(ctx context.Context, ownerID string) ([]domain.Blog, error) {
	start := time.Now()
	rows, err := r.pool.Query(
		ctx,
		`SELECT `+blogColumns+` FROM blogs WHERE user_id = $1 ORDER BY created_at ASC`,
		ownerID,
	)
	if err != nil {
		return nil, db.HandleExecError(err, "list blogs by owner", start)
	}
	defer rows.Close()

	var blogs []domain.Blog
	for rows.Next() {
		var b domain.Blog
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &b.OwnerID, &b.CreatedAt); err != nil {
			return nil, db.HandleExecError(err, "scan blog", start)
		}
		blogs = append(blogs, b)
	}

	if rows.Err() != nil {
		return nil, db.HandleExecError(rows.Err(), "list blogs by owner", start)
	}

	return blogs, nil
}

func (r *PgRepository) Insert(ctx context.Context, blog domain.Blog) error {
	start := time.Now()
	_, err := r.pool.Exec(
		ctx,
		`INSERT INTO blogs (id, title, author, url, likes, user_id, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		string(blog.ID),
		blog.Title,
		blog.Author,
		blog.URL,
		blog.Likes,
		blog.OwnerID,
		blog.CreatedAt,
	)
	return db.HandleExecError(err, "insert blog", start)
}

func (r *PgRepository) Update(ctx context.Context, id domain.ID, update domain.Update) (domain.Blog, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`UPDATE blogs
		 SET title  = COALESCE($2, title),
		     author = COALESCE($3, author),
		     url    = COALESCE($4, url),
		     likes  = COALESCE($5, likes)
		 WHERE id = $1
		 RETURNING `+blogColumns,
		string(id),
		update.Title,
		update.Author,
		update.URL,
		update.Likes,
	)

	var b domain.Blog
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.URL, &b.Likes, &b.OwnerID, &b.CreatedAt)
	if err != nil {
		return domain.Blog{}, db.HandleQueryError(err, ErrBlogNotFound, "update blog", start)
	}

	return b, nil
}

// Remove is idempotent: deleting an id that does not exist is not an error.
func (r *PgRepository) Remove(ctx context.Context, id domain.ID) error {
	start := time.Now()
	_, err := r.pool.Exec(ctx, `DELETE FROM blogs WHERE id = $1`, string(id))
	return db.HandleExecError(err, "remove blog", start)
}
