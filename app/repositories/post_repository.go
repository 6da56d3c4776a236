package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"reeltalk/app/database"
	"reeltalk/app/models"
)

const selectPost = `SELECT p.id, p.titulo, p.review, p.nota, p.usuario_id, COALESCE(u.nome_usuario, '')
FROM postagens p LEFT JOIN usuarios u ON u.id = p.usuario_id`

// SQLPostRepository implements PostRepository on the postagens table
type SQLPostRepository struct {
	db *sql.DB
}

// NewSQLPostRepository creates a new SQLPostRepository
func NewSQLPostRepository(db *sql.DB) *SQLPostRepository {
	return &SQLPostRepository{db: db}
}

// Create inserts a post and sets its ID
func (r *SQLPostRepository) Create(ctx context.Context, post *models.Post) error {
	res, err := database.Handle(ctx, r.db).ExecContext(ctx,
		`INSERT INTO postagens (titulo, review, nota, usuario_id) VALUES (?, ?, ?, ?)`,
		post.Title, post.Review, post.Rating, post.AuthorID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrMissingReference
		}
		return fmt.Errorf("failed to insert post: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read post id: %w", err)
	}
	post.ID = id
	return nil
}

// GetByID retrieves a post by ID
func (r *SQLPostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	row := database.Handle(ctx, r.db).QueryRowContext(ctx, selectPost+` WHERE p.id = ?`, id)
	post, err := scanPost(row)
	if err != nil {
		return nil, notFound(err)
	}
	return post, nil
}

// List retrieves every post in insertion order
func (r *SQLPostRepository) List(ctx context.Context) ([]*models.Post, error) {
	rows, err := database.Handle(ctx, r.db).QueryContext(ctx, selectPost+` ORDER BY p.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

// Delete deletes a post by ID. Its comments go with it through the
// foreign key.
func (r *SQLPostRepository) Delete(ctx context.Context, id int64) error {
	res, err := database.Handle(ctx, r.db).ExecContext(ctx, `DELETE FROM postagens WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanPost(s rowScanner) (*models.Post, error) {
	var (
		post     models.Post
		authorID sql.NullInt64
	)
	if err := s.Scan(&post.ID, &post.Title, &post.Review, &post.Rating, &authorID, &post.AuthorName); err != nil {
		return nil, err
	}
	post.AuthorID = nullableID(authorID)
	return &post, nil
}
