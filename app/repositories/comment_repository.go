package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"reeltalk/app/database"
	"reeltalk/app/models"
)

const selectComment = `SELECT c.id, c.conteudo, c.postagem_id, c.usuario_id, COALESCE(u.nome_usuario, '')
FROM comentarios c LEFT JOIN usuarios u ON u.id = c.usuario_id`

// SQLCommentRepository implements CommentRepository on the comentarios table
type SQLCommentRepository struct {
	db *sql.DB
}

// NewSQLCommentRepository creates a new SQLCommentRepository
func NewSQLCommentRepository(db *sql.DB) *SQLCommentRepository {
	return &SQLCommentRepository{db: db}
}

// Create inserts a comment and sets its ID
func (r *SQLCommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	res, err := database.Handle(ctx, r.db).ExecContext(ctx,
		`INSERT INTO comentarios (conteudo, postagem_id, usuario_id) VALUES (?, ?, ?)`,
		comment.Content, comment.PostID, comment.AuthorID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrMissingReference
		}
		return fmt.Errorf("failed to insert comment: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read comment id: %w", err)
	}
	comment.ID = id
	return nil
}

// GetByID retrieves a comment by ID
func (r *SQLCommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	row := database.Handle(ctx, r.db).QueryRowContext(ctx, selectComment+` WHERE c.id = ?`, id)
	comment, err := scanComment(row)
	if err != nil {
		return nil, notFound(err)
	}
	return comment, nil
}

// ListByPost retrieves all comments for a post in insertion order
func (r *SQLCommentRepository) ListByPost(ctx context.Context, postID int64) ([]*models.Comment, error) {
	rows, err := database.Handle(ctx, r.db).QueryContext(ctx,
		selectComment+` WHERE c.postagem_id = ? ORDER BY c.id`, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}

// Delete deletes a comment by ID
func (r *SQLCommentRepository) Delete(ctx context.Context, id int64) error {
	res, err := database.Handle(ctx, r.db).ExecContext(ctx, `DELETE FROM comentarios WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
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

func scanComment(s rowScanner) (*models.Comment, error) {
	var (
		comment  models.Comment
		authorID sql.NullInt64
	)
	if err := s.Scan(&comment.ID, &comment.Content, &comment.PostID, &authorID, &comment.AuthorName); err != nil {
		return nil, err
	}
	comment.AuthorID = nullableID(authorID)
	return &comment, nil
}
