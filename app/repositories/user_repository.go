package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"reeltalk/app/database"
	"reeltalk/app/models"
)

// SQLUserRepository implements UserRepository on the usuarios table
type SQLUserRepository struct {
	db *sql.DB
}

// NewSQLUserRepository creates a new SQLUserRepository
func NewSQLUserRepository(db *sql.DB) *SQLUserRepository {
	return &SQLUserRepository{db: db}
}

// Create inserts a user and sets its ID. A taken email yields ErrDuplicate.
func (r *SQLUserRepository) Create(ctx context.Context, user *models.User) error {
	res, err := database.Handle(ctx, r.db).ExecContext(ctx,
		`INSERT INTO usuarios (nome_usuario, nome, senha, email, niver, eh_administrador) VALUES (?, ?, ?, ?, ?, ?)`,
		user.Username, user.Name, user.Password, user.Email, user.Birthdate, user.IsAdmin)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	user.ID = id
	return nil
}

// GetByEmail looks a user up by exact email match
func (r *SQLUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := database.Handle(ctx, r.db).QueryRowContext(ctx,
		`SELECT id, nome_usuario, nome, senha, email, niver, eh_administrador FROM usuarios WHERE email = ?`,
		email).Scan(&user.ID, &user.Username, &user.Name, &user.Password, &user.Email, &user.Birthdate, &user.IsAdmin)
	if err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// SetAdmin grants or revokes the admin flag
func (r *SQLUserRepository) SetAdmin(ctx context.Context, email string, admin bool) error {
	res, err := database.Handle(ctx, r.db).ExecContext(ctx,
		`UPDATE usuarios SET eh_administrador = ? WHERE email = ?`, admin, email)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
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
