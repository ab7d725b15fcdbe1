package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"equipment-system/internal/entities"
	apperrors "equipment-system/pkg/errors"
)

const (
	userTable  = "users"
	userFields = "id, username, first_name, last_name, email, password, is_staff, created_at, updated_at"
)

const UserUsernameConstraint = "users__username__unq"

type UserRepositoryInterface interface {
	CreateUser(ctx context.Context, q Querier, user entities.User) (*entities.User, error)
	FindUserByID(ctx context.Context, id uint64) (*entities.User, error)
	FindUserByUsername(ctx context.Context, q Querier, username string) (*entities.User, error)
	IsStaff(ctx context.Context, userID uint64) (bool, error)
}

type UserRepository struct {
	storage *pgxpool.Pool
}

func NewUserRepository(storage *pgxpool.Pool) UserRepositoryInterface {
	return &UserRepository{storage: storage}
}

func (r *UserRepository) q(q Querier) Querier {
	if q == nil {
		return r.storage
	}
	return q
}

func scanUser(row pgx.Row) (*entities.User, error) {
	var u entities.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.Email,
		&u.Password,
		&u.IsStaff,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) CreateUser(ctx context.Context, q Querier, user entities.User) (*entities.User, error) {
	query := fmt.Sprintf(`
        INSERT INTO %s (username, first_name, last_name, email, password, is_staff)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at
    `, userTable)

	err := r.q(q).QueryRow(ctx, query,
		user.Username,
		user.FirstName,
		user.LastName,
		user.Email,
		user.Password,
		user.IsStaff,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *UserRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, userFields, userTable)

	user, err := scanUser(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return user, nil
}

// FindUserByUsername ищет пользователя без учёта регистра имени.
// Отсутствие — не ошибка: возвращается (nil, nil).
func (r *UserRepository) FindUserByUsername(ctx context.Context, q Querier, username string) (*entities.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(username) = LOWER($1)`, userFields, userTable)

	user, err := scanUser(r.q(q).QueryRow(ctx, query, username))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

func (r *UserRepository) IsStaff(ctx context.Context, userID uint64) (bool, error) {
	query := fmt.Sprintf(`SELECT is_staff FROM %s WHERE id = $1`, userTable)

	var isStaff bool
	if err := r.storage.QueryRow(ctx, query, userID).Scan(&isStaff); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, apperrors.ErrNotFound
		}
		return false, err
	}

	return isStaff, nil
}
