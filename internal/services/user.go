package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"equipment-system/internal/dto"
	"equipment-system/internal/entities"
	"equipment-system/internal/repositories"
	apperrors "equipment-system/pkg/errors"
	"equipment-system/pkg/utils"
)

type UserServiceInterface interface {
	Register(ctx context.Context, payload dto.RegisterUserDTO) (*dto.RegisterResultDTO, error)
	GetUserByID(ctx context.Context, id uint64) (*dto.UserDTO, error)
}

type UserService struct {
	userRepository repositories.UserRepositoryInterface
	txManager      repositories.TxManagerInterface
	authService    AuthServiceInterface
	logger         *zap.Logger
}

func NewUserService(
	userRepository repositories.UserRepositoryInterface,
	txManager repositories.TxManagerInterface,
	authService AuthServiceInterface,
	logger *zap.Logger,
) UserServiceInterface {
	return &UserService{
		userRepository: userRepository,
		txManager:      txManager,
		authService:    authService,
		logger:         logger,
	}
}

func toUserDTO(user *entities.User) dto.UserDTO {
	return dto.UserDTO{
		ID:        user.ID,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
	}
}

// Register создаёт пользователя и сразу выдаёт пару токенов.
// Уникальность username проверяется в транзакции, гонку закрывает
// ограничение БД.
func (s *UserService) Register(ctx context.Context, payload dto.RegisterUserDTO) (*dto.RegisterResultDTO, error) {
	if payload.Password != payload.Password2 {
		return nil, apperrors.NewInvalidInputError("Пароли не совпадают")
	}

	hashed, err := utils.HashPassword(payload.Password)
	if err != nil {
		s.logger.Error("Ошибка хеширования пароля", zap.Error(err))
		return nil, err
	}

	var created *entities.User
	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		existing, err := s.userRepository.FindUserByUsername(ctx, tx, payload.Username)
		if err != nil {
			return err
		}
		if existing != nil {
			return s.usernameConflictError(payload.Username)
		}

		created, err = s.userRepository.CreateUser(ctx, tx, entities.User{
			Username:  payload.Username,
			FirstName: payload.FirstName,
			LastName:  payload.LastName,
			Email:     payload.Email,
			Password:  hashed,
		})
		return err
	})
	if err != nil {
		if repositories.IsUniqueViolation(err, repositories.UserUsernameConstraint) {
			return nil, s.usernameConflictError(payload.Username)
		}
		var invalid *apperrors.InvalidInputError
		if !errors.As(err, &invalid) {
			s.logger.Error("Ошибка при регистрации пользователя", zap.Error(err))
		}
		return nil, err
	}

	// Выдача токенов — отдельный шаг после фиксации транзакции:
	// пользователь уже существует, даже если выдача не удалась.
	pair, err := s.authService.IssueTokens(ctx, created.ID)
	if err != nil {
		s.logger.Error("Не удалось выдать токены новому пользователю",
			zap.Uint64("user_id", created.ID), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Зарегистрирован новый пользователь",
		zap.Uint64("user_id", created.ID), zap.String("username", created.Username))

	return &dto.RegisterResultDTO{
		User:         toUserDTO(created),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uint64) (*dto.UserDTO, error) {
	user, err := s.userRepository.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewHttpError(http.StatusNotFound,
				fmt.Sprintf("User with id='%d' was not found", id), nil, nil)
		}
		return nil, err
	}
	result := toUserDTO(user)
	return &result, nil
}

func (s *UserService) usernameConflictError(username string) error {
	return apperrors.NewInvalidInputError("User with username='%s' is already exist", username)
}
