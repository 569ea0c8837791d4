package storage

import (
	"childguard/backend/internal/models"

	"go.uber.org/zap"
)

// CreateUser inserts a new account.
func (s *Service) CreateUser(user *models.User) error {
	if err := s.DB.Create(user).Error; err != nil {
		s.Logger.Error("failed to create user", zap.String("email", user.Email), zap.Error(err))
		return err
	}
	return nil
}

func (s *Service) GetUserByID(id string) (*models.User, error) {
	return s.findUser("id = ?", id)
}

func (s *Service) GetUserByEmail(email string) (*models.User, error) {
	return s.findUser("email = ?", email)
}

func (s *Service) GetUserByPhone(phone string) (*models.User, error) {
	return s.findUser("phone = ?", phone)
}

func (s *Service) findUser(query string, arg string) (*models.User, error) {
	var user models.User
	if err := s.DB.Where(query, arg).First(&user).Error; err != nil {
		return nil, notFound(err)
	}
	return &user, nil
}

// ListUsers returns every account ordered by creation time.
func (s *Service) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.DB.Order("created_at asc").Find(&users).Error; err != nil {
		s.Logger.Error("failed to list users", zap.Error(err))
		return nil, err
	}
	return users, nil
}

// UpdateUserAvatar replaces the stored avatar (a base64 data string).
func (s *Service) UpdateUserAvatar(id, avatar string) error {
	return s.updateUser(id, "avatar", avatar)
}

// UpdateUserRole promotes or demotes an account.
func (s *Service) UpdateUserRole(id, role string) error {
	return s.updateUser(id, "role", role)
}

func (s *Service) updateUser(id, column string, value any) error {
	result := s.DB.Model(&models.User{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		s.Logger.Error("failed to update user", zap.String("user_id", id), zap.String("column", column), zap.Error(result.Error))
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
