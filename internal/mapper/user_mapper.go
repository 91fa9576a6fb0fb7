package mapper

import (
	"notesearch-be/internal/entity"
	"notesearch-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(e *model.User) *entity.User {
	if e == nil {
		return nil
	}

	return &entity.User{
		Id:            e.Id,
		Email:         e.Email,
		FullName:      e.FullName,
		PasswordHash:  e.PasswordHash,
		Role:          entity.UserRole(e.Role),
		Status:        entity.UserStatus(e.Status),
		EmailVerified: e.EmailVerified,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(e *entity.User) *model.User {
	if e == nil {
		return nil
	}

	return &model.User{
		Id:            e.Id,
		Email:         e.Email,
		FullName:      e.FullName,
		PasswordHash:  e.PasswordHash,
		Role:          string(e.Role),
		Status:        string(e.Status),
		EmailVerified: e.EmailVerified,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}
