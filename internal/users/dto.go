package users

import (
	"github.com/shoponthefly/backend/pkg/db/models"
	"github.com/shoponthefly/backend/pkg/enums"
)

// CreateUserDTO carries the fields needed to insert a new user.
type CreateUserDTO struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         enums.UserRole
}

// ToModel maps the DTO onto a persistence model.
func (d CreateUserDTO) ToModel() *models.User {
	role := d.Role
	if role == "" {
		role = enums.UserRoleCustomer
	}
	return &models.User{
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Role:         role,
	}
}
