package repositories

import "melochei/internal/models"

// UserRepository defines the interface for user data access. Usernames and
// emails are unique; the lookup methods exist so registration can reject
// duplicates and login can resolve credentials.
type UserRepository interface {
	Create(user *models.User) error
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
