package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/saiinfotech/catalog-be/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByID(id int64) (models.User, error)
	GetUserByUsername(username string) (models.User, error)
	CreateAdmin(username, password string) (models.User, error)
	Authenticate(username, password string) (models.User, error)
	UpdatePassword(id int64, currentPassword, newPassword string) error
}

// UserService provides business logic for admin account management.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id int64) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, must_change_password, created_at FROM users WHERE id = ?", id)
	err := row.Scan(&user.ID, &user.Username, &user.MustChangePassword, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// GetUserByUsername retrieves a single user by username, including the password hash.
func (s *UserService) GetUserByUsername(username string) (models.User, error) {
	var user models.User
	row := s.db.QueryRow("SELECT id, username, password_hash, must_change_password, created_at FROM users WHERE username = ?", username)
	err := row.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.MustChangePassword, &user.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.User{}, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return models.User{}, err
	}
	return user, nil
}

// CreateAdmin creates the bootstrap admin account, hashing its password. The
// account is flagged to force a password change on first login. Returns
// ErrConflict if the username is already taken, so the setup endpoint stays
// idempotent-safe.
func (s *UserService) CreateAdmin(username, password string) (models.User, error) {
	if username == "" || password == "" {
		return models.User{}, fmt.Errorf("username and password are required: %w", ErrValidation)
	}

	if _, err := s.GetUserByUsername(username); err == nil {
		return models.User{}, fmt.Errorf("user %q: %w", username, ErrConflict)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	stmt, err := s.db.Prepare("INSERT INTO users(username, password_hash, must_change_password, created_at) VALUES(?, ?, 1, ?)")
	if err != nil {
		return models.User{}, err
	}
	defer stmt.Close()

	res, err := stmt.Exec(username, string(hashedPassword), time.Now().UTC())
	if err != nil {
		return models.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return models.User{}, err
	}

	return s.GetUserByID(id)
}

// Authenticate verifies a user's credentials. A missing user and a wrong
// password are indistinguishable to the caller.
func (s *UserService) Authenticate(username, password string) (models.User, error) {
	user, err := s.GetUserByUsername(username)
	if err != nil {
		return models.User{}, fmt.Errorf("authentication failed: %w", ErrInvalidCredentials)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		return models.User{}, fmt.Errorf("authentication failed: %w", ErrInvalidCredentials)
	}

	// Don't send the password hash to the client
	user.PasswordHash = ""
	return user, nil
}

// UpdatePassword verifies the current password, then hashes and sets a new
// password for a user and clears the forced-change flag.
func (s *UserService) UpdatePassword(id int64, currentPassword, newPassword string) error {
	if newPassword == "" {
		return fmt.Errorf("new password is required: %w", ErrValidation)
	}

	var currentHash string
	row := s.db.QueryRow("SELECT password_hash FROM users WHERE id = ?", id)
	if err := row.Scan(&currentHash); err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("user %d: %w", id, ErrNotFound)
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(currentHash), []byte(currentPassword)); err != nil {
		return fmt.Errorf("current password is incorrect: %w", ErrInvalidCredentials)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash new password: %w", err)
	}

	_, err = s.db.Exec("UPDATE users SET password_hash = ?, must_change_password = 0 WHERE id = ?", string(hashedPassword), id)
	return err
}
