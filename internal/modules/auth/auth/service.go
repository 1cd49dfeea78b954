package auth

import (
	"errors"
	"time"

	"github.com/lumen-studio/site-core/internal/models"
	sessionpkg "github.com/lumen-studio/site-core/internal/pkg/session"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrBadCredentials    = errors.New("invalid username or password")
	ErrAlreadyRegistered = errors.New("an administrator already exists")
)

type RegisterDTO struct {
	Username string `json:"username" binding:"required,min=3,max=80"`
	Name     string `json:"name"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginDTO struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Register creates the administrator account. The site has exactly one;
// any further attempt is rejected.
func (s *Service) Register(dto *RegisterDTO) (*models.UserModel, error) {
	var count int64
	if err := s.db.Model(&models.UserModel{}).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrAlreadyRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.UserModel{
		Username: dto.Username,
		Name:     dto.Name,
		Password: string(hash),
	}
	if user.Name == "" {
		user.Name = user.Username
	}
	return &user, s.db.Create(&user).Error
}

// Login verifies credentials and issues a session-bound token.
func (s *Service) Login(dto *LoginDTO, ip, ua string) (string, *models.UserModel, time.Time, error) {
	var user models.UserModel
	if err := s.db.First(&user, "username = ?", dto.Username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, time.Time{}, ErrBadCredentials
		}
		return "", nil, time.Time{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(dto.Password)) != nil {
		return "", nil, time.Time{}, ErrBadCredentials
	}

	token, sess, err := sessionpkg.Issue(s.db, user.ID, ip, ua, sessionpkg.DefaultTTL)
	if err != nil {
		return "", nil, time.Time{}, err
	}
	return token, &user, sess.ExpiresAt, nil
}

// Logout revokes the session behind the presented token.
func (s *Service) Logout(userID, sessionID string) error {
	err := sessionpkg.Revoke(s.db, userID, sessionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}

// GetUser loads the user for /auth/check responses.
func (s *Service) GetUser(id string) (*models.UserModel, error) {
	var user models.UserModel
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}
