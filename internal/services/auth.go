package services

import (
	"context"
	"time"

	"tap-goose-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	db           *gorm.DB
	jwtSecret    []byte
	tokenTTL     time.Duration
	autoRegister bool
	log          *logrus.Logger
}

func NewAuthService(db *gorm.DB, jwtSecret string, tokenTTL time.Duration, autoRegister bool, log *logrus.Logger) *AuthService {
	return &AuthService{
		db:           db,
		jwtSecret:    []byte(jwtSecret),
		tokenTTL:     tokenTTL,
		autoRegister: autoRegister,
		log:          log,
	}
}

// Claims are carried by every access token. Subject holds the user id.
type Claims struct {
	Username string      `json:"username"`
	Role     models.Role `json:"role"`
	jwt.RegisteredClaims
}

type AuthResult struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}

// Login verifies the password of an existing user. An unknown username is
// registered on the spot when auto-registration is enabled.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.findByUsername(ctx, username)
	switch {
	case err == nil:
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
			s.log.WithField("username", username).Debug("password mismatch")
			return nil, ErrInvalidCredentials
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if !s.autoRegister {
			return nil, ErrInvalidCredentials
		}
		s.log.WithField("username", username).Info("unknown user on login, registering")
		user, err = s.createUser(ctx, username, password)
		if errors.Is(err, ErrUsernameTaken) {
			// Lost a race with a concurrent login for the same name.
			return nil, ErrInvalidCredentials
		}
		if err != nil {
			return nil, err
		}
	default:
		return nil, errors.Wrap(err, "find user")
	}

	return s.issue(user)
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	if _, err := s.findByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.Wrap(err, "find user")
	}

	user, err := s.createUser(ctx, username, password)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"username": user.Username, "role": user.Role}).Info("user registered")
	return s.issue(user)
}

func (s *AuthService) GetUser(ctx context.Context, id string) (*models.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "load user")
	}
	return &user, nil
}

func (s *AuthService) GenerateToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "parse token")
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return nil, errors.New("invalid subject in token")
	}
	if !claims.Role.Valid() {
		return nil, errors.New("invalid role in token")
	}
	return claims, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.GenerateToken(user)
	if err != nil {
		return nil, errors.Wrap(err, "sign token")
	}
	return &AuthResult{AccessToken: token, User: user}, nil
}

func (s *AuthService) findByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) createUser(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := models.User{
		Username:     username,
		PasswordHash: string(hash),
		Role:         models.RoleForUsername(username),
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if isUniqueViolation(err) || errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, errors.Wrap(err, "create user")
	}
	return &user, nil
}
