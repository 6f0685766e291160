package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shop-checkout-service/internal/apperr"
	"shop-checkout-service/internal/config"
	"shop-checkout-service/internal/model"
	"shop-checkout-service/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Claims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type UserService interface {
	SignUp(ctx context.Context, name, email, password string) (*model.User, string, error)
	SignIn(ctx context.Context, email, password string) (*model.User, string, error)
}

type userServiceImpl struct {
	userRepo repository.UserRepository
	jwtCfg   *config.JWT
}

func NewUserService(userRepo repository.UserRepository, jwtCfg *config.JWT) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
		jwtCfg:   jwtCfg,
	}
}

func (s *userServiceImpl) SignUp(ctx context.Context, name, email, password string) (*model.User, string, error) {
	if name == "" || email == "" || password == "" {
		return nil, "", apperr.ErrMalformedRequest.WithMessage("name, email and password are required")
	}

	exists, err := s.userRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, "", fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, "", apperr.ErrMalformedRequest.WithMessage("email is already in use")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", fmt.Errorf("store user: %w", err)
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *userServiceImpl) SignIn(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperr.ErrUnauthenticated.WithMessage("user not found")
		}
		return nil, "", fmt.Errorf("load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", apperr.ErrUnauthenticated.WithMessage("incorrect password")
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *userServiceImpl) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(s.jwtCfg.ExpiryHours) * time.Hour)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.jwtCfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ParseToken validates a bearer token and returns its claims.
func ParseToken(jwtCfg *config.JWT, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(jwtCfg.Secret), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}
	return nil, jwt.ErrTokenInvalidClaims
}
