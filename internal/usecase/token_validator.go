package usecase

//go:generate mockgen -source=token_validator.go -destination=mocks/mock_token_validator.go -package=mocks

import (
	"cart-engine/internal/pkg/jwt"

	"github.com/google/uuid"
)

// TokenValidator turns the session token issued after a successful
// credential check into the account it belongs to.
type TokenValidator interface {
	ValidateToken(tokenString string) (uuid.UUID, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
}

func NewTokenValidator(jwtService *jwt.Service) TokenValidator {
	return &tokenValidatorImpl{
		jwtService: jwtService,
	}
}

func (t *tokenValidatorImpl) ValidateToken(tokenString string) (uuid.UUID, error) {
	claims, err := t.jwtService.ValidateToken(tokenString)
	if err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}
