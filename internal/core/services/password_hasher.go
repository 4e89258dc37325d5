package services

import (
	portssvc "github.com/SscSPs/movie_review_app/internal/core/ports/services"
	"github.com/SscSPs/movie_review_app/internal/utils"
)

type bcryptHasher struct {
	cost int
}

// NewPasswordHasher returns a bcrypt-backed PasswordHasherSvc.
func NewPasswordHasher(cost int) portssvc.PasswordHasherSvc {
	return &bcryptHasher{cost: cost}
}

func (h *bcryptHasher) Hash(rawPassword string) (string, error) {
	return utils.HashPassword(rawPassword, h.cost)
}

func (h *bcryptHasher) Verify(rawPassword, passwordHash string) bool {
	return utils.CheckPasswordHash(rawPassword, passwordHash)
}

var _ portssvc.PasswordHasherSvc = (*bcryptHasher)(nil)
