package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/catalog"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/logging"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/models"
	"github.com/diegoa-rodriguezc/sistemas-recomendacion/internal/recommend"
)

const TokenTTL = 24 * time.Hour

// AuthService: la sesión se abre sólo con el userId, no hay contraseñas.
type AuthService struct {
	store     catalog.Store
	recs      Invalidator
	jwtSecret []byte
	now       func() time.Time
}

func NewAuthService(store catalog.Store, recs Invalidator, secret string) *AuthService {
	return &AuthService{store: store, recs: recs, jwtSecret: []byte(secret), now: time.Now}
}

func (s *AuthService) Login(ctx context.Context, userID int) (string, *models.UserDoc, error) {
	u, err := s.store.FindUser(ctx, userID)
	if err != nil {
		return "", nil, err
	}
	if u == nil {
		return "", nil, fmt.Errorf("%w: user %d", recommend.ErrNotFound, userID)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  u.UserID,
		"role": u.Role,
		"exp":  s.now().Add(TokenTTL).Unix(),
	})
	sToken, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", nil, err
	}
	return sToken, u, nil
}

// Logout borra las recomendaciones cacheadas del usuario de la sesión.
func (s *AuthService) Logout(ctx context.Context, userID int) error {
	n, err := s.recs.InvalidateUser(ctx, userID)
	if err != nil {
		return err
	}
	logging.Ctx(ctx).Info().Int("user", userID).Int("entries", n).Msg("logout")
	return nil
}
