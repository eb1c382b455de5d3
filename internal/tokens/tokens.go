package tokens

import (
	"time"

	"github.com/codocs/codocs/internal/config"
	"github.com/codocs/codocs/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateCollabToken creates a signed JWT granting a user collaborator access
// to one document. Issued when an access code is successfully redeemed.
func GenerateCollabToken(cfg *config.Config, u *models.User, docID string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   u.Sub,
		"name":  u.DisplayName(),
		"email": u.Email,
		"doc":   docID,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(cfg.JWT.Secret))
}
