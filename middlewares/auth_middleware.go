package middlewares

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/food-order-app/services"
	"github.com/yeremiapane/food-order-app/utils"
	"golang.org/x/crypto/bcrypt"
)

// ManagerAuth memeriksa passphrase manager bersama, baik langsung lewat header
// maupun lewat token sesi yang diterbitkan dari passphrase yang sama.
type ManagerAuth struct {
	Secret     string
	SecretHash string
	Header     string
}

func NewManagerAuth(secret, secretHash, header string) *ManagerAuth {
	if header == "" {
		header = "X-Manager-Secret"
	}
	return &ManagerAuth{Secret: secret, SecretHash: secretHash, Header: header}
}

func (a *ManagerAuth) configured() bool {
	return a.Secret != "" || a.SecretHash != ""
}

// SigningKey is the HMAC key for manager session tokens.
func (a *ManagerAuth) SigningKey() []byte {
	if a.Secret != "" {
		return []byte(a.Secret)
	}
	return []byte(a.SecretHash)
}

// VerifySecret compares a presented passphrase with the configured one.
func (a *ManagerAuth) VerifySecret(presented string) error {
	if !a.configured() {
		return fmt.Errorf("%w: manager secret is not configured", services.ErrConfig)
	}
	if presented == "" {
		return fmt.Errorf("%w: manager secret required", services.ErrUnauthorized)
	}

	if a.Secret != "" {
		if subtle.ConstantTimeCompare([]byte(presented), []byte(a.Secret)) == 1 {
			return nil
		}
		return fmt.Errorf("%w: invalid manager secret", services.ErrUnauthorized)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.SecretHash), []byte(presented)); err != nil {
		return fmt.Errorf("%w: invalid manager secret", services.ErrUnauthorized)
	}
	return nil
}

// Authorize accepts either the secret header or a bearer session token.
func (a *ManagerAuth) Authorize(c *gin.Context) error {
	if !a.configured() {
		return fmt.Errorf("%w: manager secret is not configured", services.ErrConfig)
	}

	if presented := c.GetHeader(a.Header); presented != "" {
		return a.VerifySecret(presented)
	}

	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if _, err := utils.ParseManagerToken(a.SigningKey(), tokenString); err != nil {
			return fmt.Errorf("%w: %v", services.ErrUnauthorized, err)
		}
		return nil
	}

	return fmt.Errorf("%w: manager secret required", services.ErrUnauthorized)
}

// Require -> middleware untuk route khusus manager. Secret yang belum diset
// di server adalah 500, kredensial yang salah atau kosong 401.
func (a *ManagerAuth) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		err := a.Authorize(c)
		if err == nil {
			return
		}

		code := http.StatusUnauthorized
		if errors.Is(err, services.ErrConfig) {
			code = http.StatusInternalServerError
			utils.ErrorLogger.Errorf("Manager route %s requested but %v", c.Request.URL.RequestURI(), err)
		}
		utils.AbortWithError(c, code, err)
	}
}
