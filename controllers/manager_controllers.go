package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/food-order-app/middlewares"
	"github.com/yeremiapane/food-order-app/services"
	"github.com/yeremiapane/food-order-app/utils"
)

type ManagerController struct {
	Auth       *middlewares.ManagerAuth
	SessionTTL time.Duration
}

func NewManagerController(auth *middlewares.ManagerAuth, sessionTTL time.Duration) *ManagerController {
	return &ManagerController{Auth: auth, SessionTTL: sessionTTL}
}

// CreateSession -> tukar passphrase manager dengan token sesi (default 1 jam)
func (mc *ManagerController) CreateSession(c *gin.Context) {
	var body struct {
		Secret string `json:"secret"`
	}
	// body boleh kosong kalau secret dikirim lewat header
	_ = c.ShouldBindJSON(&body)

	presented := body.Secret
	if presented == "" {
		presented = c.GetHeader(mc.Auth.Header)
	}

	if err := mc.Auth.VerifySecret(presented); err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			utils.InfoLogger.Warnf("Rejected manager login from %s", c.ClientIP())
		}
		respondServiceError(c, err)
		return
	}

	token, expiresAt, err := utils.GenerateManagerToken(mc.Auth.SigningKey(), mc.SessionTTL)
	if err != nil {
		utils.ErrorLogger.Errorf("Failed to sign manager token: %v", err)
		utils.RespondError(c, http.StatusInternalServerError, errors.New("failed to create session"))
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"token":     token,
		"expiresAt": expiresAt.UTC().Format(time.RFC3339),
	})
}
