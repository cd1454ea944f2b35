package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/reservation-app/utils"
	"golang.org/x/crypto/bcrypt"
)

type AuthController struct {
	Secret       []byte
	PasswordHash []byte
	TTL          time.Duration
	Now          func() time.Time
}

func NewAuthController(secret, passwordHash string, ttl time.Duration) *AuthController {
	return &AuthController{Secret: []byte(secret), PasswordHash: []byte(passwordHash), TTL: ttl, Now: time.Now}
}

// Login -> exchanges the shared staff password for a bearer token
func (ac *AuthController) Login(c *gin.Context) {
	var req struct {
		Password string `json:"password"`
	}
	if err := bindData(c, &req); err != nil {
		respondBindError(c, err)
		return
	}
	if req.Password == "" {
		utils.RespondError(c, http.StatusBadRequest, errors.New("password is required"))
		return
	}

	if err := bcrypt.CompareHashAndPassword(ac.PasswordHash, []byte(req.Password)); err != nil {
		utils.ErrorLogger.Printf("Failed staff login from %s", c.ClientIP())
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid password"))
		return
	}

	token, expiresAt, err := utils.GenerateToken(ac.Secret, "staff", ac.TTL, ac.Now())
	if err != nil {
		utils.RespondServiceError(c, err)
		return
	}

	utils.InfoLogger.Printf("Staff login from %s", c.ClientIP())
	utils.RespondJSON(c, http.StatusOK, gin.H{
		"token":      token,
		"expires_at": expiresAt.UTC().Format(time.RFC3339),
	})
}
