package controllers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"

	"github.com/Govind-619/CoinSphere/config"
	"github.com/Govind-619/CoinSphere/middleware"
	"github.com/Govind-619/CoinSphere/services"
	"github.com/Govind-619/CoinSphere/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

const oauthStateKey = "oauth_state"

// AuthController handles sign-up, login and logout for users and admins
type AuthController struct {
	auth   *services.AuthService
	google *oauth2.Config
}

func NewAuthController(auth *services.AuthService, google *oauth2.Config) *AuthController {
	return &AuthController{auth: auth, google: google}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a user account
func (ctl *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Registration failed - Invalid request format: %v", err)
		utils.BadRequest(c, utils.ErrInvalidRequest)
		return
	}

	user, err := ctl.auth.Register(c.Request.Context(), services.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Created(c, utils.MsgRegisterSuccess, gin.H{
		"user": gin.H{"id": user.ID, "username": user.Username, "email": user.Email},
	})
}

// Login issues a user token
func (ctl *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Login attempt failed - Invalid request format: %v", err)
		utils.BadRequest(c, utils.ErrInvalidCredentials)
		return
	}

	token, user, err := ctl.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.LogInfo("User logged in successfully: %d", user.ID)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"token": token,
		"user":  gin.H{"id": user.ID, "username": user.Username, "email": user.Email},
	})
}

// Logout revokes the bearer token of the request
func (ctl *AuthController) Logout(c *gin.Context) {
	if err := ctl.auth.Logout(c.Request.Context(), middleware.GetToken(c)); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, utils.MsgLogoutSuccess, nil)
}

// AdminLogin issues an admin token
func (ctl *AuthController) AdminLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid admin login request: %v", err)
		utils.BadRequest(c, utils.ErrInvalidCredentials)
		return
	}

	token, admin, err := ctl.auth.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.LogInfo("Admin logged in successfully: %d", admin.ID)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"token": token,
		"admin": gin.H{"id": admin.ID, "email": admin.Email},
	})
}

// GoogleLogin redirects to Google with a state value kept in the session
func (ctl *AuthController) GoogleLogin(c *gin.Context) {
	if ctl.google == nil {
		utils.Error(c, http.StatusServiceUnavailable, "Google sign-in is not configured")
		return
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		utils.InternalServerError(c, utils.ErrInternalServer)
		return
	}
	state := hex.EncodeToString(buf)

	session := sessions.Default(c)
	session.Set(oauthStateKey, state)
	if err := session.Save(); err != nil {
		utils.LogError("Failed to save OAuth state: %v", err)
		utils.InternalServerError(c, utils.ErrInternalServer)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, ctl.google.AuthCodeURL(state))
}

// GoogleCallback completes Google sign-in and returns a user token
func (ctl *AuthController) GoogleCallback(c *gin.Context) {
	if ctl.google == nil {
		utils.Error(c, http.StatusServiceUnavailable, "Google sign-in is not configured")
		return
	}

	session := sessions.Default(c)
	expected, _ := session.Get(oauthStateKey).(string)
	session.Delete(oauthStateKey)
	_ = session.Save()
	if expected == "" || c.Query("state") != expected {
		utils.BadRequest(c, "Invalid OAuth state")
		return
	}

	code := c.Query("code")
	if code == "" {
		utils.BadRequest(c, "No code provided")
		return
	}

	ctx := c.Request.Context()
	token, err := ctl.google.Exchange(ctx, code)
	if err != nil {
		utils.LogError("Failed to exchange Google code: %v", err)
		utils.Unauthorized(c, "Failed to exchange token")
		return
	}

	resp, err := ctl.google.Client(ctx, token).Get(config.GoogleUserInfoURL)
	if err != nil {
		utils.LogError("Failed to get Google user info: %v", err)
		utils.InternalServerError(c, "Failed to get user info")
		return
	}
	defer resp.Body.Close()

	var profile services.GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		utils.LogError("Failed to parse Google user info: %v", err)
		utils.InternalServerError(c, "Failed to parse user info")
		return
	}

	jwtToken, user, err := ctl.auth.GoogleSignIn(ctx, profile)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"token": jwtToken,
		"user":  gin.H{"id": user.ID, "username": user.Username, "email": user.Email},
	})
}
