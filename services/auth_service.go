package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Govind-619/CoinSphere/dao"
	"github.com/Govind-619/CoinSphere/models"
	"github.com/Govind-619/CoinSphere/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RegisterInput is a validated sign-up request
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// GoogleProfile is the subset of the Google userinfo response used for sign-in
type GoogleProfile struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

// AuthService handles accounts, admin logins and token checks
type AuthService struct {
	db        *gorm.DB
	jwtSecret string
}

func NewAuthService(db *gorm.DB, jwtSecret string) *AuthService {
	return &AuthService{db: db, jwtSecret: jwtSecret}
}

// Register creates a user with a bcrypt-hashed password
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if valid, msg := utils.ValidateEmail(in.Email); !valid {
		return nil, validationError(msg)
	}
	if valid, msg := utils.ValidatePassword(in.Password); !valid {
		return nil, validationError(msg)
	}
	username := utils.CleanHandle(in.Username)
	if len(username) < utils.MinHandleLength {
		return nil, validationError("Username must be at least 3 characters (letters, numbers, underscore)")
	}

	users := dao.NewUserDAO(s.db.WithContext(ctx))
	exists, err := users.ExistsByUsernameOrEmail(username, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflictError("Username or email already registered")
	}

	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	user := &models.User{
		Username:    username,
		Email:       in.Email,
		Password:    hash,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		IsVerified:  true,
		LastLoginAt: time.Now(),
	}
	if err := users.Create(user); err != nil {
		return nil, err
	}
	utils.LogInfo("User registered: %d (%s)", user.ID, user.Email)
	return user, nil
}

// Login checks the credentials and issues an access token
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	users := dao.NewUserDAO(s.db.WithContext(ctx))
	user, err := users.GetByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, unauthorizedError(utils.ErrInvalidCredentials)
		}
		return "", nil, err
	}
	if !utils.CheckPassword(password, user.Password) {
		utils.LogError("Login attempt failed - Invalid password for user: %d", user.ID)
		return "", nil, unauthorizedError(utils.ErrInvalidCredentials)
	}
	if user.IsBlocked {
		return "", nil, utils.ForbiddenError(utils.ErrUserBlocked, ErrUnauthorized)
	}

	if err := users.TouchLogin(user.ID, time.Now()); err != nil {
		utils.LogError("Failed to update last login time for user %d: %v", user.ID, err)
	}
	token, err := utils.GenerateToken(user.ID, user.Email, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// GoogleSignIn finds the user by Google id or email, creating one on first sign-in, and issues a token
func (s *AuthService) GoogleSignIn(ctx context.Context, profile GoogleProfile) (string, *models.User, error) {
	if profile.ID == "" || profile.Email == "" {
		return "", nil, validationError("Google profile is missing id or email")
	}
	users := dao.NewUserDAO(s.db.WithContext(ctx))

	user, err := users.GetByGoogleID(profile.ID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user, err = users.GetByEmail(strings.ToLower(profile.Email))
		if err == nil {
			user.GoogleID = &profile.ID
			err = users.Save(user)
		}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// random password; Google accounts sign in through the provider only
		hash, herr := utils.HashPassword(uuid.NewString())
		if herr != nil {
			return "", nil, herr
		}
		googleID := profile.ID
		user = &models.User{
			Username:   "g_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16],
			Email:      strings.ToLower(profile.Email),
			Password:   hash,
			FirstName:  profile.GivenName,
			LastName:   profile.FamilyName,
			IsVerified: true,
			GoogleID:   &googleID,
		}
		err = users.Create(user)
	}
	if err != nil {
		utils.LogError("Google sign-in failed for %s: %v", profile.Email, err)
		return "", nil, err
	}
	if user.IsBlocked {
		return "", nil, utils.ForbiddenError(utils.ErrUserBlocked, ErrUnauthorized)
	}

	token, err := utils.GenerateToken(user.ID, user.Email, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout revokes the token until it would have expired anyway
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := utils.ParseToken(token, s.jwtSecret)
	if err != nil {
		return unauthorizedError(utils.ErrInvalidToken)
	}
	return dao.NewUserDAO(s.db.WithContext(ctx)).BlacklistToken(token, utils.ClaimExpiry(claims))
}

// AuthenticateUser resolves a bearer token to an active user
func (s *AuthService) AuthenticateUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := utils.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, unauthorizedError("Please login for access")
	}
	userID, ok := utils.ClaimUint(claims, "user_id")
	if !ok {
		return nil, unauthorizedError("Please login for access")
	}

	users := dao.NewUserDAO(s.db.WithContext(ctx))
	revoked, err := users.IsTokenBlacklisted(token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, unauthorizedError("Token has been revoked")
	}

	user, err := users.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, unauthorizedError("User not found")
		}
		return nil, err
	}
	if user.IsBlocked {
		return nil, utils.ForbiddenError("Account is blocked", ErrUnauthorized)
	}
	return user, nil
}

// AdminLogin checks admin credentials and issues an admin token
func (s *AuthService) AdminLogin(ctx context.Context, email, password string) (string, *models.Admin, error) {
	users := dao.NewUserDAO(s.db.WithContext(ctx))
	admin, err := users.GetAdminByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, unauthorizedError(utils.ErrInvalidCredentials)
		}
		return "", nil, err
	}
	if !utils.CheckPassword(password, admin.Password) {
		return "", nil, unauthorizedError(utils.ErrInvalidCredentials)
	}
	if !admin.IsActive {
		return "", nil, utils.ForbiddenError("Admin account is inactive", ErrUnauthorized)
	}

	if err := users.TouchAdminLogin(admin.ID, time.Now()); err != nil {
		utils.LogError("Failed to update last login for admin %d: %v", admin.ID, err)
	}
	token, err := utils.GenerateAdminToken(admin.ID, s.jwtSecret)
	if err != nil {
		return "", nil, err
	}
	return token, admin, nil
}

// AuthenticateAdmin resolves a bearer token to an active admin
func (s *AuthService) AuthenticateAdmin(ctx context.Context, token string) (*models.Admin, error) {
	claims, err := utils.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, unauthorizedError("Please login for access")
	}
	adminID, ok := utils.ClaimUint(claims, "admin_id")
	if !ok {
		return nil, unauthorizedError("Please login for access")
	}

	users := dao.NewUserDAO(s.db.WithContext(ctx))
	revoked, err := users.IsTokenBlacklisted(token)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, unauthorizedError("Token has been revoked")
	}

	admin, err := users.GetAdminByID(adminID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, unauthorizedError("Admin not found")
		}
		return nil, err
	}
	if !admin.IsActive {
		return nil, utils.ForbiddenError("Admin account is inactive", ErrUnauthorized)
	}
	return admin, nil
}

// SeedAdmin creates the default admin account if it does not exist yet
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	users := dao.NewUserDAO(s.db.WithContext(ctx))
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := users.GetAdminByEmail(email); err == nil {
		return nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	if err := users.CreateAdmin(&models.Admin{Email: email, Password: hash, FirstName: "Admin", IsActive: true}); err != nil {
		return err
	}
	utils.LogInfo("Default admin %s created", email)
	return nil
}

// ListUsers returns a page of accounts for the admin console
func (s *AuthService) ListUsers(ctx context.Context, search, sortBy, order string, p *utils.Pagination) ([]models.User, error) {
	users, total, err := dao.NewUserDAO(s.db.WithContext(ctx)).
		ListUsers(strings.TrimSpace(search), sortBy, order, p.Offset, p.Limit)
	if err != nil {
		utils.LogError("Failed to list users: %v", err)
		return nil, err
	}
	p.SetTotal(total)
	return users, nil
}

// ToggleBlock flips the user's blocked flag. Blocked users fail authentication on their next request.
func (s *AuthService) ToggleBlock(ctx context.Context, adminID, userID uint) (*models.User, error) {
	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := dao.NewUserDAO(tx)
		var err error
		user, err = users.GetByID(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("User not found")
			}
			return err
		}
		if err := users.SetBlocked(userID, !user.IsBlocked); err != nil {
			return err
		}
		user.IsBlocked = !user.IsBlocked
		return nil
	})
	if err != nil {
		return nil, err
	}
	utils.LogInfo("User %d blocked=%t by admin %d", userID, user.IsBlocked, adminID)
	return user, nil
}

// passwordHistoryDepth is how many previous passwords a new one must differ from
const passwordHistoryDepth = 3

// ChangePassword replaces the caller's password after checking the current one. The new password must
// satisfy the password rules and must not match any of the last passwordHistoryDepth passwords.
func (s *AuthService) ChangePassword(ctx context.Context, caller Caller, current, next string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := dao.NewUserDAO(tx)
		user, err := users.GetByID(caller.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFoundError("User not found")
			}
			return err
		}

		if !utils.CheckPassword(current, user.Password) {
			utils.LogError("Current password verification failed for user ID: %d", user.ID)
			return unauthorizedError("Current password is incorrect")
		}
		if valid, msg := utils.ValidatePassword(next); !valid {
			return validationError(msg)
		}
		if utils.CheckPassword(next, user.Password) {
			return validationError("New password cannot be the same as current password")
		}

		recent, err := users.RecentPasswords(user.ID, passwordHistoryDepth)
		if err != nil {
			return err
		}
		for _, hash := range recent {
			if utils.CheckPassword(next, hash) {
				return validationError("This password has been used recently")
			}
		}

		hash, err := utils.HashPassword(next)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		if err := users.UpdatePassword(user.ID, hash); err != nil {
			return err
		}
		utils.LogInfo("Password changed successfully for user ID: %d", user.ID)
		return nil
	})
}
