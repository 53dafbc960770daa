package dao

import (
	"strings"
	"time"

	"github.com/Govind-619/CoinSphere/models"
	"gorm.io/gorm"
)

// UserDAO handles users, admins and revoked tokens
type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{db: db}
}

func (d *UserDAO) Create(user *models.User) error {
	return d.db.Create(user).Error
}

func (d *UserDAO) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := d.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *UserDAO) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := d.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (d *UserDAO) GetByGoogleID(googleID string) (*models.User, error) {
	var user models.User
	if err := d.db.Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUsernameOrEmail reports whether either value is already registered
func (d *UserDAO) ExistsByUsernameOrEmail(username, email string) (bool, error) {
	var count int64
	err := d.db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

func (d *UserDAO) Save(user *models.User) error {
	return d.db.Save(user).Error
}

// ListUsers returns a page of users matching search on email, username or name, with the total count.
// sortBy is one of email, name or created_at; order is asc or desc.
func (d *UserDAO) ListUsers(search, sortBy, order string, offset, limit int) ([]models.User, int64, error) {
	var (
		users []models.User
		total int64
	)
	if order != "asc" {
		order = "desc"
	}

	query := d.db.Model(&models.User{})
	if search != "" {
		term := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(email) LIKE ? OR LOWER(username) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			term, term, term, term,
		)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	switch sortBy {
	case "email":
		query = query.Order("email " + order)
	case "name":
		query = query.Order("first_name " + order).Order("last_name " + order)
	default:
		query = query.Order("created_at " + order)
	}
	err := query.Offset(offset).Limit(limit).Find(&users).Error
	return users, total, err
}

// SetBlocked sets the user's blocked flag
func (d *UserDAO) SetBlocked(id uint, blocked bool) error {
	result := d.db.Model(&models.User{}).Where("id = ?", id).Update("is_blocked", blocked)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (d *UserDAO) TouchLogin(id uint, at time.Time) error {
	return d.db.Model(&models.User{}).Where("id = ?", id).Update("last_login_at", at).Error
}

func (d *UserDAO) GetAdminByEmail(email string) (*models.Admin, error) {
	var admin models.Admin
	if err := d.db.Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (d *UserDAO) GetAdminByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := d.db.First(&admin, id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (d *UserDAO) CreateAdmin(admin *models.Admin) error {
	return d.db.Create(admin).Error
}

func (d *UserDAO) TouchAdminLogin(id uint, at time.Time) error {
	return d.db.Model(&models.Admin{}).Where("id = ?", id).Update("last_login", at).Error
}

// ActiveAdminEmails lists the addresses that receive approval notices
func (d *UserDAO) ActiveAdminEmails() ([]string, error) {
	var emails []string
	err := d.db.Model(&models.Admin{}).Where("is_active = ?", true).Pluck("email", &emails).Error
	return emails, err
}

func (d *UserDAO) BlacklistToken(token string, expiresAt time.Time) error {
	return d.db.Create(&models.BlacklistedToken{Token: token, ExpiresAt: expiresAt}).Error
}

func (d *UserDAO) IsTokenBlacklisted(token string) (bool, error) {
	var count int64
	err := d.db.Model(&models.BlacklistedToken{}).Where("token = ?", token).Count(&count).Error
	return count > 0, err
}

// UpdatePassword stores the new hash and records it in the password history
func (d *UserDAO) UpdatePassword(userID uint, hash string) error {
	if err := d.db.Model(&models.User{}).Where("id = ?", userID).Update("password", hash).Error; err != nil {
		return err
	}
	return d.db.Create(&models.PasswordHistory{UserID: userID, Password: hash}).Error
}

// RecentPasswords returns the user's last n password hashes, newest first
func (d *UserDAO) RecentPasswords(userID uint, n int) ([]string, error) {
	var hashes []string
	err := d.db.Model(&models.PasswordHistory{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(n).
		Pluck("password", &hashes).Error
	return hashes, err
}
