package models

import (
	"context"
	"strings"
	"time"

	"bitbucket.org/mmdatafocus/inventory_backend/config"
	"bitbucket.org/mmdatafocus/inventory_backend/utils"
	"gorm.io/gorm"
)

type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleManager UserRole = "manager"
	UserRoleStaff   UserRole = "staff"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleAdmin, UserRoleManager, UserRoleStaff:
		return true
	}
	return false
}

type User struct {
	ID        int        `gorm:"primary_key" json:"id"`
	Username  string     `gorm:"size:50;not null;uniqueIndex" json:"username" binding:"required"`
	Email     string     `gorm:"size:100;not null;uniqueIndex" json:"email" binding:"required"`
	Password  string     `gorm:"size:100;not null" json:"-"`
	FirstName string     `gorm:"size:50" json:"first_name"`
	LastName  string     `gorm:"size:50" json:"last_name"`
	Role      UserRole   `gorm:"type:enum('admin','manager','staff');default:'staff'" json:"role"`
	IsActive  *bool      `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Username  string   `json:"username" binding:"required,min=3,max=50"`
	Email     string   `json:"email" binding:"required"`
	Password  string   `json:"password" binding:"required,min=6"`
	FirstName string   `json:"first_name"`
	LastName  string   `json:"last_name"`
	Role      UserRole `json:"role"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthPayload struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

func Register(ctx context.Context, input *NewUser) (*AuthPayload, error) {
	input.Username = strings.ToLower(strings.TrimSpace(input.Username))
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if !utils.IsValidEmail(input.Email) {
		return nil, utils.NewFieldValidationError(map[string]string{"email": "must be a valid email"})
	}
	if err := utils.ValidateUnique[User](ctx, "username", input.Username, 0); err != nil {
		return nil, err
	}
	if err := utils.ValidateUnique[User](ctx, "email", input.Email, 0); err != nil {
		return nil, err
	}
	if input.Role == "" {
		input.Role = UserRoleStaff
	}
	if !input.Role.IsValid() {
		return nil, utils.NewFieldValidationError(map[string]string{"role": "unknown role"})
	}

	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	user := User{
		Username:  input.Username,
		Email:     input.Email,
		Password:  hashed,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      input.Role,
		IsActive:  utils.NewTrue(),
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}

	token, err := utils.JwtGenerate(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &AuthPayload{Token: token, User: &user}, nil
}

// Login accepts the username or the email in the username field. The error
// never says which half was wrong.
func Login(ctx context.Context, input *LoginInput) (*AuthPayload, error) {
	identifier := strings.ToLower(strings.TrimSpace(input.Username))

	db := config.GetDB()
	var user User
	err := db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, identifier).
		First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, utils.NewValidationError("invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if user.IsActive != nil && !*user.IsActive {
		return nil, utils.NewValidationError("invalid credentials")
	}
	if err := utils.ComparePassword(user.Password, input.Password); err != nil {
		return nil, utils.NewValidationError("invalid credentials")
	}

	now := Now()
	if err := db.WithContext(ctx).Model(&User{}).
		Where("id = ?", user.ID).Update("last_login", now).Error; err != nil {
		config.LogError(config.GetLogger(), "models", "Login", user.Username, nil, err)
	}
	user.LastLogin = &now

	token, err := utils.JwtGenerate(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &AuthPayload{Token: token, User: &user}, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {
	return utils.FetchModel[User](ctx, id)
}

type ProfileUpdate struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// UpdateProfile lets a user edit their own name, email and password.
// Username and role are not self-service.
func UpdateProfile(ctx context.Context, id int, input *ProfileUpdate) (*User, error) {
	user, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != "" {
		input.Email = strings.ToLower(strings.TrimSpace(input.Email))
		if !utils.IsValidEmail(input.Email) {
			return nil, utils.NewFieldValidationError(map[string]string{"email": "must be a valid email"})
		}
		if err := utils.ValidateUnique[User](ctx, "email", input.Email, id); err != nil {
			return nil, err
		}
		user.Email = input.Email
	}
	if input.FirstName != "" {
		user.FirstName = input.FirstName
	}
	if input.LastName != "" {
		user.LastName = input.LastName
	}
	if input.Password != "" {
		if len(input.Password) < 6 {
			return nil, utils.NewFieldValidationError(map[string]string{"password": "must be at least 6 characters"})
		}
		hashed, err := utils.HashPassword(input.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

type UserFilter struct {
	Role   string
	Search string
}

func PaginateUsers(ctx context.Context, filter UserFilter, page int, limit int) ([]*User, utils.Pagination, error) {
	db := config.GetDB()
	page, limit, offset := utils.PageLimitOffset(page, limit)

	dbCtx := db.WithContext(ctx).Model(&User{})
	if filter.Role != "" {
		dbCtx = dbCtx.Where("role = ?", filter.Role)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		dbCtx = dbCtx.Where("username LIKE ? OR email LIKE ?", like, like)
	}

	var total int64
	if err := dbCtx.Count(&total).Error; err != nil {
		return nil, utils.Pagination{}, err
	}

	var results []*User
	if err := dbCtx.Order("created_at DESC").Offset(offset).Limit(limit).Find(&results).Error; err != nil {
		return nil, utils.Pagination{}, err
	}
	return results, utils.NewPagination(page, limit, total), nil
}

type UserRoleUpdate struct {
	Role     UserRole `json:"role"`
	IsActive *bool    `json:"is_active"`
}

// UpdateUserRole is the admin control for role and activation changes.
func UpdateUserRole(ctx context.Context, id int, input *UserRoleUpdate) (*User, error) {
	user, err := utils.FetchModel[User](ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Role != "" {
		if !input.Role.IsValid() {
			return nil, utils.NewFieldValidationError(map[string]string{"role": "unknown role"})
		}
		user.Role = input.Role
	}
	if input.IsActive != nil {
		user.IsActive = input.IsActive
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}
