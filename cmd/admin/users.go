package main

import (
	"errors"
	"strings"

	"schoolku_backend/internals/constants"
	authService "schoolku_backend/internals/features/users/auth/service"
	userModel "schoolku_backend/internals/features/users/users/model"

	"gorm.io/gorm"
)

const minPasswordLen = 8

var errShortPassword = errors.New("password must have at least 8 characters")

// addUser updates or creates a user; the account is (re)activated.
func (cli *commandLine) addUser(email, name, pwd string, superAdmin bool) error {
	if len(pwd) < minPasswordLen {
		return errShortPassword
	}
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := authService.HashPassword(pwd)
	if err != nil {
		return err
	}

	var u userModel.UserModel
	err = cli.db.Where("email = ?", email).Take(&u).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	u.Email = email
	u.FullName = name
	u.PasswordHash = hash
	u.IsActive = true
	if superAdmin {
		u.Role = constants.RoleSuperAdmin
	} else if u.Role == "" {
		u.Role = constants.RoleUser
	}
	if err := cli.db.Save(&u).Error; err != nil {
		return err
	}
	logger.Printf("user %s saved (role %s)", u.Email, u.Role)
	return nil
}

func (cli *commandLine) resetPassword(email, pwd string) error {
	if len(pwd) < minPasswordLen {
		return errShortPassword
	}
	var u userModel.UserModel
	if err := cli.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).Take(&u).Error; err != nil {
		return err
	}
	hash, err := authService.HashPassword(pwd)
	if err != nil {
		return err
	}
	return cli.db.Model(&u).Update("password_hash", hash).Error
}
