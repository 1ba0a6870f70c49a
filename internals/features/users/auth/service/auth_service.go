package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/users/auth/dto"
	userModel "schoolku_backend/internals/features/users/users/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrBadCredentials = fiber.NewError(fiber.StatusUnauthorized, "Email ou mot de passe incorrect")
	ErrInactive       = fiber.NewError(fiber.StatusForbidden, "Compte désactivé")
)

type AuthService struct {
	DB        *gorm.DB
	Blacklist helperAuth.Blacklist
	Google    GoogleVerifier
	Secret    string
	TTL       time.Duration
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var u userModel.UserModel
	err := s.DB.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if err := CheckPassword(u.PasswordHash, password); err != nil {
		return nil, ErrBadCredentials
	}
	if !u.IsActive {
		return nil, ErrInactive
	}
	return s.issue(ctx, &u)
}

// LoginGoogle finds the user by Google sub, then by email (linking the account),
// or creates a new active USER.
func (s *AuthService) LoginGoogle(ctx context.Context, idToken string) (*dto.LoginResponse, error) {
	ident, err := s.Google.Verify(idToken)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Jeton Google invalide")
	}
	email := strings.ToLower(strings.TrimSpace(ident.Email))
	if email == "" || ident.Sub == "" {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "Jeton Google invalide")
	}

	var u userModel.UserModel
	err = s.DB.WithContext(ctx).Where("google_id = ?", ident.Sub).Take(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = s.DB.WithContext(ctx).Where("email = ?", email).Take(&u).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			name := strings.TrimSpace(ident.Name)
			if name == "" {
				name = email
			}
			u = userModel.UserModel{
				FullName: name,
				Email:    email,
				GoogleID: &ident.Sub,
				Role:     constants.RoleUser,
				IsActive: true,
			}
			if err := s.DB.WithContext(ctx).Create(&u).Error; err != nil {
				if helper.IsUniqueViolation(err) {
					return nil, fiber.NewError(fiber.StatusConflict, "Email déjà utilisé")
				}
				return nil, err
			}
		case err != nil:
			return nil, err
		default:
			if err := s.DB.WithContext(ctx).Model(&u).Update("google_id", ident.Sub).Error; err != nil {
				return nil, err
			}
		}
	} else if err != nil {
		return nil, err
	}

	if !u.IsActive {
		return nil, ErrInactive
	}
	return s.issue(ctx, &u)
}

func (s *AuthService) issue(ctx context.Context, u *userModel.UserModel) (*dto.LoginResponse, error) {
	token, exp, err := helperAuth.IssueAccessToken(s.Secret, s.TTL, u.ID, u.Email, u.Role)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := s.DB.WithContext(ctx).Model(u).UpdateColumn("last_login_at", now).Error; err != nil {
		return nil, err
	}
	return &dto.LoginResponse{AccessToken: token, ExpiresAt: exp, User: dto.FromUser(u)}, nil
}

func (s *AuthService) Logout(ctx context.Context, rawToken string, exp time.Time) error {
	if s.Blacklist == nil || rawToken == "" {
		return nil
	}
	if exp.IsZero() {
		exp = time.Now().Add(s.TTL)
	}
	return s.Blacklist.Add(ctx, rawToken, exp)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	var u userModel.UserModel
	if err := s.DB.WithContext(ctx).Where("id = ?", userID).Take(&u).Error; err != nil {
		return err
	}
	if err := CheckPassword(u.PasswordHash, current); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Mot de passe actuel incorrect")
	}
	hash, err := HashPassword(next)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Model(&u).Update("password_hash", hash).Error
}

func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*dto.MeResponse, error) {
	var u userModel.UserModel
	if err := s.DB.WithContext(ctx).Where("id = ?", userID).Take(&u).Error; err != nil {
		return nil, err
	}
	ms, err := Memberships(ctx, s.DB, userID)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{User: dto.FromUser(&u), Memberships: ms}, nil
}

// Memberships lists the live schools the user belongs to.
func Memberships(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]dto.MembershipResponse, error) {
	out := []dto.MembershipResponse{}
	err := db.WithContext(ctx).
		Table("user_schools us").
		Select("s.school_id AS school_id, s.school_name AS school_name, s.school_slug AS school_slug, us.user_school_role AS role").
		Joins("JOIN schools s ON s.school_id = us.user_school_school_id AND s.school_deleted_at IS NULL").
		Where("us.user_school_user_id = ?", userID).
		Order("s.school_name ASC").
		Scan(&out).Error
	return out, err
}
