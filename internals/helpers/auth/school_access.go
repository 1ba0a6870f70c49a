package helper

import (
	"context"
	"errors"
	"strings"

	"schoolku_backend/internals/constants"
	memberModel "schoolku_backend/internals/features/schools/members/model"
	schoolModel "schoolku_backend/internals/features/schools/schools/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrSchoolContextMissing = fiber.NewError(fiber.StatusBadRequest, constants.MsgSchoolRequired)
	ErrSchoolContextInvalid = fiber.NewError(fiber.StatusBadRequest, constants.MsgSchoolInvalid)
	ErrSchoolNotFound       = fiber.NewError(fiber.StatusNotFound, constants.MsgSchoolNotFound)
	ErrSchoolForbidden      = fiber.NewError(fiber.StatusForbidden, constants.MsgSchoolDenied)
	ErrRoleForbidden        = fiber.NewError(fiber.StatusForbidden, constants.MsgRoleDenied)
)

// ResolveSchoolID: x-school-id header, then the active_school_id cookie.
func ResolveSchoolID(c *fiber.Ctx) (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Get(HeaderSchoolID))
	if raw == "" {
		raw = strings.TrimSpace(c.Cookies(CookieActiveSchool))
	}
	if raw == "" {
		return uuid.Nil, ErrSchoolContextMissing
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrSchoolContextInvalid
	}
	return id, nil
}

// EnsureSchoolAccess returns the caller's effective role in schoolID.
// SUPER_ADMIN passes for any existing school. With allowed roles given,
// a member whose role is not listed gets ErrRoleForbidden.
func EnsureSchoolAccess(ctx context.Context, db *gorm.DB, userID uuid.UUID, globalRole string, schoolID uuid.UUID, allowed ...string) (string, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&schoolModel.SchoolModel{}).
		Where("school_id = ?", schoolID).
		Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return "", ErrSchoolNotFound
	}
	if globalRole == constants.RoleSuperAdmin {
		return constants.RoleSuperAdmin, nil
	}

	role, err := MembershipRole(ctx, db, userID, schoolID)
	if err != nil {
		return "", err
	}
	if role == "" {
		return "", ErrSchoolForbidden
	}
	if len(allowed) > 0 && !containsRole(allowed, role) {
		return role, ErrRoleForbidden
	}
	return role, nil
}

// MembershipRole returns "" when the user is not a member.
func MembershipRole(ctx context.Context, db *gorm.DB, userID, schoolID uuid.UUID) (string, error) {
	var m memberModel.UserSchoolModel
	err := db.WithContext(ctx).
		Where("user_school_user_id = ? AND user_school_school_id = ?", userID, schoolID).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return m.UserSchoolRole, nil
}

// HasMembershipRole reports whether userID holds exactly role in schoolID.
func HasMembershipRole(ctx context.Context, db *gorm.DB, userID, schoolID uuid.UUID, role string) (bool, error) {
	got, err := MembershipRole(ctx, db, userID, schoolID)
	return got == role, err
}

func containsRole(list []string, role string) bool {
	for _, r := range list {
		if r == role {
			return true
		}
	}
	return false
}
