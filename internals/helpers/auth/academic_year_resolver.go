package helper

import (
	"context"
	"errors"
	"strings"

	"schoolku_backend/internals/constants"
	yearModel "schoolku_backend/internals/features/school/academics/academic_years/model"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrAcademicYearNotFound = fiber.NewError(fiber.StatusNotFound, constants.MsgYearNotFound)

// ResolveAcademicYear picks the year in this order: ?academicYearId, x-academic-year-id,
// active_academic_year_id cookie, then the school's current year. Explicit ids that do not
// belong to the school are 404; a stale cookie is ignored. Returns nil when nothing matches.
func ResolveAcademicYear(c *fiber.Ctx, db *gorm.DB, schoolID uuid.UUID) (*yearModel.AcademicYearModel, error) {
	ctx := c.UserContext()

	for _, raw := range []string{c.Query("academicYearId"), c.Get(HeaderAcademicYearID)} {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "academicYearId invalide")
		}
		y, err := FindAcademicYear(ctx, db, schoolID, id)
		if err != nil {
			return nil, err
		}
		if y == nil {
			return nil, ErrAcademicYearNotFound
		}
		return y, nil
	}

	if raw := strings.TrimSpace(c.Cookies(CookieActiveYear)); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			y, err := FindAcademicYear(ctx, db, schoolID, id)
			if err != nil {
				return nil, err
			}
			if y != nil {
				return y, nil
			}
		}
	}

	return CurrentAcademicYear(ctx, db, schoolID)
}

// RequireAcademicYear is ResolveAcademicYear with 404 when none is found.
func RequireAcademicYear(c *fiber.Ctx, db *gorm.DB, schoolID uuid.UUID) (*yearModel.AcademicYearModel, error) {
	y, err := ResolveAcademicYear(c, db, schoolID)
	if err != nil {
		return nil, err
	}
	if y == nil {
		return nil, ErrAcademicYearNotFound
	}
	return y, nil
}

func FindAcademicYear(ctx context.Context, db *gorm.DB, schoolID, yearID uuid.UUID) (*yearModel.AcademicYearModel, error) {
	var y yearModel.AcademicYearModel
	err := db.WithContext(ctx).
		Where("academic_year_id = ? AND academic_year_school_id = ?", yearID, schoolID).
		Take(&y).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &y, nil
}

func CurrentAcademicYear(ctx context.Context, db *gorm.DB, schoolID uuid.UUID) (*yearModel.AcademicYearModel, error) {
	var y yearModel.AcademicYearModel
	err := db.WithContext(ctx).
		Where("academic_year_school_id = ? AND academic_year_is_current = ?", schoolID, true).
		Order("academic_year_start_date DESC").
		Take(&y).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &y, nil
}
