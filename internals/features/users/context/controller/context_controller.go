package controller

import (
	"context"
	"strings"
	"time"

	yearModel "schoolku_backend/internals/features/school/academics/academic_years/model"
	schoolModel "schoolku_backend/internals/features/schools/schools/model"
	authService "schoolku_backend/internals/features/users/auth/service"
	"schoolku_backend/internals/features/users/context/dto"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const contextCookieTTL = 30 * 24 * time.Hour

type ContextController struct {
	DB        *gorm.DB
	Validator *validator.Validate
}

func NewContextController(db *gorm.DB, v *validator.Validate) *ContextController {
	return &ContextController{DB: db, Validator: v}
}

// GET /api/context. Stale or foreign cookies resolve to null instead of failing.
func (ctl *ContextController) Get(c *fiber.Ctx) error {
	out, err := ctl.build(c, cookieUUID(c, helperAuth.CookieActiveSchool), cookieUUID(c, helperAuth.CookieActiveYear))
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

// POST /api/context/school
func (ctl *ContextController) SwitchSchool(c *fiber.Ctx) error {
	var req dto.SwitchSchoolRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	ctx := c.UserContext()
	if _, err := helperAuth.EnsureSchoolAccess(ctx, ctl.DB, helperAuth.GetUserID(c), helperAuth.GetGlobalRole(c), req.SchoolID); err != nil {
		return err
	}
	helperAuth.SetCookie(c, helperAuth.CookieActiveSchool, req.SchoolID.String(), contextCookieTTL)

	// Keep the year cookie only when it belongs to the new school, else fall back to its current year.
	var yearID *uuid.UUID
	if id := cookieUUID(c, helperAuth.CookieActiveYear); id != nil {
		y, err := helperAuth.FindAcademicYear(ctx, ctl.DB, req.SchoolID, *id)
		if err != nil {
			return err
		}
		if y != nil {
			yearID = &y.AcademicYearID
		}
	}
	if yearID == nil {
		helperAuth.ClearCookie(c, helperAuth.CookieActiveYear)
		cur, err := helperAuth.CurrentAcademicYear(ctx, ctl.DB, req.SchoolID)
		if err != nil {
			return err
		}
		if cur != nil {
			yearID = &cur.AcademicYearID
			helperAuth.SetCookie(c, helperAuth.CookieActiveYear, cur.AcademicYearID.String(), contextCookieTTL)
		}
	}

	out, err := ctl.build(c, &req.SchoolID, yearID)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "École active mise à jour", out)
}

// POST /api/context/academic-year
func (ctl *ContextController) SwitchYear(c *fiber.Ctx) error {
	var req dto.SwitchYearRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	schoolID := cookieUUID(c, helperAuth.CookieActiveSchool)
	if h := strings.TrimSpace(c.Get(helperAuth.HeaderSchoolID)); h != "" {
		id, err := uuid.Parse(h)
		if err != nil {
			return helperAuth.ErrSchoolContextInvalid
		}
		schoolID = &id
	}
	if schoolID == nil {
		return helperAuth.ErrSchoolContextMissing
	}

	ctx := c.UserContext()
	if _, err := helperAuth.EnsureSchoolAccess(ctx, ctl.DB, helperAuth.GetUserID(c), helperAuth.GetGlobalRole(c), *schoolID); err != nil {
		return err
	}
	y, err := helperAuth.FindAcademicYear(ctx, ctl.DB, *schoolID, req.AcademicYearID)
	if err != nil {
		return err
	}
	if y == nil {
		return fiber.NewError(fiber.StatusNotFound, "Année scolaire introuvable")
	}
	helperAuth.SetCookie(c, helperAuth.CookieActiveYear, y.AcademicYearID.String(), contextCookieTTL)

	out, err := ctl.build(c, schoolID, &y.AcademicYearID)
	if err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Année scolaire active mise à jour", out)
}

// DELETE /api/context
func (ctl *ContextController) Clear(c *fiber.Ctx) error {
	helperAuth.ClearCookie(c, helperAuth.CookieActiveSchool)
	helperAuth.ClearCookie(c, helperAuth.CookieActiveYear)
	return helper.JsonDeleted(c, "Contexte réinitialisé", nil)
}

func (ctl *ContextController) build(c *fiber.Ctx, schoolID, yearID *uuid.UUID) (*dto.ContextResponse, error) {
	ctx := c.UserContext()
	userID := helperAuth.GetUserID(c)
	ms, err := authService.Memberships(ctx, ctl.DB, userID)
	if err != nil {
		return nil, err
	}
	out := &dto.ContextResponse{Memberships: ms}
	if schoolID == nil {
		return out, nil
	}

	role, err := helperAuth.EnsureSchoolAccess(ctx, ctl.DB, userID, helperAuth.GetGlobalRole(c), *schoolID)
	if err != nil {
		return out, nil
	}
	s, err := loadSchool(ctx, ctl.DB, *schoolID)
	if err != nil || s == nil {
		return out, err
	}
	out.School = &dto.SchoolBrief{ID: s.SchoolID, Name: s.SchoolName, Slug: s.SchoolSlug, Role: role}

	if yearID != nil {
		y, err := helperAuth.FindAcademicYear(ctx, ctl.DB, *schoolID, *yearID)
		if err != nil {
			return nil, err
		}
		if y != nil {
			out.AcademicYear = yearBrief(y)
		}
	}
	return out, nil
}

func loadSchool(ctx context.Context, db *gorm.DB, id uuid.UUID) (*schoolModel.SchoolModel, error) {
	var s schoolModel.SchoolModel
	err := db.WithContext(ctx).Where("school_id = ?", id).Take(&s).Error
	if helper.IsNotFound(err) {
		return nil, nil
	}
	return &s, err
}

func yearBrief(y *yearModel.AcademicYearModel) *dto.YearBrief {
	return &dto.YearBrief{ID: y.AcademicYearID, Name: y.AcademicYearName, IsCurrent: y.AcademicYearIsCurrent}
}

func cookieUUID(c *fiber.Ctx, name string) *uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(c.Cookies(name)))
	if err != nil {
		return nil
	}
	return &id
}

