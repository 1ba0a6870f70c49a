package controller

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"schoolku_backend/internals/constants"
	memberModel "schoolku_backend/internals/features/schools/members/model"
	"schoolku_backend/internals/features/schools/schools/dto"
	"schoolku_backend/internals/features/schools/schools/model"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"
	"schoolku_backend/internals/helpers/storage"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	slugMaxLen  = 120
	logoMaxSize = 5 << 20
	logoMaxSide = 512
)

var logoExts = map[string]bool{".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".bmp": true, ".tif": true, ".tiff": true}

type SchoolController struct {
	DB        *gorm.DB
	Validator *validator.Validate
	Store     storage.FileStore
}

func NewSchoolController(db *gorm.DB, v *validator.Validate, store storage.FileStore) *SchoolController {
	return &SchoolController{DB: db, Validator: v, Store: store}
}

var schoolSortable = map[string]string{
	"name":      "school_name",
	"slug":      "school_slug",
	"createdAt": "school_created_at",
}

/* ============================================
   GET /api/schools
   SUPER_ADMIN: all schools. Others: their memberships.
============================================ */

func (ctl *SchoolController) List(c *fiber.Ctx) error {
	p := helper.ParseFiber(c, "name", "asc", helper.DefaultOpts)
	userID := helperAuth.GetUserID(c)
	super := helperAuth.IsSuperAdmin(c)

	q := ctl.DB.WithContext(c.UserContext()).Model(&model.SchoolModel{})
	if !super {
		q = q.Where("school_id IN (?)", ctl.DB.Model(&memberModel.UserSchoolModel{}).
			Select("user_school_school_id").Where("user_school_user_id = ?", userID))
	}
	if s := strings.TrimSpace(c.Query("q")); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(school_name) LIKE ? OR school_slug LIKE ?", like, like)
	}
	if v := c.Query("isActive"); v != "" {
		q = q.Where("school_is_active = ?", v == "true" || v == "1")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}
	rows := []model.SchoolModel{}
	if err := q.Order(p.SafeOrderClause(schoolSortable, "name")).
		Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return err
	}

	roles := map[uuid.UUID]string{}
	if !super && len(rows) > 0 {
		ids := make([]uuid.UUID, len(rows))
		for i := range rows {
			ids[i] = rows[i].SchoolID
		}
		var ms []memberModel.UserSchoolModel
		if err := ctl.DB.WithContext(c.UserContext()).
			Where("user_school_user_id = ? AND user_school_school_id IN ?", userID, ids).
			Find(&ms).Error; err != nil {
			return err
		}
		for _, m := range ms {
			roles[m.UserSchoolSchoolID] = m.UserSchoolRole
		}
	}
	out := make([]dto.SchoolListItem, len(rows))
	for i := range rows {
		role := roles[rows[i].SchoolID]
		if super {
			role = constants.RoleSuperAdmin
		}
		out[i] = dto.SchoolListItem{SchoolModel: rows[i], MyRole: role}
	}
	return helper.JsonList(c, "OK", out, helper.BuildMeta(total, p))
}

/* ============================================
   POST /api/schools (SUPER_ADMIN)
============================================ */

func (ctl *SchoolController) Create(c *fiber.Ctx) error {
	var req dto.CreateSchoolRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	m, err := req.ToModel()
	if err != nil {
		return err
	}

	ctx := c.UserContext()
	// Soft-deleted schools keep their slug.
	slug, err := helper.EnsureUniqueSlug(ctx, ctl.DB, "schools", "school_slug", helper.Slugify(req.Name, slugMaxLen), slugMaxLen)
	if err != nil {
		return err
	}
	m.SchoolSlug = slug
	if err := ctl.DB.WithContext(ctx).Create(m).Error; err != nil {
		if helper.IsUniqueViolation(err) {
			return helper.Conflict("Une école avec ce slug existe déjà")
		}
		return err
	}
	return helper.JsonCreated(c, "École créée", m)
}

/* ============================================
   GET /api/schools/:id (members of the school)
============================================ */

func (ctl *SchoolController) Get(c *fiber.Ctx) error {
	s, err := ctl.find(c)
	if err != nil {
		return err
	}
	members := []dto.MemberBrief{}
	if err := ctl.DB.WithContext(c.UserContext()).
		Table("user_schools us").
		Select("us.user_school_id AS id, u.id AS user_id, u.full_name AS full_name, u.email AS email, us.user_school_role AS role").
		Joins("JOIN users u ON u.id = us.user_school_user_id").
		Where("us.user_school_school_id = ?", s.SchoolID).
		Order("us.user_school_role ASC, u.full_name ASC").
		Scan(&members).Error; err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", dto.SchoolDetail{
		SchoolModel: s,
		Settings:    s.Settings(),
		Members:     members,
		MyRole:      helperAuth.GetSchoolRole(c),
	})
}

/* ============================================
   PATCH /api/schools/:id (SUPER_ADMIN or ADMIN of it)
============================================ */

func (ctl *SchoolController) Update(c *fiber.Ctx) error {
	s, err := ctl.find(c)
	if err != nil {
		return err
	}
	var req dto.UpdateSchoolRequest
	if err := helper.BindAndValidate(c, ctl.Validator, &req); err != nil {
		return err
	}
	if err := req.ApplyUpdates(s); err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Save(s).Error; err != nil {
		return err
	}
	return helper.JsonUpdated(c, "École mise à jour", s)
}

/* ============================================
   DELETE /api/schools/:id, POST /api/schools/:id/restore (SUPER_ADMIN)
============================================ */

func (ctl *SchoolController) Delete(c *fiber.Ctx) error {
	s, err := ctl.find(c)
	if err != nil {
		return err
	}
	if err := ctl.DB.WithContext(c.UserContext()).Delete(s).Error; err != nil {
		return err
	}
	return helper.JsonDeleted(c, "École supprimée", fiber.Map{"id": s.SchoolID})
}

func (ctl *SchoolController) Restore(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return err
	}
	var s model.SchoolModel
	if err := helper.FirstOr404(c.UserContext(), ctl.DB.Unscoped(), &s, constants.MsgSchoolNotFound, "school_id = ?", id); err != nil {
		return err
	}
	if !s.SchoolDeletedAt.Valid {
		return helper.Conflict("L'école n'est pas supprimée")
	}
	if err := ctl.DB.WithContext(c.UserContext()).Unscoped().Model(&s).
		Update("school_deleted_at", nil).Error; err != nil {
		return err
	}
	s.SchoolDeletedAt = gorm.DeletedAt{}
	return helper.JsonUpdated(c, "École restaurée", s)
}

/* ============================================
   POST /api/schools/:id/logo (multipart "file")
============================================ */

func (ctl *SchoolController) UploadLogo(c *fiber.Ctx) error {
	s, err := ctl.find(c)
	if err != nil {
		return err
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.BadRequest("Fichier manquant (champ file)")
	}
	if fh.Size > logoMaxSize {
		return fiber.NewError(fiber.StatusRequestEntityTooLarge, "Fichier trop volumineux (5 Mo max)")
	}
	if !logoExts[strings.ToLower(filepath.Ext(fh.Filename))] {
		return fiber.NewError(fiber.StatusUnsupportedMediaType, "Format d'image non supporté")
	}
	f, err := fh.Open()
	if err != nil {
		return err
	}
	defer f.Close()

	png, _, err := storage.FitPNG(f, logoMaxSide, logoMaxSide)
	if err != nil {
		return helper.BadRequest("Image illisible")
	}

	ctx := c.UserContext()
	key := fmt.Sprintf("schools/%s/logo-%d.png", s.SchoolID, time.Now().Unix())
	url, err := ctl.Store.Put(ctx, key, bytes.NewReader(png), "image/png")
	if err != nil {
		return err
	}
	old := s.SchoolLogoURL
	if err := ctl.DB.WithContext(ctx).Model(s).Update("school_logo_url", url).Error; err != nil {
		return err
	}
	if old != nil && *old != url {
		storage.TrashReplaced(ctx, ctl.Store, *old)
	}
	s.SchoolLogoURL = &url
	return helper.JsonUpdated(c, "Logo mis à jour", s)
}

// find loads :id; access was already checked by the route middleware.
func (ctl *SchoolController) find(c *fiber.Ctx) (*model.SchoolModel, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var s model.SchoolModel
	if err := helper.FirstOr404(c.UserContext(), ctl.DB, &s, constants.MsgSchoolNotFound, "school_id = ?", id); err != nil {
		return nil, err
	}
	return &s, nil
}
