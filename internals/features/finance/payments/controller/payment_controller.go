// file: internals/features/finance/payments/controller/payment_controller.go
package controller

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"schoolku_backend/internals/constants"
	"schoolku_backend/internals/features/finance/payments/dto"
	"schoolku_backend/internals/features/finance/payments/model"
	svc "schoolku_backend/internals/features/finance/payments/service"
	yearModel "schoolku_backend/internals/features/school/academics/academic_years/model"
	schoolModel "schoolku_backend/internals/features/schools/schools/model"
	userService "schoolku_backend/internals/features/users/users/service"
	helper "schoolku_backend/internals/helpers"
	helperAuth "schoolku_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const msgPaymentNotFound = "Paiement introuvable"

var (
	errPaymentSettled   = helper.Conflict("Un paiement réglé ne peut plus être modifié")
	errPaymentCancelled = helper.Conflict("Paiement annulé")
	errGatewayDisabled  = fiber.NewError(fiber.StatusServiceUnavailable, "Paiement en ligne indisponible")
)

type PaymentController struct {
	DB                *gorm.DB
	Validator         *validator.Validate
	Gateway           svc.Gateway
	MidtransServerKey string // webhook signature
}

func NewPaymentController(db *gorm.DB, v *validator.Validate, gw svc.Gateway, serverKey string) *PaymentController {
	return &PaymentController{DB: db, Validator: v, Gateway: gw, MidtransServerKey: serverKey}
}

/* =======================================================================
   Queries
======================================================================= */

// scoped applies the school, ?studentId ?status ?from ?to and the student visibility.
func (h *PaymentController) scoped(c *fiber.Ctx) (*gorm.DB, error) {
	q := h.DB.WithContext(c.UserContext()).Model(&model.Payment{}).
		Where("payment_school_id = ?", helperAuth.GetSchoolID(c))

	studentID, err := helper.QueryUUID(c, "studentId")
	if err != nil {
		return nil, err
	}
	if studentID != nil {
		q = q.Where("payment_student_id = ?", *studentID)
	}
	if s := strings.ToUpper(strings.TrimSpace(c.Query("status"))); s != "" {
		q = q.Where("payment_status = ?", s)
	}
	from, err := helper.QueryDate(c, "from")
	if err != nil {
		return nil, err
	}
	if from != nil {
		q = q.Where("payment_created_at >= ?", *from)
	}
	to, err := helper.QueryDate(c, "to")
	if err != nil {
		return nil, err
	}
	if to != nil {
		q = q.Where("payment_created_at < ?", to.AddDate(0, 0, 1))
	}

	ids, restricted, err := helperAuth.VisibleStudentIDs(c, h.DB)
	if err != nil {
		return nil, err
	}
	if restricted {
		q = q.Where("payment_student_id IN ?", append(ids, uuid.Nil))
	}
	return q, nil
}

// GET /api/payments
func (h *PaymentController) List(c *fiber.Ctx) error {
	q, err := h.scoped(c)
	if err != nil {
		return err
	}
	p := helper.ParseFiber(c, "createdAt", "desc", helper.DefaultOpts)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return err
	}
	rows := []model.Payment{}
	if err := q.Order(p.SafeOrderClause(map[string]string{
		"createdAt": "payment_created_at",
		"dueDate":   "payment_due_date",
		"amount":    "payment_amount",
		"paidAt":    "payment_paid_at",
	}, "createdAt")).Limit(p.Limit()).Offset(p.Offset()).Find(&rows).Error; err != nil {
		return err
	}
	return helper.JsonList(c, "OK", rows, helper.BuildMeta(total, p))
}

// GET /api/payments/summary
func (h *PaymentController) Summary(c *fiber.Ctx) error {
	q, err := h.scoped(c)
	if err != nil {
		return err
	}
	out, err := svc.Summarize(q)
	if err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", out)
}

func (h *PaymentController) Get(c *fiber.Ctx) error {
	p, err := h.find(c)
	if err != nil {
		return err
	}
	if err := helperAuth.CanSeeStudent(c, h.DB, p.PaymentStudentID); err != nil {
		return err
	}
	return helper.JsonOK(c, "OK", p)
}

/* =======================================================================
   Writes (ADMIN)
======================================================================= */

// POST /api/payments
func (h *PaymentController) Create(c *fiber.Ctx) error {
	var req dto.CreatePaymentRequest
	if err := helper.BindAndValidate(c, h.Validator, &req); err != nil {
		return err
	}
	ctx := c.UserContext()
	schoolID := helperAuth.GetSchoolID(c)

	ok, err := helperAuth.HasMembershipRole(ctx, h.DB, req.StudentID, schoolID, constants.RoleStudent)
	if err != nil {
		return err
	}
	if !ok {
		return helper.BadRequest("L'utilisateur n'est pas élève de cette école")
	}

	if req.AcademicYearID != nil {
		if err := helper.RequireRef(ctx, h.DB, &yearModel.AcademicYearModel{}, constants.MsgYearNotFound,
			"academic_year_id = ? AND academic_year_school_id = ?", *req.AcademicYearID, schoolID); err != nil {
			return err
		}
	} else {
		year, err := helperAuth.ResolveAcademicYear(c, h.DB, schoolID)
		if err != nil {
			return err
		}
		if year != nil {
			req.AcademicYearID = &year.AcademicYearID
		}
	}

	var school schoolModel.SchoolModel
	if err := h.DB.WithContext(ctx).Select("school_id", "school_settings").
		Where("school_id = ?", schoolID).Take(&school).Error; err != nil {
		return err
	}
	p, err := req.ToModel(schoolID, school.Settings().Currency)
	if err != nil {
		return err
	}
	if err := h.DB.WithContext(ctx).Create(p).Error; err != nil {
		return err
	}
	return helper.JsonCreated(c, "Paiement créé", p)
}

// PATCH /api/payments/:id
func (h *PaymentController) Update(c *fiber.Ctx) error {
	p, err := h.find(c)
	if err != nil {
		return err
	}
	if p.PaymentStatus == model.PaymentStatusPaid {
		return errPaymentSettled
	}
	var req dto.UpdatePaymentRequest
	if err := helper.BindAndValidate(c, h.Validator, &req); err != nil {
		return err
	}
	if err := req.ApplyUpdates(p); err != nil {
		return err
	}
	if err := h.DB.WithContext(c.UserContext()).Save(p).Error; err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Paiement mis à jour", p)
}

// DELETE /api/payments/:id
func (h *PaymentController) Delete(c *fiber.Ctx) error {
	p, err := h.find(c)
	if err != nil {
		return err
	}
	if p.PaymentStatus == model.PaymentStatusPaid {
		return errPaymentSettled
	}
	if err := h.DB.WithContext(c.UserContext()).Delete(p).Error; err != nil {
		return err
	}
	return helper.JsonDeleted(c, "Paiement supprimé", fiber.Map{"id": p.PaymentID})
}

// POST /api/payments/:id/mark-paid
func (h *PaymentController) MarkPaid(c *fiber.Ctx) error {
	p, err := h.find(c)
	if err != nil {
		return err
	}
	switch p.PaymentStatus {
	case model.PaymentStatusPaid:
		return helper.Conflict("Paiement déjà réglé")
	case model.PaymentStatusCancelled:
		return errPaymentCancelled
	}
	var req dto.MarkPaidRequest
	if err := helper.BindAndValidate(c, h.Validator, &req); err != nil {
		return err
	}
	if err := req.Apply(p, time.Now()); err != nil {
		return err
	}
	if err := h.DB.WithContext(c.UserContext()).Save(p).Error; err != nil {
		return err
	}
	return helper.JsonUpdated(c, "Paiement réglé", p)
}

/* =======================================================================
   Checkout (ADMIN, PARENT of the student)
======================================================================= */

// POST /api/payments/:id/checkout
func (h *PaymentController) Checkout(c *fiber.Ctx) error {
	p, err := h.find(c)
	if err != nil {
		return err
	}
	if err := helperAuth.CanSeeStudent(c, h.DB, p.PaymentStudentID); err != nil {
		return err
	}
	switch p.PaymentStatus {
	case model.PaymentStatusPaid:
		return helper.Conflict("Paiement déjà réglé")
	case model.PaymentStatusCancelled:
		return errPaymentCancelled
	}
	if h.Gateway == nil {
		return errGatewayDisabled
	}

	ctx := c.UserContext()
	briefs, err := userService.Briefs(ctx, h.DB, []uuid.UUID{p.PaymentStudentID})
	if err != nil {
		return err
	}
	student := briefs[p.PaymentStudentID]

	// a fresh order id per attempt; Midtrans refuses reused ids
	orderID := svc.GenOrderID("SCH")
	method := model.PaymentMethodOnline
	p.PaymentExternalID = &orderID
	p.PaymentMethod = &method
	p.PaymentStatus = model.PaymentStatusPending

	out, err := h.Gateway.CreateCheckout(*p, svc.Customer{FullName: student.FullName, Email: student.Email})
	if err != nil {
		log.Printf("[payments] checkout %s: %v", p.PaymentID, err)
		return fiber.NewError(fiber.StatusBadGateway, "La passerelle de paiement a refusé la transaction")
	}
	if err := h.DB.WithContext(ctx).Save(p).Error; err != nil {
		return err
	}
	return helper.JsonOK(c, "Paiement initié", fiber.Map{"payment": p, "checkout": out})
}

/* =======================================================================
   Webhook Midtrans (public)
======================================================================= */

// POST /api/payments/notification
func (h *PaymentController) Notification(c *fiber.Ctx) error {
	var n svc.Notification
	if err := json.Unmarshal(c.Body(), &n); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, constants.MsgInvalidBody)
	}
	if !n.Verify(h.MidtransServerKey) {
		return fiber.NewError(fiber.StatusUnauthorized, "Signature invalide")
	}

	var p model.Payment
	err := h.DB.WithContext(c.UserContext()).Where("payment_external_id = ?", n.OrderID).Take(&p).Error
	if helper.IsNotFound(err) {
		// 200 so the gateway stops retrying
		log.Printf("[payments] notification for unknown order_id=%s", n.OrderID)
		return helper.JsonOK(c, "ignored", fiber.Map{"orderId": n.OrderID})
	}
	if err != nil {
		return err
	}

	if p.PaymentStatus != model.PaymentStatusPaid {
		p.PaymentStatus = svc.MapStatus(p.PaymentStatus, n.TransactionStatus, n.FraudStatus)
		if p.PaymentStatus == model.PaymentStatusPaid {
			now := time.Now().UTC()
			p.PaymentPaidAt = &now
		}
	}
	if n.TransactionID != "" && p.PaymentReference == nil {
		ref := n.TransactionID
		p.PaymentReference = &ref
	}
	p.PaymentGatewayPayload = datatypes.JSON(append([]byte(nil), c.Body()...))

	if err := h.DB.WithContext(c.UserContext()).Save(&p).Error; err != nil {
		return err
	}
	return helper.JsonOK(c, "ok", fiber.Map{"paymentId": p.PaymentID, "status": p.PaymentStatus})
}

func (h *PaymentController) find(c *fiber.Ctx) (*model.Payment, error) {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return nil, err
	}
	var p model.Payment
	if err := helper.FirstOr404(c.UserContext(), h.DB, &p, msgPaymentNotFound,
		"payment_id = ? AND payment_school_id = ?", id, helperAuth.GetSchoolID(c)); err != nil {
		return nil, err
	}
	return &p, nil
}
