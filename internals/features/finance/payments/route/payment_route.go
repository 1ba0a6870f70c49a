package route

import (
	"schoolku_backend/internals/constants"
	paymentController "schoolku_backend/internals/features/finance/payments/controller"
	svc "schoolku_backend/internals/features/finance/payments/service"
	helper "schoolku_backend/internals/helpers"
	schoolMw "schoolku_backend/internals/middlewares/features"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PaymentRoutes mounts /payments under the authenticated api group.
func PaymentRoutes(api fiber.Router, db *gorm.DB, gw svc.Gateway, serverKey string) {
	ctl := paymentController.NewPaymentController(db, helper.Validator(), gw, serverKey)

	g := api.Group("/payments")
	g.Get("/", schoolMw.AnyMember(db), ctl.List)
	g.Get("/summary", schoolMw.AnyMember(db), ctl.Summary)
	g.Get("/:id", schoolMw.AnyMember(db), ctl.Get)
	g.Post("/", schoolMw.AdminOnly(db), ctl.Create)
	g.Patch("/:id", schoolMw.AdminOnly(db), ctl.Update)
	g.Delete("/:id", schoolMw.AdminOnly(db), ctl.Delete)
	g.Post("/:id/mark-paid", schoolMw.AdminOnly(db), ctl.MarkPaid)
	g.Post("/:id/checkout", schoolMw.RequireSchoolRole(db, constants.RoleAdmin, constants.RoleParent), ctl.Checkout)
}

// PaymentWebhookRoutes mounts the gateway notification; it must be registered
// before the auth middleware of /api.
func PaymentWebhookRoutes(app fiber.Router, db *gorm.DB, serverKey string) {
	ctl := paymentController.NewPaymentController(db, helper.Validator(), nil, serverKey)
	app.Post("/api/payments/notification", ctl.Notification)
}
