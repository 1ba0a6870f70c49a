package middlewares

import (
	"fmt"
	"log"
	"runtime/debug"

	"schoolku_backend/internals/helpers/reporter"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// RecoveryMiddleware turns panics into errors handled by ErrorHandler.
func RecoveryMiddleware() fiber.Handler {
	return recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			log.Printf("[PANIC] %s %s: %v\n%s", c.Method(), c.Path(), e, debug.Stack())
			reporter.Default.Error(fmt.Errorf("panic: %v", e), map[string]interface{}{
				"method": c.Method(),
				"path":   c.Path(),
			})
		},
	})
}
