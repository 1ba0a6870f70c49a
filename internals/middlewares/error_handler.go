package middlewares

import (
	"errors"
	"log"

	"schoolku_backend/internals/constants"
	helper "schoolku_backend/internals/helpers"
	"schoolku_backend/internals/helpers/reporter"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

// upstreamCodes are raised on purpose when a dependency (payment gateway) fails;
// they keep their status and message.
var upstreamCodes = map[int]bool{
	fiber.StatusBadGateway:         true,
	fiber.StatusServiceUnavailable: true,
	fiber.StatusGatewayTimeout:     true,
}

// ErrorHandler renders the error envelope. Client errors pass through; any other
// error is logged and reported, then masked as "Erreur serveur" unless it is an
// upstream failure.
func ErrorHandler(rep reporter.Reporter) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var ve *helper.ValidationError
		if errors.As(err, &ve) {
			return helper.JsonValidationError(c, ve.Message, ve.Fields)
		}

		var fe *fiber.Error
		if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
			return helper.JsonError(c, fe.Code, fe.Message)
		}

		log.Printf("[ERROR] %s %s rid=%v: %v", c.Method(), c.OriginalURL(), c.Locals(LocRequestID), err)
		if rep != nil {
			rep.Error(err, map[string]interface{}{
				"method":     c.Method(),
				"path":       c.Path(),
				"request_id": c.Locals(LocRequestID),
			})
		}
		if fe != nil && upstreamCodes[fe.Code] {
			return helper.JsonError(c, fe.Code, fe.Message)
		}
		return helper.JsonError(c, fiber.StatusInternalServerError, constants.MsgServerError)
	}
}

// AppConfig is the fiber configuration shared by the server and the tests.
func AppConfig(rep reporter.Reporter) fiber.Config {
	return fiber.Config{
		AppName:      "schoolku_backend",
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: ErrorHandler(rep),
		BodyLimit:    10 * 1024 * 1024,
		ProxyHeader:  fiber.HeaderXForwardedFor,
	}
}
