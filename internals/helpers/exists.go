package helper

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Exists counts rows of model matching query; soft-deleted rows are ignored
// because the count goes through the model.
func Exists(ctx context.Context, db *gorm.DB, model any, query string, args ...any) (bool, error) {
	var n int64
	if err := db.WithContext(ctx).Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// RequireRef is Exists turned into a 404 carrying msg.
func RequireRef(ctx context.Context, db *gorm.DB, model any, msg string, query string, args ...any) error {
	ok, err := Exists(ctx, db, model, query, args...)
	if err != nil {
		return err
	}
	if !ok {
		return fiber.NewError(fiber.StatusNotFound, msg)
	}
	return nil
}

// FirstOr404 loads dst or returns a 404 carrying msg.
func FirstOr404(ctx context.Context, db *gorm.DB, dst any, msg string, query string, args ...any) error {
	err := db.WithContext(ctx).Where(query, args...).Take(dst).Error
	if IsNotFound(err) {
		return fiber.NewError(fiber.StatusNotFound, msg)
	}
	return err
}

func Conflict(msg string) error {
	return fiber.NewError(fiber.StatusConflict, msg)
}

// BadRequest is for business-rule failures outside the validator.
func BadRequest(msg string) error {
	return fiber.NewError(fiber.StatusBadRequest, msg)
}
