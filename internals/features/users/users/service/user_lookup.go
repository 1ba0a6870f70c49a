package service

import (
	"context"

	"schoolku_backend/internals/features/users/users/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserBrief is the identity shown next to school-scoped rows.
type UserBrief struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
	Email    string    `json:"email"`
}

// Briefs loads the users behind ids in one query.
func Briefs(ctx context.Context, db *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]UserBrief, error) {
	out := make(map[uuid.UUID]UserBrief, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []model.UserModel
	if err := db.WithContext(ctx).Select("id", "full_name", "email").
		Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, u := range rows {
		out[u.ID] = UserBrief{ID: u.ID, FullName: u.FullName, Email: u.Email}
	}
	return out, nil
}

// FindByEmail returns nil when nobody uses the address.
func FindByEmail(ctx context.Context, db *gorm.DB, email string) (*model.UserModel, error) {
	var u model.UserModel
	err := db.WithContext(ctx).Where("email = ?", email).Take(&u).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
