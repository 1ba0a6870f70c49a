package model

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SchoolModel struct {
	SchoolID       uuid.UUID      `gorm:"type:uuid;primaryKey;column:school_id" json:"id"`
	SchoolName     string         `gorm:"type:varchar(150);not null;column:school_name" json:"name"`
	SchoolSlug     string         `gorm:"type:varchar(120);uniqueIndex;not null;column:school_slug" json:"slug"`
	SchoolCode     *string        `gorm:"type:varchar(30);column:school_code" json:"code,omitempty"`
	SchoolAddress  *string        `gorm:"type:text;column:school_address" json:"address,omitempty"`
	SchoolPhone    *string        `gorm:"type:varchar(30);column:school_phone" json:"phone,omitempty"`
	SchoolEmail    *string        `gorm:"type:varchar(255);column:school_email" json:"email,omitempty"`
	SchoolLogoURL  *string        `gorm:"type:text;column:school_logo_url" json:"logoUrl,omitempty"`
	SchoolSettings datatypes.JSON `gorm:"column:school_settings" json:"settings,omitempty"`
	SchoolIsActive bool           `gorm:"not null;column:school_is_active" json:"isActive"`

	SchoolCreatedAt time.Time      `gorm:"autoCreateTime;column:school_created_at" json:"createdAt"`
	SchoolUpdatedAt time.Time      `gorm:"autoUpdateTime;column:school_updated_at" json:"updatedAt"`
	SchoolDeletedAt gorm.DeletedAt `gorm:"index;column:school_deleted_at" json:"-"`
}

func (SchoolModel) TableName() string { return "schools" }

func (m *SchoolModel) BeforeCreate(tx *gorm.DB) error {
	if m.SchoolID == uuid.Nil {
		m.SchoolID = uuid.New()
	}
	return nil
}

func (m *SchoolModel) BeforeSave(tx *gorm.DB) error {
	m.SchoolName = strings.TrimSpace(m.SchoolName)
	return nil
}

// SchoolSettings is the decoded form of school_settings.
type SchoolSettings struct {
	GradingScale float64 `json:"gradingScale"`
	PassingMark  float64 `json:"passingMark"`
	Currency     string  `json:"currency"`
}

func DefaultSettings() SchoolSettings {
	return SchoolSettings{GradingScale: 20, PassingMark: 10, Currency: "XOF"}
}

// Settings decodes school_settings over the defaults; invalid or missing values keep the default.
func (m *SchoolModel) Settings() SchoolSettings {
	out := DefaultSettings()
	if len(m.SchoolSettings) == 0 {
		return out
	}
	var raw SchoolSettings
	if err := json.Unmarshal(m.SchoolSettings, &raw); err != nil {
		return out
	}
	if raw.GradingScale > 0 {
		out.GradingScale = raw.GradingScale
	}
	if raw.PassingMark > 0 {
		out.PassingMark = raw.PassingMark
	}
	if raw.Currency != "" {
		out.Currency = strings.ToUpper(raw.Currency)
	}
	return out
}

func (s SchoolSettings) JSON() datatypes.JSON {
	b, _ := json.Marshal(s)
	return datatypes.JSON(b)
}
