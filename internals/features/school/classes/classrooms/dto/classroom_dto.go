package dto

import (
	"strings"
	"time"

	"schoolku_backend/internals/features/school/classes/classrooms/model"
	helper "schoolku_backend/internals/helpers"

	"github.com/google/uuid"
)

type CreateClassroomRequest struct {
	AcademicYearID *uuid.UUID `json:"academicYearId"`
	GradeLevelID   *uuid.UUID `json:"gradeLevelId"`
	Name           string     `json:"name" validate:"required,min=1,max=80"`
	Capacity       *int       `json:"capacity" validate:"omitempty,min=1,max=1000"`
	Room           *string    `json:"room" validate:"omitempty,max=50"`
}

func (r *CreateClassroomRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Room = helper.TrimPtr(r.Room)
}

func (r *CreateClassroomRequest) ToModel(schoolID, yearID uuid.UUID) *model.ClassroomModel {
	return &model.ClassroomModel{
		ClassroomSchoolID:       schoolID,
		ClassroomAcademicYearID: yearID,
		ClassroomGradeLevelID:   r.GradeLevelID,
		ClassroomName:           r.Name,
		ClassroomCapacity:       r.Capacity,
		ClassroomRoom:           r.Room,
	}
}

type UpdateClassroomRequest struct {
	GradeLevelID *uuid.UUID `json:"gradeLevelId"`
	Name         *string    `json:"name" validate:"omitempty,min=1,max=80"`
	Capacity     *int       `json:"capacity" validate:"omitempty,min=1,max=1000"`
	Room         *string    `json:"room" validate:"omitempty,max=50"`
}

func (r *UpdateClassroomRequest) Normalize() {
	r.Name = helper.TrimPtr(r.Name)
	r.Room = helper.TrimPtr(r.Room)
}

func (r *UpdateClassroomRequest) ApplyUpdates(m *model.ClassroomModel) {
	if r.GradeLevelID != nil {
		m.ClassroomGradeLevelID = r.GradeLevelID
	}
	if r.Name != nil {
		m.ClassroomName = *r.Name
	}
	if r.Capacity != nil {
		m.ClassroomCapacity = r.Capacity
	}
	if r.Room != nil {
		m.ClassroomRoom = r.Room
	}
}

// ClassroomStudent is one ACTIVE enrollment with the student's identity.
type ClassroomStudent struct {
	EnrollmentID uuid.UUID `json:"enrollmentId"`
	StudentID    uuid.UUID `json:"studentId"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Status       string    `json:"status"`
	EnrolledAt   time.Time `json:"enrolledAt"`
}
