package demo

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"schoolku_backend/internals/constants"
	termModel "schoolku_backend/internals/features/school/academics/academic_terms/model"
	yearModel "schoolku_backend/internals/features/school/academics/academic_years/model"
	gradeLevelModel "schoolku_backend/internals/features/school/academics/grade_levels/model"
	subjectModel "schoolku_backend/internals/features/school/academics/subjects/model"
	assessmentTypeModel "schoolku_backend/internals/features/school/assessments/assessment_types/model"
	classroomModel "schoolku_backend/internals/features/school/classes/classrooms/model"
	enrollmentModel "schoolku_backend/internals/features/school/classes/enrollments/model"
	parentProfileModel "schoolku_backend/internals/features/school/parents/parent_profiles/model"
	parentStudentModel "schoolku_backend/internals/features/school/parents/parent_students/model"
	assignmentModel "schoolku_backend/internals/features/school/teachers/teacher_assignments/model"
	teacherProfileModel "schoolku_backend/internals/features/school/teachers/teacher_profiles/model"
	memberModel "schoolku_backend/internals/features/schools/members/model"
	schoolModel "schoolku_backend/internals/features/schools/schools/model"
	authService "schoolku_backend/internals/features/users/auth/service"
	userModel "schoolku_backend/internals/features/users/users/model"
	helper "schoolku_backend/internals/helpers"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:embed data_demo.json
var demoJSON []byte

type DemoSeed struct {
	School struct {
		Name    string  `json:"name"`
		Code    *string `json:"code"`
		Address *string `json:"address"`
		Email   *string `json:"email"`
	} `json:"school"`
	AcademicYear struct {
		Name      string `json:"name"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	} `json:"academicYear"`
	Terms []struct {
		Name      string `json:"name"`
		Order     int    `json:"order"`
		StartDate string `json:"startDate"`
		EndDate   string `json:"endDate"`
	} `json:"terms"`
	GradeLevels []struct {
		Name  string `json:"name"`
		Order int    `json:"order"`
	} `json:"gradeLevels"`
	Classrooms []struct {
		Name       string `json:"name"`
		GradeLevel string `json:"gradeLevel"`
		Capacity   *int   `json:"capacity"`
	} `json:"classrooms"`
	Subjects []struct {
		Name        string  `json:"name"`
		Code        string  `json:"code"`
		Coefficient float64 `json:"coefficient"`
	} `json:"subjects"`
	AssessmentTypes []struct {
		Name   string  `json:"name"`
		Weight float64 `json:"weight"`
	} `json:"assessmentTypes"`
	Users []struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	} `json:"users"`
	Assignments []struct {
		Teacher   string `json:"teacher"`
		Classroom string `json:"classroom"`
		Subject   string `json:"subject"`
	} `json:"assignments"`
	Enrollments []struct {
		Student   string `json:"student"`
		Classroom string `json:"classroom"`
	} `json:"enrollments"`
	Parents []struct {
		Parent       string `json:"parent"`
		Student      string `json:"student"`
		Relationship string `json:"relationship"`
	} `json:"parents"`
}

// SeedDemo loads the embedded demo school. It is skipped when the school slug already exists.
func SeedDemo(db *gorm.DB) (uuid.UUID, error) {
	return SeedDemoFromJSON(db, demoJSON)
}

func SeedDemoFromJSON(db *gorm.DB, raw []byte) (uuid.UUID, error) {
	var in DemoSeed
	if err := json.Unmarshal(raw, &in); err != nil {
		return uuid.Nil, fmt.Errorf("decode demo seed: %w", err)
	}

	slug := helper.Slugify(in.School.Name, 120)
	var existing schoolModel.SchoolModel
	if err := db.Where("school_slug = ?", slug).Take(&existing).Error; err == nil {
		log.Printf("ℹ️ École '%s' déjà présente, ignorée.", slug)
		return existing.SchoolID, nil
	}

	var schoolID uuid.UUID
	err := db.Transaction(func(tx *gorm.DB) error {
		school := schoolModel.SchoolModel{
			SchoolName:     in.School.Name,
			SchoolSlug:     slug,
			SchoolCode:     in.School.Code,
			SchoolAddress:  in.School.Address,
			SchoolEmail:    in.School.Email,
			SchoolSettings: schoolModel.DefaultSettings().JSON(),
			SchoolIsActive: true,
		}
		if err := tx.Create(&school).Error; err != nil {
			return err
		}
		schoolID = school.SchoolID

		start, end, err := helper.ParseDateRange(in.AcademicYear.StartDate, in.AcademicYear.EndDate)
		if err != nil {
			return err
		}
		year := yearModel.AcademicYearModel{
			AcademicYearSchoolID:  schoolID,
			AcademicYearName:      in.AcademicYear.Name,
			AcademicYearStartDate: start,
			AcademicYearEndDate:   end,
			AcademicYearIsCurrent: true,
		}
		if err := tx.Create(&year).Error; err != nil {
			return err
		}

		for _, t := range in.Terms {
			ts, te, err := helper.ParseDateRange(t.StartDate, t.EndDate)
			if err != nil {
				return err
			}
			if err := tx.Create(&termModel.AcademicTermModel{
				AcademicTermSchoolID:       schoolID,
				AcademicTermAcademicYearID: year.AcademicYearID,
				AcademicTermName:           t.Name,
				AcademicTermOrder:          t.Order,
				AcademicTermStartDate:      ts,
				AcademicTermEndDate:        te,
			}).Error; err != nil {
				return err
			}
		}

		levels := map[string]uuid.UUID{}
		for _, g := range in.GradeLevels {
			m := gradeLevelModel.GradeLevelModel{GradeLevelSchoolID: schoolID, GradeLevelName: g.Name, GradeLevelOrder: g.Order}
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
			levels[g.Name] = m.GradeLevelID
		}

		classrooms := map[string]uuid.UUID{}
		for _, cr := range in.Classrooms {
			m := classroomModel.ClassroomModel{
				ClassroomSchoolID:       schoolID,
				ClassroomAcademicYearID: year.AcademicYearID,
				ClassroomName:           cr.Name,
				ClassroomCapacity:       cr.Capacity,
			}
			if id, ok := levels[cr.GradeLevel]; ok {
				m.ClassroomGradeLevelID = &id
			}
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
			classrooms[cr.Name] = m.ClassroomID
		}

		subjects := map[string]uuid.UUID{}
		for _, s := range in.Subjects {
			code := s.Code
			m := subjectModel.SubjectModel{SubjectSchoolID: schoolID, SubjectName: s.Name, SubjectCode: &code, SubjectCoefficient: s.Coefficient}
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
			subjects[s.Code] = m.SubjectID
		}

		for _, at := range in.AssessmentTypes {
			if err := tx.Create(&assessmentTypeModel.AssessmentTypeModel{
				AssessmentTypeSchoolID: schoolID,
				AssessmentTypeName:     at.Name,
				AssessmentTypeWeight:   at.Weight,
			}).Error; err != nil {
				return err
			}
		}

		users := map[string]uuid.UUID{}
		teachers := map[string]uuid.UUID{}
		parents := map[string]uuid.UUID{}
		for _, u := range in.Users {
			id, err := upsertUser(tx, u.FullName, u.Email, u.Password)
			if err != nil {
				return err
			}
			users[u.Email] = id
			if err := tx.Create(&memberModel.UserSchoolModel{
				UserSchoolUserID:   id,
				UserSchoolSchoolID: schoolID,
				UserSchoolRole:     u.Role,
			}).Error; err != nil {
				return err
			}
			switch u.Role {
			case constants.RoleTeacher:
				p := teacherProfileModel.TeacherProfileModel{TeacherProfileSchoolID: schoolID, TeacherProfileUserID: id}
				if err := tx.Create(&p).Error; err != nil {
					return err
				}
				teachers[u.Email] = p.TeacherProfileID
			case constants.RoleParent:
				p := parentProfileModel.ParentProfileModel{ParentProfileSchoolID: schoolID, ParentProfileUserID: id}
				if err := tx.Create(&p).Error; err != nil {
					return err
				}
				parents[u.Email] = p.ParentProfileID
			}
		}

		for _, a := range in.Assignments {
			if err := tx.Create(&assignmentModel.TeacherAssignmentModel{
				TeacherAssignmentSchoolID:       schoolID,
				TeacherAssignmentTeacherID:      teachers[a.Teacher],
				TeacherAssignmentClassroomID:    classrooms[a.Classroom],
				TeacherAssignmentSubjectID:      subjects[a.Subject],
				TeacherAssignmentAcademicYearID: year.AcademicYearID,
			}).Error; err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		for _, e := range in.Enrollments {
			if err := tx.Create(&enrollmentModel.EnrollmentModel{
				EnrollmentSchoolID:       schoolID,
				EnrollmentStudentID:      users[e.Student],
				EnrollmentAcademicYearID: year.AcademicYearID,
				EnrollmentClassroomID:    classrooms[e.Classroom],
				EnrollmentStatus:         enrollmentModel.EnrollmentActive,
				EnrollmentEnrolledAt:     now,
			}).Error; err != nil {
				return err
			}
		}

		for _, p := range in.Parents {
			if err := tx.Create(&parentStudentModel.ParentStudentModel{
				ParentStudentSchoolID:     schoolID,
				ParentStudentParentID:     parents[p.Parent],
				ParentStudentStudentID:    users[p.Student],
				ParentStudentRelationship: p.Relationship,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	log.Printf("✅ École démo '%s' créée (%d utilisateurs)", slug, len(in.Users))
	return schoolID, nil
}

// upsertUser keeps an existing account untouched.
func upsertUser(tx *gorm.DB, fullName, email, password string) (uuid.UUID, error) {
	var u userModel.UserModel
	if err := tx.Where("email = ?", email).Take(&u).Error; err == nil {
		return u.ID, nil
	}
	hash, err := authService.HashPassword(password)
	if err != nil {
		return uuid.Nil, err
	}
	u = userModel.UserModel{FullName: fullName, Email: email, PasswordHash: hash, Role: constants.RoleUser, IsActive: true}
	if err := tx.Create(&u).Error; err != nil {
		return uuid.Nil, err
	}
	return u.ID, nil
}
