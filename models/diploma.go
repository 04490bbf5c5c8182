// models/diploma.go
package models

import (
	"fmt"
	"time"
)

// National grading scale (1.0-5.0) derived from percentage scores.
const (
	GradeScaleMin     = 1.0
	GradeScaleMax     = 5.0
	ApprovalThreshold = 3.0
)

// DiplomaTypes lists the accepted diploma_type values.
var DiplomaTypes = []string{
	"curso",
	"diplomado",
	"certificacion",
	"especializacion",
	"tecnico",
	"tecnologico",
}

// EducationLevels lists the recognised educational levels for templates.
var EducationLevels = []string{
	"Educación Continua",
	"Técnico Profesional",
	"Tecnológico",
	"Profesional",
	"Especialización",
	"Maestría",
	"Doctorado",
}

// Modalities lists the recognised program modalities.
var Modalities = []string{"Presencial", "Virtual", "Mixta", "A Distancia"}

// Defaults applied when a diploma is forced without a matching template.
const (
	DefaultInstitution    = "RavenCode Colombia"
	DefaultModality       = "Virtual"
	DefaultEducationLevel = "Educación Continua"
)

// ValidDiplomaType reports whether s is an accepted diploma type.
func ValidDiplomaType(s string) bool {
	for _, t := range DiplomaTypes {
		if s == t {
			return true
		}
	}
	return false
}

// GradeLabel maps a national grade to its qualitative label. Bands are
// checked high to low; anything outside [1.0, 5.0] is not applicable.
func GradeLabel(grade float64) string {
	if grade < GradeScaleMin || grade > GradeScaleMax {
		return "No Aplica"
	}
	switch {
	case grade >= 4.6:
		return "Excelente"
	case grade >= 4.0:
		return "Sobresaliente"
	case grade >= 3.5:
		return "Bueno"
	case grade >= 3.0:
		return "Aceptable"
	case grade >= 2.0:
		return "Insuficiente"
	default:
		return "Deficiente"
	}
}

// InternationalEquivalence maps a national grade to its international letter
// equivalence.
func InternationalEquivalence(grade float64) string {
	switch {
	case grade >= 4.6:
		return "A+ (95-100%)"
	case grade >= 4.0:
		return "A (85-94%)"
	case grade >= 3.5:
		return "B+ (75-84%)"
	case grade >= 3.0:
		return "B (65-74%)"
	case grade >= 2.0:
		return "C (55-64%)"
	default:
		return "F (<55%)"
	}
}

// DiplomaRequirement is one entry in a template's requirement list: an
// achievement the student must hold at or above minimum_grade.
type DiplomaRequirement struct {
	AchievementName string  `bson:"achievement_name" json:"achievement_name" validate:"required"`
	CourseID        string  `bson:"course_id" json:"course_id" validate:"required"`
	MinimumGrade    float64 `bson:"minimum_grade" json:"minimum_grade" validate:"gte=1,lte=5"`
	Mandatory       bool    `bson:"mandatory" json:"mandatory"`
}

// DiplomaTemplate configures a class of diploma for a course. Unique per
// (course_id, diploma_type); templates referenced by issued diplomas are
// snapshotted at issuance, so later edits never alter existing diplomas.
type DiplomaTemplate struct {
	ID              string               `bson:"id,omitempty" json:"id,omitempty"`
	DiplomaType     string               `bson:"diploma_type" json:"diploma_type" validate:"required"`
	CourseID        string               `bson:"course_id" json:"course_id" validate:"required"`
	Name            string               `bson:"name" json:"name" validate:"required"`
	Title           string               `bson:"title" json:"title" validate:"required"`
	Description     string               `bson:"description,omitempty" json:"description,omitempty"`
	Institution     string               `bson:"institution" json:"institution"`
	Requirements    []DiplomaRequirement `bson:"requirements" json:"requirements" validate:"required,min=1,dive"`
	TemplateURL     string               `bson:"template_url,omitempty" json:"template_url,omitempty"`
	AcademicCredits *int                 `bson:"academic_credits,omitempty" json:"academic_credits,omitempty" validate:"omitempty,gte=0"`
	AcademicHours   *int                 `bson:"academic_hours,omitempty" json:"academic_hours,omitempty" validate:"omitempty,gte=0"`
	Modality        string               `bson:"modality" json:"modality"`
	EducationLevel  string               `bson:"education_level" json:"education_level"`
	RegistryCode    string               `bson:"registry_code,omitempty" json:"registry_code,omitempty"`
	ValidityMonths  *int                 `bson:"validity_months,omitempty" json:"validity_months,omitempty" validate:"omitempty,gt=0"`
	CreatedAt       time.Time            `bson:"created_at,omitempty" json:"created_at,omitempty"`
}

// ApplyDefaults fills the institution/modality/level/minimum-grade defaults
// the same way the template creation endpoint always has.
func (t *DiplomaTemplate) ApplyDefaults() {
	if t.Institution == "" {
		t.Institution = DefaultInstitution
	}
	if t.Modality == "" {
		t.Modality = DefaultModality
	}
	if t.EducationLevel == "" {
		t.EducationLevel = DefaultEducationLevel
	}
	for i := range t.Requirements {
		if t.Requirements[i].MinimumGrade == 0 {
			t.Requirements[i].MinimumGrade = ApprovalThreshold
		}
	}
}

// Validate checks the template invariants the store cannot express.
func (t *DiplomaTemplate) Validate() error {
	if !ValidDiplomaType(t.DiplomaType) {
		return fmt.Errorf("%w: diploma type must be one of %v", ErrInvalidData, DiplomaTypes)
	}
	if len(t.Requirements) == 0 {
		return fmt.Errorf("%w: a diploma template needs at least one requirement", ErrInvalidData)
	}
	return nil
}

// CompletedRequirement snapshots how a requirement was satisfied, embedded
// both in verdicts and in issued diplomas.
type CompletedRequirement struct {
	AchievementName    string     `bson:"achievement_name" json:"achievement_name"`
	GradeObtained      float64    `bson:"grade_obtained" json:"grade_obtained"`
	MinimumGrade       float64    `bson:"minimum_grade" json:"minimum_grade"`
	Satisfied          bool       `bson:"satisfied" json:"satisfied"`
	CompletedAt        *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	OriginalPercentage float64    `bson:"original_percentage" json:"original_percentage"`
}

// EligibilityVerdict is the computed decision on whether a student currently
// qualifies for a diploma template. Negative outcomes are ordinary values
// with explanatory detail, never errors.
type EligibilityVerdict struct {
	Eligible              bool                 `json:"eligible"`
	Template              *DiplomaTemplate     `json:"template,omitempty"`
	CompletedRequirements []CompletedRequirement `json:"completed_requirements"`
	MissingRequirements   []DiplomaRequirement `json:"missing_requirements"`
	AverageGrade          float64              `json:"average_grade"`
	HoursCompleted        int                  `json:"hours_completed"`
	PercentComplete       float64              `json:"percent_complete"`
	Message               string               `json:"message"`
	Notes                 string               `json:"notes,omitempty"`
}

// DiplomaRequest asks for a diploma to be issued.
type DiplomaRequest struct {
	Email            string `json:"email" validate:"required,email"`
	CourseID         string `json:"course_id" validate:"required"`
	DiplomaType      string `json:"diploma_type" validate:"required,oneof=curso diplomado certificacion especializacion tecnico tecnologico"`
	Force            bool   `json:"force"`
	IncludeApostille bool   `json:"include_apostille"`
	Locale           string `json:"locale" validate:"omitempty,oneof=es en"`
	DeliveryFormat   string `json:"delivery_format" validate:"omitempty,oneof=digital fisico ambos"`
}

// DiplomaMetadata captures the request context a diploma was issued under.
type DiplomaMetadata struct {
	Locale           string  `bson:"locale" json:"locale"`
	DeliveryFormat   string  `bson:"delivery_format" json:"delivery_format"`
	IncludeApostille bool    `bson:"include_apostille" json:"include_apostille"`
	PercentComplete  float64 `bson:"percent_complete" json:"percent_complete"`
	Forced           bool    `bson:"forced" json:"forced"`
}

// Diploma is an immutable ledger entry: issued once per
// (email, course_id, diploma_type), never mutated afterwards.
type Diploma struct {
	ID                    string                 `bson:"id" json:"id"`
	Email                 string                 `bson:"email" json:"email"`
	DiplomaType           string                 `bson:"diploma_type" json:"diploma_type"`
	CourseID              string                 `bson:"course_id" json:"course_id"`
	Name                  string                 `bson:"name" json:"name"`
	Title                 string                 `bson:"title" json:"title"`
	Institution           string                 `bson:"institution" json:"institution"`
	DateIssued            time.Time              `bson:"date_issued" json:"date_issued"`
	ExpiryDate            *time.Time             `bson:"expiry_date,omitempty" json:"expiry_date,omitempty"`
	VerificationCode      string                 `bson:"verification_code" json:"verification_code"`
	AcademicCredits       *int                   `bson:"academic_credits,omitempty" json:"academic_credits,omitempty"`
	AcademicHours         *int                   `bson:"academic_hours,omitempty" json:"academic_hours,omitempty"`
	FinalGrade            float64                `bson:"final_grade" json:"final_grade"`
	QualitativeGrade      string                 `bson:"qualitative_grade" json:"qualitative_grade"`
	AverageGrade          float64                `bson:"average_grade" json:"average_grade"`
	Modality              string                 `bson:"modality" json:"modality"`
	EducationLevel        string                 `bson:"education_level" json:"education_level"`
	RegistryCode          string                 `bson:"registry_code,omitempty" json:"registry_code,omitempty"`
	CompletedRequirements []CompletedRequirement `bson:"completed_requirements" json:"completed_requirements"`
	Metadata              DiplomaMetadata        `bson:"metadata" json:"metadata"`
}

// IsExpired reports whether the diploma has expired as of now. A diploma
// without an expiry date never expires.
func (d *Diploma) IsExpired(now time.Time) bool {
	if d.ExpiryDate == nil {
		return false
	}
	return now.After(*d.ExpiryDate)
}

// Equivalence returns the diploma grade's international equivalence, "N/A"
// when no final grade was recorded.
func (d *Diploma) Equivalence() string {
	if d.FinalGrade == 0 {
		return "N/A"
	}
	return InternationalEquivalence(d.FinalGrade)
}

// AnnotatedDiploma is a diploma plus the computed read-time fields returned
// by list endpoints.
type AnnotatedDiploma struct {
	Diploma
	Expired                  bool   `json:"expired"`
	InternationalEquivalence string `json:"international_equivalence"`
}

// IssueResult is the outcome of an issuance request. Not-eligible and
// already-issued are expected steady-state results, not errors.
type IssueResult struct {
	Issued            bool                `json:"issued"`
	Message           string              `json:"message"`
	Diploma           *Diploma            `json:"diploma,omitempty"`
	VerificationCode  string              `json:"verification_code,omitempty"`
	Verdict           *EligibilityVerdict `json:"eligibility,omitempty"`
	ExistingDiplomaID string              `json:"existing_diploma_id,omitempty"`
}

// VerificationResult reports a verification-code lookup.
type VerificationResult struct {
	Valid   bool     `json:"valid"`
	Diploma *Diploma `json:"diploma,omitempty"`
	Expired bool     `json:"expired"`
	Message string   `json:"message"`
}

// DiplomaTypeStats is one group of the per-type stats aggregation.
type DiplomaTypeStats struct {
	DiplomaType  string  `bson:"_id" json:"diploma_type"`
	Total        int     `bson:"total" json:"total"`
	AverageGrade float64 `bson:"average_grade" json:"average_grade"`
	IssuedLast30 int     `bson:"issued_last_30" json:"issued_last_30_days"`
}

// DiplomaStats is the system-wide diploma summary.
type DiplomaStats struct {
	TotalDiplomas   int                `json:"total_diplomas"`
	ValidDiplomas   int                `json:"valid_diplomas"`
	ExpiredDiplomas int                `json:"expired_diplomas"`
	ByType          []DiplomaTypeStats `json:"by_type"`
}
