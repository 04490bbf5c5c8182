package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGradeLabelBands(t *testing.T) {
	tests := []struct {
		grade    float64
		expected string
	}{
		{5.0, "Excelente"},
		{4.6, "Excelente"},
		{4.5, "Sobresaliente"},
		{4.0, "Sobresaliente"},
		{3.9, "Bueno"},
		{3.5, "Bueno"},
		{3.4, "Aceptable"},
		{3.0, "Aceptable"},
		{2.9, "Insuficiente"},
		{2.0, "Insuficiente"},
		{1.9, "Deficiente"},
		{1.0, "Deficiente"},
		{0.9, "No Aplica"},
		{5.1, "No Aplica"},
		{5.5, "No Aplica"},
		{6.0, "No Aplica"},
		{-1.0, "No Aplica"},
		{0, "No Aplica"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, GradeLabel(tt.grade), "grade %.1f", tt.grade)
	}
}

func TestInternationalEquivalence(t *testing.T) {
	assert.Equal(t, "A+ (95-100%)", InternationalEquivalence(4.8))
	assert.Equal(t, "A (85-94%)", InternationalEquivalence(4.0))
	assert.Equal(t, "B+ (75-84%)", InternationalEquivalence(3.5))
	assert.Equal(t, "B (65-74%)", InternationalEquivalence(3.0))
	assert.Equal(t, "C (55-64%)", InternationalEquivalence(2.0))
	assert.Equal(t, "F (<55%)", InternationalEquivalence(1.5))
}

func TestValidDiplomaType(t *testing.T) {
	for _, dt := range DiplomaTypes {
		assert.True(t, ValidDiplomaType(dt))
	}
	assert.False(t, ValidDiplomaType("degree"))
	assert.False(t, ValidDiplomaType(""))
	assert.False(t, ValidDiplomaType("Curso"))
}

func TestDiplomaIsExpired(t *testing.T) {
	now := time.Now()

	d := Diploma{}
	assert.False(t, d.IsExpired(now), "no expiry date means the diploma never expires")

	past := now.Add(-time.Hour)
	d.ExpiryDate = &past
	assert.True(t, d.IsExpired(now))

	future := now.Add(time.Hour)
	d.ExpiryDate = &future
	assert.False(t, d.IsExpired(now))
}

func TestDiplomaEquivalence(t *testing.T) {
	d := Diploma{}
	assert.Equal(t, "N/A", d.Equivalence())

	d.FinalGrade = 4.7
	assert.Equal(t, "A+ (95-100%)", d.Equivalence())
}

func TestTemplateApplyDefaults(t *testing.T) {
	tpl := DiplomaTemplate{
		DiplomaType: "curso",
		CourseID:    "python-101",
		Name:        "Diploma Python",
		Title:       "Diploma en Python",
		Requirements: []DiplomaRequirement{
			{AchievementName: "python_basics", CourseID: "python-101"},
			{AchievementName: "python_advanced", CourseID: "python-101", MinimumGrade: 4.0},
		},
	}

	tpl.ApplyDefaults()

	assert.Equal(t, DefaultInstitution, tpl.Institution)
	assert.Equal(t, DefaultModality, tpl.Modality)
	assert.Equal(t, DefaultEducationLevel, tpl.EducationLevel)
	assert.Equal(t, ApprovalThreshold, tpl.Requirements[0].MinimumGrade)
	assert.Equal(t, 4.0, tpl.Requirements[1].MinimumGrade, "explicit minimums are kept")
}

func TestTemplateApplyDefaultsKeepsExplicitValues(t *testing.T) {
	tpl := DiplomaTemplate{
		Institution:    "Universidad Nacional",
		Modality:       "Presencial",
		EducationLevel: "Profesional",
	}

	tpl.ApplyDefaults()

	assert.Equal(t, "Universidad Nacional", tpl.Institution)
	assert.Equal(t, "Presencial", tpl.Modality)
	assert.Equal(t, "Profesional", tpl.EducationLevel)
}

func TestTemplateValidate(t *testing.T) {
	tpl := DiplomaTemplate{
		DiplomaType: "curso",
		Requirements: []DiplomaRequirement{
			{AchievementName: "python_basics", CourseID: "python-101", MinimumGrade: 3.0},
		},
	}
	assert.NoError(t, tpl.Validate())

	tpl.DiplomaType = "degree"
	assert.ErrorIs(t, tpl.Validate(), ErrInvalidData)

	tpl.DiplomaType = "curso"
	tpl.Requirements = nil
	assert.ErrorIs(t, tpl.Validate(), ErrInvalidData)
}
