package types

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MinResumeTextLength is the shortest resume text accepted for analysis.
const MinResumeTextLength = 20

// AnalyzeResumeRequest is the body of a resume analysis request.
type AnalyzeResumeRequest struct {
	ResumeText         string `json:"resume_text" validate:"required,min=20"`
	TargetRole         string `json:"target_role,omitempty" validate:"max=200"`
	JobDescriptionText string `json:"job_description_text,omitempty"`
	Source             string `json:"source,omitempty" validate:"omitempty,oneof=text upload"`
}

// StartInterviewRequest is the body of an interview start request.
type StartInterviewRequest struct {
	InterviewType string `json:"interview_type,omitempty"`
	Difficulty    string `json:"difficulty,omitempty"`
	TargetRole    string `json:"target_role,omitempty" validate:"max=200"`
}

// TurnRequest is the body of an interview turn.
type TurnRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// GenerateRoadmapRequest is the body of a roadmap generation request.
type GenerateRoadmapRequest struct {
	TargetRole string `json:"target_role,omitempty" validate:"max=200"`
	SkillLevel string `json:"skill_level,omitempty" validate:"omitempty,oneof=beginner intermediate advanced"`
}

// MilestoneRequest toggles or sets a milestone. A nil Done flips the current value.
type MilestoneRequest struct {
	MilestoneID string `json:"milestone_id" validate:"required"`
	Done        *bool  `json:"done,omitempty"`
}

// OnboardingRequest is the body of an onboarding save.
type OnboardingRequest struct {
	Status         string `json:"status" validate:"omitempty,oneof=student graduate professional career_changer"`
	TargetRole     string `json:"target_role" validate:"max=200"`
	SkillLevel     string `json:"skill_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	GraduationYear *int   `json:"graduation_year,omitempty" validate:"omitempty,min=1950,max=2100"`
}

// Validate validates the AnalyzeResumeRequest using the validator.
func (r *AnalyzeResumeRequest) Validate() error {
	r.ResumeText = strings.TrimSpace(r.ResumeText)
	validate := validator.New()
	return toValidationError(validate.Struct(r))
}

// Validate validates the StartInterviewRequest using the validator.
func (r *StartInterviewRequest) Validate() error {
	validate := validator.New()
	return toValidationError(validate.Struct(r))
}

// Validate validates the TurnRequest using the validator.
func (r *TurnRequest) Validate() error {
	r.Answer = strings.TrimSpace(r.Answer)
	validate := validator.New()
	return toValidationError(validate.Struct(r))
}

// Validate validates the GenerateRoadmapRequest using the validator.
func (r *GenerateRoadmapRequest) Validate() error {
	r.SkillLevel = strings.ToLower(strings.TrimSpace(r.SkillLevel))
	validate := validator.New()
	return toValidationError(validate.Struct(r))
}

// Validate validates the MilestoneRequest using the validator.
func (r *MilestoneRequest) Validate() error {
	validate := validator.New()
	return toValidationError(validate.Struct(r))
}

// Validate validates the OnboardingRequest using the validator.
func (r *OnboardingRequest) Validate() error {
	r.SkillLevel = strings.ToLower(strings.TrimSpace(r.SkillLevel))
	validate := validator.New()
	return toValidationError(validate.Struct(r))
}

// toValidationError converts the first validator failure into an ErrValidation.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &ErrValidation{Field: fieldName(fe.Field()), Message: describeTag(fe)}
	}
	return &ErrValidation{Field: "(root)", Message: err.Error()}
}

var jsonFieldNames = map[string]string{
	"ResumeText":     "resume_text",
	"TargetRole":     "target_role",
	"Answer":         "answer",
	"SkillLevel":     "skill_level",
	"MilestoneID":    "milestone_id",
	"Status":         "status",
	"GraduationYear": "graduation_year",
	"Source":         "source",
}

func fieldName(goName string) string {
	if n, ok := jsonFieldNames[goName]; ok {
		return n
	}
	return goName
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param() + unit(fe)
	case "max":
		return "must be at most " + fe.Param() + unit(fe)
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}

func unit(fe validator.FieldError) string {
	if fe.Kind() == reflect.String {
		return " characters"
	}
	return ""
}
