package attendance

import (
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/presence/core"
)

const (
	minTarget = 1
	maxTarget = 100

	// DefaultTarget is suggested to collaborators creating a course without a target.
	DefaultTarget = 75
)

var (
	courseNameTag  = "coursename"
	courseNameText = "Course name is required"

	targetTag  = "attendancetarget"
	targetText = "Attendance target must be between 1% and 100%"
)

// register custom validators
func init() {
	_ = core.Validate.RegisterValidation(courseNameTag, courseNameValidation)
	core.RegisterCustomTranslation(courseNameTag, courseNameText)

	_ = core.Validate.RegisterValidation(targetTag, targetValidation)
	core.RegisterCustomTranslation(targetTag, targetText)
}

// Custom Validators

// courseNameValidation rejects blank names.
func courseNameValidation(fl validator.FieldLevel) bool {
	if name, ok := fl.Field().Interface().(string); ok {
		return core.CleanString(name) != ""
	}
	return false
}

// targetValidation only allows percentages within [minTarget, maxTarget].
func targetValidation(fl validator.FieldLevel) bool {
	if target, ok := fl.Field().Interface().(int); ok {
		return target >= minTarget && target <= maxTarget
	}
	return false
}
