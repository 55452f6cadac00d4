package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-friendly labels for error
// messages surfaced by the API and in bulk-import failure reasons.
var FieldLabels = map[string]string{
	"FirstName":         "first name",
	"LastName":          "last name",
	"Email":             "email",
	"Phone":             "phone",
	"Location":          "location",
	"Citizenship":       "citizenship",
	"ResumeURL":         "resume URL",
	"Status":            "status",
	"University":        "university",
	"Qualification":     "qualification",
	"ProficiencyLevel":  "proficiency level",
	"YearsOfExperience": "years of experience",
	"Skills":            "skills",
	"AppliedJob":        "applied job",
	"AppliedJobOther":   "applied job (other)",
	"ApplicationStatus": "application status",
	"Requirements":      "requirements",
	"Name":              "name",
	"Rating":            "rating",
	"Feedback":          "feedback",
	"NextSteps":         "next steps",
	"ShouldProgress":    "should progress",
	"JobApplications":   "job applications",
}

// FormatErrors converts a validator error into a compact, user-facing
// message listing each offending field and the rule it broke.
func FormatErrors(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		label := FieldLabels[fe.Field()]
		if label == "" {
			label = fe.Field()
		}
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", label))
		case "email":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid email address", label))
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s must be at least %s", label, fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s", label, fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s must be one of: %s", label, fe.Param()))
		case "valid_name":
			msgs = append(msgs, fmt.Sprintf("%s contains invalid characters", label))
		case "valid_phone":
			msgs = append(msgs, fmt.Sprintf("%s is not a valid phone number", label))
		case "url":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid URL", label))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", label, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
