package usecase

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/angushq/prospect-sync/internal/entity"
)

const maxAnswerLength = 10000

// ValidateSubmitSurveyInput checks the inbound shape. Short answer lists
// are fine (the pipeline pads them); a missing email is the only hard
// requirement.
func ValidateSubmitSurveyInput(input SubmitSurveyInput) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(input.Email) == "" {
		errs = append(errs, ValidationError{"email", "is required"})
	} else if _, err := mail.ParseAddress(input.Email); err != nil {
		errs = append(errs, ValidationError{"email", "is invalid"})
	}

	if len(input.Answers) > entity.AnswerCount {
		errs = append(errs, ValidationError{"answers", "must not exceed 6 entries"})
	}
	for i, a := range input.Answers {
		if len(a) > maxAnswerLength {
			errs = append(errs, ValidationError{"answers", fmt.Sprintf("entry %d is too long", i+1)})
		}
	}

	return errs
}
