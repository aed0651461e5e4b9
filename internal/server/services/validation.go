package services

import (
	"fmt"

	"github.com/dmitrijs2005/pressroom/internal/common"
	"github.com/dmitrijs2005/pressroom/internal/server/models"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

const (
	minRegisterPasswordLength = 6
	// bcrypt rejects longer secrets.
	maxPasswordBytes = 72
)

// maxBytes limits the byte length of a string or *string.
func maxBytes(n int) validation.Rule {
	return validation.By(func(value interface{}) error {
		v, _ := validation.Indirect(value)
		s, _ := v.(string)
		if len(s) > n {
			return fmt.Errorf("must be at most %d bytes long", n)
		}
		return nil
	})
}

func validationError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", common.ErrorValidation, err)
}

func validatePageQuery(q models.PageQuery) error {
	return validationError(validation.Errors{
		"page":          validation.Validate(q.Page, validation.Required, validation.Min(1)),
		"limit":         validation.Validate(q.Limit, validation.Required, validation.Min(1), validation.Max(models.MaxPageLimit)),
		"publishedDate": validation.Validate(q.Filter.PublishedDate, validation.Date(models.DateLayout)),
	}.Filter())
}

func validateDraft(d models.ArticleDraft) error {
	return validationError(validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required),
		validation.Field(&d.Description, validation.Required),
		validation.Field(&d.Author, validation.Required),
		validation.Field(&d.PublishedDate, validation.Required, validation.Date(models.DateLayout)),
	))
}

func validateArticlePatch(p models.ArticlePatch) error {
	return validationError(validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.NilOrNotEmpty),
		validation.Field(&p.Description, validation.NilOrNotEmpty),
		validation.Field(&p.Author, validation.NilOrNotEmpty),
		validation.Field(&p.PublishedDate, validation.NilOrNotEmpty, validation.Date(models.DateLayout)),
	))
}

func validateCredentials(email, password string) error {
	return validationError(validation.Errors{
		"email":    validation.Validate(email, validation.Required, is.EmailFormat),
		"password": validation.Validate(password, validation.Required, maxBytes(maxPasswordBytes)),
	}.Filter())
}

func validateUserPatch(p models.UserPatch) error {
	return validationError(validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&p.Password, validation.NilOrNotEmpty, maxBytes(maxPasswordBytes)),
	))
}
