package workspace

import (
	"context"
	"regexp"
	"strings"

	"github.com/campainly/campaigner/pkg/api"
	"github.com/campainly/campaigner/pkg/constants"
	"github.com/campainly/campaigner/pkg/errors"
	"github.com/campainly/campaigner/pkg/logging"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^0[1-9]\d{8}$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// ValidateContact checks that every field is filled, the email looks like
// an address and the phone is an Israeli number once separators are
// removed.
func ValidateContact(d api.ContactDetails) error {
	if strings.TrimSpace(d.FullName) == "" || strings.TrimSpace(d.PhoneNumber) == "" || strings.TrimSpace(d.Email) == "" {
		return &errors.ValidationError{Message: errAllFieldsMissing}
	}
	if !emailPattern.MatchString(d.Email) {
		return errors.NewValidationError("email", d.Email, errInvalidEmail)
	}
	if !phonePattern.MatchString(nonDigits.ReplaceAllString(d.PhoneNumber, "")) {
		return errors.NewValidationError("phone_number", d.PhoneNumber, errInvalidPhone)
	}
	return nil
}

// SubmitContactDetails validates d and sends it in the background. Only a
// validation failure is returned; the outcome of the request is logged.
func (w *Workspace) SubmitContactDetails(ctx context.Context, d api.ContactDetails) error {
	if err := ValidateContact(d); err != nil {
		return err
	}

	bg := context.WithoutCancel(ctx)
	w.background.Go(func() {
		ctx, cancel := context.WithTimeout(bg, constants.DefaultHTTPTimeout)
		defer cancel()

		log := logging.FromContext(ctx)
		if err := w.backend.SubmitContactDetails(ctx, d); err != nil {
			log.Warn().Err(err).Msg("Contact details were not saved")
			return
		}
		log.Info().Msg("Contact details saved")
	})
	return nil
}
