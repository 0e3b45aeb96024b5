package leads

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	MsgInvalidEmail  = "Please enter a valid email address"
	MsgInvalidAmount = "Amount must be a positive number"
	MsgInvalidStatus = "Please choose a status"
)

var (
	emailPattern  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	amountPattern = regexp.MustCompile(`^\d*\.?\d*$`)
)

// ValidateEmail reports whether email looks like local@domain.tld.
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidateNonNegativeNumber accepts "" (the field is optional) or a plain
// non-negative decimal such as "12", "0.5", "3.".
func ValidateNonNegativeNumber(value string) bool {
	if value == "" {
		return true
	}
	trimmed := strings.TrimSpace(value)
	if trimmed == "" || trimmed == "." {
		return false
	}
	if !amountPattern.MatchString(trimmed) {
		return false
	}
	num, err := strconv.ParseFloat(trimmed, 64)
	return err == nil && num >= 0
}

// EditForm holds the editable fields of the detail panel as typed.
type EditForm struct {
	Email  string `json:"email"`
	Status Status `json:"status"`
	Amount string `json:"amount"`
}

// NewEditForm fills a form from a lead.
func NewEditForm(l Lead) EditForm {
	f := EditForm{Email: l.Email, Status: l.Status}
	if l.Amount != nil {
		f.Amount = strconv.FormatFloat(*l.Amount, 'f', -1, 64)
	}
	return f
}

// Validate returns validation.Errors keyed by "email", "status" and "amount".
func (f EditForm) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Email,
			validation.Required.Error(MsgInvalidEmail),
			validation.Match(emailPattern).Error(MsgInvalidEmail),
		),
		validation.Field(&f.Status,
			validation.By(func(v interface{}) error {
				if s, _ := v.(Status); !s.Valid() {
					return errors.New(MsgInvalidStatus)
				}
				return nil
			}),
		),
		validation.Field(&f.Amount,
			validation.By(func(v interface{}) error {
				if s, _ := v.(string); !ValidateNonNegativeNumber(s) {
					return errors.New(MsgInvalidAmount)
				}
				return nil
			}),
		),
	)
}

// FieldErrors flattens a Validate error into field -> message. A nil error gives
// an empty map.
func FieldErrors(err error) map[string]string {
	out := make(map[string]string)
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		if err != nil {
			out[""] = err.Error()
		}
		return out
	}
	for field, e := range verrs {
		if e != nil {
			out[field] = e.Error()
		}
	}
	return out
}

// Update validates the form and converts it to a LeadUpdate. A blank amount
// clears the lead's amount.
func (f EditForm) Update() (LeadUpdate, error) {
	if err := f.Validate(); err != nil {
		return LeadUpdate{}, err
	}
	email := f.Email
	status := f.Status
	u := LeadUpdate{Email: &email, Status: &status}
	if strings.TrimSpace(f.Amount) == "" {
		u.ClearAmount = true
		return u, nil
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(f.Amount), 64)
	if err != nil {
		return LeadUpdate{}, validation.Errors{"amount": errors.New(MsgInvalidAmount)}
	}
	u.Amount = &amount
	return u, nil
}
