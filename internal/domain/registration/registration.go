package registration

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Registration struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Contact          string    `json:"contact"`
	College          string    `json:"college"`
	Course           string    `json:"course"`
	Sem              string    `json:"sem"`
	SelectedEvents   []string  `json:"selectedEvents"`
	IDPhotoPath      *string   `json:"idPhotoPath,omitempty"`
	IsPresent        bool      `json:"isPresent"`
	PaymentMethod    *string   `json:"paymentMethod"`
	RegistrationDate time.Time `json:"registrationDate"`
}

var ErrDuplicateEmail = errors.New("email already registered")
var ErrNotFound = errors.New("registration not found")
var ErrInvalidPaymentMethod = errors.New("invalid payment method")

var (
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	contactRe = regexp.MustCompile(`^[6-9]\d{9}$`)
)

const (
	PaymentCash   = "cash"
	PaymentOnline = "online"
)

// PaymentMethodValid reports whether s is an accepted payment method.
// Clearing the method back to unset is handled separately (nil pointer).
func PaymentMethodValid(s string) bool {
	return s == PaymentCash || s == PaymentOnline
}

// EventList is the wire type for selectedEvents. Clients send it as a JSON
// array of strings, as a string holding an encoded JSON array (multipart
// forms do this), or as a bare string meaning a single event.
type EventList []string

func (l *EventList) UnmarshalJSON(data []byte) error {
	var arr []string

	if err := json.Unmarshal(data, &arr); err == nil {
		*l = normalizeEvents(arr)
		return nil
	}

	var s string

	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	*l = ParseEventList(s)
	return nil
}

// ParseEventList normalizes a form-encoded selectedEvents value: an encoded
// JSON array decodes to its elements, anything else is one event name.
func ParseEventList(raw string) EventList {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return EventList{}
	}

	if strings.HasPrefix(raw, "[") {
		var arr []string

		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			return normalizeEvents(arr)
		}
	}

	return EventList{raw}
}

func normalizeEvents(in []string) EventList {
	out := make(EventList, 0, len(in))

	for _, e := range in {
		e = strings.TrimSpace(e)

		if e != "" {
			out = append(out, e)
		}
	}

	return out
}

type CreateRegistrationRequest struct {
	Name           string    `json:"name" form:"name"`
	Email          string    `json:"email" form:"email"`
	Contact        string    `json:"contact" form:"contact"`
	College        string    `json:"college" form:"college"`
	Course         string    `json:"course" form:"course"`
	Sem            string    `json:"sem" form:"sem"`
	SelectedEvents EventList `json:"selectedEvents" form:"-"`
}

// Normalize trims every scalar field and lower-cases the email. Run before
// Validate so the regexes see canonical input.
func (r *CreateRegistrationRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Contact = strings.TrimSpace(r.Contact)
	r.College = strings.TrimSpace(r.College)
	r.Course = strings.TrimSpace(r.Course)
	r.Sem = strings.TrimSpace(r.Sem)
}

type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate checks the request after Normalize. Missing required fields are
// all reported at once; format checks only run on present values.
func (r *CreateRegistrationRequest) Validate() []FieldIssue {
	var issues []FieldIssue

	required := []struct {
		field string
		value string
	}{
		{"name", r.Name},
		{"email", r.Email},
		{"contact", r.Contact},
		{"college", r.College},
		{"course", r.Course},
		{"sem", r.Sem},
	}

	for _, f := range required {
		if f.value == "" {
			issues = append(issues, FieldIssue{Field: f.field, Message: "is required"})
		}
	}

	if r.Email != "" && !emailRe.MatchString(r.Email) {
		issues = append(issues, FieldIssue{Field: "email", Message: "must be a valid email address"})
	}

	if r.Contact != "" && !contactRe.MatchString(r.Contact) {
		issues = append(issues, FieldIssue{Field: "contact", Message: "must be a 10-digit number starting with 6-9"})
	}

	if len(r.SelectedEvents) == 0 {
		issues = append(issues, FieldIssue{Field: "selectedEvents", Message: "at least one event must be selected"})
	}

	return issues
}

// NewFromCreateRequest builds a Registration from a validated request.
// Attendance and payment always start unset, only admin operations move them.
func NewFromCreateRequest(req CreateRegistrationRequest, idPhotoPath *string) Registration {
	return Registration{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Email:            req.Email,
		Contact:          req.Contact,
		College:          req.College,
		Course:           req.Course,
		Sem:              req.Sem,
		SelectedEvents:   append([]string(nil), req.SelectedEvents...),
		IDPhotoPath:      idPhotoPath,
		IsPresent:        false,
		PaymentMethod:    nil,
		RegistrationDate: time.Now().UTC(),
	}
}
