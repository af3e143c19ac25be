package registration

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestEventListUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want EventList
	}{
		{
			name: "native_array",
			raw:  `["quiz","hackathon"]`,
			want: EventList{"quiz", "hackathon"},
		},
		{
			name: "encoded_array_string",
			raw:  `"[\"quiz\",\"hackathon\"]"`,
			want: EventList{"quiz", "hackathon"},
		},
		{
			name: "bare_string_single_event",
			raw:  `"quiz"`,
			want: EventList{"quiz"},
		},
		{
			name: "array_drops_blank_entries",
			raw:  `["quiz","  ",""]`,
			want: EventList{"quiz"},
		},
		{
			name: "malformed_encoded_array_falls_back_to_single",
			raw:  `"[\"quiz\""`,
			want: EventList{`["quiz"`},
		},
		{
			name: "empty_array",
			raw:  `[]`,
			want: EventList{},
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			var got EventList

			if err := json.Unmarshal([]byte(tt.raw), &got); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}

			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEventListUnmarshalRejectsNonString(t *testing.T) {
	var got EventList

	if err := json.Unmarshal([]byte(`42`), &got); err == nil {
		t.Fatal("expected error for numeric selectedEvents")
	}
}

// The encoded-string form must round-trip to the same ordered sequence as
// the native array form.
func TestEventListRoundTripEquivalence(t *testing.T) {
	var native, encoded EventList

	if err := json.Unmarshal([]byte(`["a","b","c"]`), &native); err != nil {
		t.Fatalf("native: %v", err)
	}
	if err := json.Unmarshal([]byte(`"[\"a\",\"b\",\"c\"]"`), &encoded); err != nil {
		t.Fatalf("encoded: %v", err)
	}

	if !reflect.DeepEqual(native, encoded) {
		t.Fatalf("forms diverge: %v vs %v", native, encoded)
	}
}

func TestParseEventList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want EventList
	}{
		{"encoded_array", `["quiz","dance"]`, EventList{"quiz", "dance"}},
		{"bare_value", "quiz", EventList{"quiz"}},
		{"blank", "   ", EventList{}},
		{"bracket_but_invalid_json", "[not json", EventList{"[not json"}},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			got := ParseEventList(tt.raw)

			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func validRequest() CreateRegistrationRequest {
	return CreateRegistrationRequest{
		Name:           "A",
		Email:          "a@b.com",
		Contact:        "9876543210",
		College:        "X",
		Course:         "Y",
		Sem:            "1",
		SelectedEvents: EventList{"quiz"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*CreateRegistrationRequest)
		wantFields []string
	}{
		{
			name:       "valid",
			mutate:     func(r *CreateRegistrationRequest) {},
			wantFields: nil,
		},
		{
			name: "missing_scalars_all_reported",
			mutate: func(r *CreateRegistrationRequest) {
				r.Name = ""
				r.College = ""
			},
			wantFields: []string{"name", "college"},
		},
		{
			name: "bad_email",
			mutate: func(r *CreateRegistrationRequest) {
				r.Email = "not-an-email"
			},
			wantFields: []string{"email"},
		},
		{
			name: "email_with_spaces",
			mutate: func(r *CreateRegistrationRequest) {
				r.Email = "a b@c.com"
			},
			wantFields: []string{"email"},
		},
		{
			name: "contact_wrong_leading_digit",
			mutate: func(r *CreateRegistrationRequest) {
				r.Contact = "1234567890"
			},
			wantFields: []string{"contact"},
		},
		{
			name: "contact_too_short",
			mutate: func(r *CreateRegistrationRequest) {
				r.Contact = "987654321"
			},
			wantFields: []string{"contact"},
		},
		{
			name: "no_events",
			mutate: func(r *CreateRegistrationRequest) {
				r.SelectedEvents = EventList{}
			},
			wantFields: []string{"selectedEvents"},
		},
		{
			name: "invalid_contact_reported_even_with_other_fields_valid",
			mutate: func(r *CreateRegistrationRequest) {
				r.Contact = "5876543210"
			},
			wantFields: []string{"contact"},
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			req.Normalize()

			issues := req.Validate()

			if len(issues) != len(tt.wantFields) {
				t.Fatalf("got %d issues (%v), want %d", len(issues), issues, len(tt.wantFields))
			}

			for i, f := range tt.wantFields {
				if issues[i].Field != f {
					t.Fatalf("issue %d: got field %q, want %q", i, issues[i].Field, f)
				}
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	req := CreateRegistrationRequest{
		Name:    "  A  ",
		Email:   "  A@B.Com ",
		Contact: " 9876543210 ",
		College: " X ",
		Course:  " Y ",
		Sem:     " 1 ",
	}

	req.Normalize()

	if req.Email != "a@b.com" {
		t.Fatalf("email not lowered+trimmed: %q", req.Email)
	}
	if req.Name != "A" || req.Contact != "9876543210" || req.College != "X" {
		t.Fatalf("scalars not trimmed: %+v", req)
	}
}

func TestNewFromCreateRequestDefaults(t *testing.T) {
	req := validRequest()
	reg := NewFromCreateRequest(req, nil)

	if reg.ID == "" {
		t.Fatal("id not assigned")
	}
	if reg.IsPresent {
		t.Fatal("isPresent must default to false")
	}
	if reg.PaymentMethod != nil {
		t.Fatal("paymentMethod must default to unset")
	}
	if reg.RegistrationDate.IsZero() {
		t.Fatal("registrationDate not set")
	}
	if reg.IDPhotoPath != nil {
		t.Fatal("idPhotoPath must stay unset without an upload")
	}

	// the factory must copy, not alias, the event slice
	req.SelectedEvents[0] = "mutated"
	if reg.SelectedEvents[0] != "quiz" {
		t.Fatal("selectedEvents aliased the request slice")
	}
}

func TestPaymentMethodValid(t *testing.T) {
	for _, ok := range []string{"cash", "online"} {
		if !PaymentMethodValid(ok) {
			t.Fatalf("%q should be valid", ok)
		}
	}

	for _, bad := range []string{"crypto", "CASH", "", "upi"} {
		if PaymentMethodValid(bad) {
			t.Fatalf("%q should be invalid", bad)
		}
	}
}
