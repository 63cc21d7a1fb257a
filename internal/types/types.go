// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// the manager, storage backends and HTTP handlers all import types
// without depending on each other.
package types

// Gender is the two-value enumeration accepted by the students table.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// Genders lists the accepted values in the order the form shows them.
var Genders = []Gender{GenderMale, GenderFemale}

// Valid reports whether g is one of the enumerated values.
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Student represents a row of the students table as the store returns it.
//
// ID is assigned by the store and never changes afterwards. Every value
// coming back from a storage backend carries one.
type Student struct {
	ID          int64  `json:"id"           db:"id"`
	Name        string `json:"name"         db:"name"`
	Email       string `json:"email"        db:"email"`
	PhoneNumber string `json:"phone_number" db:"phone_number"`
	Gender      Gender `json:"gender"       db:"gender"`
}

// StudentInsert is the payload for creating a row.
//
// There is deliberately no ID field: the store assigns it. PhoneNumber and
// Gender are optional here; when nil they are left out of the request and
// the column default applies.
type StudentInsert struct {
	Name        string  `json:"name"                   validate:"required"`
	Email       string  `json:"email"                  validate:"required"`
	PhoneNumber *string `json:"phone_number,omitempty"`
	Gender      *Gender `json:"gender,omitempty"       validate:"omitempty,oneof=male female"`
}

// StudentUpdate is the payload for overwriting a row. All four fields are
// sent together; partial updates are not supported.
type StudentUpdate struct {
	Name        string `json:"name"         validate:"required"`
	Email       string `json:"email"        validate:"required"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Gender      Gender `json:"gender"       validate:"required,oneof=male female"`
}

// Draft is the staged, not yet submitted form values for one record.
//
// The validate tags mirror the checks the HTML form applies before it
// lets the user submit.
type Draft struct {
	Name        string `json:"name"         validate:"required"`
	Email       string `json:"email"        validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required"`
	Gender      Gender `json:"gender"       validate:"required,oneof=male female"`
}

// EmptyDraft returns the value the form resets to: blank text fields and
// the first gender option selected.
func EmptyDraft() Draft {
	return Draft{Gender: GenderMale}
}

// DraftFrom copies the editable fields of s.
func DraftFrom(s Student) Draft {
	return Draft{
		Name:        s.Name,
		Email:       s.Email,
		PhoneNumber: s.PhoneNumber,
		Gender:      s.Gender,
	}
}

// Insert converts the draft to an insert payload.
func (d Draft) Insert() StudentInsert {
	phone := d.PhoneNumber
	gender := d.Gender
	return StudentInsert{
		Name:        d.Name,
		Email:       d.Email,
		PhoneNumber: &phone,
		Gender:      &gender,
	}
}

// Update converts the draft to an update payload.
func (d Draft) Update() StudentUpdate {
	return StudentUpdate{
		Name:        d.Name,
		Email:       d.Email,
		PhoneNumber: d.PhoneNumber,
		Gender:      d.Gender,
	}
}
