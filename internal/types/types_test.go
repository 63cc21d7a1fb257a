package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyDraft(t *testing.T) {
	d := EmptyDraft()

	assert.Empty(t, d.Name)
	assert.Empty(t, d.Email)
	assert.Empty(t, d.PhoneNumber)
	assert.Equal(t, GenderMale, d.Gender)
}

func TestGenderValid(t *testing.T) {
	for _, g := range Genders {
		assert.True(t, g.Valid(), g)
	}
	assert.False(t, Gender("").Valid())
	assert.False(t, Gender("Male").Valid())
}

func TestDraftRoundTrip(t *testing.T) {
	s := Student{ID: 4, Name: "Ada", Email: "ada@x.com", PhoneNumber: "555", Gender: GenderFemale}
	d := DraftFrom(s)

	assert.Equal(t, StudentUpdate{Name: "Ada", Email: "ada@x.com", PhoneNumber: "555", Gender: GenderFemale}, d.Update())

	ins := d.Insert()
	require.NotNil(t, ins.PhoneNumber)
	require.NotNil(t, ins.Gender)
	assert.Equal(t, "555", *ins.PhoneNumber)
	assert.Equal(t, GenderFemale, *ins.Gender)

	// The insert payload holds copies.
	d.PhoneNumber = "changed"
	assert.Equal(t, "555", *ins.PhoneNumber)
}

func TestInsertPayloadOmitsUnsetFields(t *testing.T) {
	raw, err := json.Marshal(StudentInsert{Name: "Ada", Email: "ada@x.com"})
	require.NoError(t, err)

	assert.JSONEq(t, `{"name":"Ada","email":"ada@x.com"}`, string(raw))
	assert.NotContains(t, string(raw), `"id"`)
}
