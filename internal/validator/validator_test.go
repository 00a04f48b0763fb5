package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStruct struct {
	Username string `validate:"required,min=3"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func TestValidate_Success(t *testing.T) {
	s := testStruct{Username: "alice", Email: "alice@example.com", Password: "Sup3rSecret"}
	err := Validate(s)
	assert.NoError(t, err)
}

func TestValidate_MissingRequired(t *testing.T) {
	s := testStruct{Email: "alice@example.com", Password: "Sup3rSecret"}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Username")
	assert.Equal(t, "is required", fields["Username"])
}

func TestValidate_InvalidEmail(t *testing.T) {
	s := testStruct{Username: "alice", Email: "not-an-email", Password: "Sup3rSecret"}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Email")
	assert.Equal(t, "must be a valid email address", fields["Email"])
}

func TestValidate_TooShort(t *testing.T) {
	s := testStruct{Username: "al", Email: "alice@example.com", Password: "Sup3rSecret"}
	err := Validate(s)
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	fields := valErr.Fields()
	assert.Contains(t, fields, "Username")
	assert.Contains(t, fields["Username"], "at least 3")
}

func TestValidationError_ErrorString(t *testing.T) {
	err := Validate(testStruct{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field 'Username' is required")
}
