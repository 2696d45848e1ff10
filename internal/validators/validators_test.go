package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidUsername(t *testing.T) {
	for _, ok := range []string{"alice", "Anna Maria", "jo-el_99", "Jürgen"} {
		assert.True(t, ValidUsername(ok), ok)
	}
	for _, bad := range []string{"a.b", "bob!", "x@y", "semi;colon"} {
		assert.False(t, ValidUsername(bad), bad)
	}
}

func TestValidPhone(t *testing.T) {
	for _, ok := range []string{"123456789", "+49 151 1234", "030-1234"} {
		assert.True(t, ValidPhone(ok), ok)
	}
	for _, bad := range []string{"", "12a456", "++4912345", "(030)1234"} {
		assert.False(t, ValidPhone(bad), bad)
	}
}

func TestRegisterOn_UsesJSONNames(t *testing.T) {
	v := validator.New()
	require.NoError(t, RegisterOn(v))

	type payload struct {
		Name  string `json:"name" validate:"required,username_format"`
		Phone string `json:"phone" validate:"omitempty,phone_format"`
	}

	err := v.Struct(payload{Name: "bad.name", Phone: "abc"})
	require.Error(t, err)

	var fields []string
	for _, fe := range err.(validator.ValidationErrors) {
		fields = append(fields, fe.Field()+":"+fe.Tag())
	}
	assert.ElementsMatch(t, []string{"name:username_format", "phone:phone_format"}, fields)
}

func TestRegister_Idempotent(t *testing.T) {
	require.NoError(t, Register())
	require.NoError(t, Register())
}
