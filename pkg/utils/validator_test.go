package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAggregatesAllViolations(t *testing.T) {
	type input struct {
		Title string `json:"title" validate:"required,max=10"`
		Email string `json:"email" validate:"required,email"`
		Link  string `json:"link" validate:"omitempty,url"`
	}

	v := NewValidator()
	resp := v.Validate(input{Email: "not-an-email", Link: "not a url"})
	require.NotNil(t, resp)
	require.Len(t, resp.Errors, 3, "every violated field is reported, not just the first")

	fields := make([]string, len(resp.Errors))
	for i, e := range resp.Errors {
		fields[i] = e.Field
	}
	assert.Contains(t, fields, "title")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "link")
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	type input struct {
		DisplayName string `json:"display_name" validate:"required"`
	}

	v := NewValidator()
	resp := v.Validate(input{})
	require.NotNil(t, resp)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "display_name", resp.Errors[0].Field)
	assert.Equal(t, "display_name is required", resp.Errors[0].Msg)
}

func TestValidateReturnsNilForValidInput(t *testing.T) {
	type input struct {
		Slug  string `json:"slug" validate:"required,slug"`
		Color string `json:"color" validate:"required,hexcolor"`
	}

	v := NewValidator()
	assert.Nil(t, v.Validate(input{Slug: "my-portfolio-2", Color: "#A1B2C3"}))
}

func TestSlugValidation(t *testing.T) {
	type input struct {
		Slug string `json:"slug" validate:"required,slug"`
	}

	v := NewValidator()
	for _, bad := range []string{"UPPER", "has space", "-leading", "trailing-", "double--hyphen", "under_score"} {
		assert.NotNil(t, v.Validate(input{Slug: bad}), bad)
	}
	for _, good := range []string{"simple", "two-words", "v2-release-notes"} {
		assert.Nil(t, v.Validate(input{Slug: good}), good)
	}
}

func TestHexColorValidation(t *testing.T) {
	type input struct {
		Color string `json:"color" validate:"required,hexcolor"`
	}

	v := NewValidator()
	assert.Nil(t, v.Validate(input{Color: "#fff"}))
	assert.Nil(t, v.Validate(input{Color: "#00ADD8"}))
	assert.NotNil(t, v.Validate(input{Color: "fff"}))
	assert.NotNil(t, v.Validate(input{Color: "#12345"}))
	assert.NotNil(t, v.Validate(input{Color: "#gggggg"}))
}

func TestErrorResponseJoinsMessages(t *testing.T) {
	resp := &ErrorResponse{Errors: []CError{
		{Field: "a", Msg: "a is required"},
		{Field: "b", Msg: "b must be a valid URL"},
	}}
	assert.Equal(t, "a is required; b must be a valid URL", resp.Error())
}
