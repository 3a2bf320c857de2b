package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "blogly/internal/errors"
)

var validate = newValidator()

// UserInput carries the editable attributes of a user.
type UserInput struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name" validate:"required,max=50"`
	ImageURL  string `json:"image_url" validate:"omitempty,max=500"`
}

// PostInput carries the editable attributes of a post and its desired tag set.
// Tag ids that do not exist are ignored.
type PostInput struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	TagIDs  []uint `json:"tag_ids"`
}

// TagInput carries the editable attributes of a tag.
type TagInput struct {
	Name string `json:"name" validate:"required,max=50"`
}

func (in *UserInput) normalize() {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.ImageURL = strings.TrimSpace(in.ImageURL)
}

// imageURL maps an empty form value to NULL.
func (in *UserInput) imageURL() *string {
	if in.ImageURL == "" {
		return nil
	}
	url := in.ImageURL
	return &url
}

func (in *PostInput) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Content = strings.TrimSpace(in.Content)
}

func (in *TagInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks in against its validate tags and reports failures as
// ErrValidation with one message per field.
func Validate(in interface{}) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.Validation(err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return apperrors.Validation(errors.New(strings.Join(msgs, "; ")))
}
