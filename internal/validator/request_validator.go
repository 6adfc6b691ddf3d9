// Package validator はリクエストの入力チェックを行う（echo.Validator）。
package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// 入力が不正
var ErrInvalidInput = errors.New("invalid input")

type RequestValidator struct {
	v *validator.Validate
}

func New() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())

	//エラーのフィールド名はjson/queryタグの名前にする
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})

	return &RequestValidator{v: v}
}

// Validate は echo.Validator の実装。
func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.v.Struct(i); err != nil {
		return &FieldError{Field: firstField(err), Err: err}
	}
	return nil
}

// どのフィールドが不正かを持つエラー。
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return ErrInvalidInput.Error()
	}
	return "invalid " + e.Field
}

func (e *FieldError) Unwrap() []error {
	return []error{ErrInvalidInput, e.Err}
}

func firstField(err error) string {
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		return ves[0].Field()
	}
	return ""
}
