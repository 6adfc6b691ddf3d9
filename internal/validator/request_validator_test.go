package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleQuery struct {
	Page     int `query:"page" validate:"min=1"`
	PageSize int `query:"page_size" validate:"min=1,max=100"`
}

type sampleBody struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int64 `json:"quantity" validate:"gte=1"`
}

func TestRequestValidator(t *testing.T) {
	rv := New()

	tests := []struct {
		name  string
		in    interface{}
		field string
	}{
		{"valid query", &sampleQuery{Page: 1, PageSize: 10}, ""},
		{"page zero", &sampleQuery{Page: 0, PageSize: 10}, "page"},
		{"page size too large", &sampleQuery{Page: 2, PageSize: 101}, "page_size"},
		{"valid body", &sampleBody{ProductID: 3, Quantity: 1}, ""},
		{"missing product", &sampleBody{Quantity: 1}, "product_id"},
		{"zero quantity", &sampleBody{ProductID: 3}, "quantity"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rv.Validate(tt.in)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}

			var fe *FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
			assert.Equal(t, "invalid "+tt.field, err.Error())
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}
