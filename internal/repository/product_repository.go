package repository

import (
	"context"
	"errors"

	"ecshop/internal/domain/model"
)

var ErrNotFound = errors.New("not found")

// 商品の参照（カタログ管理は別サービス）。
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (model.Product, error)
}
