package usecase

import (
	"errors"
	"fmt"

	"ecshop/internal/domain/checkout"
	repo "ecshop/internal/repository"
)

// 他人の注文も「存在しない」扱いにする。
var ErrOrderNotFound = errors.New("order not found")

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

// storeError はドメインエラーはそのまま、それ以外は PersistenceError に包む。
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}
	if checkout.IsDomainError(err) {
		return err
	}

	conflict := errors.Is(err, repo.ErrConflict)
	var pe *checkout.PersistenceError
	if errors.As(err, &pe) {
		if conflict && !pe.Conflict {
			return &checkout.PersistenceError{Op: pe.Op, Conflict: true, Err: pe.Err}
		}
		return pe
	}
	return &checkout.PersistenceError{Op: op, Conflict: conflict, Err: err}
}
