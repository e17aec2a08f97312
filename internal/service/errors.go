package service

import (
	"errors"

	"github.com/quocanhngo/focushub/internal/model"
	"gorm.io/gorm"
)

// lookupError maps a repository lookup failure to an AppError
func lookupError(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.NewNotFoundError(resource, id)
	}
	return model.NewInternalError(err)
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// asAppError passes AppErrors through and wraps anything else as internal
func asAppError(err error) error {
	var appErr *model.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return model.NewInternalError(err)
}
