package service

import (
	"errors"

	"github.com/google/uuid"

	"github.com/innies-app/innies-backend/internal/pkg/apperror"
)

// requireActor проверяет, что вызывающий аутентифицирован.
func requireActor(actorID uuid.UUID) error {
	if actorID == uuid.Nil {
		return apperror.ErrUnauthorized
	}
	return nil
}

// translate заменяет сентинел репозитория на доменную ошибку, остальные ошибки возвращает как есть.
func translate(err, repoErr error, appErr *apperror.AppError) error {
	if errors.Is(err, repoErr) {
		return appErr
	}
	return err
}
