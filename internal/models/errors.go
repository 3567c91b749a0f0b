package models

import (
	"errors"
	"fmt"
)

// Ошибки предметной области. Репозитории и сервисы оборачивают их через
// fmt.Errorf("...: %w", ...), обработчики сопоставляют их с HTTP-статусами.
var (
	// ErrNotFound - смена, передача, локация или сотрудник не найдены.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateOffer - у исходной смены уже есть активная передача.
	ErrDuplicateOffer = errors.New("shift already has a pending offer")
	// ErrShiftLocked - смену с активной передачей нельзя менять или удалять.
	ErrShiftLocked = errors.New("shift has a pending offer and cannot be modified")
	// ErrForbidden - вызывающий не автор и не кандидат.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidState - операция над неактивной передачей.
	ErrInvalidState = errors.New("shift pass is not active")
	// ErrConflict - транзакция проиграла гонку за запись.
	ErrConflict = errors.New("concurrent update conflict")
	// ErrValidation - некорректные входные данные.
	ErrValidation = errors.New("validation failed")
	// ErrInternal - сбой хранилища, не связанный с бизнес-правилами.
	ErrInternal = errors.New("internal failure")
)

var domainErrors = []error{
	ErrNotFound,
	ErrDuplicateOffer,
	ErrShiftLocked,
	ErrForbidden,
	ErrInvalidState,
	ErrConflict,
	ErrValidation,
	ErrInternal,
}

// Wrap добавляет к ошибке контекст операции. Ошибки предметной области
// остаются узнаваемыми через errors.Is, всё остальное помечается ErrInternal.
func Wrap(op string, err error) error {
	for _, target := range domainErrors {
		if errors.Is(err, target) {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}
