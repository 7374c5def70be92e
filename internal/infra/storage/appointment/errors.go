package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	// (или не находится в ожидаемом статусе при обновлении)
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrSlotNotAvailable возвращается, когда БД отклонила пересекающуюся запись
	ErrSlotNotAvailable = errors.New("appointment.repository: slot not available")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
