package models

// Роли пользователей
const (
	RoleHirer  = "hirer"
	RoleWorker = "worker"
)

// BookingStatus константы статусов заказов
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// PaymentStatus константы статусов оплаты (платёжный провайдер не подключён,
// поле ведётся как пассивный признак)
const (
	PaymentStatusUnpaid = "unpaid"
	PaymentStatusPaid   = "paid"
)

// AvailabilityStatus константы статусов занятости на дату
const (
	AvailabilityStatusAvailable   = "available"
	AvailabilityStatusUnavailable = "unavailable"
	AvailabilityStatusHoliday     = "holiday"
)

// ValidRoles список валидных ролей
var ValidRoles = map[string]struct{}{
	RoleHirer:  {},
	RoleWorker: {},
}

// ValidBookingStatuses список валидных статусов заказов
var ValidBookingStatuses = map[string]struct{}{
	BookingStatusPending:   {},
	BookingStatusConfirmed: {},
	BookingStatusCompleted: {},
	BookingStatusCancelled: {},
}

// ValidAvailabilityStatuses список валидных статусов занятости
var ValidAvailabilityStatuses = map[string]struct{}{
	AvailabilityStatusAvailable:   {},
	AvailabilityStatusUnavailable: {},
	AvailabilityStatusHoliday:     {},
}

// IsTerminalBookingStatus сообщает, является ли статус заказа конечным.
func IsTerminalBookingStatus(status string) bool {
	return status == BookingStatusCompleted || status == BookingStatusCancelled
}
