package policy

import "errors"

// Rejection reasons, in the order the rules are evaluated. The first failing
// rule determines the error returned; callers surface exactly one reason.
//
// ReasonCode maps each reason to a stable short code for metrics labels.
var (
	// ErrInvalidRequest возвращается при отсутствующих обязательных параметрах
	ErrInvalidRequest = errors.New("policy: invalid request")

	// ErrFacilityUnavailable возвращается, когда помещение недоступно для новых броней
	ErrFacilityUnavailable = errors.New("policy: facility unavailable")

	// ErrInsufficientPrivilege возвращается, когда роль пользователя не проходит по уровню доступа
	ErrInsufficientPrivilege = errors.New("policy: insufficient privilege")

	// ErrInvalidInterval возвращается, когда начало интервала не раньше конца
	ErrInvalidInterval = errors.New("policy: invalid interval")

	// ErrTooShort возвращается, когда длительность меньше минимальной
	ErrTooShort = errors.New("policy: booking too short")

	// ErrTooLong возвращается, когда длительность больше максимальной
	ErrTooLong = errors.New("policy: booking too long")

	// ErrTooSoon возвращается при нарушении минимального срока предварительного бронирования
	ErrTooSoon = errors.New("policy: booking starts too soon")

	// ErrTooFarAhead возвращается при нарушении максимального окна бронирования
	ErrTooFarAhead = errors.New("policy: booking starts too far ahead")

	// ErrDailyLimitExceeded возвращается при превышении дневного лимита активных броней
	ErrDailyLimitExceeded = errors.New("policy: daily booking limit exceeded")

	// ErrUserTimeConflict возвращается при пересечении с другой бронью пользователя
	ErrUserTimeConflict = errors.New("policy: user has a conflicting booking")

	// ErrFacilityTimeConflict возвращается при пересечении с другой бронью помещения
	ErrFacilityTimeConflict = errors.New("policy: facility has a conflicting booking")

	// ErrOutsideBusinessHours возвращается, когда интервал выходит за рабочие часы
	ErrOutsideBusinessHours = errors.New("policy: outside business hours")
)

// ReasonCode returns a stable short code for a rejection reason, suitable for
// metrics labels. Unknown errors map to "internal".
func ReasonCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	case errors.Is(err, ErrFacilityUnavailable):
		return "facility_unavailable"
	case errors.Is(err, ErrInsufficientPrivilege):
		return "insufficient_privilege"
	case errors.Is(err, ErrInvalidInterval):
		return "invalid_interval"
	case errors.Is(err, ErrTooShort):
		return "too_short"
	case errors.Is(err, ErrTooLong):
		return "too_long"
	case errors.Is(err, ErrTooSoon):
		return "too_soon"
	case errors.Is(err, ErrTooFarAhead):
		return "too_far_ahead"
	case errors.Is(err, ErrDailyLimitExceeded):
		return "daily_limit_exceeded"
	case errors.Is(err, ErrUserTimeConflict):
		return "user_time_conflict"
	case errors.Is(err, ErrFacilityTimeConflict):
		return "facility_time_conflict"
	case errors.Is(err, ErrOutsideBusinessHours):
		return "outside_business_hours"
	default:
		return "internal"
	}
}
