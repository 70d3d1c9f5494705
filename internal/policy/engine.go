// Package policy implements the booking policy engine: the ordered rule set
// that decides whether a reservation request may be granted.
//
// Every check is a pure function of the supplied snapshots and the injected
// current time, so the engine carries no state and is deterministic under test.
// The privilege mapping in this package is the single authoritative source;
// other components must query the engine instead of re-implementing it.
package policy

import (
	"time"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
)

// Engine evaluates booking requests against the facility booking rules
type Engine struct{}

// NewEngine создает новый экземпляр policy engine
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate applies the full rule set to a booking request. Rules run in a fixed
// order and the first failing rule determines the returned error; nil means the
// request is approved.
//
// userActive and facilityActive are snapshots of the user's and the facility's
// active bookings, taken by the caller inside its critical section.
func (e *Engine) Evaluate(
	user *domain.User,
	facility *domain.Facility,
	start, end time.Time,
	now time.Time,
	userActive []*domain.Booking,
	facilityActive []*domain.Booking,
) error {
	// 1. Обязательные параметры
	if user == nil || facility == nil || start.IsZero() || end.IsZero() {
		return ErrInvalidRequest
	}

	// 2. Статус помещения
	if !facility.IsBookable() {
		return ErrFacilityUnavailable
	}

	// 3. Уровень доступа
	if !e.hasRequiredPrivilege(user.Role, facility.Privilege) {
		return ErrInsufficientPrivilege
	}

	// 4. Границы длительности
	if !start.Before(end) {
		return ErrInvalidInterval
	}
	d := end.Sub(start)
	if d < domain.MinBookingDuration {
		return ErrTooShort
	}
	if d > domain.MaxBookingDuration {
		return ErrTooLong
	}

	// 5. Минимальный срок предварительного бронирования (равенство допускается)
	if start.Before(now.Add(domain.MinAdvanceNotice)) {
		return ErrTooSoon
	}

	// 6. Максимальное окно бронирования (граница: тот же календарный день допускается)
	boundary := now.Add(domain.MaxAdvanceWindow)
	if !start.Before(boundary) && !domain.SameCalendarDay(start, boundary) {
		return ErrTooFarAhead
	}

	// 7. Дневной лимит активных броней пользователя
	sameDay := 0
	for _, b := range userActive {
		if domain.SameCalendarDay(b.Start, start) {
			sameDay++
		}
	}
	if sameDay >= domain.MaxActiveBookingsPerDay {
		return ErrDailyLimitExceeded
	}

	// 8. Пересечение с другими бронями пользователя (любые помещения)
	for _, b := range userActive {
		if b.Overlaps(start, end) {
			return ErrUserTimeConflict
		}
	}

	// 9. Пересечение с бронями помещения. Обычно недостижимо после правила 2,
	// но у помещения может быть несколько непересекающихся активных броней,
	// если статус был административно сброшен в available.
	for _, b := range facilityActive {
		if b.Overlaps(start, end) {
			return ErrFacilityTimeConflict
		}
	}

	// 10. Рабочие часы
	if !withinBusinessHours(start) || !withinBusinessHours(end) {
		return ErrOutsideBusinessHours
	}

	return nil
}

// IsEligible reports whether the user could book the facility at all,
// ignoring time parameters. Only the availability and privilege rules apply;
// used to pre-filter candidate facilities for a given user.
func (e *Engine) IsEligible(user *domain.User, facility *domain.Facility) bool {
	if user == nil || facility == nil {
		return false
	}
	if !facility.IsBookable() {
		return false
	}
	return e.hasRequiredPrivilege(user.Role, facility.Privilege)
}

// EvaluateExtension applies the extension rules to an active booking: the new
// end must lengthen the booking, the total duration stays within the maximum,
// the new end stays within business hours and must not collide with any other
// active booking of the facility.
func (e *Engine) EvaluateExtension(
	booking *domain.Booking,
	newEnd time.Time,
	facilityActive []*domain.Booking,
) error {
	if booking == nil || newEnd.IsZero() {
		return ErrInvalidRequest
	}

	if !newEnd.After(booking.End) {
		return ErrInvalidInterval
	}

	if newEnd.Sub(booking.Start) > domain.MaxBookingDuration {
		return ErrTooLong
	}

	if !withinBusinessHours(newEnd) {
		return ErrOutsideBusinessHours
	}

	// Проверяем только добавляемый хвост [booking.End, newEnd)
	for _, b := range facilityActive {
		if b.ID == booking.ID {
			continue
		}
		if b.Overlaps(booking.End, newEnd) {
			return ErrFacilityTimeConflict
		}
	}

	return nil
}

// hasRequiredPrivilege единственная авторитетная таблица соответствия
// уровня доступа помещения и ролей пользователей
func (e *Engine) hasRequiredPrivilege(role domain.Role, required domain.ReservationPrivilege) bool {
	switch required {
	case domain.PrivilegeOpen:
		return true

	case domain.PrivilegeStudentOnly:
		return role == domain.RoleStudent

	case domain.PrivilegeStaffOnly:
		return role == domain.RoleStaff || role == domain.RoleAdmin

	case domain.PrivilegePostgraduateOnly:
		return role == domain.RolePostgraduate

	case domain.PrivilegeSpecialNeedsOnly, domain.PrivilegeVendorOnly:
		// Нет профиля с подтверждением права - такие помещения
		// бронируются только вне этого сервиса
		return false

	case domain.PrivilegeLibraryStaffOnly:
		return role == domain.RoleStaff || role == domain.RoleAdmin

	default:
		return false
	}
}

// withinBusinessHours reports whether the instant's hour-of-day lies within
// [OpenHour, CloseHour]. An instant exactly at the closing hour is accepted;
// anything past it (22:30) is not.
func withinBusinessHours(t time.Time) bool {
	h := t.Hour()
	if h < domain.OpenHour || h > domain.CloseHour {
		return false
	}
	if h == domain.CloseHour && (t.Minute() != 0 || t.Second() != 0 || t.Nanosecond() != 0) {
		return false
	}
	return true
}
