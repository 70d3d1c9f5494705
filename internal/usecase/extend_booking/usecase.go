package extend_booking

import (
	"context"
	"fmt"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
)

// UseCase use case продления активной брони её владельцем
type UseCase struct {
	ledgerRepo   LedgerRepository
	policyEngine PolicyEngine
	locks        FacilityLocker
	txManager    TransactionManager
	recorder     Recorder
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	ledgerRepo LedgerRepository,
	policyEngine PolicyEngine,
	locks FacilityLocker,
	txManager TransactionManager,
	recorder Recorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		ledgerRepo:   ledgerRepo,
		policyEngine: policyEngine,
		locks:        locks,
		txManager:    txManager,
		recorder:     recorder,
		logger:       logger,
	}
}

// Execute выполняет use case продления брони
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ExtendBooking: validation failed: %v", err)
		return nil, err
	}

	uc.logger.Info("ExtendBooking: booking=%d, user=%s, newEnd=%s",
		req.BookingID, req.UserID, req.NewEnd)

	// 2. Находим бронь вне критической секции, чтобы узнать помещение
	booking, err := uc.ledgerRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, ErrBookingNotFound
	}

	// 3. Критическая секция помещения
	uc.locks.Lock(booking.FacilityID)
	defer uc.locks.Unlock(booking.FacilityID)

	var result *domain.Booking

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Перечитываем бронь под блокировкой
		current, err := uc.ledgerRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			return ErrBookingNotFound
		}

		// 3.2. Продлевать может только владелец, и только активную бронь
		if current.UserID != req.UserID {
			return ErrNotOwner
		}
		if !current.IsActive() {
			return ErrNotActive
		}

		// 3.3. Оценка политики продления
		facilityActive, err := uc.ledgerRepo.ActiveForFacility(txCtx, current.FacilityID)
		if err != nil {
			uc.logger.Error("ExtendBooking: failed to load facility bookings: %v", err)
			return fmt.Errorf("%w: failed to load facility bookings: %v", ErrInternal, err)
		}
		if err := uc.policyEngine.EvaluateExtension(current, req.NewEnd, facilityActive); err != nil {
			uc.logger.Warn("ExtendBooking: rejected for booking=%d: %v", req.BookingID, err)
			return err
		}

		// 3.4. Применяем новое время окончания и перечитываем запись
		if err := uc.ledgerRepo.UpdateEnd(txCtx, current.ID, req.NewEnd); err != nil {
			uc.logger.Error("ExtendBooking: update failed for booking %d: %v", current.ID, err)
			return fmt.Errorf("%w: update failed: %v", ErrInternal, err)
		}
		updated, err := uc.ledgerRepo.GetByID(txCtx, current.ID)
		if err != nil {
			return fmt.Errorf("%w: reread after update failed: %v", ErrInternal, err)
		}

		result = updated
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.recorder.IncBookingExtended()
	uc.logger.Info("ExtendBooking: booking %d extended to %s", result.ID, result.End)

	return FromDomainBooking(result), nil
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: bookingID is required", ErrInvalidInput)
	}
	if req.UserID == "" {
		return fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}
	if req.NewEnd.IsZero() {
		return fmt.Errorf("%w: newEnd is required", ErrInvalidInput)
	}
	return nil
}
