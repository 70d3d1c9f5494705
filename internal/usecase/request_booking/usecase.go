package request_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
	"github.com/m04kA/LMS-FacilityService/internal/policy"
)

// UseCase use case создания брони: единственный путь, по которому бронь
// попадает в книгу. Политика оценивается и побочные эффекты применяются
// в критической секции одного помещения.
type UseCase struct {
	ledgerRepo   LedgerRepository
	facilityRepo FacilityRepository
	userRepo     UserRepository
	policyEngine PolicyEngine
	locks        FacilityLocker
	txManager    TransactionManager
	timeProvider TimeProvider
	recorder     Recorder
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	ledgerRepo LedgerRepository,
	facilityRepo FacilityRepository,
	userRepo UserRepository,
	policyEngine PolicyEngine,
	locks FacilityLocker,
	txManager TransactionManager,
	recorder Recorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		ledgerRepo:   ledgerRepo,
		facilityRepo: facilityRepo,
		userRepo:     userRepo,
		policyEngine: policyEngine,
		locks:        locks,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		recorder:     recorder,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case создания брони
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RequestBooking: user=%s, facility=%s, start=%s, end=%s",
		req.UserID, req.FacilityID, req.Start, req.End)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("RequestBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем пользователя (роль нужна политике)
	user, err := uc.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		uc.logger.Warn("RequestBooking: user %s not found: %v", req.UserID, err)
		return nil, ErrUserNotFound
	}

	// 4. Критическая секция помещения: проверка конфликтов, вставка в книгу
	// и смена статуса должны быть атомарны относительно конкурентных запросов
	// на то же помещение
	uc.locks.Lock(req.FacilityID)
	defer uc.locks.Unlock(req.FacilityID)

	var result *domain.Booking

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Снимок помещения
		facility, err := uc.facilityRepo.GetByID(txCtx, req.FacilityID)
		if err != nil {
			uc.logger.Warn("RequestBooking: facility %s not found: %v", req.FacilityID, err)
			return ErrFacilityNotFound
		}

		// 4.2. Снимки активных броней пользователя и помещения
		userActive, err := uc.ledgerRepo.ActiveForUser(txCtx, req.UserID)
		if err != nil {
			uc.logger.Error("RequestBooking: failed to load user bookings: %v", err)
			return fmt.Errorf("%w: failed to load user bookings: %v", ErrInternal, err)
		}
		facilityActive, err := uc.ledgerRepo.ActiveForFacility(txCtx, req.FacilityID)
		if err != nil {
			uc.logger.Error("RequestBooking: failed to load facility bookings: %v", err)
			return fmt.Errorf("%w: failed to load facility bookings: %v", ErrInternal, err)
		}

		// 4.3. Оценка политики; при отказе - никаких побочных эффектов
		if err := uc.policyEngine.Evaluate(user, facility, req.Start, req.End, now, userActive, facilityActive); err != nil {
			uc.logger.Warn("RequestBooking: rejected for user=%s, facility=%s: %v",
				req.UserID, req.FacilityID, err)
			uc.recorder.IncBookingRejected(policy.ReasonCode(err))
			return err
		}

		// 4.4. Вставка в книгу броней
		created, err := uc.ledgerRepo.Insert(txCtx, req.FacilityID, req.UserID, req.Start, req.End)
		if err != nil {
			uc.logger.Error("RequestBooking: ledger insert failed: %v", err)
			return fmt.Errorf("%w: ledger insert failed: %v", ErrInternal, err)
		}

		// 4.5. Смена статуса помещения; при сбое компенсируем вставку
		if err := uc.facilityRepo.SetStatus(txCtx, req.FacilityID, domain.FacilityBooked); err != nil {
			uc.logger.Error("RequestBooking: status update failed, compensating booking %d: %v",
				created.ID, err)
			uc.compensate(txCtx, created)
			return fmt.Errorf("%w: facility status update failed: %v", ErrInternal, err)
		}

		// 4.6. Привязываем бронь к пользователю
		if err := uc.userRepo.AppendBookingID(txCtx, req.UserID, created.ID); err != nil {
			uc.logger.Error("RequestBooking: user link failed, compensating booking %d: %v",
				created.ID, err)
			uc.compensate(txCtx, created)
			return fmt.Errorf("%w: user booking link failed: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.recorder.IncBookingCreated()
	uc.logger.Info("RequestBooking: created booking id=%d for user=%s, facility=%s",
		result.ID, req.UserID, req.FacilityID)

	return FromDomainBooking(result), nil
}

// compensate откатывает частично применённые эффекты: удаляет бронь и
// восстанавливает статус помещения по оставшимся активным броням.
// Для postgres-драйвера транзакция откатится сама; для памяти компенсация
// и есть откат.
func (uc *UseCase) compensate(ctx context.Context, created *domain.Booking) {
	if err := uc.ledgerRepo.Delete(ctx, created.ID); err != nil {
		uc.logger.Error("RequestBooking: compensation delete failed for booking %d: %v", created.ID, err)
	}

	remaining, err := uc.ledgerRepo.ActiveForFacility(ctx, created.FacilityID)
	if err != nil {
		uc.logger.Error("RequestBooking: compensation status recompute failed: %v", err)
		return
	}
	if len(remaining) == 0 {
		if err := uc.facilityRepo.SetStatus(ctx, created.FacilityID, domain.FacilityAvailable); err != nil &&
			!errors.Is(err, context.Canceled) {
			uc.logger.Error("RequestBooking: compensation status reset failed: %v", err)
		}
	}
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if req.UserID == "" {
		return fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}
	if req.FacilityID == "" {
		return fmt.Errorf("%w: facilityID is required", ErrInvalidInput)
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}
	return nil
}
