package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
	"github.com/m04kA/LMS-FacilityService/internal/service/bookings/models"
)

// Service сервис для работы с бронями: чтение, отмена и перевод
// истекших броней в completed
type Service struct {
	ledgerRepo   LedgerRepository
	facilityRepo FacilityRepository
	userRepo     UserRepository
	locks        FacilityLocker
	txManager    TransactionManager
	timeProvider TimeProvider
	recorder     Recorder
	logger       Logger
}

// NewService создает новый экземпляр сервиса броней
func NewService(
	ledgerRepo LedgerRepository,
	facilityRepo FacilityRepository,
	userRepo UserRepository,
	locks FacilityLocker,
	txManager TransactionManager,
	recorder Recorder,
	logger Logger,
) *Service {
	return &Service{
		ledgerRepo:   ledgerRepo,
		facilityRepo: facilityRepo,
		userRepo:     userRepo,
		locks:        locks,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		recorder:     recorder,
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени (для тестов)
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронь по ID.
// Пользователь видит только свою бронь; администратор - любую.
func (s *Service) GetByID(ctx context.Context, id int64, userID string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%s", id, userID)

	booking, err := s.ledgerRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Warn("GetByID: booking id=%d not found", id)
		return nil, ErrBookingNotFound
	}

	if booking.UserID != userID {
		actor, err := s.userRepo.GetByID(ctx, userID)
		if err != nil || !actor.IsAdmin() {
			s.logger.Warn("GetByID: access denied for user=%s to booking id=%d", userID, id)
			return nil, ErrAccessDenied
		}
	}

	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю броней пользователя.
// Опционально фильтрует по статусу.
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	if req == nil || req.UserID == "" {
		return nil, fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	s.logger.Info("GetUserBookings: fetching bookings for user=%s, status=%v", req.UserID, req.Status)

	if req.ActorID != "" && req.ActorID != req.UserID {
		actor, err := s.userRepo.GetByID(ctx, req.ActorID)
		if err != nil || !actor.IsAdmin() {
			s.logger.Warn("GetUserBookings: access denied for actor=%s to user=%s", req.ActorID, req.UserID)
			return nil, ErrAccessDenied
		}
	}

	filter := domain.BookingsFilter{UserID: &req.UserID}
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%s", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidStatus)
		}
		filter.Status = &status
	}

	bookings, err := s.ledgerRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет активную бронь.
// Владелец может отменить не позднее чем за час до начала;
// администратор - в любой момент.
func (s *Service) Cancel(ctx context.Context, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	if req == nil || req.BookingID <= 0 || req.UserID == "" {
		return nil, fmt.Errorf("%w: bookingID and userID are required", ErrInvalidInput)
	}

	s.logger.Info("Cancel: booking=%d, user=%s", req.BookingID, req.UserID)

	booking, err := s.ledgerRepo.GetByID(ctx, req.BookingID)
	if err != nil {
		s.logger.Warn("Cancel: booking id=%d not found", req.BookingID)
		return nil, ErrBookingNotFound
	}

	isAdmin := false
	if booking.UserID != req.UserID {
		actor, err := s.userRepo.GetByID(ctx, req.UserID)
		if err != nil || !actor.IsAdmin() {
			s.logger.Warn("Cancel: access denied for user=%s to booking id=%d", req.UserID, req.BookingID)
			return nil, ErrAccessDenied
		}
		isAdmin = true
	}

	now := s.timeProvider.Now()

	s.locks.Lock(booking.FacilityID)
	defer s.locks.Unlock(booking.FacilityID)

	var result *domain.Booking

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// Перечитываем бронь под блокировкой: конкурентная отмена или sweep
		// могли уже перевести её в терминальный статус
		current, err := s.ledgerRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			return ErrBookingNotFound
		}
		if current.IsTerminal() {
			return ErrAlreadyTerminal
		}

		// Окно отмены: владелец должен успеть за час до начала
		if !isAdmin && now.Add(domain.CancellationNotice).After(current.Start) {
			return ErrCancellationTooLate
		}

		if err := s.ledgerRepo.SetStatus(txCtx, current.ID, domain.StatusCancelled); err != nil {
			return fmt.Errorf("%w: Cancel - status update failed: %v", ErrInternal, err)
		}
		if err := s.userRepo.RemoveBookingID(txCtx, current.UserID, current.ID); err != nil {
			return fmt.Errorf("%w: Cancel - user unlink failed: %v", ErrInternal, err)
		}
		if err := s.recomputeFacilityStatus(txCtx, current.FacilityID); err != nil {
			return err
		}

		current.Status = domain.StatusCancelled
		result = current
		return nil
	})

	if err != nil {
		if !errors.Is(err, ErrInternal) {
			s.logger.Warn("Cancel: booking=%d rejected: %v", req.BookingID, err)
		} else {
			s.logger.Error("Cancel: booking=%d failed: %v", req.BookingID, err)
		}
		return nil, err
	}

	s.recorder.IncBookingCancelled()
	s.logger.Info("Cancel: booking %d cancelled", req.BookingID)

	return models.FromDomainBooking(result), nil
}

// SweepExpired переводит все активные брони, чей конец наступил, в completed
// и пересчитывает статусы затронутых помещений. Возвращает число переходов.
// Проход идемпотентен: повторный вызов с тем же временем ничего не меняет.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	now := s.timeProvider.Now()
	s.logger.Info("SweepExpired: sweeping bookings ended by %s", now)

	expired, err := s.ledgerRepo.ActiveEndingBefore(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("%w: SweepExpired - repository error: %v", ErrInternal, err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	// Группируем по помещению, чтобы держать блокировку один раз на помещение
	byFacility := make(map[string][]*domain.Booking)
	for _, b := range expired {
		byFacility[b.FacilityID] = append(byFacility[b.FacilityID], b)
	}

	transitions := 0
	for facilityID, group := range byFacility {
		n, err := s.sweepFacility(ctx, facilityID, group)
		if err != nil {
			s.logger.Error("SweepExpired: facility %s sweep failed: %v", facilityID, err)
			return transitions, err
		}
		transitions += n
	}

	s.recorder.AddSweepTransitions(transitions)
	s.logger.Info("SweepExpired: %d bookings completed", transitions)
	return transitions, nil
}

func (s *Service) sweepFacility(ctx context.Context, facilityID string, group []*domain.Booking) (int, error) {
	s.locks.Lock(facilityID)
	defer s.locks.Unlock(facilityID)

	transitions := 0
	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		for _, b := range group {
			// Перечитываем: бронь могла быть отменена между выборкой и блокировкой
			current, err := s.ledgerRepo.GetByID(txCtx, b.ID)
			if err != nil {
				continue
			}
			if !current.IsActive() {
				continue
			}
			if err := s.ledgerRepo.SetStatus(txCtx, current.ID, domain.StatusCompleted); err != nil {
				return fmt.Errorf("%w: sweep - status update failed for booking %d: %v", ErrInternal, current.ID, err)
			}
			if err := s.userRepo.RemoveBookingID(txCtx, current.UserID, current.ID); err != nil {
				return fmt.Errorf("%w: sweep - user unlink failed for booking %d: %v", ErrInternal, current.ID, err)
			}
			transitions++
		}
		return s.recomputeFacilityStatus(txCtx, facilityID)
	})
	if err != nil {
		return 0, err
	}
	return transitions, nil
}

// Stats возвращает агрегированные счетчики книги броней
func (s *Service) Stats(ctx context.Context) (*models.BookingStatsResponse, error) {
	stats, err := s.ledgerRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: Stats - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainBookingStats(stats), nil
}

// recomputeFacilityStatus выводит статус помещения из оставшихся активных
// броней. Административные статусы (maintenance, temporarily_closed,
// reserved) не трогаем.
func (s *Service) recomputeFacilityStatus(ctx context.Context, facilityID string) error {
	facility, err := s.facilityRepo.GetByID(ctx, facilityID)
	if err != nil {
		// Помещение могло быть удалено администратором; брони при этом
		// дочищаются, статус пересчитывать не для чего
		return nil
	}
	if facility.IsAdminForced() {
		return nil
	}

	remaining, err := s.ledgerRepo.ActiveForFacility(ctx, facilityID)
	if err != nil {
		return fmt.Errorf("%w: status recompute failed: %v", ErrInternal, err)
	}

	target := domain.FacilityAvailable
	if len(remaining) > 0 {
		target = domain.FacilityBooked
	}
	if facility.Status == target {
		return nil
	}
	if err := s.facilityRepo.SetStatus(ctx, facilityID, target); err != nil {
		return fmt.Errorf("%w: status update failed: %v", ErrInternal, err)
	}
	return nil
}
