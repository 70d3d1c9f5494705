package facilities

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
	memfacility "github.com/m04kA/LMS-FacilityService/internal/infra/memstorage/facility"
	pgfacility "github.com/m04kA/LMS-FacilityService/internal/infra/storage/facility"
	"github.com/m04kA/LMS-FacilityService/internal/service/facilities/models"
)

// Service сервис реестра помещений: выборки для пользователей и
// административные операции над каталогом
type Service struct {
	facilityRepo FacilityRepository
	ledgerRepo   LedgerRepository
	userRepo     UserRepository
	policyEngine PolicyEngine
	locks        FacilityLocker
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса помещений
func NewService(
	facilityRepo FacilityRepository,
	ledgerRepo LedgerRepository,
	userRepo UserRepository,
	policyEngine PolicyEngine,
	locks FacilityLocker,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		facilityRepo: facilityRepo,
		ledgerRepo:   ledgerRepo,
		userRepo:     userRepo,
		policyEngine: policyEngine,
		locks:        locks,
		txManager:    txManager,
		logger:       logger,
	}
}

// List возвращает помещения, удовлетворяющие фильтрам запроса.
// При указанном EligibleFor результат дополнительно сужается до помещений,
// которые этот пользователь вправе бронировать.
func (s *Service) List(ctx context.Context, req *models.ListFacilitiesRequest) (*models.FacilityListResponse, error) {
	if req == nil {
		req = &models.ListFacilitiesRequest{}
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("List: invalid filter: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	facilities, err := s.facilityRepo.ListWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	if req.EligibleFor != nil {
		user, err := s.userRepo.GetByID(ctx, *req.EligibleFor)
		if err != nil {
			s.logger.Warn("List: eligibleFor user %s not found", *req.EligibleFor)
			return nil, ErrUserNotFound
		}
		eligible := make([]*domain.Facility, 0, len(facilities))
		for _, f := range facilities {
			if s.policyEngine.IsEligible(user, f) {
				eligible = append(eligible, f)
			}
		}
		facilities = eligible
	}

	return models.FromDomainFacilityList(facilities), nil
}

// Get возвращает помещение по ID
func (s *Service) Get(ctx context.Context, id string) (*models.FacilityResponse, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id is required", ErrInvalidInput)
	}

	facility, err := s.facilityRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Warn("Get: facility %s not found", id)
		return nil, ErrFacilityNotFound
	}
	return models.FromDomainFacility(facility), nil
}

// Add добавляет помещение в реестр. Только для администраторов.
func (s *Service) Add(ctx context.Context, req *models.AddFacilityRequest) (*models.FacilityResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	s.logger.Info("Add: user=%s, facility=%s", req.UserID, req.ID)

	if err := s.requireAdmin(ctx, req.UserID); err != nil {
		return nil, err
	}

	facility, err := req.ToDomainFacility()
	if err != nil {
		s.logger.Warn("Add: invalid facility data: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.facilityRepo.Create(ctx, facility); err != nil {
		if errors.Is(err, memfacility.ErrDuplicateID) || errors.Is(err, pgfacility.ErrDuplicateID) {
			s.logger.Warn("Add: facility id %s already exists", facility.ID)
			return nil, ErrDuplicateID
		}
		s.logger.Error("Add: repository error: %v", err)
		return nil, fmt.Errorf("%w: Add - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Add: facility %s added", facility.ID)
	return models.FromDomainFacility(facility), nil
}

// Remove удаляет помещение из реестра. Только для администраторов.
// Помещение с активными бронями удалить нельзя.
func (s *Service) Remove(ctx context.Context, facilityID, userID string) error {
	if facilityID == "" || userID == "" {
		return fmt.Errorf("%w: facilityID and userID are required", ErrInvalidInput)
	}

	s.logger.Info("Remove: user=%s, facility=%s", userID, facilityID)

	if err := s.requireAdmin(ctx, userID); err != nil {
		return err
	}

	s.locks.Lock(facilityID)
	defer s.locks.Unlock(facilityID)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if _, err := s.facilityRepo.GetByID(txCtx, facilityID); err != nil {
			return ErrFacilityNotFound
		}

		active, err := s.ledgerRepo.ActiveForFacility(txCtx, facilityID)
		if err != nil {
			return fmt.Errorf("%w: Remove - ledger error: %v", ErrInternal, err)
		}
		if len(active) > 0 {
			return ErrHasActiveBookings
		}

		if err := s.facilityRepo.Delete(txCtx, facilityID); err != nil {
			return fmt.Errorf("%w: Remove - repository error: %v", ErrInternal, err)
		}
		return nil
	})

	if err != nil {
		s.logger.Warn("Remove: facility %s not removed: %v", facilityID, err)
		return err
	}

	s.logger.Info("Remove: facility %s removed", facilityID)
	return nil
}

// SetStatus административно меняет статус помещения. Только для
// администраторов. Сброс в available при будущих активных бронях допускается:
// конфликты по времени продолжит отсекать движок правил.
func (s *Service) SetStatus(ctx context.Context, req *models.SetFacilityStatusRequest) (*models.FacilityResponse, error) {
	if req == nil || req.FacilityID == "" || req.UserID == "" {
		return nil, fmt.Errorf("%w: facilityID and userID are required", ErrInvalidInput)
	}

	s.logger.Info("SetStatus: user=%s, facility=%s, status=%s", req.UserID, req.FacilityID, req.Status)

	if err := s.requireAdmin(ctx, req.UserID); err != nil {
		return nil, err
	}

	status := domain.FacilityStatus(req.Status)
	if !domain.ValidFacilityStatus(status) {
		s.logger.Warn("SetStatus: unknown status %s", req.Status)
		return nil, fmt.Errorf("%w: unknown facility status", ErrInvalidInput)
	}

	s.locks.Lock(req.FacilityID)
	defer s.locks.Unlock(req.FacilityID)

	var result *domain.Facility

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		if _, err := s.facilityRepo.GetByID(txCtx, req.FacilityID); err != nil {
			return ErrFacilityNotFound
		}
		if err := s.facilityRepo.SetStatus(txCtx, req.FacilityID, status); err != nil {
			return fmt.Errorf("%w: SetStatus - repository error: %v", ErrInternal, err)
		}
		updated, err := s.facilityRepo.GetByID(txCtx, req.FacilityID)
		if err != nil {
			return fmt.Errorf("%w: SetStatus - reread failed: %v", ErrInternal, err)
		}
		result = updated
		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("SetStatus: facility %s status set to %s", req.FacilityID, status)
	return models.FromDomainFacility(result), nil
}

// Stats возвращает агрегированные счетчики реестра
func (s *Service) Stats(ctx context.Context) (*models.FacilityStatsResponse, error) {
	stats, err := s.facilityRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: Stats - repository error: %v", ErrInternal, err)
	}
	return models.FromDomainFacilityStats(stats), nil
}

// requireAdmin проверяет, что операцию выполняет администратор
func (s *Service) requireAdmin(ctx context.Context, userID string) error {
	actor, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("requireAdmin: user %s not found", userID)
		return ErrAccessDenied
	}
	if !actor.IsAdmin() {
		s.logger.Warn("requireAdmin: user %s is not an admin", userID)
		return ErrAccessDenied
	}
	return nil
}
