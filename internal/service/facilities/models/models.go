package models

import (
	"errors"

	"github.com/m04kA/LMS-FacilityService/internal/domain"
)

var (
	// ErrInvalidFacility возвращается при некорректных данных помещения
	ErrInvalidFacility = errors.New("invalid facility data")
)

// Request модели

// AddFacilityRequest запрос на добавление помещения
type AddFacilityRequest struct {
	UserID    string   `json:"userId"`
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Location  string   `json:"location"`
	Capacity  int      `json:"capacity"`
	Privilege string   `json:"privilege"`
	Status    string   `json:"status,omitempty"`
	Notes     string   `json:"notes,omitempty"`
	Equipment []string `json:"equipment,omitempty"`
}

// ToDomainFacility конвертирует request в domain модель
func (r *AddFacilityRequest) ToDomainFacility() (*domain.Facility, error) {
	if r.ID == "" || r.Name == "" {
		return nil, errors.New("id and name are required")
	}
	if !domain.ValidFacilityType(domain.FacilityType(r.Type)) {
		return nil, errors.New("unknown facility type")
	}
	if !domain.ValidPrivilege(domain.ReservationPrivilege(r.Privilege)) {
		return nil, errors.New("unknown reservation privilege")
	}
	status := domain.FacilityAvailable
	if r.Status != "" {
		if !domain.ValidFacilityStatus(domain.FacilityStatus(r.Status)) {
			return nil, errors.New("unknown facility status")
		}
		status = domain.FacilityStatus(r.Status)
	}
	if r.Capacity < 0 {
		return nil, errors.New("capacity must not be negative")
	}

	return &domain.Facility{
		ID:        r.ID,
		Name:      r.Name,
		Type:      domain.FacilityType(r.Type),
		Location:  r.Location,
		Capacity:  r.Capacity,
		Privilege: domain.ReservationPrivilege(r.Privilege),
		Status:    status,
		Notes:     r.Notes,
		Equipment: r.Equipment,
	}, nil
}

// SetFacilityStatusRequest запрос на административную смену статуса
type SetFacilityStatusRequest struct {
	UserID     string `json:"userId"`
	FacilityID string `json:"facilityId"`
	Status     string `json:"status"`
}

// ListFacilitiesRequest запрос на выборку помещений
type ListFacilitiesRequest struct {
	Type        *string `json:"type,omitempty"`        // Фильтр по типу (опционально)
	Status      *string `json:"status,omitempty"`      // Фильтр по статусу (опционально)
	Privilege   *string `json:"privilege,omitempty"`   // Фильтр по уровню доступа (опционально)
	Location    *string `json:"location,omitempty"`    // Подстрока расположения (опционально)
	Query       *string `json:"query,omitempty"`       // Поиск по имени или ID (опционально)
	EligibleFor *string `json:"eligibleFor,omitempty"` // Только доступные пользователю (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListFacilitiesRequest) ToDomainFilter() (domain.FacilitiesFilter, error) {
	filter := domain.FacilitiesFilter{
		Location: r.Location,
		Query:    r.Query,
	}
	if r.Type != nil {
		t := domain.FacilityType(*r.Type)
		if !domain.ValidFacilityType(t) {
			return filter, errors.New("unknown facility type")
		}
		filter.Type = &t
	}
	if r.Status != nil {
		s := domain.FacilityStatus(*r.Status)
		if !domain.ValidFacilityStatus(s) {
			return filter, errors.New("unknown facility status")
		}
		filter.Status = &s
	}
	if r.Privilege != nil {
		p := domain.ReservationPrivilege(*r.Privilege)
		if !domain.ValidPrivilege(p) {
			return filter, errors.New("unknown reservation privilege")
		}
		filter.Privilege = &p
	}
	return filter, nil
}

// Response модели

// FacilityResponse ответ с данными помещения
type FacilityResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Type      string   `json:"type"`
	Location  string   `json:"location"`
	Capacity  int      `json:"capacity"`
	Privilege string   `json:"privilege"`
	Status    string   `json:"status"`
	Notes     string   `json:"notes,omitempty"`
	Equipment []string `json:"equipment,omitempty"`
}

// FacilityListResponse ответ со списком помещений
type FacilityListResponse struct {
	Facilities []*FacilityResponse `json:"facilities"`
	Total      int                 `json:"total"`
}

// FacilityStatsResponse агрегированные счетчики реестра
type FacilityStatsResponse struct {
	Total     int64 `json:"total"`
	Available int64 `json:"available"`
	Booked    int64 `json:"booked"`
	Closed    int64 `json:"closed"`
}

// FromDomainFacility конвертирует domain модель в response
func FromDomainFacility(f *domain.Facility) *FacilityResponse {
	return &FacilityResponse{
		ID:        f.ID,
		Name:      f.Name,
		Type:      string(f.Type),
		Location:  f.Location,
		Capacity:  f.Capacity,
		Privilege: string(f.Privilege),
		Status:    string(f.Status),
		Notes:     f.Notes,
		Equipment: f.Equipment,
	}
}

// FromDomainFacilityList конвертирует список domain моделей в response
func FromDomainFacilityList(facilities []*domain.Facility) *FacilityListResponse {
	out := make([]*FacilityResponse, 0, len(facilities))
	for _, f := range facilities {
		out = append(out, FromDomainFacility(f))
	}
	return &FacilityListResponse{Facilities: out, Total: len(out)}
}

// FromDomainFacilityStats конвертирует domain статистику в response
func FromDomainFacilityStats(s *domain.FacilityStats) *FacilityStatsResponse {
	return &FacilityStatsResponse{
		Total:     s.Total,
		Available: s.Available,
		Booked:    s.Booked,
		Closed:    s.Closed,
	}
}
