package domain

// FacilityStatus represents the current status of a facility
type FacilityStatus string

const (
	FacilityAvailable         FacilityStatus = "available"
	FacilityBooked            FacilityStatus = "booked"
	FacilityMaintenance       FacilityStatus = "maintenance"
	FacilityTemporarilyClosed FacilityStatus = "temporarily_closed"
	FacilityReserved          FacilityStatus = "reserved"
)

// FacilityType enumerates the kinds of bookable facilities
type FacilityType string

const (
	TypeRoom             FacilityType = "room"
	TypeDiscussionRoom   FacilityType = "discussion_room"
	TypeCarrel           FacilityType = "carrel"
	TypeComputerLab      FacilityType = "computer_lab"
	TypeAuditorium       FacilityType = "auditorium"
	TypeExhibitionArea   FacilityType = "exhibition_area"
	TypeMultiPurposeRoom FacilityType = "multi_purpose_room"
	TypeResearchRoom     FacilityType = "research_room"
	TypeSpecialNeedsRoom FacilityType = "special_needs_room"
	TypeStudyArea        FacilityType = "study_area"
)

// ReservationPrivilege restricts which user roles may book a facility
type ReservationPrivilege string

const (
	PrivilegeOpen             ReservationPrivilege = "open"
	PrivilegeStudentOnly      ReservationPrivilege = "student_only"
	PrivilegeStaffOnly        ReservationPrivilege = "staff_only"
	PrivilegePostgraduateOnly ReservationPrivilege = "postgraduate_only"
	PrivilegeSpecialNeedsOnly ReservationPrivilege = "special_needs_only"
	PrivilegeVendorOnly       ReservationPrivilege = "vendor_only"
	PrivilegeLibraryStaffOnly ReservationPrivilege = "library_staff_only"
)

// Facility represents a bookable resource in the registry
type Facility struct {
	ID        string
	Name      string
	Type      FacilityType
	Location  string
	Capacity  int // 0 is permitted for areas with no seating
	Privilege ReservationPrivilege
	Status    FacilityStatus
	Notes     string
	Equipment []string
}

// IsBookable returns true if the facility accepts new bookings in its current status
func (f *Facility) IsBookable() bool {
	return f.Status == FacilityAvailable
}

// IsAdminForced returns true if the status was set administratively and must not be
// overwritten by booking-driven status recomputation
func (f *Facility) IsAdminForced() bool {
	return f.Status == FacilityMaintenance ||
		f.Status == FacilityTemporarilyClosed ||
		f.Status == FacilityReserved
}

// FacilitiesFilter фильтр для выборки помещений
type FacilitiesFilter struct {
	Type      *FacilityType         // Фильтр по типу (опционально)
	Status    *FacilityStatus       // Фильтр по статусу (опционально)
	Privilege *ReservationPrivilege // Фильтр по уровню доступа (опционально)
	Location  *string               // Подстрока расположения (опционально)
	Query     *string               // Поиск по имени или ID (опционально)
}

// ValidFacilityStatus reports whether s is one of the known facility statuses
func ValidFacilityStatus(s FacilityStatus) bool {
	switch s {
	case FacilityAvailable, FacilityBooked, FacilityMaintenance,
		FacilityTemporarilyClosed, FacilityReserved:
		return true
	}
	return false
}

// ValidFacilityType reports whether t is one of the known facility types
func ValidFacilityType(t FacilityType) bool {
	switch t {
	case TypeRoom, TypeDiscussionRoom, TypeCarrel, TypeComputerLab, TypeAuditorium,
		TypeExhibitionArea, TypeMultiPurposeRoom, TypeResearchRoom,
		TypeSpecialNeedsRoom, TypeStudyArea:
		return true
	}
	return false
}

// ValidPrivilege reports whether p is one of the known reservation privileges
func ValidPrivilege(p ReservationPrivilege) bool {
	switch p {
	case PrivilegeOpen, PrivilegeStudentOnly, PrivilegeStaffOnly,
		PrivilegePostgraduateOnly, PrivilegeSpecialNeedsOnly, PrivilegeVendorOnly,
		PrivilegeLibraryStaffOnly:
		return true
	}
	return false
}
