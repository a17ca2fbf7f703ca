package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	SchoolRepository         *SchoolRepository
	UserRepository           *UserRepository
	AcademicRepository       *AcademicRepository
	StudentRepository        *StudentRepository
	FeeStructureRepository   *FeeStructureRepository
	FeeRepository            *FeeRepository
	DiscountRepository       *DiscountRepository
	ClubActivityRepository   *ClubActivityRepository
	TransportRouteRepository *TransportRouteRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		SchoolRepository:         NewSchoolRepository(db),
		UserRepository:           NewUserRepository(db),
		AcademicRepository:       NewAcademicRepository(db),
		StudentRepository:        NewStudentRepository(db),
		FeeStructureRepository:   NewFeeStructureRepository(db),
		FeeRepository:            NewFeeRepository(db),
		DiscountRepository:       NewDiscountRepository(db),
		ClubActivityRepository:   NewClubActivityRepository(db),
		TransportRouteRepository: NewTransportRouteRepository(db),
	}
}
