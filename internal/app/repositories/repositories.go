package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository         *UserRepository
	RunRepository          *RunRepository
	ParticipantRepository  *ParticipantRepository
	LocationRepository     *LocationRepository
	AnnouncementRepository *AnnouncementRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:         NewUserRepository(db),
		RunRepository:          NewRunRepository(db),
		ParticipantRepository:  NewParticipantRepository(db),
		LocationRepository:     NewLocationRepository(db),
		AnnouncementRepository: NewAnnouncementRepository(db),
	}
}
