package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	Candidate     CandidateRepository
	SocialProfile SocialProfileRepository
	Screening     ScreeningRepository
	Notification  NotificationRepository
	Preference    PreferenceRepository
	User          UserRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		Candidate:     NewCandidateRepository(db),
		SocialProfile: NewSocialProfileRepository(db),
		Screening:     NewScreeningRepository(db),
		Notification:  NewNotificationRepository(db),
		Preference:    NewPreferenceRepository(db),
		User:          NewUserRepository(db),
	}
}
