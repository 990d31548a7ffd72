package memory

import (
	"github.com/secmon-lab/mnemos/pkg/domain/interfaces"
)

// Memory is an in-process repository backend for development and tests
type Memory struct {
	profile *profileRepository
	history *historyRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	profileRepo := newProfileRepository()
	historyRepo := newHistoryRepository(profileRepo)

	return &Memory{
		profile: profileRepo,
		history: historyRepo,
	}
}

func (m *Memory) Profile() interfaces.ProfileRepository {
	return m.profile
}

func (m *Memory) History() interfaces.HistoryRepository {
	return m.history
}

func (m *Memory) Close() error {
	return nil
}
