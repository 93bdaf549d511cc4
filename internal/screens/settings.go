package screens

import (
	"context"

	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/internal/shell"
)

type ProfileAPI interface {
	Profile(ctx context.Context) (models.User, error)
}

// Settings shows the signed-in user's profile.
type Settings struct {
	api    ProfileAPI
	shell  shell.Dispatcher
	active activation

	Profile Collection[models.User]
}

func NewSettings(a ProfileAPI, d shell.Dispatcher) *Settings {
	return &Settings{api: a, shell: d}
}

func (s *Settings) Section() shell.Section { return shell.SectionSettings }

func (s *Settings) Sync(tab shell.TabID, epoch uint64) []Task {
	return appendTask(nil, fetch(&s.Profile, s.active.key(tab, epoch), func(ctx context.Context) ([]models.User, error) {
		u, err := s.api.Profile(ctx)
		if err != nil {
			return nil, err
		}
		return []models.User{u}, nil
	}, "Failed to fetch profile"))
}

// User is the loaded profile, if any.
func (s *Settings) User() (models.User, bool) {
	if len(s.Profile.Items) == 0 {
		return models.User{}, false
	}
	return s.Profile.Items[0], true
}

// EditProfile opens the profile form once the profile is loaded.
func (s *Settings) EditProfile() bool {
	u, ok := s.User()
	if !ok {
		return false
	}
	s.shell.RequestAction(shell.EditProfile{User: u})
	return true
}

func (s *Settings) Table(shell.TabID) (Table, bool, string) {
	out := Table{Columns: []string{"Field", "Value"}}
	if u, ok := s.User(); ok {
		out.Rows = [][]string{
			{"Username", u.Username},
			{"Name", orDash(u.FullName)},
			{"Role", u.Role.Label()},
			{"Address", orDash(u.Address)},
			{"Mobile", orDash(u.MobileNumber)},
		}
	}
	return out, s.Profile.Loading, s.Profile.Err
}
