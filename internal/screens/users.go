package screens

import (
	"context"
	"log"
	"strings"

	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/internal/shell"
)

type UserAPI interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	DeleteCollector(ctx context.Context, id string) error
}

type Users struct {
	api   UserAPI
	shell shell.Dispatcher

	All Collection[models.User]
}

func NewUsers(a UserAPI, d shell.Dispatcher) *Users {
	return &Users{api: a, shell: d}
}

func (u *Users) Section() shell.Section { return shell.SectionUserManagement }

func (u *Users) Sync(_ shell.TabID, epoch uint64) []Task {
	return appendTask(nil, fetch(&u.All, refreshOnly(epoch), u.api.ListUsers, "Failed to fetch users"))
}

// TabRole is the role listed on a user-management tab.
func TabRole(tab shell.TabID) models.Role {
	switch tab {
	case shell.TabBinUsers:
		return models.RoleBinOwner
	case shell.TabAdmins:
		return models.RoleAdmin
	}
	return models.RoleCollector
}

// Filtered returns the users holding the tab's role.
func (u *Users) Filtered(tab shell.TabID) []models.User {
	role := TabRole(tab)
	out := make([]models.User, 0, len(u.All.Items))
	for _, user := range u.All.Items {
		if user.Role == role {
			out = append(out, user)
		}
	}
	return out
}

// Add asks for the create form with the tab's user type.
func (u *Users) Add(tab shell.TabID) {
	u.shell.RequestAction(shell.Add{Subject: TabRole(tab).Label()})
}

func (u *Users) Edit(tab shell.TabID, user models.User) {
	u.shell.RequestAction(shell.Edit{Subject: TabRole(tab).Label(), Target: user})
}

// CanDelete is true only on the collectors tab.
func CanDelete(tab shell.TabID) bool {
	return TabRole(tab) == models.RoleCollector
}

// Delete asks to remove a collector. Other roles cannot be deleted here.
func (u *Users) Delete(tab shell.TabID, user models.User) bool {
	if !CanDelete(tab) {
		log.Printf("⚠️ [SCREENS] delete is only available for collectors (user %s)", user.Username)
		return false
	}
	id := user.ID
	u.shell.RequestAction(shell.Delete{Subject: TabRole(tab).Label(), Command: &shell.DeleteCommand{
		TargetID: id,
		Label:    user.Username,
		Confirm: func(ctx context.Context) error {
			return u.api.DeleteCollector(ctx, id)
		},
	}})
	return true
}

func (u *Users) User(id string) (models.User, bool) {
	for _, user := range u.All.Items {
		if user.ID == id {
			return user, true
		}
	}
	return models.User{}, false
}

func (u *Users) Table(tab shell.TabID) (Table, bool, string) {
	out := Table{Columns: []string{"Username", "Name", "Role", "Join Date"}}
	for _, user := range u.Filtered(tab) {
		role := strings.ReplaceAll(strings.TrimPrefix(string(user.Role), "ROLE_"), "_", " ")
		joined := user.CreatedAt
		if len(joined) >= 10 {
			joined = joined[:10]
		}
		out.Rows = append(out.Rows, []string{user.Username, orDash(user.FullName), role, orDash(joined)})
		out.IDs = append(out.IDs, user.ID)
	}
	return out, u.All.Loading, u.All.Err
}
