package forms

import (
	"context"

	"smartwaste-dashboard/internal/models"
	"smartwaste-dashboard/internal/screens"
	"smartwaste-dashboard/internal/shell"
)

// userCreateForm adds a collector or registers a bin owner depending on
// the tab the add came from.
type userCreateForm struct {
	base
	api  API
	role models.Role
}

func newUserCreateForm(m shell.Add, a API, c Committer) *userCreateForm {
	f := &userCreateForm{
		base: base{kind: shell.FormUserCreate, commit: c},
		api:  a,
		role: models.RoleForSubject(m.Subject),
	}
	f.fields = []*field{
		textField("Username (Email)", "", "name@example.com"),
		passwordField("Password"),
		textField("Full Name", "", ""),
	}
	if f.role == models.RoleBinOwner {
		f.fields = append(f.fields,
			textField("Address", "", ""),
			textField("Mobile Number", "", "07XXXXXXXX"),
		)
	}
	f.focusFirst()
	return f
}

// Role is the role the form creates.
func (f *userCreateForm) Role() models.Role { return f.role }

func (f *userCreateForm) View() string {
	body := labelStyle.Render("Role: "+f.role.Label()) + "\n\n" + f.renderFields()
	return f.chrome(body, "Create "+f.role.Label())
}

func (f *userCreateForm) Submit() screens.Task {
	if f.role != models.RoleCollector && f.role != models.RoleBinOwner {
		return f.invalid("Cannot add Admin users from this form yet.")
	}
	username, password, name := f.fields[0].value(), f.fields[1].input.Value(), f.fields[2].value()
	if username == "" || password == "" {
		return f.invalid("Username and password are required.")
	}

	if f.role == models.RoleBinOwner {
		req := models.RegisterRequest{
			Username:     username,
			Password:     password,
			Name:         name,
			Address:      f.fields[3].value(),
			MobileNumber: f.fields[4].value(),
		}
		return f.save(func(ctx context.Context) error {
			return f.api.Register(ctx, req)
		}, "Failed to create user")
	}
	req := models.CollectorCreateRequest{Username: username, Password: password, Name: name}
	return f.save(func(ctx context.Context) error {
		return f.api.CreateCollector(ctx, req)
	}, "Failed to create user")
}

// userEditForm renames a user.
type userEditForm struct {
	base
	api  API
	user models.User
}

func newUserEditForm(m shell.Edit, a API, c Committer) *userEditForm {
	f := &userEditForm{base: base{kind: shell.FormUserEdit, commit: c}, api: a}
	if u, ok := m.Target.(models.User); ok {
		f.user = u
	}
	f.fields = []*field{textField("Full Name", f.user.FullName, "")}
	f.focusFirst()
	return f
}

func (f *userEditForm) View() string {
	body := labelStyle.Render("Username: "+f.user.Username) + "\n\n" + f.renderFields()
	return f.chrome(body, "Save Changes")
}

func (f *userEditForm) Submit() screens.Task {
	name := f.fields[0].value()
	if name == "" {
		return f.invalid("Name cannot be empty.")
	}
	id := f.user.ID
	return f.save(func(ctx context.Context) error {
		return f.api.UpdateUser(ctx, id, name)
	}, "Failed to update user")
}

// profileForm edits the signed-in user's display name.
type profileForm struct {
	base
	api  API
	user models.User
}

func newProfileForm(m shell.EditProfile, a API, c Committer) *profileForm {
	f := &profileForm{base: base{kind: shell.FormProfile, commit: c}, api: a, user: m.User}
	f.fields = []*field{textField("Full Name", m.User.FullName, "")}
	f.focusFirst()
	return f
}

func (f *profileForm) View() string {
	body := labelStyle.Render("Username: "+f.user.Username) + "\n\n" + f.renderFields()
	return f.chrome(body, "Save Profile")
}

func (f *profileForm) Submit() screens.Task {
	name := f.fields[0].value()
	if name == "" {
		return f.invalid("Name cannot be empty.")
	}
	return f.save(func(ctx context.Context) error {
		_, err := f.api.UpdateProfile(ctx, name)
		return err
	}, "Failed to update profile")
}
