package adminusers

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"

	"godam/frontend/shared/html"
)

func UsersListPage(data PageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := html.Banner("info", data.Status).Render(ctx, w); err != nil {
			return err
		}
		if err := html.Banner("error", data.ErrorMessage).Render(ctx, w); err != nil {
			return err
		}
		var b strings.Builder
		b.WriteString(`<h1>Users</h1><table class="grid"><thead><tr><th>ID</th><th>Username</th><th>Role</th></tr></thead><tbody>`)
		for _, u := range data.Users {
			fmt.Fprintf(&b, `<tr><td>%d</td><td>%s</td><td>%s</td></tr>`, u.ID, templ.EscapeString(u.Username), templ.EscapeString(u.Role))
		}
		b.WriteString(`</tbody></table>
<h2>New user</h2>
<form method="post" action="/tasker/admin/users" class="stack">
  <label>Username <input type="text" name="username" required></label>
  <label>Password <input type="password" name="password" autocomplete="new-password" required></label>
  <label>Role <select name="role"><option value="dispatcher">Dispatcher</option><option value="admin">Admin</option></select></label>
  <button type="submit">Create</button>
</form>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
	return html.Layout("Users", &data.Nav, body)
}
