package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"sales-dashboard/internal/models"
)

// Login renders the sign-in form. message is shown above the form when set.
func Login(message string) templ.Component {
	form := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<form class="login" method="post" action="/login"><h2>Sales Dashboard</h2>`); err != nil {
			return err
		}
		if message != "" {
			if _, err := fmt.Fprintf(w, `<p class="error" role="alert">%s</p>`, templ.EscapeString(message)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, `<label>Username <input name="username" autocomplete="username" required></label>`+
			`<label>Password <input name="password" type="password" autocomplete="current-password" required></label>`+
			`<label>Role <select name="role"><option>%s</option><option>%s</option></select></label>`+
			`<button type="submit">Sign in</button></form>`,
			templ.EscapeString(string(models.RoleSalesRep)), templ.EscapeString(string(models.RoleManagement)))
		return err
	})
	return Layout("Sign in", form)
}
