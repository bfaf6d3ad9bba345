package templates

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/a-h/templ"
)

// DashboardView is what the page shell needs to know about the viewer.
type DashboardView struct {
	DisplayName string
	Role        string
	RepID       string
	Management  bool
	Source      string
	Records     int
	LoadedAt    time.Time
}

type panel struct {
	id, title, endpoint string
	synthetic           bool
}

func (v DashboardView) panels() []panel {
	if v.Management {
		return []panel{
			{id: "top-reps", title: "Top Representatives", endpoint: "/sse/top-reps"},
			{id: "top-accounts", title: "Top Accounts", endpoint: "/sse/top-accounts"},
			{id: "territory", title: "Territory", endpoint: "/sse/territory"},
			{id: "activity", title: "Activity Summary", endpoint: "/sse/activity"},
		}
	}
	rep := url.PathEscape(v.RepID)
	return []panel{
		{id: "territory", title: "My Territory", endpoint: "/sse/territory"},
		{id: "bonus", title: "Bonus Standings", endpoint: "/sse/bonus"},
		{id: "schedule", title: "Compensation Model (illustrative)", endpoint: "/sse/reps/" + rep + "/schedule", synthetic: true},
		{id: "activity", title: "My Activity", endpoint: "/sse/reps/" + rep + "/activity"},
	}
}

// Dashboard renders the page shell; every panel fills itself over SSE.
func Dashboard(v DashboardView) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w, `<header><strong>Sales Dashboard</strong><span>%s &middot; %s <form method="post" action="/logout" style="display:inline"><button type="submit">Sign out</button></form></span></header>`,
			templ.EscapeString(v.DisplayName), templ.EscapeString(v.Role)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<main><div id="kpi-cards" class="cards" data-on-load="@get('/sse/overview')"><p class="placeholder">Loading metrics&hellip;</p></div>`); err != nil {
			return err
		}
		for _, p := range v.panels() {
			class := "panel"
			if p.synthetic {
				class += " synthetic"
			}
			if _, err := fmt.Fprintf(w, `<section class="%s"><h2>%s</h2><div id="%s" data-on-load="@get('%s')"><p class="placeholder">Loading&hellip;</p></div></section>`,
				class, templ.EscapeString(p.title), p.id, templ.EscapeString(p.endpoint)); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(w, `<footer class="placeholder">Source %s &middot; %d records &middot; loaded %s</footer></main>`,
			templ.EscapeString(v.Source), v.Records, v.LoadedAt.Format(time.RFC1123))
		return err
	})
	return Layout("Sales Dashboard", body)
}
