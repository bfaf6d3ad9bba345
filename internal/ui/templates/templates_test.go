package templates

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestLogin_EscapesMessage(t *testing.T) {
	var b strings.Builder
	if err := Login(`<script>alert(1)</script>`).Render(context.Background(), &b); err != nil {
		t.Fatal(err)
	}
	html := b.String()
	if strings.Contains(html, "<script>alert") {
		t.Error("message must be escaped")
	}
	for _, want := range []string{`action="/login"`, "Sales Representative", "Management"} {
		if !strings.Contains(html, want) {
			t.Errorf("expected %q in login page", want)
		}
	}
}

func TestDashboard_PanelsByRole(t *testing.T) {
	tests := []struct {
		name    string
		view    DashboardView
		want    []string
		notWant []string
	}{
		{
			name:    "management",
			view:    DashboardView{DisplayName: "Boss", Role: "Management", Management: true, LoadedAt: time.Now()},
			want:    []string{"/sse/overview", "/sse/top-reps", "/sse/top-accounts"},
			notWant: []string{"/schedule"},
		},
		{
			name:    "sales rep",
			view:    DashboardView{DisplayName: "Alice", Role: "Sales Representative", RepID: "Alice Smith", LoadedAt: time.Now()},
			want:    []string{"/sse/reps/Alice%20Smith/schedule", "synthetic", "/sse/bonus"},
			notWant: []string{"/sse/top-reps"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			if err := Dashboard(tt.view).Render(context.Background(), &b); err != nil {
				t.Fatal(err)
			}
			html := b.String()
			for _, s := range tt.want {
				if !strings.Contains(html, s) {
					t.Errorf("expected %q in page", s)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(html, s) {
					t.Errorf("did not expect %q in page", s)
				}
			}
		})
	}
}
