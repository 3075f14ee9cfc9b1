package domain

import "strings"

// View identifies a page of the shell.
type View string

const (
	ViewLanding   View = "landing"
	ViewAuth      View = "auth"
	ViewLogin     View = "login"
	ViewDashboard View = "dashboard"
	ViewPortfolio View = "portfolio"
	ViewTrade     View = "trade"
	ViewHistory   View = "history"
	ViewAnalytics View = "analytics"
	ViewSettings  View = "settings"
)

// LoginPath is where every denied navigation lands.
const LoginPath = "/login"

var publicViews = map[View]struct{}{
	ViewLanding: {},
	ViewAuth:    {},
	ViewLogin:   {},
}

// Protected reports whether the view needs a credential. Views not known
// to be public are protected.
func (v View) Protected() bool {
	_, public := publicViews[v]
	return !public
}

// ViewFromPath maps a request path to the view that owns it, using the
// first path segment ("/trade/orders" → trade).
func ViewFromPath(path string) View {
	seg, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	if seg == "" {
		return ViewLanding
	}
	return View(seg)
}

// Decision is the guard's verdict for one navigation.
type Decision struct {
	Allowed    bool
	RedirectTo string
}

func Allow() Decision { return Decision{Allowed: true} }

func RedirectToLogin() Decision { return Decision{RedirectTo: LoginPath} }
