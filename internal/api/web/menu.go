package web

import "net/url"

// MenuItem is one entry of the side panel
type MenuItem struct {
	Label  string
	Href   string
	Active bool
}

// Menu is the navigation shell around every page. Open/closed lives in
// the menu=open query parameter, so it never outlives the page.
type Menu struct {
	Open       bool
	Items      []MenuItem
	ToggleHref string
	CloseHref  string
}

// NewMenu builds the shell for the requested URL
func NewMenu(u *url.URL) Menu {
	open := u.Query().Get("menu") == "open"
	return Menu{
		Open: open,
		Items: []MenuItem{
			// Chat always starts a new conversation
			{Label: "Chat", Href: "/chat?new=true", Active: u.Path == "/chat"},
			{Label: "PDF Viewer", Href: "/pdf", Active: u.Path == "/pdf"},
			{Label: "Past Threads", Href: "/threads", Active: u.Path == "/threads"},
		},
		ToggleHref: withMenu(u, !open),
		CloseHref:  withMenu(u, false),
	}
}

func withMenu(u *url.URL, open bool) string {
	q := u.Query()
	if open {
		q.Set("menu", "open")
	} else {
		q.Del("menu")
	}
	next := url.URL{Path: u.Path, RawQuery: q.Encode()}
	return next.String()
}
