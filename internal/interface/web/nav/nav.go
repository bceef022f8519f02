// Package nav builds the view model of the navigation bar shown on every page.
package nav

import "github.com/qixeo/qixeo-web/internal/domain/entity"

const (
	SignInPath   = "/signin"
	RegisterPath = "/register"
	SignOutPath  = "/api/auth/signout"

	// ShortcutKey is the KeyboardEvent.key that, with meta or ctrl held, signs the user out.
	ShortcutKey  = "Backspace"
	ShortcutHint = "⌘ ⌫"
)

// Link is an entry of the main navigation.
type Link struct {
	Label        string
	Href         string
	RequiresAuth bool
}

// Item is a Link as rendered for a given path.
type Item struct {
	Link
	Active bool
}

// Product is an entry of the mobile product disclosure.
type Product struct {
	Name        string
	Description string
	Href        string
}

var links = []Link{
	{Label: "Dashboard", Href: "/", RequiresAuth: true},
	{Label: "Users", Href: "/users", RequiresAuth: true},
	{Label: "Contact", Href: "/contact"},
}

var products = []Product{
	{Name: "Analytics", Description: "Get a better understanding of your traffic", Href: "#"},
	{Name: "Engagement", Description: "Speak directly to your customers", Href: "#"},
	{Name: "Security", Description: "Your customers’ data will be safe and secure", Href: "#"},
	{Name: "Integrations", Description: "Connect with third-party tools", Href: "#"},
	{Name: "Automations", Description: "Build strategic funnels that will convert", Href: "#"},
}

var callsToAction = []Product{
	{Name: "Watch demo", Href: "#"},
	{Name: "Contact sales", Href: "#"},
}

// Links returns the navigation entries visible for status. Only an
// unauthenticated status hides entries that require authentication.
func Links(status entity.SessionStatus) []Link {
	out := make([]Link, 0, len(links))
	for _, l := range links {
		if status == entity.SessionUnauthenticated && l.RequiresAuth {
			continue
		}
		out = append(out, l)
	}
	return out
}

// Items marks the visible link whose href equals path as active.
func Items(status entity.SessionStatus, path string) []Item {
	visible := Links(status)
	out := make([]Item, 0, len(visible))
	for _, l := range visible {
		out = append(out, Item{Link: l, Active: l.Href == path})
	}
	return out
}

// Disclosure lists the mobile product entries followed by the calls to action.
func Disclosure() []Product {
	out := make([]Product, 0, len(products)+len(callsToAction))
	out = append(out, products...)
	return append(out, callsToAction...)
}

// Products returns the product entries without calls to action.
func Products() []Product {
	return append([]Product(nil), products...)
}

// CallsToAction returns the secondary entries of the product disclosure.
func CallsToAction() []Product {
	return append([]Product(nil), callsToAction...)
}

// Shell is everything the layout needs to render the navigation bar.
type Shell struct {
	Path    string
	Status  entity.SessionStatus
	Session entity.Session
	Items   []Item

	Loading      bool
	Anonymous    bool
	SignedIn     bool
	LogInActive  bool
	HideSignUp   bool
	SignUpActive bool
	AccountName  string
	AccountHref  string
	SignInHref   string
	RegisterHref string
	SignOutHref  string
	ShortcutKey  string
	ShortcutHint string
	Disclosure   []Product
	MobileOpen   bool
}

// NewShell derives the navigation state for sess on path. The mobile menu
// always starts closed.
func NewShell(sess entity.Session, path string) Shell {
	s := Shell{
		Path:         path,
		Status:       sess.Status,
		Session:      sess,
		Items:        Items(sess.Status, path),
		SignInHref:   SignInPath,
		RegisterHref: RegisterPath,
		SignOutHref:  SignOutPath,
		ShortcutKey:  ShortcutKey,
		ShortcutHint: ShortcutHint,
		Disclosure:   Disclosure(),
	}
	switch sess.Status {
	case entity.SessionLoading:
		s.Loading = true
	case entity.SessionAuthenticated:
		s.SignedIn = true
		s.AccountName = sess.Name
		if s.AccountName == "" {
			s.AccountName = sess.Email
		}
		s.AccountHref = "/users/" + sess.UserID
	default:
		s.Anonymous = true
		s.LogInActive = path == SignInPath
		s.HideSignUp = path == RegisterPath
		s.SignUpActive = path == RegisterPath
	}
	return s
}
