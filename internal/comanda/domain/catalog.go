package domain

import "github.com/shopspring/decimal"

// Category groups products on the menu. Server-owned, read-mostly.
type Category struct {
	ID   string
	Name string
}

// Product is a menu entry. Banner is the backend's reference to the uploaded
// banner image; empty when none was uploaded.
type Product struct {
	ID          string
	Name        string
	Price       decimal.Decimal
	Description string
	CategoryID  string
	Banner      string
}

// User identifies the signed-in operator.
type User struct {
	ID    string
	Name  string
	Email string
}

// Session is the current authentication state. The zero value means
// unauthenticated.
type Session struct {
	Token string
	User  User
}

// Authenticated reports whether a token is held.
func (s Session) Authenticated() bool {
	return s.Token != ""
}
