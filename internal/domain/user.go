package domain

// User is the owner of purchase orders. Users are created lazily and never
// updated or deleted.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Email string `json:"email"`
}

// PlaceholderUser is inserted when an order is created against an empty
// users table.
var PlaceholderUser = User{
	Name:  "Test User",
	Age:   25,
	Email: "test@example.com",
}
