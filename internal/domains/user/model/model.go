package model

import "escaperoom/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID       = "id"
	FieldUsername = "username"
	FieldEmail    = "email"
	FieldPassword = "password"
)

// User is the guest behind a booking. Password stays empty until accounts exist.
type User struct {
	ID       string `db:"id"`
	Username string `db:"username"`
	Email    string `db:"email"`
	Password string `db:"password"`
	model.Metadata
}
