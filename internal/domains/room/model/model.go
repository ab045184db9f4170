package model

import "escaperoom/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID          = "id"
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
)

type Room struct {
	ID          string  `db:"id"          toml:"id"`
	Name        string  `db:"name"        toml:"name"`
	Description string  `db:"description" toml:"description"`
	Price       float64 `db:"price"       toml:"price"`
	model.Metadata
}
