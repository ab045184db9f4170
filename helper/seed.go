package helper

import (
	"context"
	"fmt"

	"escaperoom/internal/domains/room/model"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog/log"
)

// RoomSeeder stores catalog entries, skipping ids that already exist.
type RoomSeeder interface {
	Seed(ctx context.Context, rooms []model.Room) (int64, error)
}

type catalog struct {
	Rooms []model.Room `toml:"rooms"`
}

// LoadRooms reads the [[rooms]] tables of a TOML catalog.
func LoadRooms(path string) ([]model.Room, error) {
	var file catalog

	meta, err := toml.DecodeFile(path, &file)
	if err != nil {
		return nil, fmt.Errorf("error decoding room catalog %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		log.Warn().Str("path", path).Interface("keys", undecoded).Msg("Ignoring unknown keys in room catalog")
	}

	return file.Rooms, nil
}

func Seed(ctx context.Context, seeder RoomSeeder, path string) error {
	rooms, err := LoadRooms(path)
	if err != nil {
		return err
	}

	inserted, err := seeder.Seed(ctx, rooms)
	if err != nil {
		return fmt.Errorf("error seeding rooms: %w", err)
	}

	log.Info().Int("rooms", len(rooms)).Int64("inserted", inserted).Msg("Room catalog seeded")

	return nil
}
