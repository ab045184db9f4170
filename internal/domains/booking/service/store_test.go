package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"escaperoom/internal/domains/booking/model"
	"escaperoom/internal/domains/booking/repository"
	roomModel "escaperoom/internal/domains/room/model"
	"escaperoom/shared/daterange"
	gDto "escaperoom/shared/dto"
)

// memoryStore is an in-process repository.Booking. One mutex plays the part of the room row lock.
type memoryStore struct {
	mu       sync.Mutex
	rooms    map[string]roomModel.Room
	bookings map[string]model.Booking
}

func newMemoryStore(rooms ...roomModel.Room) *memoryStore {
	store := &memoryStore{
		rooms:    map[string]roomModel.Room{},
		bookings: map[string]model.Booking{},
	}

	for _, room := range rooms {
		store.rooms[room.ID] = room
	}

	return store
}

func (m *memoryStore) put(booking model.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.bookings[booking.ID] = booking
}

func (m *memoryStore) status(id string) model.Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.bookings[id].Status
}

func (m *memoryStore) Get(_ context.Context, filter gDto.FilterGroup, _ ...string) (model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, _ := filter.Filters[0].(gDto.Filter).Value.(string)

	return m.bookings[id], nil
}

func (m *memoryStore) GetDetail(_ context.Context, id string) (model.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	booking, ok := m.bookings[id]
	if !ok {
		return model.BookingDetail{}, nil
	}

	return model.BookingDetail{Booking: booking, RoomName: m.rooms[booking.RoomID].Name}, nil
}

func (m *memoryStore) GetAllDetails(_ context.Context, _ gDto.QueryParams, _ gDto.FilterGroup) ([]model.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	details := []model.BookingDetail{}
	for _, booking := range m.bookings {
		details = append(details, model.BookingDetail{Booking: booking})
	}

	return details, nil
}

func (m *memoryStore) Count(_ context.Context, _ gDto.FilterGroup) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.bookings), nil
}

func (m *memoryStore) InsertIfFree(_ context.Context, booking model.Booking, threshold time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rooms[booking.RoomID]; !ok {
		return repository.ErrNotFound
	}

	if !m.free(booking.RoomID, window(booking), threshold, "") {
		return repository.ErrConflict
	}

	m.bookings[booking.ID] = booking

	return nil
}

func (m *memoryStore) UpdateIfFree(_ context.Context, booking model.Booking, expected model.Status, threshold time.Time, check bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if check && !m.free(booking.RoomID, window(booking), threshold, booking.ID) {
		return repository.ErrConflict
	}

	stored, ok := m.bookings[booking.ID]
	if !ok || stored.Status != expected {
		return repository.ErrNotModified
	}

	m.bookings[booking.ID] = booking

	return nil
}

func (m *memoryStore) Confirm(_ context.Context, id string, threshold time.Time, _ string) (bool, error) {
	return m.transition(id, model.StatusConfirmed, func(b model.Booking) bool {
		return b.Status == model.StatusPending && b.CreatedAt.After(threshold)
	}), nil
}

func (m *memoryStore) Release(_ context.Context, id string, _ string) (bool, error) {
	return m.transition(id, model.StatusReleased, func(b model.Booking) bool {
		return b.Status == model.StatusPending
	}), nil
}

func (m *memoryStore) Cancel(_ context.Context, id string, _ string) (bool, error) {
	return m.transition(id, model.StatusCancelled, func(b model.Booking) bool {
		return b.Status == model.StatusPending || b.Status == model.StatusConfirmed
	}), nil
}

func (m *memoryStore) IsRoomFree(_ context.Context, roomID string, win daterange.Range, threshold time.Time, excludeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.free(roomID, win, threshold, excludeID), nil
}

func (m *memoryStore) FreeRooms(_ context.Context, win daterange.Range, threshold time.Time) ([]roomModel.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rooms := []roomModel.Room{}
	for id, room := range m.rooms {
		if m.free(id, win, threshold, "") {
			rooms = append(rooms, room)
		}
	}

	sort.Slice(rooms, func(i, j int) bool { return rooms[i].Name < rooms[j].Name })

	return rooms, nil
}

func (m *memoryStore) transition(id string, to model.Status, guard func(model.Booking) bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	booking, ok := m.bookings[id]
	if !ok || !guard(booking) {
		return false
	}

	booking.Status = to
	m.bookings[id] = booking

	return true
}

func (m *memoryStore) free(roomID string, win daterange.Range, threshold time.Time, excludeID string) bool {
	for _, other := range m.bookings {
		if other.RoomID != roomID || other.ID == excludeID {
			continue
		}

		if window(other).Overlaps(win) && model.Blocks(other.Status, other.CreatedAt, threshold) {
			return false
		}
	}

	return true
}

func window(booking model.Booking) daterange.Range {
	return daterange.Range{Start: booking.StartTime, End: booking.EndTime}
}
