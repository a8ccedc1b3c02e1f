package seatmap

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/omniwatch/cinema-client/internal/domain"
)

// ErrLoadSuperseded is returned when a newer Load for a different showtime
// finished before this one; the stale layout was discarded instead of being
// applied over current state.
var ErrLoadSuperseded = errors.New("seat layout load superseded by a newer request")

// SeatAPI is the slice of the gateway the model fetches through.
type SeatAPI interface {
	ShowtimeSeats(ctx context.Context, showtimeID int) ([]domain.Seat, error)
}

// Row is one display row of the seat map.
type Row struct {
	Label string
	Seats []domain.Seat
}

// Model tracks the seat layout of the showtime on display and the user's
// selection within it. The selection is always a subset of the last
// successfully loaded layout; switching showtimes clears it.
type Model struct {
	api SeatAPI

	mu         sync.Mutex
	generation uint64
	showtimeID int
	seats      []domain.Seat
	byID       map[int]domain.Seat
	selected   map[int]struct{}
}

func New(api SeatAPI) *Model {
	return &Model{
		api:      api,
		byID:     map[int]domain.Seat{},
		selected: map[int]struct{}{},
	}
}

// Load replaces the current layout with a fresh snapshot for the given
// showtime and clears the selection. If another Load was issued while this
// one was in flight, the fetched layout is dropped and ErrLoadSuperseded is
// returned so stale data never overwrites newer state.
func (m *Model) Load(ctx context.Context, showtimeID int) ([]domain.Seat, error) {
	m.mu.Lock()
	m.generation++
	generation := m.generation
	m.mu.Unlock()

	seats, err := m.api.ShowtimeSeats(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if generation != m.generation {
		return nil, ErrLoadSuperseded
	}

	m.showtimeID = showtimeID
	m.seats = seats
	m.byID = make(map[int]domain.Seat, len(seats))
	for _, seat := range seats {
		m.byID[seat.ID] = seat
	}
	m.selected = map[int]struct{}{}

	return seats, nil
}

// Toggle flips the seat's membership in the selection and reports whether
// anything changed. Unknown and unavailable seats are a no-op.
func (m *Model) Toggle(seatID int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	seat, ok := m.byID[seatID]
	if !ok || !seat.Available {
		return false
	}

	if _, ok := m.selected[seatID]; ok {
		delete(m.selected, seatID)
	} else {
		m.selected[seatID] = struct{}{}
	}

	return true
}

func (m *Model) ShowtimeID() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.showtimeID
}

// Selected returns the selected seats ordered by row then number.
func (m *Model) Selected() []domain.Seat {
	m.mu.Lock()
	defer m.mu.Unlock()

	seats := make([]domain.Seat, 0, len(m.selected))
	for id := range m.selected {
		seats = append(seats, m.byID[id])
	}

	sortSeats(seats)

	return seats
}

func (m *Model) SelectedIDs() []int {
	seats := m.Selected()

	ids := make([]int, len(seats))
	for i, seat := range seats {
		ids[i] = seat.ID
	}

	return ids
}

func (m *Model) IsSelected(seatID int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.selected[seatID]

	return ok
}

// SeatByLabel resolves a display label like "D7" to the seat it names in
// the current layout.
func (m *Model) SeatByLabel(label string) (domain.Seat, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, seat := range m.seats {
		if seat.Label() == label {
			return seat, true
		}
	}

	return domain.Seat{}, false
}

// Rows partitions the layout for display: rows in lexicographic order,
// seats within a row by ascending number. This ordering is part of the
// model's contract.
func (m *Model) Rows() []Row {
	m.mu.Lock()
	seats := make([]domain.Seat, len(m.seats))
	copy(seats, m.seats)
	m.mu.Unlock()

	if len(seats) == 0 {
		return nil
	}

	sortSeats(seats)

	var rows []Row
	current := Row{Label: seats[0].Row}

	for _, seat := range seats {
		if seat.Row != current.Label {
			rows = append(rows, current)
			current = Row{Label: seat.Row}
		}

		current.Seats = append(current.Seats, seat)
	}

	rows = append(rows, current)

	return rows
}

func sortSeats(seats []domain.Seat) {
	sort.Slice(seats, func(i, j int) bool {
		if seats[i].Row != seats[j].Row {
			return seats[i].Row < seats[j].Row
		}

		return seats[i].Number < seats[j].Number
	})
}
