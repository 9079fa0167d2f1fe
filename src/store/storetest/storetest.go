// Package storetest provides an in-memory Store for workflow tests.
//
// Transactions are serialized by a single mutex and rolled back by restoring a
// snapshot, which mirrors the isolation the seat-type row lock gives on postgres.
package storetest

import (
	"context"
	"errors"
	"livevibe/src/models"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txKey struct{}

type Store struct {
	mu sync.Mutex

	users     map[uuid.UUID]models.User
	events    map[uuid.UUID]models.Event
	seatTypes map[uuid.UUID]models.EventSeatType
	tickets   map[uuid.UUID]models.Ticket
	orders    map[uuid.UUID]models.Order

	failures        map[string]error
	beforeDecrement func(st *models.EventSeatType)
	calls           []string
}

func New() *Store {
	return &Store{
		users:     map[uuid.UUID]models.User{},
		events:    map[uuid.UUID]models.Event{},
		seatTypes: map[uuid.UUID]models.EventSeatType{},
		tickets:   map[uuid.UUID]models.Ticket{},
		orders:    map[uuid.UUID]models.Order{},
		failures:  map[string]error{},
	}
}

// FailOn makes the named method return err until cleared with a nil err.
func (s *Store) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, method)
		return
	}
	s.failures[method] = err
}

// BeforeDecrement runs fn on the stored seat type right before the
// conditional decrement checks it, as if another buyer committed in between.
func (s *Store) BeforeDecrement(fn func(st *models.EventSeatType)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.beforeDecrement = fn
}

// Calls lists the row-locking reads and refund writes in the order they ran.
func (s *Store) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.clone()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.restore(snapshot)
		return err
	}
	return nil
}

func (s *Store) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *Store) fail(method string) error {
	return s.failures[method]
}

type snapshot struct {
	users     map[uuid.UUID]models.User
	events    map[uuid.UUID]models.Event
	seatTypes map[uuid.UUID]models.EventSeatType
	tickets   map[uuid.UUID]models.Ticket
	orders    map[uuid.UUID]models.Order
}

func (s *Store) clone() snapshot {
	return snapshot{
		users:     copyMap(s.users),
		events:    copyMap(s.events),
		seatTypes: copyMap(s.seatTypes),
		tickets:   copyMap(s.tickets),
		orders:    copyMap(s.orders),
	}
}

func (s *Store) restore(snap snapshot) {
	s.users = snap.users
	s.events = snap.events
	s.seatTypes = snap.seatTypes
	s.tickets = snap.tickets
	s.orders = snap.orders
}

func copyMap[V any](m map[uuid.UUID]V) map[uuid.UUID]V {
	out := make(map[uuid.UUID]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Seeding and inspection helpers.

func (s *Store) AddUser(u models.User) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	s.users[u.ID] = u
	return u
}

func (s *Store) AddEvent(e models.Event) models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	e.SeatTypes = nil
	e.Tickets = nil
	s.events[e.ID] = e
	return e
}

// AddSeatType stores the seat type without a ticket pool.
func (s *Store) AddSeatType(st models.EventSeatType) models.EventSeatType {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	st.Event = nil
	st.Tickets = nil
	s.seatTypes[st.ID] = st
	return st
}

func (s *Store) SeatType(id uuid.UUID) (models.EventSeatType, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.seatTypes[id]
	return st, ok
}

func (s *Store) Ticket(id uuid.UUID) (models.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tickets[id]
	return t, ok
}

func (s *Store) Order(id uuid.UUID) (models.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	return o, ok
}

func (s *Store) Event(id uuid.UUID) (models.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	return e, ok
}

func (s *Store) TicketsBySeatType(seatTypeID uuid.UUID) []models.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Ticket
	for _, t := range s.tickets {
		if t.SeatTypeID == seatTypeID {
			out = append(out, t)
		}
	}
	sortTickets(out)
	return out
}

func (s *Store) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func sortTickets(tickets []models.Ticket) {
	sort.Slice(tickets, func(i, j int) bool {
		if tickets[i].SeatTypeID != tickets[j].SeatTypeID {
			return tickets[i].SeatTypeID.String() < tickets[j].SeatTypeID.String()
		}
		return tickets[i].SeatNumber < tickets[j].SeatNumber
	})
}

// Repository methods.

func (s *Store) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	defer s.lock(ctx)()
	if err := s.fail("GetUser"); err != nil {
		return nil, err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (s *Store) GetEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	defer s.lock(ctx)()
	e, ok := s.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &e, nil
}

func (s *Store) GetSeatType(ctx context.Context, id uuid.UUID) (*models.EventSeatType, error) {
	defer s.lock(ctx)()
	st, ok := s.seatTypes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &st, nil
}

func (s *Store) GetSeatTypeByName(ctx context.Context, eventID uuid.UUID, name string) (*models.EventSeatType, error) {
	defer s.lock(ctx)()
	for _, st := range s.seatTypes {
		if st.EventID == eventID && strings.EqualFold(st.Name, name) {
			return &st, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *Store) CreateSeatType(ctx context.Context, seatType *models.EventSeatType) error {
	defer s.lock(ctx)()
	if seatType.ID == uuid.Nil {
		seatType.ID = uuid.New()
	}
	if _, ok := s.seatTypes[seatType.ID]; ok {
		return gorm.ErrDuplicatedKey
	}
	st := *seatType
	st.Event = nil
	st.Tickets = nil
	s.seatTypes[st.ID] = st
	return nil
}

func (s *Store) DecrementAvailableSeats(ctx context.Context, seatTypeID uuid.UUID, n int) (bool, error) {
	defer s.lock(ctx)()
	if err := s.fail("DecrementAvailableSeats"); err != nil {
		return false, err
	}
	st, ok := s.seatTypes[seatTypeID]
	if ok && s.beforeDecrement != nil {
		s.beforeDecrement(&st)
		s.seatTypes[seatTypeID] = st
	}
	if !ok || st.AvailableSeats < n {
		return false, nil
	}
	st.AvailableSeats -= n
	s.seatTypes[seatTypeID] = st
	return true, nil
}

func (s *Store) IncrementAvailableSeats(ctx context.Context, seatTypeID uuid.UUID, n int) (bool, error) {
	defer s.lock(ctx)()
	st, ok := s.seatTypes[seatTypeID]
	if !ok {
		return false, nil
	}
	st.AvailableSeats = min(st.AvailableSeats+n, st.Capacity)
	s.seatTypes[seatTypeID] = st
	return true, nil
}

func (s *Store) CountActiveTicketsBySeatType(ctx context.Context, seatTypeID uuid.UUID) (int64, error) {
	defer s.lock(ctx)()
	var n int64
	for _, t := range s.tickets {
		if t.SeatTypeID == seatTypeID && t.IsActive() {
			n++
		}
	}
	return n, nil
}

func (s *Store) FindReusableTickets(ctx context.Context, seatTypeID uuid.UUID, limit int) ([]models.Ticket, error) {
	defer s.lock(ctx)()
	var out []models.Ticket
	for _, t := range s.tickets {
		if t.SeatTypeID == seatTypeID && t.IsReusable() {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WasRefunded != out[j].WasRefunded {
			return out[i].WasRefunded
		}
		return out[i].SeatNumber < out[j].SeatNumber
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *Store) MaxSeatNumber(ctx context.Context, seatTypeID uuid.UUID) (int, error) {
	defer s.lock(ctx)()
	max := 0
	for _, t := range s.tickets {
		if t.SeatTypeID == seatTypeID && t.SeatNumber > max {
			max = t.SeatNumber
		}
	}
	return max, nil
}

func (s *Store) CreateTickets(ctx context.Context, tickets []models.Ticket) error {
	defer s.lock(ctx)()
	if err := s.fail("CreateTickets"); err != nil {
		return err
	}
	for i := range tickets {
		if tickets[i].ID == uuid.Nil {
			tickets[i].ID = uuid.New()
		}
		for _, existing := range s.tickets {
			if existing.SeatTypeID == tickets[i].SeatTypeID && existing.SeatNumber == tickets[i].SeatNumber {
				return gorm.ErrDuplicatedKey
			}
		}
		t := tickets[i]
		t.Event = nil
		t.SeatType = nil
		t.Order = nil
		s.tickets[t.ID] = t
	}
	return nil
}

func (s *Store) AssignTickets(ctx context.Context, ticketIDs []uuid.UUID, orderID uuid.UUID, price decimal.Decimal) error {
	defer s.lock(ctx)()
	for _, id := range ticketIDs {
		t, ok := s.tickets[id]
		if !ok {
			continue
		}
		oid := orderID
		t.OrderID = &oid
		t.WasRefunded = false
		t.Price = price
		s.tickets[id] = t
	}
	return nil
}

func (s *Store) MarkTicketsRefunded(ctx context.Context, ticketIDs []uuid.UUID) (int64, error) {
	defer s.lock(ctx)()
	s.calls = append(s.calls, "MarkTicketsRefunded")
	var n int64
	for _, id := range ticketIDs {
		t, ok := s.tickets[id]
		if !ok || t.WasRefunded {
			continue
		}
		t.WasRefunded = true
		s.tickets[id] = t
		n++
	}
	return n, nil
}

func (s *Store) GetTicket(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	defer s.lock(ctx)()
	t, ok := s.tickets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if e, ok := s.events[t.EventID]; ok {
		t.Event = &e
	}
	if st, ok := s.seatTypes[t.SeatTypeID]; ok {
		t.SeatType = &st
	}
	if t.OrderID != nil {
		if o, ok := s.orders[*t.OrderID]; ok {
			t.Order = &o
		}
	}
	return &t, nil
}

func (s *Store) TicketOrderID(ctx context.Context, id uuid.UUID) (*uuid.UUID, error) {
	defer s.lock(ctx)()
	t, ok := s.tickets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t.OrderID, nil
}

func (s *Store) GetTicketForUpdate(ctx context.Context, id uuid.UUID) (*models.Ticket, error) {
	defer s.lock(ctx)()
	s.calls = append(s.calls, "GetTicketForUpdate")
	t, ok := s.tickets[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &t, nil
}

func (s *Store) SetTicketQRCode(ctx context.Context, id uuid.UUID, code string) error {
	defer s.lock(ctx)()
	t, ok := s.tickets[id]
	if !ok || t.QRCode != nil {
		return nil
	}
	c := code
	t.QRCode = &c
	s.tickets[id] = t
	return nil
}

func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	defer s.lock(ctx)()
	if err := s.fail("CreateOrder"); err != nil {
		return err
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	o := *order
	o.Tickets = nil
	o.User = nil
	s.orders[o.ID] = o
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	defer s.lock(ctx)()
	o, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	o.Tickets = s.orderTickets(id)
	return &o, nil
}

func (s *Store) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	defer s.lock(ctx)()
	s.calls = append(s.calls, "GetOrderForUpdate")
	o, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	o.Tickets = s.orderTickets(id)
	return &o, nil
}

func (s *Store) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	defer s.lock(ctx)()
	var out []models.Order
	for _, o := range s.orders {
		if o.UserID == userID {
			o.Tickets = s.orderTickets(o.ID)
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) orderTickets(orderID uuid.UUID) []models.Ticket {
	var out []models.Ticket
	for _, t := range s.tickets {
		if t.OrderID != nil && *t.OrderID == orderID {
			if e, ok := s.events[t.EventID]; ok {
				t.Event = &e
			}
			if st, ok := s.seatTypes[t.SeatTypeID]; ok {
				t.SeatType = &st
			}
			out = append(out, t)
		}
	}
	sortTickets(out)
	return out
}

func (s *Store) UpdateOrderRefunded(ctx context.Context, orderID uuid.UUID, refunded bool) error {
	defer s.lock(ctx)()
	o, ok := s.orders[orderID]
	if !ok {
		return nil
	}
	o.WasRefunded = refunded
	s.orders[orderID] = o
	return nil
}

func (s *Store) CountTicketsByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	defer s.lock(ctx)()
	var n int64
	for _, t := range s.tickets {
		if t.OrderID != nil && *t.OrderID == orderID {
			n++
		}
	}
	return n, nil
}

func (s *Store) CountActiveTicketsByOrder(ctx context.Context, orderID uuid.UUID) (int64, error) {
	defer s.lock(ctx)()
	var n int64
	for _, t := range s.tickets {
		if t.OrderID != nil && *t.OrderID == orderID && !t.WasRefunded {
			n++
		}
	}
	return n, nil
}

func (s *Store) DeleteOrphanOrders(ctx context.Context, ids ...uuid.UUID) (int64, error) {
	defer s.lock(ctx)()
	owned := map[uuid.UUID]bool{}
	for _, t := range s.tickets {
		if t.OrderID != nil {
			owned[*t.OrderID] = true
		}
	}
	candidates := ids
	if len(candidates) == 0 {
		for id := range s.orders {
			candidates = append(candidates, id)
		}
	}
	var n int64
	for _, id := range candidates {
		if _, ok := s.orders[id]; ok && !owned[id] {
			delete(s.orders, id)
			n++
		}
	}
	return n, nil
}

func (s *Store) OrderIDsByEvent(ctx context.Context, eventID uuid.UUID) ([]uuid.UUID, error) {
	defer s.lock(ctx)()
	seen := map[uuid.UUID]bool{}
	var out []uuid.UUID
	for _, t := range s.tickets {
		if t.EventID == eventID && t.OrderID != nil && !seen[*t.OrderID] {
			seen[*t.OrderID] = true
			out = append(out, *t.OrderID)
		}
	}
	return out, nil
}

func (s *Store) DeleteEvent(ctx context.Context, eventID uuid.UUID) error {
	defer s.lock(ctx)()
	if err := s.fail("DeleteEvent"); err != nil {
		return err
	}
	if _, ok := s.events[eventID]; !ok {
		return errors.New("storetest: event not found")
	}
	for id, t := range s.tickets {
		if t.EventID == eventID {
			delete(s.tickets, id)
		}
	}
	for id, st := range s.seatTypes {
		if st.EventID == eventID {
			delete(s.seatTypes, id)
		}
	}
	delete(s.events, eventID)
	return nil
}
