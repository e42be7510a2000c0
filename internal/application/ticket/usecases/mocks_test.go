package usecases

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"fastighet/internal/application/ticket/dispatcher"
	"fastighet/internal/domain/property"
	"fastighet/internal/domain/shared/events"
	"fastighet/internal/domain/ticket"
	"fastighet/internal/domain/ticket/policy"
	"fastighet/internal/domain/user"
	"fastighet/internal/shared/authorization"
	"fastighet/internal/shared/errors"
	"fastighet/internal/shared/logger"
	"fastighet/internal/shared/services/markdown"
)

// mockTicketRepository keeps aggregates in memory and enforces the version
// check the gorm repository performs.
type mockTicketRepository struct {
	tickets     map[uint]*ticket.Ticket
	versions    map[uint]int
	nextID      uint
	nextChildID uint
	updates     int

	UpdateFunc func(ctx context.Context, t *ticket.Ticket) error
	lastFilter ticket.TicketFilter
}

func newMockTicketRepository() *mockTicketRepository {
	return &mockTicketRepository{
		tickets:  make(map[uint]*ticket.Ticket),
		versions: make(map[uint]int),
	}
}

func (m *mockTicketRepository) Create(_ context.Context, t *ticket.Ticket) error {
	m.nextID++
	if err := t.SetID(m.nextID); err != nil {
		return err
	}
	m.persistChildren(t)
	t.MarkPersisted(1)
	m.tickets[t.ID()] = t
	m.versions[t.ID()] = 1
	return nil
}

func (m *mockTicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	if m.UpdateFunc != nil {
		if err := m.UpdateFunc(ctx, t); err != nil {
			return err
		}
	}
	stored, ok := m.versions[t.ID()]
	if !ok {
		return errors.NewNotFoundError("ticket not found")
	}
	if stored != t.Version() {
		return errors.NewConflictError("ticket was modified concurrently")
	}
	m.persistChildren(t)
	m.versions[t.ID()] = stored + 1
	t.MarkPersisted(stored + 1)
	m.updates++
	return nil
}

func (m *mockTicketRepository) persistChildren(t *ticket.Ticket) {
	for _, c := range t.Comments() {
		if c.IsNew() {
			m.nextChildID++
			c.MarkPersisted(m.nextChildID, t.ID())
		}
	}
	for _, a := range t.Attachments() {
		if a.IsNew() {
			m.nextChildID++
			a.MarkPersisted(m.nextChildID, t.ID())
		}
	}
	for _, h := range t.PendingHistory() {
		m.nextChildID++
		h.MarkPersisted(m.nextChildID, t.ID())
	}
}

func (m *mockTicketRepository) Delete(_ context.Context, ticketID uint) error {
	if _, ok := m.tickets[ticketID]; !ok {
		return errors.NewNotFoundError("ticket not found")
	}
	delete(m.tickets, ticketID)
	delete(m.versions, ticketID)
	return nil
}

func (m *mockTicketRepository) GetByID(_ context.Context, ticketID uint) (*ticket.Ticket, error) {
	t, ok := m.tickets[ticketID]
	if !ok {
		return nil, errors.NewNotFoundError("ticket not found")
	}
	return t, nil
}

func (m *mockTicketRepository) List(_ context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	m.lastFilter = filter
	var out []*ticket.Ticket
	for _, t := range m.sorted() {
		if filter.ReporterID != nil && t.ReporterID() != *filter.ReporterID {
			continue
		}
		if filter.AssigneeID != nil && !t.IsAssignedTo(*filter.AssigneeID) {
			continue
		}
		if filter.PropertyID != nil && t.PropertyID() != *filter.PropertyID {
			continue
		}
		if filter.Status != nil && t.Status() != *filter.Status {
			continue
		}
		if filter.Priority != nil && t.Priority() != *filter.Priority {
			continue
		}
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

func (m *mockTicketRepository) ListStaleOpen(_ context.Context, cutoff time.Time, limit int) ([]*ticket.Ticket, error) {
	var out []*ticket.Ticket
	for _, t := range m.sorted() {
		if t.IsOpen() && t.EscalatedAt() == nil && t.CreatedAt().Before(cutoff) && len(out) < limit {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *mockTicketRepository) sorted() []*ticket.Ticket {
	out := make([]*ticket.Ticket, 0, len(m.tickets))
	for _, t := range m.tickets {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

type mockUserRepository struct {
	users map[uint]*user.User
}

func (m *mockUserRepository) Create(_ context.Context, u *user.User) error {
	m.users[u.ID()] = u
	return nil
}

func (m *mockUserRepository) GetByID(_ context.Context, id uint) (*user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, errors.NewNotFoundError("user not found")
	}
	return u, nil
}

func (m *mockUserRepository) GetByIDs(_ context.Context, ids []uint) ([]*user.User, error) {
	var out []*user.User
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (m *mockUserRepository) GetByEmail(_ context.Context, email string) (*user.User, error) {
	for _, u := range m.users {
		if u.Email() == email {
			return u, nil
		}
	}
	return nil, errors.NewNotFoundError("user not found")
}

func (m *mockUserRepository) SaveRelations(context.Context, *user.User) error {
	return nil
}

type mockPropertyRepository struct {
	properties map[uint]*property.Property
	units      map[uint]*property.Unit
}

func (m *mockPropertyRepository) Create(_ context.Context, p *property.Property) error {
	m.properties[p.ID()] = p
	return nil
}

func (m *mockPropertyRepository) GetByID(_ context.Context, id uint) (*property.Property, error) {
	p, ok := m.properties[id]
	if !ok {
		return nil, errors.NewNotFoundError("property not found")
	}
	return p, nil
}

func (m *mockPropertyRepository) GetByName(_ context.Context, name string) (*property.Property, error) {
	for _, p := range m.properties {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, errors.NewNotFoundError("property not found")
}

func (m *mockPropertyRepository) List(context.Context) ([]*property.Property, error) {
	out := make([]*property.Property, 0, len(m.properties))
	for _, p := range m.properties {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPropertyRepository) CreateUnit(_ context.Context, u *property.Unit) error {
	m.units[u.ID()] = u
	return nil
}

func (m *mockPropertyRepository) GetUnitByID(_ context.Context, id uint) (*property.Unit, error) {
	u, ok := m.units[id]
	if !ok {
		return nil, errors.NewNotFoundError("unit not found")
	}
	return u, nil
}

func (m *mockPropertyRepository) ListUnits(_ context.Context, propertyID uint) ([]*property.Unit, error) {
	var out []*property.Unit
	for _, u := range m.units {
		if u.PropertyID() == propertyID {
			out = append(out, u)
		}
	}
	return out, nil
}

type mockCategoryRepository struct {
	categories map[uint]*ticket.Category
}

func (m *mockCategoryRepository) GetByID(_ context.Context, id uint) (*ticket.Category, error) {
	c, ok := m.categories[id]
	if !ok {
		return nil, errors.NewNotFoundError("category not found")
	}
	return c, nil
}

func (m *mockCategoryRepository) List(context.Context) ([]*ticket.Category, error) {
	out := make([]*ticket.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCategoryRepository) Create(_ context.Context, name, description, icon string) (*ticket.Category, error) {
	c := ticket.NewCategory(uint(len(m.categories)+1), name, description, icon)
	m.categories[c.ID()] = c
	return c, nil
}

// mockTxManager runs fn directly; the mock repositories have no real
// transactions to roll back.
type mockTxManager struct {
	calls int
}

func (m *mockTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

type mockPublisher struct {
	published []*ticket.TicketEvent
	err       error
}

func (m *mockPublisher) Publish(_ context.Context, event events.DomainEvent) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, event.(*ticket.TicketEvent))
	return nil
}

func (m *mockPublisher) types() []ticket.EventType {
	out := make([]ticket.EventType, 0, len(m.published))
	for _, e := range m.published {
		out = append(out, e.Type())
	}
	return out
}

// Fixture ids. Property 1 is administered by the admin; the resident and
// the board member live there. Property 2 is somebody else's.
const (
	propertyP     uint = 1
	propertyOther uint = 2
	unitR         uint = 100
	unitB         uint = 101
	unitOther     uint = 200
	categoryVVS   uint = 5
	residentID    uint = 10
	neighbourID   uint = 11
	boardID       uint = 20
	technicianID  uint = 30
	adminID       uint = 40
	otherAdminID  uint = 41
)

var fixtureTime = time.Date(2024, 1, 15, 8, 0, 0, 0, time.UTC)

type testEnv struct {
	tickets    *mockTicketRepository
	users      *mockUserRepository
	properties *mockPropertyRepository
	categories *mockCategoryRepository
	tx         *mockTxManager
	publisher  *mockPublisher
	reader     *TicketReader
	dispatcher *dispatcher.TicketEventDispatcher
	log        logger.Interface
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		tickets: newMockTicketRepository(),
		users:   &mockUserRepository{users: make(map[uint]*user.User)},
		properties: &mockPropertyRepository{
			properties: map[uint]*property.Property{
				propertyP:     property.ReconstructProperty(propertyP, "Brf Solgläntan", "Storgatan 1", "Uppsala", []uint{adminID}, fixtureTime),
				propertyOther: property.ReconstructProperty(propertyOther, "Brf Eken", "Ekvägen 2", "Lund", []uint{otherAdminID}, fixtureTime),
			},
			units: map[uint]*property.Unit{
				unitR:     property.ReconstructUnit(unitR, propertyP, "1001", 1, []uint{residentID, neighbourID}),
				unitB:     property.ReconstructUnit(unitB, propertyP, "1002", 1, []uint{boardID}),
				unitOther: property.ReconstructUnit(unitOther, propertyOther, "2001", 2, nil),
			},
		},
		categories: &mockCategoryRepository{categories: map[uint]*ticket.Category{
			categoryVVS: ticket.NewCategory(categoryVVS, "VVS", "Water and drains", "droplet"),
		}},
		tx:        &mockTxManager{},
		publisher: &mockPublisher{},
		log:       logger.NewDiscard(),
	}

	env.addUser(t, residentID, "Rita Resident", authorization.RoleResident, []user.UnitMembership{{UnitID: unitR, PropertyID: propertyP}}, nil)
	env.addUser(t, neighbourID, "Nils Neighbour", authorization.RoleResident, []user.UnitMembership{{UnitID: unitR, PropertyID: propertyP}}, nil)
	env.addUser(t, boardID, "Bo Board", authorization.RoleBoardMember, []user.UnitMembership{{UnitID: unitB, PropertyID: propertyP}}, nil)
	env.addUser(t, technicianID, "Tor Technician", authorization.RoleTechnician, nil, nil)
	env.addUser(t, adminID, "Anna Admin", authorization.RoleAdmin, nil, []uint{propertyP})
	env.addUser(t, otherAdminID, "Olle Admin", authorization.RoleAdmin, nil, []uint{propertyOther})

	env.reader = NewTicketReader(env.users, env.properties, env.categories, markdown.NewMarkdownService(), env.log)
	env.dispatcher = dispatcher.NewTicketEventDispatcher(env.publisher, env.log)
	return env
}

func (e *testEnv) addUser(t *testing.T, id uint, name string, role authorization.UserRole, units []user.UnitMembership, admin []uint) {
	t.Helper()
	email := fmt.Sprintf("user%d@example.com", id)
	u, err := user.ReconstructUser(id, name, email, "", role, units, admin, fixtureTime, fixtureTime)
	require.NoError(t, err)
	e.users.users[id] = u
}

func (e *testEnv) actor(id uint) policy.Actor {
	return policy.ActorFromUser(e.users.users[id])
}

func (e *testEnv) createUseCase() *CreateTicketUseCase {
	return NewCreateTicketUseCase(e.tickets, e.categories, e.properties, e.tx, e.reader, e.dispatcher, e.log)
}

func (e *testEnv) getUseCase() *GetTicketUseCase {
	return NewGetTicketUseCase(e.tickets, e.reader, e.log)
}

func (e *testEnv) updateUseCase() *UpdateTicketUseCase {
	return NewUpdateTicketUseCase(e.tickets, e.categories, e.tx, e.reader, e.dispatcher, e.log)
}

func (e *testEnv) assignUseCase() *AssignTicketUseCase {
	return NewAssignTicketUseCase(e.tickets, e.users, e.tx, e.reader, e.dispatcher, e.log)
}

func (e *testEnv) commentUseCase() *AddCommentUseCase {
	return NewAddCommentUseCase(e.tickets, e.tx, e.reader, e.dispatcher, e.log)
}

// reportTicket stores a NEW ticket from the resident in property P and
// clears the published events.
func (e *testEnv) reportTicket(t *testing.T) uint {
	t.Helper()
	view, err := e.createUseCase().Execute(context.Background(), CreateTicketCommand{
		Actor:       e.actor(residentID),
		Title:       "Leaking radiator",
		Description: "The radiator in the bedroom is leaking onto the floor",
		PropertyID:  propertyP,
		UnitID:      uintPtr(unitR),
	})
	require.NoError(t, err)
	e.publisher.published = nil
	return view.ID
}

func uintPtr(v uint) *uint    { return &v }
func strPtr(s string) *string { return &s }
