package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"food-track/internal/domain/courier"
	"food-track/internal/domain/geo"
	"food-track/internal/domain/order"
	"food-track/internal/general/logger"
	"food-track/internal/general/memcache"
	"food-track/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ----- in-memory fakes -----

type fakeUOW struct{}

func (fakeUOW) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*order.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*order.Order)}
}

func (r *fakeOrderRepo) CreateOrder(_ context.Context, ord *order.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ord.ID = fmt.Sprintf("ord-%d", len(r.orders)+1)
	r.orders[ord.ID] = ord
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (*order.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ord, ok := r.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return ord, nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, ord *order.Order, _ order.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.orders[ord.ID]; !ok {
		return order.ErrNotFound
	}
	r.orders[ord.ID] = ord
	return nil
}

func (r *fakeOrderRepo) SetCourier(_ context.Context, orderID, courierID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ord, ok := r.orders[orderID]
	if !ok {
		return order.ErrNotFound
	}
	ord.CourierID = &courierID
	return nil
}

func (r *fakeOrderRepo) UpdateDeliveryLocation(_ context.Context, orderID string, pt geo.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	ord, ok := r.orders[orderID]
	if !ok {
		return order.ErrNotFound
	}
	ord.DeliveryLocation = &pt
	return nil
}

func (r *fakeOrderRepo) CourierAssignment(_ context.Context, orderID string) (*string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ord, ok := r.orders[orderID]
	if !ok {
		return nil, order.ErrNotFound
	}
	return ord.CourierID, nil
}

type fakeCourierRepo struct {
	mu       sync.Mutex
	couriers map[string]*courier.Courier
}

func newFakeCourierRepo() *fakeCourierRepo {
	return &fakeCourierRepo{couriers: make(map[string]*courier.Courier)}
}

func (r *fakeCourierRepo) CreateCourier(_ context.Context, c *courier.Courier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.ID = fmt.Sprintf("cour-%d", len(r.couriers)+1)
	r.couriers[c.ID] = c
	return nil
}

func (r *fakeCourierRepo) GetByID(_ context.Context, id string) (*courier.Courier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.couriers[id]
	if !ok {
		return nil, courier.ErrNotFound
	}
	return c, nil
}

func (r *fakeCourierRepo) SaveBookkeeping(_ context.Context, c *courier.Courier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.couriers[c.ID]; !ok {
		return courier.ErrNotFound
	}
	r.couriers[c.ID] = c
	return nil
}

func (r *fakeCourierRepo) UpdateLocation(_ context.Context, courierID string, pt geo.Point) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.couriers[courierID]
	if !ok {
		return courier.ErrNotFound
	}
	c.CurrentLocation = &pt
	return nil
}

type broadcastRecord struct {
	OrderID string
	Event   string
	Payload any
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []broadcastRecord
}

func (b *fakeBroadcaster) Broadcast(_ context.Context, orderID, event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, broadcastRecord{OrderID: orderID, Event: event, Payload: payload})
}

func (b *fakeBroadcaster) byEvent(event string) []broadcastRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []broadcastRecord
	for _, e := range b.events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

type publishRecord struct {
	Exchange   string
	RoutingKey string
}

type fakePublisher struct {
	mu       sync.Mutex
	messages []publishRecord
}

func (p *fakePublisher) Publish(exchange, routingKey string, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, publishRecord{Exchange: exchange, RoutingKey: routingKey})
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.messages)
}

func (p *fakePublisher) lastRoutingKey() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.messages) == 0 {
		return ""
	}
	return p.messages[len(p.messages)-1].RoutingKey
}

// ----- fixture -----

type fixture struct {
	svc      ports.TrackingService
	orders   *fakeOrderRepo
	couriers *fakeCourierRepo
	cache    *memcache.LocationCache
	rooms    *fakeBroadcaster
	pub      *fakePublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		orders:   newFakeOrderRepo(),
		couriers: newFakeCourierRepo(),
		cache:    memcache.New(5 * time.Minute),
		rooms:    &fakeBroadcaster{},
		pub:      &fakePublisher{},
	}
	f.svc = NewTrackingService(logger.New("tracking-test"), fakeUOW{}, f.orders, f.couriers, f.cache, f.rooms, f.pub, nil)
	return f
}

func (f *fixture) createOrder(t *testing.T) string {
	t.Helper()
	res, err := f.svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID:   "cust-1",
		RestaurantID: "rest-1",
		Items:        []order.Item{{Name: "Ramen", Quantity: 1, Price: 14}},
		TotalAmount:  14,
	})
	require.NoError(t, err)
	return res.OrderID
}

func (f *fixture) seedCourier(t *testing.T, name string) string {
	t.Helper()
	c, err := courier.NewCourier(name)
	require.NoError(t, err)
	require.NoError(t, f.couriers.CreateCourier(context.Background(), c))
	return c.ID
}

// ----- tests -----

func TestCreateOrder(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.CreateOrder(context.Background(), ports.CreateOrderInput{
		CustomerID:   "cust-1",
		RestaurantID: "rest-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "PENDING", res.Status)
	assert.NotEmpty(t, res.OrderID)
	assert.Contains(t, f.pub.lastRoutingKey(), "order.status.")
}

func TestCreateCourier(t *testing.T) {
	ctx := context.Background()

	t.Run("seeds an available courier with a starting position", func(t *testing.T) {
		f := newFixture(t)
		lat, lng := 40.70, -74.01

		res, err := f.svc.CreateCourier(ctx, ports.CreateCourierInput{Name: "Dana", Latitude: &lat, Longitude: &lng})
		require.NoError(t, err)
		assert.NotEmpty(t, res.CourierID)
		assert.True(t, res.IsAvailable)

		c, err := f.couriers.GetByID(ctx, res.CourierID)
		require.NoError(t, err)
		require.NotNil(t, c.CurrentLocation)
		assert.Equal(t, 40.70, c.CurrentLocation.Latitude)
	})

	t.Run("blank name is rejected", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CreateCourier(ctx, ports.CreateCourierInput{Name: "  "})
		assert.ErrorIs(t, err, courier.ErrNameRequired)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("commits and fans out", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.createOrder(t)

		res, err := f.svc.UpdateStatus(ctx, ports.UpdateStatusInput{
			OrderID: orderID, Target: order.StatusConfirmed, ActorLabel: "restaurant",
		})
		require.NoError(t, err)
		assert.Equal(t, "CONFIRMED", res.Status)

		events := f.rooms.byEvent("status_changed")
		require.Len(t, events, 1)
		assert.Equal(t, orderID, events[0].OrderID)
		assert.Equal(t, "order.status."+orderID, f.pub.lastRoutingKey())
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.UpdateStatus(ctx, ports.UpdateStatusInput{
			OrderID: "ord-404", Target: order.StatusConfirmed, ActorLabel: "restaurant",
		})
		assert.ErrorIs(t, err, order.ErrNotFound)
	})

	t.Run("out_for_delivery requires a courier and broadcasts nothing on failure", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.createOrder(t)

		_, err := f.svc.UpdateStatus(ctx, ports.UpdateStatusInput{
			OrderID: orderID, Target: order.StatusOutForDelivery, ActorLabel: "restaurant",
		})
		assert.ErrorIs(t, err, order.ErrNoCourierAssigned)
		assert.Empty(t, f.rooms.byEvent("status_changed"))
	})

	t.Run("cancel releases the courier and purges the cache", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.createOrder(t)
		courierID := f.seedCourier(t, "Dana")

		_, err := f.svc.AssignCourier(ctx, ports.AssignCourierInput{OrderID: orderID, CourierID: courierID})
		require.NoError(t, err)
		_, err = f.svc.ReportLocation(ctx, ports.ReportLocationInput{OrderID: orderID, Latitude: 40.7, Longitude: -74.0})
		require.NoError(t, err)

		_, err = f.svc.UpdateStatus(ctx, ports.UpdateStatusInput{OrderID: orderID, Target: order.StatusCancelled, ActorLabel: "admin"})
		require.NoError(t, err)

		c, err := f.couriers.GetByID(ctx, courierID)
		require.NoError(t, err)
		assert.True(t, c.IsAvailable)
		assert.Zero(t, c.CompletedDeliveries)

		cached, err := f.cache.Get(ctx, orderID)
		require.NoError(t, err)
		assert.Nil(t, cached, "terminal transition must purge the cached sample")
	})
}

func TestAssignCourier(t *testing.T) {
	ctx := context.Background()

	t.Run("binds the courier and moves the order out for delivery", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.createOrder(t)
		courierID := f.seedCourier(t, "Dana")

		res, err := f.svc.AssignCourier(ctx, ports.AssignCourierInput{OrderID: orderID, CourierID: courierID})
		require.NoError(t, err)
		assert.Equal(t, courierID, res.Courier.CourierID)
		assert.Equal(t, "Dana", res.Courier.Name)
		assert.Equal(t, "OUT_FOR_DELIVERY", res.Status)
		assert.NotNil(t, res.EstimatedDeliveryTime, "first out_for_delivery stamps the delivery window")

		c, _ := f.couriers.GetByID(ctx, courierID)
		assert.False(t, c.IsAvailable)
		assert.True(t, c.HasActiveOrder(orderID))

		require.Len(t, f.rooms.byEvent("courier_assigned"), 1)
	})

	t.Run("seeds the cache from the courier's last position", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.createOrder(t)
		courierID := f.seedCourier(t, "Dana")
		c, _ := f.couriers.GetByID(ctx, courierID)
		require.NoError(t, c.UpdateLocation(40.70, -74.01, time.Now().UTC()))

		_, err := f.svc.AssignCourier(ctx, ports.AssignCourierInput{OrderID: orderID, CourierID: courierID})
		require.NoError(t, err)

		cached, err := f.cache.Get(ctx, orderID)
		require.NoError(t, err)
		require.NotNil(t, cached)
		assert.Equal(t, 40.70, cached.Latitude)

		ord, _ := f.orders.GetByID(ctx, orderID)
		require.NotNil(t, ord.DeliveryLocation)
		assert.Equal(t, 40.70, ord.DeliveryLocation.Latitude)
	})

	t.Run("reassignment releases the previous courier", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.createOrder(t)
		first := f.seedCourier(t, "Dana")
		second := f.seedCourier(t, "Lee")

		_, err := f.svc.AssignCourier(ctx, ports.AssignCourierInput{OrderID: orderID, CourierID: first})
		require.NoError(t, err)
		_, err = f.svc.AssignCourier(ctx, ports.AssignCourierInput{OrderID: orderID, CourierID: second})
		require.NoError(t, err)

		prev, _ := f.couriers.GetByID(ctx, first)
		assert.True(t, prev.IsAvailable)
		assert.False(t, prev.HasActiveOrder(orderID))

		next, _ := f.couriers.GetByID(ctx, second)
		assert.False(t, next.IsAvailable)
		assert.True(t, next.HasActiveOrder(orderID))

		ord, _ := f.orders.GetByID(ctx, orderID)
		require.NotNil(t, ord.CourierID)
		assert.Equal(t, second, *ord.CourierID)
	})

	t.Run("re-assigning the held courier fans nothing out", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.createOrder(t)
		courierID := f.seedCourier(t, "Dana")

		_, err := f.svc.AssignCourier(ctx, ports.AssignCourierInput{OrderID: orderID, CourierID: courierID})
		require.NoError(t, err)
		published := f.pub.count()

		res, err := f.svc.AssignCourier(ctx, ports.AssignCourierInput{OrderID: orderID, CourierID: courierID})
		require.NoError(t, err)
		assert.Equal(t, "OUT_FOR_DELIVERY", res.Status)
		assert.Equal(t, courierID, res.Courier.CourierID)

		assert.Len(t, f.rooms.byEvent("courier_assigned"), 1)
		assert.Equal(t, published, f.pub.count())

		ord, _ := f.orders.GetByID(ctx, orderID)
		assert.Len(t, ord.StatusHistory, 2, "history holds only PENDING and the first assignment")
	})

	t.Run("busy courier is rejected", func(t *testing.T) {
		f := newFixture(t)
		firstOrder := f.createOrder(t)
		secondOrder := f.createOrder(t)
		courierID := f.seedCourier(t, "Dana")

		_, err := f.svc.AssignCourier(ctx, ports.AssignCourierInput{OrderID: firstOrder, CourierID: courierID})
		require.NoError(t, err)

		_, err = f.svc.AssignCourier(ctx, ports.AssignCourierInput{OrderID: secondOrder, CourierID: courierID})
		assert.ErrorIs(t, err, courier.ErrUnavailable)
	})

	t.Run("terminal order is rejected", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.createOrder(t)
		courierID := f.seedCourier(t, "Dana")

		_, err := f.svc.UpdateStatus(ctx, ports.UpdateStatusInput{OrderID: orderID, Target: order.StatusCancelled, ActorLabel: "customer"})
		require.NoError(t, err)

		_, err = f.svc.AssignCourier(ctx, ports.AssignCourierInput{OrderID: orderID, CourierID: courierID})
		assert.ErrorIs(t, err, order.ErrTerminalState)
	})
}

func TestReportLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("no courier means no writes anywhere", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.createOrder(t)

		_, err := f.svc.ReportLocation(ctx, ports.ReportLocationInput{OrderID: orderID, Latitude: 40.7, Longitude: -74.0})
		assert.ErrorIs(t, err, order.ErrNoCourierAssigned)

		cached, err := f.cache.Get(ctx, orderID)
		require.NoError(t, err)
		assert.Nil(t, cached)

		ord, _ := f.orders.GetByID(ctx, orderID)
		assert.Nil(t, ord.DeliveryLocation)
		assert.Empty(t, f.rooms.byEvent("location_updated"))
	})

	t.Run("invalid coordinates rejected before any write", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.createOrder(t)
		courierID := f.seedCourier(t, "Dana")
		_, err := f.svc.AssignCourier(ctx, ports.AssignCourierInput{OrderID: orderID, CourierID: courierID})
		require.NoError(t, err)

		_, err = f.svc.ReportLocation(ctx, ports.ReportLocationInput{OrderID: orderID, Latitude: 91, Longitude: 0})
		assert.ErrorIs(t, err, geo.ErrInvalidLatitude)
	})

	t.Run("repeated reports keep the latest sample and broadcast each one", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.createOrder(t)
		courierID := f.seedCourier(t, "Dana")
		_, err := f.svc.AssignCourier(ctx, ports.AssignCourierInput{OrderID: orderID, CourierID: courierID})
		require.NoError(t, err)

		lats := []float64{40.71, 40.72, 40.73}
		for _, lat := range lats {
			_, err := f.svc.ReportLocation(ctx, ports.ReportLocationInput{OrderID: orderID, Latitude: lat, Longitude: -74.0})
			require.NoError(t, err)
		}

		cached, err := f.cache.Get(ctx, orderID)
		require.NoError(t, err)
		require.NotNil(t, cached)
		assert.Equal(t, 40.73, cached.Latitude)
		assert.Equal(t, courierID, cached.CourierID)

		assert.Len(t, f.rooms.byEvent("location_updated"), 3)

		// durable stamp mirrors the last report
		ord, _ := f.orders.GetByID(ctx, orderID)
		require.NotNil(t, ord.DeliveryLocation)
		assert.Equal(t, 40.73, ord.DeliveryLocation.Latitude)

		c, _ := f.couriers.GetByID(ctx, courierID)
		require.NotNil(t, c.CurrentLocation)
		assert.Equal(t, 40.73, c.CurrentLocation.Latitude)
	})
}

func TestMarkDelivered(t *testing.T) {
	ctx := context.Background()

	setup := func(t *testing.T) (*fixture, string, string) {
		f := newFixture(t)
		orderID := f.createOrder(t)
		courierID := f.seedCourier(t, "Dana")
		_, err := f.svc.AssignCourier(ctx, ports.AssignCourierInput{OrderID: orderID, CourierID: courierID})
		require.NoError(t, err)
		_, err = f.svc.ReportLocation(ctx, ports.ReportLocationInput{OrderID: orderID, Latitude: 40.7, Longitude: -74.0})
		require.NoError(t, err)
		return f, orderID, courierID
	}

	t.Run("completes the flow", func(t *testing.T) {
		f, orderID, courierID := setup(t)

		res, err := f.svc.MarkDelivered(ctx, ports.MarkDeliveredInput{OrderID: orderID, CourierID: courierID})
		require.NoError(t, err)
		assert.Equal(t, "DELIVERED", res.Status)

		c, _ := f.couriers.GetByID(ctx, courierID)
		assert.True(t, c.IsAvailable)
		assert.Equal(t, 1, c.CompletedDeliveries)

		cached, err := f.cache.Get(ctx, orderID)
		require.NoError(t, err)
		assert.Nil(t, cached, "delivery must purge the cached sample")

		assert.Len(t, f.rooms.byEvent("delivered"), 1)
		assert.Equal(t, "order.delivered."+orderID, f.pub.lastRoutingKey())
	})

	t.Run("repeated delivery command settles the courier once", func(t *testing.T) {
		f, orderID, courierID := setup(t)

		_, err := f.svc.MarkDelivered(ctx, ports.MarkDeliveredInput{OrderID: orderID, CourierID: courierID})
		require.NoError(t, err)
		res, err := f.svc.MarkDelivered(ctx, ports.MarkDeliveredInput{OrderID: orderID, CourierID: courierID})
		require.NoError(t, err, "a redelivered command is accepted")
		assert.Equal(t, "DELIVERED", res.Status)

		c, _ := f.couriers.GetByID(ctx, courierID)
		assert.Equal(t, 1, c.CompletedDeliveries, "the same delivery must not count twice")
		assert.True(t, c.IsAvailable)

		assert.Len(t, f.rooms.byEvent("delivered"), 1, "completion is announced once")
		assert.Equal(t, "order.status."+orderID, f.pub.lastRoutingKey(),
			"the duplicate routes as a plain status event")
	})

	t.Run("wrong courier is rejected", func(t *testing.T) {
		f, orderID, _ := setup(t)
		other := f.seedCourier(t, "Lee")

		_, err := f.svc.MarkDelivered(ctx, ports.MarkDeliveredInput{OrderID: orderID, CourierID: other})
		assert.ErrorIs(t, err, ErrCourierMismatch)
	})

	t.Run("unassigned order is rejected", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.createOrder(t)

		_, err := f.svc.MarkDelivered(ctx, ports.MarkDeliveredInput{OrderID: orderID, CourierID: "cour-1"})
		assert.ErrorIs(t, err, order.ErrNoCourierAssigned)
	})
}

func TestGetTrackingSnapshot(t *testing.T) {
	ctx := context.Background()

	t.Run("prefers the cached location", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.createOrder(t)
		courierID := f.seedCourier(t, "Dana")
		_, err := f.svc.AssignCourier(ctx, ports.AssignCourierInput{OrderID: orderID, CourierID: courierID})
		require.NoError(t, err)
		_, err = f.svc.ReportLocation(ctx, ports.ReportLocationInput{OrderID: orderID, Latitude: 40.71, Longitude: -74.0})
		require.NoError(t, err)

		// poke a fresher sample straight into the cache
		require.NoError(t, f.cache.Set(ctx, ports.LocationSample{
			OrderID: orderID, CourierID: courierID, Latitude: 40.99, Longitude: -74.0, SampledAt: time.Now().UTC(),
		}))

		snap, err := f.svc.GetTrackingSnapshot(ctx, orderID)
		require.NoError(t, err)
		require.NotNil(t, snap.DeliveryLocation)
		assert.Equal(t, 40.99, snap.DeliveryLocation.Latitude)
		require.NotNil(t, snap.Courier)
		assert.Equal(t, "Dana", snap.Courier.Name)
	})

	t.Run("falls back to the durable stamp on a cache miss", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.createOrder(t)
		courierID := f.seedCourier(t, "Dana")
		_, err := f.svc.AssignCourier(ctx, ports.AssignCourierInput{OrderID: orderID, CourierID: courierID})
		require.NoError(t, err)
		_, err = f.svc.ReportLocation(ctx, ports.ReportLocationInput{OrderID: orderID, Latitude: 40.71, Longitude: -74.0})
		require.NoError(t, err)

		require.NoError(t, f.cache.Purge(ctx, orderID))

		snap, err := f.svc.GetTrackingSnapshot(ctx, orderID)
		require.NoError(t, err)
		require.NotNil(t, snap.DeliveryLocation)
		assert.Equal(t, 40.71, snap.DeliveryLocation.Latitude)
	})

	t.Run("carries history and placement data", func(t *testing.T) {
		f := newFixture(t)
		orderID := f.createOrder(t)
		_, err := f.svc.UpdateStatus(ctx, ports.UpdateStatusInput{OrderID: orderID, Target: order.StatusConfirmed, ActorLabel: "restaurant"})
		require.NoError(t, err)

		snap, err := f.svc.GetTrackingSnapshot(ctx, orderID)
		require.NoError(t, err)
		assert.Equal(t, "CONFIRMED", snap.Status)
		require.Len(t, snap.StatusHistory, 2)
		assert.Equal(t, "PENDING", snap.StatusHistory[0].Status)
		assert.Equal(t, "CONFIRMED", snap.StatusHistory[1].Status)
		require.Len(t, snap.Items, 1)
		assert.Equal(t, "Ramen", snap.Items[0].Name)
		assert.Nil(t, snap.DeliveryLocation)
	})

	t.Run("unknown order", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.GetTrackingSnapshot(ctx, "ord-404")
		assert.ErrorIs(t, err, order.ErrNotFound)
	})
}
