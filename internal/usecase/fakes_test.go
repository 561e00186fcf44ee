package usecase

import (
	"context"
	"sync"

	domain "github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/entity"
)

// memOrderRepo is an in-memory OrderRepo whose UpdateStatusIf has the
// same compare-and-set semantics as the MySQL adapter.
type memOrderRepo struct {
	mu     sync.Mutex
	orders map[string]*domain.Order // by id
}

func newMemOrderRepo(orders ...*domain.Order) *memOrderRepo {
	r := &memOrderRepo{orders: map[string]*domain.Order{}}
	for _, o := range orders {
		r.orders[o.ID] = o
	}
	return r
}

func (r *memOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.orders {
		if existing.OrderNumber == o.OrderNumber {
			return domain.ErrDuplicateOrderNumber
		}
	}
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *memOrderRepo) GetByNumber(_ context.Context, number string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.OrderNumber == number {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memOrderRepo) GetByGatewayPaymentID(_ context.Context, paymentID string) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.GatewayPaymentID == paymentID {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memOrderRepo) SetGatewayPayment(_ context.Context, orderID, paymentID, rawStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[orderID]; ok {
		o.GatewayPaymentID = paymentID
		o.GatewayPaymentStatus = rawStatus
	}
	return nil
}

func (r *memOrderRepo) SetGatewayPaymentStatus(_ context.Context, orderID, rawStatus string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[orderID]; ok {
		o.GatewayPaymentStatus = rawStatus
	}
	return nil
}

func (r *memOrderRepo) UpdateStatusIf(_ context.Context, orderID string, from, to domain.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	return true, nil
}

func (r *memOrderRepo) SetTrackingCode(_ context.Context, orderID, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if o, ok := r.orders[orderID]; ok {
		o.TrackingCode = code
	}
	return nil
}

func (r *memOrderRepo) status(orderID string) domain.Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.orders[orderID].Status
}

// memStockRepo clamps at zero like the MySQL adapter.
type memStockRepo struct {
	mu         sync.Mutex
	stock      map[string]int
	decrements int
}

func newMemStockRepo(stock map[string]int) *memStockRepo {
	return &memStockRepo{stock: stock}
}

func (r *memStockRepo) Decrement(_ context.Context, productID string, qty int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decrements++
	left := r.stock[productID] - qty
	if left < 0 {
		left = 0
	}
	r.stock[productID] = left
	return left, nil
}

type fakeGateway struct {
	EnsureCustomerFunc    func(ctx context.Context, c domain.Customer) (string, error)
	CreatePixPaymentFunc  func(ctx context.Context, in CreatePixInput) (*PixCharge, error)
	CreateCardPaymentFunc func(ctx context.Context, in CreateCardInput) (*CardCharge, error)
	GetPaymentFunc        func(ctx context.Context, paymentID string) (*PaymentInfo, error)
}

func (g *fakeGateway) EnsureCustomer(ctx context.Context, c domain.Customer) (string, error) {
	if g.EnsureCustomerFunc != nil {
		return g.EnsureCustomerFunc(ctx, c)
	}
	return "cus_1", nil
}

func (g *fakeGateway) CreatePixPayment(ctx context.Context, in CreatePixInput) (*PixCharge, error) {
	if g.CreatePixPaymentFunc != nil {
		return g.CreatePixPaymentFunc(ctx, in)
	}
	return &PixCharge{PaymentID: "pay_pix", RawStatus: "pending"}, nil
}

func (g *fakeGateway) CreateCardPayment(ctx context.Context, in CreateCardInput) (*CardCharge, error) {
	if g.CreateCardPaymentFunc != nil {
		return g.CreateCardPaymentFunc(ctx, in)
	}
	return &CardCharge{PaymentID: "pay_card", Approved: true, RawStatus: "approved"}, nil
}

func (g *fakeGateway) GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error) {
	if g.GetPaymentFunc != nil {
		return g.GetPaymentFunc(ctx, paymentID)
	}
	return &PaymentInfo{PaymentID: paymentID, Status: "approved"}, nil
}

type recordingQueue struct {
	mu   sync.Mutex
	jobs []NotificationJob
	err  error
}

func (q *recordingQueue) PublishJob(_ context.Context, job NotificationJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *recordingQueue) byChannel(ch NotificationChannel) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := 0
	for _, j := range q.jobs {
		if j.Channel == ch {
			n++
		}
	}
	return n
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []OrderStatusChangedMsg
	err    error
}

func (p *recordingPublisher) PublishStatusChanged(_ context.Context, ev OrderStatusChangedMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

type memIdempotencyStore struct {
	mu   sync.Mutex
	seen map[string]string
}

func newMemIdempotencyStore() *memIdempotencyStore {
	return &memIdempotencyStore{seen: map[string]string{}}
}

func (s *memIdempotencyStore) Remember(_ context.Context, scope, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[scope+":"+key] = value
	return nil
}

func (s *memIdempotencyStore) Recall(_ context.Context, scope, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.seen[scope+":"+key]
	return v, ok, nil
}

type memStatusCache struct {
	mu       sync.Mutex
	statuses map[string]domain.Status
}

func newMemStatusCache() *memStatusCache {
	return &memStatusCache{statuses: map[string]domain.Status{}}
}

func (c *memStatusCache) SetStatus(_ context.Context, orderNumber string, status domain.Status) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.statuses[orderNumber] = status
	return nil
}

func (c *memStatusCache) GetStatus(_ context.Context, orderNumber string) (domain.Status, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.statuses[orderNumber]
	return s, ok, nil
}

type fakeCouponRepo struct {
	GetByCodeFunc func(ctx context.Context, code string) (*domain.Coupon, error)
}

func (r *fakeCouponRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	if r.GetByCodeFunc != nil {
		return r.GetByCodeFunc(ctx, code)
	}
	return nil, nil
}
