package service

import (
	"context"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/nstepa/storefront/internal/errs"
	"github.com/nstepa/storefront/internal/limiter"
	"github.com/nstepa/storefront/internal/mail"
	"github.com/nstepa/storefront/internal/model"
	"github.com/nstepa/storefront/internal/payment"
	"github.com/nstepa/storefront/internal/repository"
)

/************ users ************/

type fakeUsers struct {
	byEmail map[string]*model.User

	createErr error
	getErr    error
	setRTErr  error
}

var _ repository.UserRepository = (*fakeUsers)(nil)

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byEmail: map[string]*model.User{}}
}

func (f *fakeUsers) Create(_ context.Context, u *model.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byEmail[u.Email]; exists {
		return errs.ErrAlreadyExists
	}
	cpy := *u
	f.byEmail[u.Email] = &cpy
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byEmail[email]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) List(_ context.Context) ([]model.User, error) {
	var out []model.User
	for _, u := range f.byEmail {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUsers) SetResetToken(_ context.Context, id uuid.UUID, token string, expiry time.Time) error {
	if f.setRTErr != nil {
		return f.setRTErr
	}
	for _, u := range f.byEmail {
		if u.ID == id {
			exp := expiry
			u.ResetToken, u.ResetExpiry = token, &exp
			return nil
		}
	}
	return errs.ErrNotFound
}

func (f *fakeUsers) GetByLiveResetToken(_ context.Context, token string, now time.Time) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.ResetToken != "" && u.ResetToken == token && u.ResetExpiry != nil && u.ResetExpiry.After(now) {
			c := *u
			return &c, nil
		}
	}
	return nil, errs.ErrResetToken
}

func (f *fakeUsers) RotatePassword(_ context.Context, id uuid.UUID, pwdHash, saltAuth []byte) error {
	for _, u := range f.byEmail {
		if u.ID == id {
			u.PwdHash = append([]byte(nil), pwdHash...)
			u.SaltAuth = append([]byte(nil), saltAuth...)
			u.ResetToken, u.ResetExpiry = "", nil
			return nil
		}
	}
	return errs.ErrNotFound
}

func (f *fakeUsers) SetCapabilities(_ context.Context, id uuid.UUID, caps []model.Capability) error {
	for _, u := range f.byEmail {
		if u.ID == id {
			u.Capabilities = append([]model.Capability(nil), caps...)
			return nil
		}
	}
	return errs.ErrNotFound
}

/************ products ************/

type fakeProducts struct {
	byID map[uuid.UUID]*model.Product
}

var _ repository.ProductRepository = (*fakeProducts)(nil)

func newFakeProducts() *fakeProducts {
	return &fakeProducts{byID: map[uuid.UUID]*model.Product{}}
}

func (f *fakeProducts) Create(_ context.Context, p *model.Product) error {
	cpy := *p
	f.byID[p.ID] = &cpy
	return nil
}

func (f *fakeProducts) Get(_ context.Context, id uuid.UUID) (*model.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *p
	return &c, nil
}

func (f *fakeProducts) List(_ context.Context, limit, offset int) ([]model.Product, error) {
	var out []model.Product
	for _, p := range f.byID {
		out = append(out, *p)
	}
	if offset > len(out) {
		offset = len(out)
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeProducts) Update(_ context.Context, id uuid.UUID, upd repository.ProductUpdate) (*model.Product, error) {
	p, ok := f.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.PriceCents != nil {
		p.PriceCents = *upd.PriceCents
	}
	if upd.Image != nil {
		p.Image = *upd.Image
	}
	if upd.LargeImage != nil {
		p.LargeImage = *upd.LargeImage
	}
	c := *p
	return &c, nil
}

func (f *fakeProducts) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.byID[id]; !ok {
		return errs.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

/************ limiter ************/

type fakeLimiter struct {
	allowOK  bool
	allowErr error

	failBlocked bool

	allowCalls   int
	failureCalls int
	successCalls int
}

var _ limiter.Limiter = (*fakeLimiter)(nil)

func (l *fakeLimiter) Allow(context.Context, string, []byte) (bool, time.Duration, error) {
	l.allowCalls++
	return l.allowOK, 0, l.allowErr
}

func (l *fakeLimiter) Success(context.Context, string, []byte) error {
	l.successCalls++
	return nil
}

func (l *fakeLimiter) Failure(context.Context, string, []byte) (bool, time.Duration, error) {
	l.failureCalls++
	return l.failBlocked, 0, nil
}

/************ mailer ************/

type sentMail struct {
	to, subject, body string
}

type fakeMailer struct {
	sent    []sentMail
	sendErr error
}

var _ mail.Sender = (*fakeMailer)(nil)

func (m *fakeMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	if m.sendErr != nil {
		return m.sendErr
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

/************ carts ************/

type fakeCarts struct {
	lines    map[uuid.UUID]*model.CartLine
	products map[uuid.UUID]*model.Product

	// onList runs after a ListWithProducts snapshot is taken, to simulate
	// concurrent cart activity during the charge round-trip.
	onList func()
}

var _ repository.CartRepository = (*fakeCarts)(nil)

func newFakeCarts() *fakeCarts {
	return &fakeCarts{
		lines:    map[uuid.UUID]*model.CartLine{},
		products: map[uuid.UUID]*model.Product{},
	}
}

func (f *fakeCarts) addProduct(title string, priceCents int64) uuid.UUID {
	id := uuid.Must(uuid.NewV4())
	f.products[id] = &model.Product{ID: id, Title: title, PriceCents: priceCents}
	return id
}

func (f *fakeCarts) AddOrIncrement(_ context.Context, userID, productID uuid.UUID) (*model.CartLine, error) {
	if _, ok := f.products[productID]; !ok {
		return nil, errs.ErrNotFound
	}
	for _, ln := range f.lines {
		if ln.UserID == userID && ln.ProductID == productID {
			ln.Quantity++
			c := *ln
			return &c, nil
		}
	}
	ln := &model.CartLine{
		ID:        uuid.Must(uuid.NewV4()),
		UserID:    userID,
		ProductID: productID,
		Quantity:  1,
	}
	f.lines[ln.ID] = ln
	c := *ln
	return &c, nil
}

func (f *fakeCarts) Get(_ context.Context, lineID uuid.UUID) (*model.CartLine, error) {
	ln, ok := f.lines[lineID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	c := *ln
	return &c, nil
}

func (f *fakeCarts) Delete(_ context.Context, lineID uuid.UUID) error {
	if _, ok := f.lines[lineID]; !ok {
		return errs.ErrNotFound
	}
	delete(f.lines, lineID)
	return nil
}

func (f *fakeCarts) ListWithProducts(_ context.Context, userID uuid.UUID) ([]model.CartItem, error) {
	var out []model.CartItem
	for _, ln := range f.lines {
		if ln.UserID != userID {
			continue
		}
		out = append(out, model.CartItem{Line: *ln, Product: *f.products[ln.ProductID]})
	}
	if f.onList != nil {
		hook := f.onList
		f.onList = nil
		hook()
	}
	return out, nil
}

/************ orders ************/

type fakeOrders struct {
	carts *fakeCarts

	created   []*model.Order
	createErr error
}

var _ repository.OrderRepository = (*fakeOrders)(nil)

func (f *fakeOrders) CreateAndClearCart(_ context.Context, o *model.Order, cartLineIDs []uuid.UUID) error {
	if f.createErr != nil {
		return f.createErr
	}
	cpy := *o
	f.created = append(f.created, &cpy)
	for _, id := range cartLineIDs {
		delete(f.carts.lines, id)
	}
	return nil
}

func (f *fakeOrders) Get(_ context.Context, id uuid.UUID) (*model.Order, error) {
	for _, o := range f.created {
		if o.ID == id {
			c := *o
			return &c, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (f *fakeOrders) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Order, error) {
	var out []model.Order
	for _, o := range f.created {
		if o.UserID == userID {
			out = append(out, *o)
		}
	}
	return out, nil
}

/************ gateway ************/

type fakeGateway struct {
	requests []payment.ChargeRequest

	chargeErr error
	// amountOverride, when non-zero, is reported as the charged amount
	// instead of the requested one.
	amountOverride int64
	// onCharge runs during the charge round-trip.
	onCharge func()
}

var _ payment.Gateway = (*fakeGateway)(nil)

func (g *fakeGateway) Charge(_ context.Context, req payment.ChargeRequest) (*payment.ChargeResult, error) {
	g.requests = append(g.requests, req)
	if g.onCharge != nil {
		g.onCharge()
	}
	if g.chargeErr != nil {
		return nil, g.chargeErr
	}
	amount := req.AmountCents
	if g.amountOverride != 0 {
		amount = g.amountOverride
	}
	return &payment.ChargeResult{ID: "ch_" + req.IdempotencyKey[:8], AmountCents: amount}, nil
}
