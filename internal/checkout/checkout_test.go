package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/oseayemenre/bookstore/internal/models"
	"github.com/oseayemenre/bookstore/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type testLogger struct{}

func (l *testLogger) Info(msg string, args ...any)  {}
func (l *testLogger) Error(msg string, args ...any) {}
func (l *testLogger) Warn(msg string, args ...any)  {}

type memStore struct {
	mu     sync.Mutex
	users  map[string]*models.User
	books  map[primitive.ObjectID]*models.Book
	orders map[primitive.ObjectID]*models.Order

	createOrderErr error
}

func newMemStore() *memStore {
	return &memStore{
		users:  map[string]*models.User{},
		books:  map[primitive.ObjectID]*models.Book{},
		orders: map[primitive.ObjectID]*models.Order{},
	}
}

func (s *memStore) addUser(username string, blocked bool) *models.User {
	u := &models.User{Id: primitive.NewObjectID(), Username: username, Is_blocked: blocked}
	s.users[u.Id.Hex()] = u
	return u
}

func (s *memStore) addBook(title string, price float64, stock int) *models.Book {
	b := &models.Book{Id: primitive.NewObjectID(), Title: title, Price: price, Stock: stock}
	s.books[b.Id] = b
	return b
}

func (s *memStore) stock(id primitive.ObjectID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.books[id].Stock
}

func (s *memStore) orderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *memStore) GetUserById(ctx context.Context, id string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]

	if !ok {
		return nil, store.ErrUserNotFound
	}

	cp := *u
	return &cp, nil
}

func (s *memStore) GetBook(ctx context.Context, id string) (*models.Book, error) {
	oid, err := primitive.ObjectIDFromHex(id)

	if err != nil {
		return nil, store.ErrBookNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[oid]

	if !ok {
		return nil, store.ErrBookNotFound
	}

	cp := *b
	return &cp, nil
}

func (s *memStore) DecrementStock(ctx context.Context, bookId primitive.ObjectID, quantity int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[bookId]

	if !ok || b.Stock < quantity {
		return false, nil
	}

	b.Stock -= quantity
	return true, nil
}

func (s *memStore) IncrementStock(ctx context.Context, bookId primitive.ObjectID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[bookId]

	if !ok {
		return store.ErrBookNotFound
	}

	b.Stock += quantity
	return nil
}

func (s *memStore) CreateOrder(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createOrderErr != nil {
		return primitive.NilObjectID, s.createOrderErr
	}

	if order.Gateway_payment_id != "" {
		for _, o := range s.orders {
			if o.Gateway_payment_id == order.Gateway_payment_id {
				return primitive.NilObjectID, store.ErrDuplicatePayment
			}
		}
	}

	order.Id = primitive.NewObjectID()
	cp := *order
	s.orders[order.Id] = &cp

	return order.Id, nil
}

func (s *memStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)

	if err != nil {
		return nil, store.ErrOrderNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[oid]

	if !ok {
		return nil, store.ErrOrderNotFound
	}

	cp := *o
	return &cp, nil
}

func (s *memStore) GetOrderByPaymentId(ctx context.Context, paymentId string) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, o := range s.orders {
		if o.Gateway_payment_id == paymentId {
			cp := *o
			return &cp, nil
		}
	}

	return nil, store.ErrOrderNotFound
}

func (s *memStore) UpdateOrderStatus(ctx context.Context, id string, from string, to string) (*models.Order, error) {
	oid, _ := primitive.ObjectIDFromHex(id)

	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[oid]

	if !ok {
		return nil, store.ErrOrderNotFound
	}

	if o.Status != from {
		return nil, store.ErrOrderStatusConflict
	}

	o.Status = to
	cp := *o
	return &cp, nil
}

type testGateway struct {
	amounts map[string]int64
}

func (g *testGateway) FetchOrder(ctx context.Context, id string) (*models.GatewayOrder, error) {
	amount, ok := g.amounts[id]

	if !ok {
		return nil, errors.New("order not found")
	}

	return &models.GatewayOrder{Id: id, Amount: amount, Currency: "INR"}, nil
}

func total(v float64) *float64 {
	return &v
}

func TestPlaceOrder(t *testing.T) {
	t.Run("should reserve stock and create a pending order", func(t *testing.T) {
		s := newMemStore()
		user := s.addUser("reader", false)
		book := s.addBook("X", 10.5, 5)
		svc := NewService(s, &testGateway{}, "secret", &testLogger{})

		order, err := svc.PlaceOrder(context.TODO(), PlaceOrderInput{
			User_id:      user.Id.Hex(),
			Items:        []Line{{Book_id: book.Id.Hex(), Quantity: 3}},
			Total_amount: total(0),
		})

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if order.Status != models.OrderStatusPending || order.Payment_method != models.PaymentMethodCOD {
			t.Fatalf("unexpected order: %+v", order)
		}

		if order.Total_amount != 31.5 {
			t.Fatalf("expected server total 31.5, got %v", order.Total_amount)
		}

		if got := s.stock(book.Id); got != 2 {
			t.Fatalf("expected stock 2, got %d", got)
		}
	})

	t.Run("should reject a second order that exceeds remaining stock", func(t *testing.T) {
		s := newMemStore()
		user := s.addUser("reader", false)
		book := s.addBook("X", 1, 5)
		svc := NewService(s, &testGateway{}, "secret", &testLogger{})

		in := PlaceOrderInput{
			User_id:      user.Id.Hex(),
			Items:        []Line{{Book_id: book.Id.Hex(), Quantity: 3}},
			Total_amount: total(3),
		}

		if _, err := svc.PlaceOrder(context.TODO(), in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		_, err := svc.PlaceOrder(context.TODO(), in)

		var stockErr *InsufficientStockError

		if !errors.As(err, &stockErr) {
			t.Fatalf("expected InsufficientStockError, got %v", err)
		}

		if err.Error() != "Insufficient stock for X" {
			t.Fatalf("unexpected message: %s", err.Error())
		}

		if s.orderCount() != 1 || s.stock(book.Id) != 2 {
			t.Fatalf("expected first order intact, got %d orders and stock %d", s.orderCount(), s.stock(book.Id))
		}
	})

	t.Run("should leave stock unchanged when any line fails", func(t *testing.T) {
		s := newMemStore()
		user := s.addUser("reader", false)
		a := s.addBook("A", 1, 5)
		b := s.addBook("B", 1, 1)
		svc := NewService(s, &testGateway{}, "secret", &testLogger{})

		_, err := svc.PlaceOrder(context.TODO(), PlaceOrderInput{
			User_id: user.Id.Hex(),
			Items: []Line{
				{Book_id: a.Id.Hex(), Quantity: 2},
				{Book_id: b.Id.Hex(), Quantity: 2},
			},
			Total_amount: total(4),
		})

		if err == nil {
			t.Fatal("expected an error")
		}

		if s.orderCount() != 0 || s.stock(a.Id) != 5 || s.stock(b.Id) != 1 {
			t.Fatalf("expected no side effects")
		}
	})

	t.Run("should merge duplicate lines before checking stock", func(t *testing.T) {
		s := newMemStore()
		user := s.addUser("reader", false)
		book := s.addBook("X", 1, 3)
		svc := NewService(s, &testGateway{}, "secret", &testLogger{})

		_, err := svc.PlaceOrder(context.TODO(), PlaceOrderInput{
			User_id: user.Id.Hex(),
			Items: []Line{
				{Book_id: book.Id.Hex(), Quantity: 2},
				{Book_id: book.Id.Hex(), Quantity: 2},
			},
			Total_amount: total(4),
		})

		var stockErr *InsufficientStockError

		if !errors.As(err, &stockErr) {
			t.Fatalf("expected InsufficientStockError, got %v", err)
		}

		if s.stock(book.Id) != 3 {
			t.Fatalf("expected stock 3, got %d", s.stock(book.Id))
		}
	})

	t.Run("should release stock if the order cannot be written", func(t *testing.T) {
		s := newMemStore()
		user := s.addUser("reader", false)
		book := s.addBook("X", 1, 3)
		s.createOrderErr = errors.New("write failed")
		svc := NewService(s, &testGateway{}, "secret", &testLogger{})

		_, err := svc.PlaceOrder(context.TODO(), PlaceOrderInput{
			User_id:      user.Id.Hex(),
			Items:        []Line{{Book_id: book.Id.Hex(), Quantity: 2}},
			Total_amount: total(2),
		})

		if err == nil {
			t.Fatal("expected an error")
		}

		if s.stock(book.Id) != 3 {
			t.Fatalf("expected stock 3, got %d", s.stock(book.Id))
		}
	})

	tests := []struct {
		name    string
		input   func(s *memStore) PlaceOrderInput
		wantErr error
	}{
		{
			name: "should return ErrNoItems if items are empty",
			input: func(s *memStore) PlaceOrderInput {
				return PlaceOrderInput{User_id: s.addUser("u", false).Id.Hex(), Total_amount: total(0)}
			},
			wantErr: ErrNoItems,
		},
		{
			name: "should return ErrInvalidQuantity if quantity is zero",
			input: func(s *memStore) PlaceOrderInput {
				return PlaceOrderInput{
					User_id:      s.addUser("u", false).Id.Hex(),
					Items:        []Line{{Book_id: s.addBook("X", 1, 1).Id.Hex(), Quantity: 0}},
					Total_amount: total(0),
				}
			},
			wantErr: ErrInvalidQuantity,
		},
		{
			name: "should return ErrInvalidBookId if book id is malformed",
			input: func(s *memStore) PlaceOrderInput {
				return PlaceOrderInput{
					User_id:      s.addUser("u", false).Id.Hex(),
					Items:        []Line{{Book_id: "nope", Quantity: 1}},
					Total_amount: total(0),
				}
			},
			wantErr: ErrInvalidBookId,
		},
		{
			name: "should return ErrMissingTotal if total is missing",
			input: func(s *memStore) PlaceOrderInput {
				return PlaceOrderInput{
					User_id: s.addUser("u", false).Id.Hex(),
					Items:   []Line{{Book_id: s.addBook("X", 1, 1).Id.Hex(), Quantity: 1}},
				}
			},
			wantErr: ErrMissingTotal,
		},
		{
			name: "should return ErrUserNotFound if user does not exist",
			input: func(s *memStore) PlaceOrderInput {
				return PlaceOrderInput{
					User_id:      primitive.NewObjectID().Hex(),
					Items:        []Line{{Book_id: s.addBook("X", 1, 1).Id.Hex(), Quantity: 1}},
					Total_amount: total(1),
				}
			},
			wantErr: store.ErrUserNotFound,
		},
		{
			name: "should return ErrUserBlocked if user is blocked",
			input: func(s *memStore) PlaceOrderInput {
				return PlaceOrderInput{
					User_id:      s.addUser("u", true).Id.Hex(),
					Items:        []Line{{Book_id: s.addBook("X", 1, 1).Id.Hex(), Quantity: 1}},
					Total_amount: total(1),
				}
			},
			wantErr: ErrUserBlocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newMemStore()
			svc := NewService(s, &testGateway{}, "secret", &testLogger{})

			_, err := svc.PlaceOrder(context.TODO(), tt.input(s))

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			if s.orderCount() != 0 {
				t.Fatalf("expected no order to be created")
			}
		})
	}

	t.Run("should return BookNotFoundError if book does not exist", func(t *testing.T) {
		s := newMemStore()
		user := s.addUser("reader", false)
		svc := NewService(s, &testGateway{}, "secret", &testLogger{})
		missing := primitive.NewObjectID().Hex()

		_, err := svc.PlaceOrder(context.TODO(), PlaceOrderInput{
			User_id:      user.Id.Hex(),
			Items:        []Line{{Book_id: missing, Quantity: 1}},
			Total_amount: total(1),
		})

		var notFound *BookNotFoundError

		if !errors.As(err, &notFound) || notFound.BookId != missing {
			t.Fatalf("expected BookNotFoundError for %s, got %v", missing, err)
		}
	})
}

func TestPlaceOrderConcurrently(t *testing.T) {
	s := newMemStore()
	book := s.addBook("X", 1, 10)
	svc := NewService(s, &testGateway{}, "secret", &testLogger{})

	users := make([]*models.User, 25)
	for i := range users {
		users[i] = s.addUser("reader", false)
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)

	for _, u := range users {
		wg.Add(1)
		go func(u *models.User) {
			defer wg.Done()

			_, err := svc.PlaceOrder(context.Background(), PlaceOrderInput{
				User_id:      u.Id.Hex(),
				Items:        []Line{{Book_id: book.Id.Hex(), Quantity: 1}},
				Total_amount: total(1),
			})

			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
			}
		}(u)
	}

	wg.Wait()

	if accepted != 10 {
		t.Fatalf("expected 10 accepted orders, got %d", accepted)
	}

	if got := s.stock(book.Id); got != 0 {
		t.Fatalf("expected stock 0, got %d", got)
	}

	if s.orderCount() != 10 {
		t.Fatalf("expected 10 orders, got %d", s.orderCount())
	}
}

func TestVerifyPayment(t *testing.T) {
	setup := func() (*memStore, *Service, *models.User, *models.Book) {
		s := newMemStore()
		user := s.addUser("reader", false)
		book := s.addBook("X", 2, 5)
		gateway := &testGateway{amounts: map[string]int64{"order_1": 400}}
		return s, NewService(s, gateway, "secret", &testLogger{}), user, book
	}

	t.Run("should reject a bad signature without side effects", func(t *testing.T) {
		s, svc, user, book := setup()

		_, _, err := svc.VerifyPayment(context.TODO(), VerifyPaymentInput{
			User_id:          user.Id.Hex(),
			Gateway_order_id: "order_1",
			Payment_id:       "pay_1",
			Signature:        "deadbeef",
			Items:            []Line{{Book_id: book.Id.Hex(), Quantity: 1}},
		})

		if !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("expected %v, got %v", ErrInvalidSignature, err)
		}

		if s.orderCount() != 0 || s.stock(book.Id) != 5 {
			t.Fatalf("expected no side effects")
		}
	})

	t.Run("should return ErrMissingPaymentFields if ids are missing", func(t *testing.T) {
		_, svc, user, _ := setup()

		_, _, err := svc.VerifyPayment(context.TODO(), VerifyPaymentInput{User_id: user.Id.Hex(), Payment_id: "pay_1"})

		if !errors.Is(err, ErrMissingPaymentFields) {
			t.Fatalf("expected %v, got %v", ErrMissingPaymentFields, err)
		}
	})

	t.Run("should record a paid order and decrement stock", func(t *testing.T) {
		s, svc, user, book := setup()

		order, existing, err := svc.VerifyPayment(context.TODO(), VerifyPaymentInput{
			User_id:          user.Id.Hex(),
			Gateway_order_id: "order_1",
			Payment_id:       "pay_1",
			Signature:        Signature("secret", "order_1", "pay_1"),
			Items:            []Line{{Book_id: book.Id.Hex(), Quantity: 2}},
			Total_amount:     total(4),
		})

		if err != nil || existing {
			t.Fatalf("unexpected result: %v %v", existing, err)
		}

		if order.Status != models.OrderStatusPaid || order.Gateway_payment_id != "pay_1" || order.Total_amount != 4 {
			t.Fatalf("unexpected order: %+v", order)
		}

		if s.stock(book.Id) != 3 {
			t.Fatalf("expected stock 3, got %d", s.stock(book.Id))
		}
	})

	t.Run("should be idempotent for the same payment id", func(t *testing.T) {
		s, svc, user, book := setup()

		in := VerifyPaymentInput{
			User_id:          user.Id.Hex(),
			Gateway_order_id: "order_1",
			Payment_id:       "pay_1",
			Signature:        Signature("secret", "order_1", "pay_1"),
			Items:            []Line{{Book_id: book.Id.Hex(), Quantity: 2}},
		}

		first, _, err := svc.VerifyPayment(context.TODO(), in)

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		second, existing, err := svc.VerifyPayment(context.TODO(), in)

		if err != nil || !existing || second.Id != first.Id {
			t.Fatalf("expected the first order back, got %v %v %v", second, existing, err)
		}

		if s.orderCount() != 1 || s.stock(book.Id) != 3 {
			t.Fatalf("expected a single decrement")
		}
	})

	t.Run("should refuse payments when no secret is configured", func(t *testing.T) {
		s := newMemStore()
		user := s.addUser("reader", false)
		book := s.addBook("X", 2, 5)
		svc := NewService(s, &testGateway{amounts: map[string]int64{"order_forged": 1000}}, "", &testLogger{})

		_, _, err := svc.VerifyPayment(context.TODO(), VerifyPaymentInput{
			User_id:          user.Id.Hex(),
			Gateway_order_id: "order_forged",
			Payment_id:       "pay_forged",
			Signature:        Signature("", "order_forged", "pay_forged"),
			Items:            []Line{{Book_id: book.Id.Hex(), Quantity: 5}},
		})

		if !errors.Is(err, ErrPaymentsNotConfigured) {
			t.Fatalf("expected %v, got %v", ErrPaymentsNotConfigured, err)
		}

		if s.orderCount() != 0 || s.stock(book.Id) != 5 {
			t.Fatalf("expected no side effects")
		}
	})

	t.Run("should refuse payments when no gateway is configured", func(t *testing.T) {
		s := newMemStore()
		user := s.addUser("reader", false)
		book := s.addBook("X", 2, 5)
		svc := NewService(s, nil, "secret", &testLogger{})

		_, _, err := svc.VerifyPayment(context.TODO(), VerifyPaymentInput{
			User_id:          user.Id.Hex(),
			Gateway_order_id: "order_1",
			Payment_id:       "pay_1",
			Signature:        Signature("secret", "order_1", "pay_1"),
			Items:            []Line{{Book_id: book.Id.Hex(), Quantity: 1}},
		})

		if !errors.Is(err, ErrPaymentsNotConfigured) {
			t.Fatalf("expected %v, got %v", ErrPaymentsNotConfigured, err)
		}
	})

	t.Run("should reject items worth more than the gateway order", func(t *testing.T) {
		s := newMemStore()
		user := s.addUser("reader", false)
		cheap := s.addBook("Pamphlet", 1, 5)
		dear := s.addBook("Atlas", 500, 5)
		svc := NewService(s, &testGateway{amounts: map[string]int64{"order_cheap": 100}}, "secret", &testLogger{})

		_, _, err := svc.VerifyPayment(context.TODO(), VerifyPaymentInput{
			User_id:          user.Id.Hex(),
			Gateway_order_id: "order_cheap",
			Payment_id:       "pay_cheap",
			Signature:        Signature("secret", "order_cheap", "pay_cheap"),
			Items:            []Line{{Book_id: dear.Id.Hex(), Quantity: 5}},
		})

		if !errors.Is(err, ErrAmountMismatch) {
			t.Fatalf("expected %v, got %v", ErrAmountMismatch, err)
		}

		if s.orderCount() != 0 || s.stock(dear.Id) != 5 || s.stock(cheap.Id) != 5 {
			t.Fatalf("expected no side effects")
		}
	})

	t.Run("should not hand another user's order back on replay", func(t *testing.T) {
		s, svc, user, book := setup()
		other := s.addUser("other", false)

		in := VerifyPaymentInput{
			User_id:          user.Id.Hex(),
			Gateway_order_id: "order_1",
			Payment_id:       "pay_1",
			Signature:        Signature("secret", "order_1", "pay_1"),
			Items:            []Line{{Book_id: book.Id.Hex(), Quantity: 2}},
		}

		if _, _, err := svc.VerifyPayment(context.TODO(), in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		in.User_id = other.Id.Hex()

		order, _, err := svc.VerifyPayment(context.TODO(), in)

		if !errors.Is(err, ErrNotOrderOwner) || order != nil {
			t.Fatalf("expected %v, got %v %v", ErrNotOrderOwner, order, err)
		}

		if s.orderCount() != 1 || s.stock(book.Id) != 3 {
			t.Fatalf("expected a single decrement")
		}
	})
}

func TestUpdateStatus(t *testing.T) {
	place := func(s *memStore, svc *Service) (*models.Order, *models.Book) {
		user := s.addUser("reader", false)
		book := s.addBook("X", 1, 5)

		order, err := svc.PlaceOrder(context.TODO(), PlaceOrderInput{
			User_id:      user.Id.Hex(),
			Items:        []Line{{Book_id: book.Id.Hex(), Quantity: 2}},
			Total_amount: total(2),
		})

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		return order, book
	}

	t.Run("should walk the happy path", func(t *testing.T) {
		s := newMemStore()
		svc := NewService(s, &testGateway{}, "secret", &testLogger{})
		order, _ := place(s, svc)

		for _, status := range []string{models.OrderStatusPaid, models.OrderStatusShipped, models.OrderStatusDelivered} {
			updated, err := svc.UpdateStatus(context.TODO(), order.Id.Hex(), status)

			if err != nil {
				t.Fatalf("unexpected error moving to %s: %v", status, err)
			}

			if updated.Status != status {
				t.Fatalf("expected %s, got %s", status, updated.Status)
			}
		}

		_, err := svc.UpdateStatus(context.TODO(), order.Id.Hex(), models.OrderStatusCancelled)

		if !errors.Is(err, ErrIllegalTransition) {
			t.Fatalf("expected %v, got %v", ErrIllegalTransition, err)
		}
	})

	t.Run("should restore stock on cancel", func(t *testing.T) {
		s := newMemStore()
		svc := NewService(s, &testGateway{}, "secret", &testLogger{})
		order, book := place(s, svc)

		if _, err := svc.Cancel(context.TODO(), order.Id.Hex(), order.User_id.Hex()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if s.stock(book.Id) != 5 {
			t.Fatalf("expected stock 5, got %d", s.stock(book.Id))
		}

		_, err := svc.Cancel(context.TODO(), order.Id.Hex(), order.User_id.Hex())

		if !errors.Is(err, ErrIllegalTransition) {
			t.Fatalf("expected %v, got %v", ErrIllegalTransition, err)
		}

		if s.stock(book.Id) != 5 {
			t.Fatalf("expected stock to be restored once, got %d", s.stock(book.Id))
		}
	})

	t.Run("should reject cancel by another user", func(t *testing.T) {
		s := newMemStore()
		svc := NewService(s, &testGateway{}, "secret", &testLogger{})
		order, _ := place(s, svc)

		_, err := svc.Cancel(context.TODO(), order.Id.Hex(), primitive.NewObjectID().Hex())

		if !errors.Is(err, ErrNotOrderOwner) {
			t.Fatalf("expected %v, got %v", ErrNotOrderOwner, err)
		}
	})
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{models.OrderStatusPending, models.OrderStatusPaid, true},
		{models.OrderStatusPending, models.OrderStatusShipped, true},
		{models.OrderStatusPending, models.OrderStatusCancelled, true},
		{models.OrderStatusPending, models.OrderStatusDelivered, false},
		{models.OrderStatusPending, models.OrderStatusPending, false},
		{models.OrderStatusPaid, models.OrderStatusShipped, true},
		{models.OrderStatusPaid, models.OrderStatusCancelled, true},
		{models.OrderStatusPaid, models.OrderStatusPending, false},
		{models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{models.OrderStatusShipped, models.OrderStatusCancelled, false},
		{models.OrderStatusDelivered, models.OrderStatusCancelled, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestVerifySignature(t *testing.T) {
	sig := Signature("secret", "order_1", "pay_1")

	if len(sig) != 64 {
		t.Fatalf("expected 64 hex chars, got %d", len(sig))
	}

	if !VerifySignature("secret", "order_1", "pay_1", sig) {
		t.Fatal("expected signature to verify")
	}

	if VerifySignature("other", "order_1", "pay_1", sig) {
		t.Fatal("expected signature from another secret to fail")
	}

	if VerifySignature("secret", "order_1", "pay_2", sig) {
		t.Fatal("expected signature for another payment to fail")
	}
}
