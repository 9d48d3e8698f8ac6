package checkout

import (
	"context"
	"errors"
	"fmt"

	"github.com/oseayemenre/bookstore/internal/logger"
	"github.com/oseayemenre/bookstore/internal/models"
	"github.com/oseayemenre/bookstore/internal/payment"
	"github.com/oseayemenre/bookstore/internal/store"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is the slice of the document store the checkout workflow needs.
type Store interface {
	GetUserById(ctx context.Context, id string) (*models.User, error)
	GetBook(ctx context.Context, id string) (*models.Book, error)
	DecrementStock(ctx context.Context, bookId primitive.ObjectID, quantity int) (bool, error)
	IncrementStock(ctx context.Context, bookId primitive.ObjectID, quantity int) error
	CreateOrder(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	GetOrder(ctx context.Context, id string) (*models.Order, error)
	GetOrderByPaymentId(ctx context.Context, paymentId string) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, id string, from string, to string) (*models.Order, error)
}

// OrderFetcher looks up the gateway order a payment signature refers to.
type OrderFetcher interface {
	FetchOrder(ctx context.Context, id string) (*models.GatewayOrder, error)
}

type Line struct {
	Book_id  string
	Quantity int
}

// Quote is a priced set of lines. Duplicate book ids are merged.
type Quote struct {
	Items []models.OrderItem
	Total decimal.Decimal
}

func (q *Quote) TotalFloat() float64 {
	return q.Total.Round(2).InexactFloat64()
}

type PlaceOrderInput struct {
	User_id      string
	Items        []Line
	Total_amount *float64
	Address      string
	Phone        string
}

type VerifyPaymentInput struct {
	User_id          string
	Gateway_order_id string
	Payment_id       string
	Signature        string
	Items            []Line
	Total_amount     *float64
	Address          string
	Phone            string
}

type Service struct {
	store   Store
	gateway OrderFetcher
	secret  string
	logger  logger.Logger
}

// NewService builds the checkout workflow. Online payments are refused while
// gateway or secret is unset.
func NewService(store Store, gateway OrderFetcher, secret string, logger logger.Logger) *Service {
	return &Service{
		store:   store,
		gateway: gateway,
		secret:  secret,
		logger:  logger,
	}
}

func mergeLines(lines []Line) ([]Line, error) {
	if len(lines) == 0 {
		return nil, ErrNoItems
	}

	merged := make([]Line, 0, len(lines))
	index := make(map[string]int, len(lines))

	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}

		if !primitive.IsValidObjectID(l.Book_id) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidBookId, l.Book_id)
		}

		if i, ok := index[l.Book_id]; ok {
			merged[i].Quantity += l.Quantity
			continue
		}

		index[l.Book_id] = len(merged)
		merged = append(merged, l)
	}

	return merged, nil
}

// Price resolves every line against the catalog and totals it with the
// current book prices. It fails with InsufficientStockError if any line asks
// for more than is on hand.
func (s *Service) Price(ctx context.Context, lines []Line) (*Quote, error) {
	merged, err := mergeLines(lines)

	if err != nil {
		return nil, err
	}

	quote := &Quote{Items: make([]models.OrderItem, 0, len(merged))}

	for _, l := range merged {
		book, err := s.store.GetBook(ctx, l.Book_id)

		if err != nil {
			if errors.Is(err, store.ErrBookNotFound) {
				return nil, &BookNotFoundError{BookId: l.Book_id}
			}
			return nil, err
		}

		if book.Stock < l.Quantity {
			return nil, &InsufficientStockError{BookId: l.Book_id, Title: book.Title}
		}

		price := decimal.NewFromFloat(book.Price)

		quote.Items = append(quote.Items, models.OrderItem{
			Book_id:  book.Id,
			Title:    book.Title,
			Quantity: l.Quantity,
			Price:    book.Price,
		})

		quote.Total = quote.Total.Add(price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}

	return quote, nil
}

// reserve takes stock for every item or none of them.
func (s *Service) reserve(ctx context.Context, items []models.OrderItem) error {
	for i, item := range items {
		ok, err := s.store.DecrementStock(ctx, item.Book_id, item.Quantity)

		if err == nil && !ok {
			err = &InsufficientStockError{BookId: item.Book_id.Hex(), Title: item.Title}
		}

		if err != nil {
			s.release(ctx, items[:i])
			return err
		}
	}

	return nil
}

func (s *Service) release(ctx context.Context, items []models.OrderItem) {
	for _, item := range items {
		if err := s.store.IncrementStock(context.WithoutCancel(ctx), item.Book_id, item.Quantity); err != nil {
			s.logger.Error(fmt.Sprintf("error releasing stock: %v", err), "service", "checkout", "book_id", item.Book_id.Hex(), "quantity", item.Quantity)
		}
	}
}

func (s *Service) checkClientTotal(quote *Quote, total *float64, userId string) {
	if total == nil {
		return
	}

	client := decimal.NewFromFloat(*total).Round(2)

	if !client.Equal(quote.Total.Round(2)) {
		s.logger.Warn("client total does not match server total", "service", "checkout", "user_id", userId, "client_total", client.String(), "server_total", quote.Total.Round(2).String())
	}
}

func (s *Service) activeUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.GetUserById(ctx, id)

	if err != nil {
		return nil, err
	}

	if user.Is_blocked {
		return nil, ErrUserBlocked
	}

	return user, nil
}

// PlaceOrder accepts a cash-on-delivery order. Stock is reserved before the
// order is written and released again if the write fails.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (*models.Order, error) {
	if _, err := mergeLines(in.Items); err != nil {
		return nil, err
	}

	if in.Total_amount == nil {
		return nil, ErrMissingTotal
	}

	user, err := s.activeUser(ctx, in.User_id)

	if err != nil {
		return nil, err
	}

	quote, err := s.Price(ctx, in.Items)

	if err != nil {
		return nil, err
	}

	s.checkClientTotal(quote, in.Total_amount, in.User_id)

	if err := s.reserve(ctx, quote.Items); err != nil {
		return nil, err
	}

	order := &models.Order{
		User_id:        user.Id,
		User_name:      user.Username,
		Items:          quote.Items,
		Total_amount:   quote.TotalFloat(),
		Status:         models.OrderStatusPending,
		Payment_method: models.PaymentMethodCOD,
		Address:        firstNonEmpty(in.Address, user.Address),
		Phone:          firstNonEmpty(in.Phone, user.Phoneno),
	}

	if _, err := s.store.CreateOrder(ctx, order); err != nil {
		s.release(ctx, quote.Items)
		return nil, err
	}

	return order, nil
}

// VerifyPayment checks the gateway signature and records a Paid order once
// the gateway order amount matches the server-side total of the items. The
// second return value is true when the payment had already been recorded and
// the existing order is returned unchanged.
func (s *Service) VerifyPayment(ctx context.Context, in VerifyPaymentInput) (*models.Order, bool, error) {
	if in.Gateway_order_id == "" || in.Payment_id == "" || in.Signature == "" {
		return nil, false, ErrMissingPaymentFields
	}

	if s.secret == "" || s.gateway == nil {
		return nil, false, ErrPaymentsNotConfigured
	}

	if !VerifySignature(s.secret, in.Gateway_order_id, in.Payment_id, in.Signature) {
		return nil, false, ErrInvalidSignature
	}

	existing, err := s.recordedPayment(ctx, in.Payment_id, in.User_id)

	if err == nil {
		return existing, true, nil
	}

	if !errors.Is(err, store.ErrOrderNotFound) {
		return nil, false, err
	}

	if _, err := mergeLines(in.Items); err != nil {
		return nil, false, err
	}

	user, err := s.store.GetUserById(ctx, in.User_id)

	if err != nil {
		return nil, false, err
	}

	quote, err := s.Price(ctx, in.Items)

	if err != nil {
		return nil, false, err
	}

	s.checkClientTotal(quote, in.Total_amount, in.User_id)

	if err := s.checkPaidAmount(ctx, in.Gateway_order_id, quote); err != nil {
		return nil, false, err
	}

	if err := s.reserve(ctx, quote.Items); err != nil {
		return nil, false, err
	}

	order := &models.Order{
		User_id:            user.Id,
		User_name:          user.Username,
		Items:              quote.Items,
		Total_amount:       quote.TotalFloat(),
		Status:             models.OrderStatusPaid,
		Payment_method:     models.PaymentMethodOnline,
		Address:            firstNonEmpty(in.Address, user.Address),
		Phone:              firstNonEmpty(in.Phone, user.Phoneno),
		Gateway_order_id:   in.Gateway_order_id,
		Gateway_payment_id: in.Payment_id,
	}

	if _, err := s.store.CreateOrder(ctx, order); err != nil {
		s.release(ctx, quote.Items)

		if errors.Is(err, store.ErrDuplicatePayment) {
			existing, getErr := s.recordedPayment(ctx, in.Payment_id, in.User_id)

			if getErr != nil {
				return nil, false, getErr
			}

			return existing, true, nil
		}

		return nil, false, err
	}

	return order, false, nil
}

// recordedPayment returns the order already stored for paymentId, provided it
// belongs to userId.
func (s *Service) recordedPayment(ctx context.Context, paymentId string, userId string) (*models.Order, error) {
	order, err := s.store.GetOrderByPaymentId(ctx, paymentId)

	if err != nil {
		return nil, err
	}

	if order.User_id.Hex() != userId {
		return nil, ErrNotOrderOwner
	}

	return order, nil
}

// checkPaidAmount compares the amount the gateway order was opened for with
// the quote, both in minor units.
func (s *Service) checkPaidAmount(ctx context.Context, gatewayOrderId string, quote *Quote) error {
	fetched, err := s.gateway.FetchOrder(ctx, gatewayOrderId)

	if err != nil {
		if errors.Is(err, payment.ErrGatewayNotConfigured) {
			return ErrPaymentsNotConfigured
		}
		return err
	}

	if want := payment.ToMinorUnits(quote.Total); fetched.Amount != want {
		s.logger.Warn("gateway amount does not match order total", "service", "checkout", "gateway_order_id", gatewayOrderId, "gateway_amount", fetched.Amount, "order_amount", want)
		return ErrAmountMismatch
	}

	return nil
}

// UpdateStatus applies an admin status change. Moving to Cancelled returns
// the order's stock.
func (s *Service) UpdateStatus(ctx context.Context, orderId string, status string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderId)

	if err != nil {
		return nil, err
	}

	return s.transition(ctx, order, status)
}

// Cancel lets the owner cancel a Pending or Paid order.
func (s *Service) Cancel(ctx context.Context, orderId string, userId string) (*models.Order, error) {
	order, err := s.store.GetOrder(ctx, orderId)

	if err != nil {
		return nil, err
	}

	if order.User_id.Hex() != userId {
		return nil, ErrNotOrderOwner
	}

	if !Cancellable(order.Status) {
		return nil, &TransitionError{From: order.Status, To: models.OrderStatusCancelled}
	}

	return s.transition(ctx, order, models.OrderStatusCancelled)
}

func (s *Service) transition(ctx context.Context, order *models.Order, to string) (*models.Order, error) {
	if !CanTransition(order.Status, to) {
		return nil, &TransitionError{From: order.Status, To: to}
	}

	updated, err := s.store.UpdateOrderStatus(ctx, order.Id.Hex(), order.Status, to)

	if err != nil {
		if errors.Is(err, store.ErrOrderStatusConflict) {
			return nil, &TransitionError{From: order.Status, To: to}
		}
		return nil, err
	}

	if to == models.OrderStatusCancelled {
		s.release(ctx, updated.Items)
	}

	return updated, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
