package api

import (
	"context"
	"io"
	"net/http"

	"github.com/oseayemenre/bookstore/internal/config"
	"github.com/oseayemenre/bookstore/internal/models"
	"github.com/oseayemenre/bookstore/internal/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type testLogger struct{}

func (l *testLogger) Info(msg string, args ...any)  {}
func (l *testLogger) Error(msg string, args ...any) {}
func (l *testLogger) Warn(msg string, args ...any)  {}

type testObjectStore struct {
	uploadFileFunc func(ctx context.Context, file io.Reader, id string) (string, error)
}

func (s *testObjectStore) UploadFile(ctx context.Context, file io.Reader, id string) (string, error) {
	if s.uploadFileFunc != nil {
		return s.uploadFileFunc(ctx, file, id)
	}
	return "http://mock-url.com/" + id, nil
}

func objectId(id string) primitive.ObjectID {
	oid, _ := primitive.ObjectIDFromHex(id)
	return oid
}

type testStore struct {
	createUserFunc             func(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	getUserByIdFunc            func(ctx context.Context, id string) (*models.User, error)
	getUserByUsernameFunc      func(ctx context.Context, username string) (*models.User, error)
	updateUserProfileFunc      func(ctx context.Context, id string, update *models.UserProfileUpdate) (*models.User, error)
	getAllUsersFunc            func(ctx context.Context) ([]models.User, error)
	toggleUserBlockedFunc      func(ctx context.Context, id string) (*models.User, error)
	setUserBlockedFunc         func(ctx context.Context, id string, blocked bool) (*models.User, error)
	addToWishlistFunc          func(ctx context.Context, userId string, bookId string) ([]primitive.ObjectID, error)
	removeFromWishlistFunc     func(ctx context.Context, userId string, bookId string) (bool, error)
	getWishlistBooksFunc       func(ctx context.Context, userId string) ([]models.Book, error)
	createAdminFunc            func(ctx context.Context, admin *models.Admin) (primitive.ObjectID, error)
	getAdminByUsernameFunc     func(ctx context.Context, username string) (*models.Admin, error)
	createAuthorFunc           func(ctx context.Context, author *models.Author) (primitive.ObjectID, error)
	getAuthorByUsernameFunc    func(ctx context.Context, username string) (*models.Author, error)
	createBookFunc             func(ctx context.Context, book *models.Book) (primitive.ObjectID, error)
	getBookFunc                func(ctx context.Context, id string) (*models.Book, error)
	getAllBooksFunc            func(ctx context.Context) ([]models.Book, error)
	getFeaturedBooksFunc       func(ctx context.Context, limit int64) ([]models.Book, error)
	getGenresFunc              func(ctx context.Context) ([]string, error)
	getBooksByGenreFunc        func(ctx context.Context, genre string) ([]models.Book, error)
	getSimilarBooksFunc        func(ctx context.Context, book *models.Book, limit int64) ([]models.Book, error)
	updateBookFunc             func(ctx context.Context, id string, update *models.BookUpdate) (*models.Book, error)
	deleteBookFunc             func(ctx context.Context, id string) error
	addReviewFunc              func(ctx context.Context, bookId string, review *models.Review) error
	decrementStockFunc         func(ctx context.Context, bookId primitive.ObjectID, quantity int) (bool, error)
	incrementStockFunc         func(ctx context.Context, bookId primitive.ObjectID, quantity int) error
	getCartFunc                func(ctx context.Context, userId string) (*models.Cart, error)
	addToCartFunc              func(ctx context.Context, userId string, bookId string, quantity int) (*models.Cart, error)
	setCartItemQuantityFunc    func(ctx context.Context, userId string, bookId string, quantity int) (*models.Cart, error)
	removeFromCartFunc         func(ctx context.Context, userId string, bookId string) (*models.Cart, error)
	createOrderFunc            func(ctx context.Context, order *models.Order) (primitive.ObjectID, error)
	getOrderFunc               func(ctx context.Context, id string) (*models.Order, error)
	getOrderByPaymentIdFunc    func(ctx context.Context, paymentId string) (*models.Order, error)
	getOrdersByUserFunc        func(ctx context.Context, userId string) ([]models.Order, error)
	getAllOrdersFunc           func(ctx context.Context) ([]models.Order, error)
	updateOrderStatusFunc      func(ctx context.Context, id string, from string, to string) (*models.Order, error)
	createSubmissionFunc       func(ctx context.Context, submission *models.Submission) (primitive.ObjectID, error)
	getSubmissionFunc          func(ctx context.Context, id string) (*models.Submission, error)
	getSubmissionsByUserFunc   func(ctx context.Context, userId string) ([]models.Submission, error)
	getAllSubmissionsFunc      func(ctx context.Context) ([]models.Submission, error)
	updateSubmissionFunc       func(ctx context.Context, id string, update *models.SubmissionUpdate) (*models.Submission, error)
	deleteSubmissionFunc       func(ctx context.Context, id string) error
	claimSubmissionReviewFunc  func(ctx context.Context, id string, status string) (*models.Submission, error)
	attachSubmissionBookFunc   func(ctx context.Context, id string, bookId primitive.ObjectID) (*models.Submission, error)
	revertSubmissionReviewFunc func(ctx context.Context, id string) error
	getDashboardStatsFunc      func(ctx context.Context) (*models.DashboardStats, error)
	createNotificationFunc     func(ctx context.Context, notification *models.Notification) error
	getNotificationsByUserFunc func(ctx context.Context, userId string) ([]models.Notification, error)
	saveCaptchaFunc            func(ctx context.Context, captcha *models.Captcha) error
	consumeCaptchaFunc         func(ctx context.Context, id string) (*models.Captcha, error)
}

func (s *testStore) CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	if s.createUserFunc != nil {
		return s.createUserFunc(ctx, user)
	}
	return primitive.NewObjectID(), nil
}

func (s *testStore) GetUserById(ctx context.Context, id string) (*models.User, error) {
	if s.getUserByIdFunc != nil {
		return s.getUserByIdFunc(ctx, id)
	}
	return &models.User{Id: objectId(id), Username: "reader"}, nil
}

func (s *testStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	if s.getUserByUsernameFunc != nil {
		return s.getUserByUsernameFunc(ctx, username)
	}
	return nil, store.ErrUserNotFound
}

func (s *testStore) UpdateUserProfile(ctx context.Context, id string, update *models.UserProfileUpdate) (*models.User, error) {
	if s.updateUserProfileFunc != nil {
		return s.updateUserProfileFunc(ctx, id, update)
	}
	return &models.User{Id: objectId(id)}, nil
}

func (s *testStore) GetAllUsers(ctx context.Context) ([]models.User, error) {
	if s.getAllUsersFunc != nil {
		return s.getAllUsersFunc(ctx)
	}
	return []models.User{}, nil
}

func (s *testStore) ToggleUserBlocked(ctx context.Context, id string) (*models.User, error) {
	if s.toggleUserBlockedFunc != nil {
		return s.toggleUserBlockedFunc(ctx, id)
	}
	return &models.User{Id: objectId(id), Is_blocked: true}, nil
}

func (s *testStore) SetUserBlocked(ctx context.Context, id string, blocked bool) (*models.User, error) {
	if s.setUserBlockedFunc != nil {
		return s.setUserBlockedFunc(ctx, id, blocked)
	}
	return &models.User{Id: objectId(id), Is_blocked: blocked}, nil
}

func (s *testStore) AddToWishlist(ctx context.Context, userId string, bookId string) ([]primitive.ObjectID, error) {
	if s.addToWishlistFunc != nil {
		return s.addToWishlistFunc(ctx, userId, bookId)
	}
	return []primitive.ObjectID{objectId(bookId)}, nil
}

func (s *testStore) RemoveFromWishlist(ctx context.Context, userId string, bookId string) (bool, error) {
	if s.removeFromWishlistFunc != nil {
		return s.removeFromWishlistFunc(ctx, userId, bookId)
	}
	return true, nil
}

func (s *testStore) GetWishlistBooks(ctx context.Context, userId string) ([]models.Book, error) {
	if s.getWishlistBooksFunc != nil {
		return s.getWishlistBooksFunc(ctx, userId)
	}
	return []models.Book{}, nil
}

func (s *testStore) CreateAdmin(ctx context.Context, admin *models.Admin) (primitive.ObjectID, error) {
	if s.createAdminFunc != nil {
		return s.createAdminFunc(ctx, admin)
	}
	return primitive.NewObjectID(), nil
}

func (s *testStore) GetAdminByUsername(ctx context.Context, username string) (*models.Admin, error) {
	if s.getAdminByUsernameFunc != nil {
		return s.getAdminByUsernameFunc(ctx, username)
	}
	return nil, store.ErrAdminNotFound
}

func (s *testStore) CreateAuthor(ctx context.Context, author *models.Author) (primitive.ObjectID, error) {
	if s.createAuthorFunc != nil {
		return s.createAuthorFunc(ctx, author)
	}
	return primitive.NewObjectID(), nil
}

func (s *testStore) GetAuthorByUsername(ctx context.Context, username string) (*models.Author, error) {
	if s.getAuthorByUsernameFunc != nil {
		return s.getAuthorByUsernameFunc(ctx, username)
	}
	return nil, store.ErrAuthorNotFound
}

func (s *testStore) CreateBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error) {
	if s.createBookFunc != nil {
		return s.createBookFunc(ctx, book)
	}
	book.Id = primitive.NewObjectID()
	return book.Id, nil
}

func (s *testStore) GetBook(ctx context.Context, id string) (*models.Book, error) {
	if s.getBookFunc != nil {
		return s.getBookFunc(ctx, id)
	}
	return &models.Book{Id: objectId(id), Title: "Dune", Price: 10, Stock: 100}, nil
}

func (s *testStore) GetAllBooks(ctx context.Context) ([]models.Book, error) {
	if s.getAllBooksFunc != nil {
		return s.getAllBooksFunc(ctx)
	}
	return []models.Book{}, nil
}

func (s *testStore) GetFeaturedBooks(ctx context.Context, limit int64) ([]models.Book, error) {
	if s.getFeaturedBooksFunc != nil {
		return s.getFeaturedBooksFunc(ctx, limit)
	}
	return []models.Book{}, nil
}

func (s *testStore) GetGenres(ctx context.Context) ([]string, error) {
	if s.getGenresFunc != nil {
		return s.getGenresFunc(ctx)
	}
	return []string{}, nil
}

func (s *testStore) GetBooksByGenre(ctx context.Context, genre string) ([]models.Book, error) {
	if s.getBooksByGenreFunc != nil {
		return s.getBooksByGenreFunc(ctx, genre)
	}
	return []models.Book{}, nil
}

func (s *testStore) GetSimilarBooks(ctx context.Context, book *models.Book, limit int64) ([]models.Book, error) {
	if s.getSimilarBooksFunc != nil {
		return s.getSimilarBooksFunc(ctx, book, limit)
	}
	return []models.Book{}, nil
}

func (s *testStore) UpdateBook(ctx context.Context, id string, update *models.BookUpdate) (*models.Book, error) {
	if s.updateBookFunc != nil {
		return s.updateBookFunc(ctx, id, update)
	}
	return &models.Book{Id: objectId(id)}, nil
}

func (s *testStore) DeleteBook(ctx context.Context, id string) error {
	if s.deleteBookFunc != nil {
		return s.deleteBookFunc(ctx, id)
	}
	return nil
}

func (s *testStore) AddReview(ctx context.Context, bookId string, review *models.Review) error {
	if s.addReviewFunc != nil {
		return s.addReviewFunc(ctx, bookId, review)
	}
	return nil
}

func (s *testStore) DecrementStock(ctx context.Context, bookId primitive.ObjectID, quantity int) (bool, error) {
	if s.decrementStockFunc != nil {
		return s.decrementStockFunc(ctx, bookId, quantity)
	}
	return true, nil
}

func (s *testStore) IncrementStock(ctx context.Context, bookId primitive.ObjectID, quantity int) error {
	if s.incrementStockFunc != nil {
		return s.incrementStockFunc(ctx, bookId, quantity)
	}
	return nil
}

func (s *testStore) GetCart(ctx context.Context, userId string) (*models.Cart, error) {
	if s.getCartFunc != nil {
		return s.getCartFunc(ctx, userId)
	}
	return &models.Cart{User_id: objectId(userId), Items: []models.LineItem{}}, nil
}

func (s *testStore) AddToCart(ctx context.Context, userId string, bookId string, quantity int) (*models.Cart, error) {
	if s.addToCartFunc != nil {
		return s.addToCartFunc(ctx, userId, bookId, quantity)
	}
	return &models.Cart{User_id: objectId(userId), Items: []models.LineItem{{Book_id: objectId(bookId), Quantity: quantity}}}, nil
}

func (s *testStore) SetCartItemQuantity(ctx context.Context, userId string, bookId string, quantity int) (*models.Cart, error) {
	if s.setCartItemQuantityFunc != nil {
		return s.setCartItemQuantityFunc(ctx, userId, bookId, quantity)
	}
	return &models.Cart{User_id: objectId(userId), Items: []models.LineItem{{Book_id: objectId(bookId), Quantity: quantity}}}, nil
}

func (s *testStore) RemoveFromCart(ctx context.Context, userId string, bookId string) (*models.Cart, error) {
	if s.removeFromCartFunc != nil {
		return s.removeFromCartFunc(ctx, userId, bookId)
	}
	return &models.Cart{User_id: objectId(userId), Items: []models.LineItem{}}, nil
}

func (s *testStore) CreateOrder(ctx context.Context, order *models.Order) (primitive.ObjectID, error) {
	if s.createOrderFunc != nil {
		return s.createOrderFunc(ctx, order)
	}
	order.Id = primitive.NewObjectID()
	return order.Id, nil
}

func (s *testStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	if s.getOrderFunc != nil {
		return s.getOrderFunc(ctx, id)
	}
	return nil, store.ErrOrderNotFound
}

func (s *testStore) GetOrderByPaymentId(ctx context.Context, paymentId string) (*models.Order, error) {
	if s.getOrderByPaymentIdFunc != nil {
		return s.getOrderByPaymentIdFunc(ctx, paymentId)
	}
	return nil, store.ErrOrderNotFound
}

func (s *testStore) GetOrdersByUser(ctx context.Context, userId string) ([]models.Order, error) {
	if s.getOrdersByUserFunc != nil {
		return s.getOrdersByUserFunc(ctx, userId)
	}
	return []models.Order{}, nil
}

func (s *testStore) GetAllOrders(ctx context.Context) ([]models.Order, error) {
	if s.getAllOrdersFunc != nil {
		return s.getAllOrdersFunc(ctx)
	}
	return []models.Order{}, nil
}

func (s *testStore) UpdateOrderStatus(ctx context.Context, id string, from string, to string) (*models.Order, error) {
	if s.updateOrderStatusFunc != nil {
		return s.updateOrderStatusFunc(ctx, id, from, to)
	}
	return &models.Order{Id: objectId(id), Status: to}, nil
}

func (s *testStore) CreateSubmission(ctx context.Context, submission *models.Submission) (primitive.ObjectID, error) {
	if s.createSubmissionFunc != nil {
		return s.createSubmissionFunc(ctx, submission)
	}
	submission.Id = primitive.NewObjectID()
	return submission.Id, nil
}

func (s *testStore) GetSubmission(ctx context.Context, id string) (*models.Submission, error) {
	if s.getSubmissionFunc != nil {
		return s.getSubmissionFunc(ctx, id)
	}
	return nil, store.ErrSubmissionNotFound
}

func (s *testStore) GetSubmissionsByUser(ctx context.Context, userId string) ([]models.Submission, error) {
	if s.getSubmissionsByUserFunc != nil {
		return s.getSubmissionsByUserFunc(ctx, userId)
	}
	return []models.Submission{}, nil
}

func (s *testStore) GetAllSubmissions(ctx context.Context) ([]models.Submission, error) {
	if s.getAllSubmissionsFunc != nil {
		return s.getAllSubmissionsFunc(ctx)
	}
	return []models.Submission{}, nil
}

func (s *testStore) UpdateSubmission(ctx context.Context, id string, update *models.SubmissionUpdate) (*models.Submission, error) {
	if s.updateSubmissionFunc != nil {
		return s.updateSubmissionFunc(ctx, id, update)
	}
	return &models.Submission{Id: objectId(id)}, nil
}

func (s *testStore) DeleteSubmission(ctx context.Context, id string) error {
	if s.deleteSubmissionFunc != nil {
		return s.deleteSubmissionFunc(ctx, id)
	}
	return nil
}

func (s *testStore) ClaimSubmissionReview(ctx context.Context, id string, status string) (*models.Submission, error) {
	if s.claimSubmissionReviewFunc != nil {
		return s.claimSubmissionReviewFunc(ctx, id, status)
	}
	return &models.Submission{Id: objectId(id), Status: status}, nil
}

func (s *testStore) AttachSubmissionBook(ctx context.Context, id string, bookId primitive.ObjectID) (*models.Submission, error) {
	if s.attachSubmissionBookFunc != nil {
		return s.attachSubmissionBookFunc(ctx, id, bookId)
	}
	return &models.Submission{Id: objectId(id), Status: models.SubmissionStatusApproved, Book_id: &bookId}, nil
}

func (s *testStore) RevertSubmissionReview(ctx context.Context, id string) error {
	if s.revertSubmissionReviewFunc != nil {
		return s.revertSubmissionReviewFunc(ctx, id)
	}
	return nil
}

func (s *testStore) GetDashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	if s.getDashboardStatsFunc != nil {
		return s.getDashboardStatsFunc(ctx)
	}
	return &models.DashboardStats{}, nil
}

func (s *testStore) CreateNotification(ctx context.Context, notification *models.Notification) error {
	if s.createNotificationFunc != nil {
		return s.createNotificationFunc(ctx, notification)
	}
	return nil
}

func (s *testStore) GetNotificationsByUser(ctx context.Context, userId string) ([]models.Notification, error) {
	if s.getNotificationsByUserFunc != nil {
		return s.getNotificationsByUserFunc(ctx, userId)
	}
	return []models.Notification{}, nil
}

func (s *testStore) SaveCaptcha(ctx context.Context, captcha *models.Captcha) error {
	if s.saveCaptchaFunc != nil {
		return s.saveCaptchaFunc(ctx, captcha)
	}
	return nil
}

func (s *testStore) ConsumeCaptcha(ctx context.Context, id string) (*models.Captcha, error) {
	if s.consumeCaptchaFunc != nil {
		return s.consumeCaptchaFunc(ctx, id)
	}
	return nil, store.ErrCaptchaNotFound
}

var testConfig = &config.Config{
	Jwt_secret:            "secret",
	Razorpay_key_secret:   "razorpay_secret",
	Cors_origins:          "http://localhost:5173",
	Login_rate_per_minute: 5,
}

func newTestApi(s *testStore) *Api {
	if s == nil {
		s = &testStore{}
	}

	return New(nil, &testLogger{}, &testObjectStore{}, s, testConfig, nil, nil, nil, nil)
}

func withIdentity(r *http.Request, id string, role string) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), identityKey, &models.Identity{
		Id:       id,
		Username: "reader",
		Role:     role,
	}))
}
