package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin  = "admin"
	RoleUser   = "user"
	RoleAuthor = "author"
)

const (
	OrderStatusPending   = "Pending"
	OrderStatusPaid      = "Paid"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusCancelled = "Cancelled"
)

const (
	PaymentMethodCOD    = "COD"
	PaymentMethodOnline = "Online"
)

const (
	SubmissionStatusPending  = "Pending"
	SubmissionStatusApproved = "Approved"
	SubmissionStatusRejected = "Rejected"
)

// Identity is what the auth middleware attaches to the request context.
type Identity struct {
	Id       string
	Username string
	Role     string
}

type User struct {
	Id         primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Username   string               `bson:"username" json:"username"`
	Phoneno    string               `bson:"phoneno" json:"phoneno"`
	Address    string               `bson:"address" json:"address"`
	Password   string               `bson:"password" json:"-"`
	Is_blocked bool                 `bson:"isBlocked" json:"isBlocked"`
	Wishlist   []primitive.ObjectID `bson:"wishlist" json:"wishlist"`
	Created_at time.Time            `bson:"createdAt" json:"createdAt"`
	Updated_at time.Time            `bson:"updatedAt" json:"updatedAt"`
}

type Admin struct {
	Id       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Username string             `bson:"username" json:"username"`
	Password string             `bson:"password" json:"-"`
}

type Author struct {
	Id         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Username   string             `bson:"username" json:"username"`
	Phoneno    string             `bson:"phoneno" json:"phoneno"`
	Address    string             `bson:"address" json:"address"`
	Password   string             `bson:"password" json:"-"`
	Is_blocked bool               `bson:"isBlocked" json:"-"`
	Created_at time.Time          `bson:"createdAt" json:"-"`
}

type Review struct {
	User       primitive.ObjectID `bson:"user" json:"user"`
	Rating     int                `bson:"rating" json:"rating"`
	Review     string             `bson:"review" json:"review"`
	Created_at time.Time          `bson:"createdAt" json:"createdAt"`
}

type Book struct {
	Id               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title            string             `bson:"title" json:"title"`
	Author           string             `bson:"author" json:"author"`
	Price            float64            `bson:"price" json:"price"`
	Genre            string             `bson:"genre" json:"genre"`
	Image_url        string             `bson:"imageUrl" json:"imageUrl"`
	Description      string             `bson:"description" json:"description"`
	Stock            int                `bson:"stock" json:"stock"`
	Publication_year int                `bson:"publicationYear,omitempty" json:"publicationYear,omitempty"`
	Reviews          []Review           `bson:"reviews" json:"reviews"`
	Is_featured      bool               `bson:"isFeatured" json:"isFeatured"`
}

type LineItem struct {
	Book_id  primitive.ObjectID `bson:"bookId" json:"bookId"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

type Cart struct {
	Id         primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	User_id    primitive.ObjectID `bson:"userId" json:"userId"`
	Items      []LineItem         `bson:"items" json:"items"`
	Created_at time.Time          `bson:"createdAt" json:"createdAt"`
	Updated_at time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type OrderItem struct {
	Book_id  primitive.ObjectID `bson:"bookId" json:"bookId"`
	Title    string             `bson:"title" json:"title"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
}

type Order struct {
	Id                 primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User_id            primitive.ObjectID `bson:"userId" json:"userId"`
	User_name          string             `bson:"userName" json:"userName"`
	Items              []OrderItem        `bson:"items" json:"items"`
	Total_amount       float64            `bson:"totalAmount" json:"totalAmount"`
	Status             string             `bson:"status" json:"status"`
	Payment_method     string             `bson:"paymentMethod" json:"paymentMethod"`
	Address            string             `bson:"address,omitempty" json:"address,omitempty"`
	Phone              string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Gateway_order_id   string             `bson:"razorpayOrderId,omitempty" json:"razorpayOrderId,omitempty"`
	Gateway_payment_id string             `bson:"razorpayPaymentId,omitempty" json:"razorpayPaymentId,omitempty"`
	Created_at         time.Time          `bson:"createdAt" json:"createdAt"`
	Updated_at         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

type Submission struct {
	Id              primitive.ObjectID  `bson:"_id,omitempty" json:"_id"`
	Title           string              `bson:"title" json:"title"`
	Author_name     string              `bson:"authorName" json:"authorName"`
	Synopsis        string              `bson:"synopsis" json:"synopsis"`
	Genre           string              `bson:"genre" json:"genre"`
	Manuscript_url  string              `bson:"manuscriptUrl" json:"manuscriptUrl"`
	Cover_url       string              `bson:"coverUrl" json:"coverUrl"`
	Submitted_by    primitive.ObjectID  `bson:"submittedBy" json:"submittedBy"`
	Submission_date time.Time           `bson:"submissionDate" json:"submissionDate"`
	Status          string              `bson:"status" json:"status"`
	Notes           string              `bson:"notes,omitempty" json:"notes,omitempty"`
	Book_id         *primitive.ObjectID `bson:"bookId,omitempty" json:"bookId,omitempty"`
	Created_at      time.Time           `bson:"createdAt" json:"createdAt"`
	Updated_at      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

type Notification struct {
	Id         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User_id    primitive.ObjectID `bson:"userId" json:"userId"`
	Order_id   primitive.ObjectID `bson:"orderId,omitempty" json:"orderId,omitempty"`
	Type       string             `bson:"type" json:"type"`
	Message    string             `bson:"message" json:"message"`
	Created_at time.Time          `bson:"createdAt" json:"createdAt"`
}

type Captcha struct {
	Id         string    `bson:"_id"`
	Text       string    `bson:"text"`
	Expires_at time.Time `bson:"expiresAt"`
}

type DashboardStats struct {
	Total_books           int64 `json:"totalBooks"`
	Active_users          int64 `json:"activeUsers"`
	Pending_orders        int64 `json:"pendingOrders"`
	Submitted_manuscripts int64 `json:"submittedManuscripts"`
}

type GatewayOrder struct {
	Id       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Partial updates. Nil fields are left untouched by the store.

type UserProfileUpdate struct {
	Username *string
	Phoneno  *string
	Address  *string
	Password *string
}

type BookUpdate struct {
	Title            *string  `json:"title"`
	Author           *string  `json:"author"`
	Price            *float64 `json:"price" validate:"omitempty,gte=0"`
	Genre            *string  `json:"genre"`
	Image_url        *string  `json:"imageUrl"`
	Description      *string  `json:"description"`
	Stock            *int     `json:"stock" validate:"omitempty,gte=0"`
	Publication_year *int     `json:"publicationYear"`
	Is_featured      *bool    `json:"isFeatured"`
}

type SubmissionUpdate struct {
	Title          *string
	Synopsis       *string
	Genre          *string
	Cover_url      *string
	Manuscript_url *string
	Notes          *string
}

type ErrorResponse struct {
	Message string `json:"message"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
