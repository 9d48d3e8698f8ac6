package models

type HandleRegisterParams struct {
	Username        string `json:"username" validate:"required"`
	Phoneno         string `json:"phoneno"`
	Address         string `json:"address"`
	Password        string `json:"password" validate:"required,min=6"`
	Confirmpassword string `json:"confirmpassword" validate:"required"`
	Captcha_id      string `json:"captchaId"`
	Captcha         string `json:"captcha"`
}

type HandleLoginParams struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type HandleUserLoginResponse struct {
	Message   string `json:"message"`
	Usertoken string `json:"usertoken"`
	Role      string `json:"role"`
}

type HandleAdminLoginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	Role    string `json:"role"`
}

type HandleAuthorLoginResponse struct {
	Message     string  `json:"message"`
	Authortoken string  `json:"authortoken"`
	Author      *Author `json:"author"`
}

type HandleCaptchaResponse struct {
	Captcha_id string `json:"captchaId"`
	Svg        string `json:"svg"`
}

type HandleUpdateProfileParams struct {
	Username string `json:"username"`
	Phoneno  string `json:"phoneno"`
	Address  string `json:"address"`
	Password string `json:"password" validate:"omitempty,min=6"`
}

type HandleUpdateProfileResponse struct {
	Message  string `json:"message"`
	Username string `json:"username"`
	Phoneno  string `json:"phoneno"`
	Address  string `json:"address"`
}

type HandleWishlistParams struct {
	Book_id string `json:"bookId" validate:"required"`
}

type HandleWishlistResponse struct {
	Message  string   `json:"message"`
	Wishlist []string `json:"wishlist"`
}

type HandleBlockUserResponse struct {
	Message    string `json:"message"`
	Is_blocked bool   `json:"isBlocked"`
}

type HandleSetBlockedParams struct {
	Is_blocked *bool `json:"isBlocked" validate:"required"`
}

type HandleCreateBookParams struct {
	Title            string  `json:"title" validate:"required"`
	Author           string  `json:"author"`
	Price            float64 `json:"price" validate:"gte=0"`
	Genre            string  `json:"genre"`
	Image_url        string  `json:"imageUrl"`
	Description      string  `json:"description"`
	Stock            int     `json:"stock" validate:"gte=0"`
	Publication_year int     `json:"publicationYear"`
	Is_featured      bool    `json:"isFeatured"`
}

type HandleAddReviewParams struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Review string `json:"review" validate:"required"`
}

type HandleCartParams struct {
	Book_id  string `json:"bookId" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

type HandleUpdateCartParams struct {
	Book_id  string `json:"bookId" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type OrderLine struct {
	Book_id  string `json:"bookId" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type HandlePlaceOrderParams struct {
	Items        []OrderLine `json:"items" validate:"required,min=1,dive"`
	Total_amount *float64    `json:"totalAmount" validate:"required"`
	Address      string      `json:"address"`
	Phone        string      `json:"phone"`
}

type HandlePlaceOrderResponse struct {
	Message  string `json:"message"`
	Order_id string `json:"orderId"`
}

type HandleUpdateOrderStatusParams struct {
	Status string `json:"status" validate:"required,oneof=Pending Paid Shipped Delivered Cancelled"`
}

type HandleCreatePaymentOrderParams struct {
	Items    []OrderLine `json:"items" validate:"required,min=1,dive"`
	Currency string      `json:"currency"`
}

type HandleVerifyPaymentParams struct {
	Razorpay_order_id   string      `json:"razorpay_order_id" validate:"required"`
	Razorpay_payment_id string      `json:"razorpay_payment_id" validate:"required"`
	Razorpay_signature  string      `json:"razorpay_signature" validate:"required"`
	Items               []OrderLine `json:"items" validate:"required,min=1,dive"`
	Total_amount        *float64    `json:"totalAmount"`
	Address             string      `json:"address"`
	Phone               string      `json:"phone"`
}

type HandleVerifyPaymentResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Order_id string `json:"orderId"`
}

type HandleUploadSubmissionRequest struct {
	Title       string `validate:"required"`
	Synopsis    string `validate:"required"`
	Genre       string
	Author_name string
}

type HandleUpdateSubmissionParams struct {
	Title    string `json:"title"`
	Synopsis string `json:"synopsis"`
	Genre    string `json:"genre"`
}

type HandleSubmissionResponse struct {
	Message    string      `json:"message"`
	Submission *Submission `json:"submission"`
}

type BookDetails struct {
	Title            string   `json:"title"`
	Author           string   `json:"author"`
	Price            *float64 `json:"price"`
	Genre            string   `json:"genre"`
	Image_url        string   `json:"imageUrl"`
	Description      string   `json:"description"`
	Stock            *int     `json:"stock"`
	Publication_year int      `json:"publicationYear"`
	Is_featured      *bool    `json:"isFeatured"`
}

type HandleReviewSubmissionParams struct {
	Status       string       `json:"status"`
	Book_details *BookDetails `json:"bookDetails"`
}

type HandleReviewSubmissionResponse struct {
	Message    string      `json:"message"`
	Submission *Submission `json:"submission"`
	Book       *Book       `json:"book,omitempty"`
}

type HandleAdminUpdateSubmissionParams struct {
	Notes string `json:"notes" validate:"required"`
}

type HandleUserDashboardResponse struct {
	Orders      []Order      `json:"orders"`
	Submissions []Submission `json:"submissions"`
}
