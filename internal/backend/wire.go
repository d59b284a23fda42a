package backend

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evtrading/evmarket-gateway/pkg/auth"
	"github.com/evtrading/evmarket-gateway/pkg/enums"
	"github.com/evtrading/evmarket-gateway/pkg/types"
)

// The backend's field names drifted across endpoints over time: ids arrive as
// listingId or id, statuses as status or listingStatus. The wire structs here
// absorb that so the rest of the gateway sees one shape.

type wireImage struct {
	URL       string `json:"url"`
	ImageURL  string `json:"imageUrl"`
	IsPrimary bool   `json:"isPrimary"`
}

type wireSeller struct {
	ID       int64  `json:"id"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type wireListing struct {
	ListingID     int64           `json:"listingId"`
	ID            int64           `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	BrandID       int64           `json:"brandId"`
	CategoryID    int64           `json:"categoryId"`
	Status        string          `json:"status"`
	ListingStatus string          `json:"listingStatus"`
	Reason        string          `json:"rejectionReason"`
	Images        []wireImage     `json:"images"`
	Seller        *wireSeller     `json:"seller"`
	SellerID      int64           `json:"sellerId"`
	CreatedAt     time.Time       `json:"createdAt"`
	ExpiryDate    time.Time       `json:"expiryDate"`

	ProductType string                `json:"productType"`
	Vehicle     *types.VehicleDetails `json:"vehicle"`
	Battery     *types.BatteryDetails `json:"battery"`
}

func (w wireListing) toDomain() types.Listing {
	id := w.ListingID
	if id == 0 {
		id = w.ID
	}
	status := w.Status
	if status == "" {
		status = w.ListingStatus
	}

	images := make([]types.Image, 0, len(w.Images))
	for _, img := range w.Images {
		url := img.URL
		if url == "" {
			url = img.ImageURL
		}
		images = append(images, types.Image{URL: url, IsPrimary: img.IsPrimary})
	}

	seller := types.Seller{ID: w.SellerID}
	if w.Seller != nil {
		seller = types.Seller{
			ID:       w.Seller.ID,
			Username: w.Seller.Username,
			Email:    w.Seller.Email,
			Phone:    w.Seller.Phone,
		}
		if seller.ID == 0 {
			seller.ID = w.Seller.UserID
		}
	}

	product := types.Product{
		Vehicle: w.Vehicle,
		Battery: w.Battery,
	}
	if pt, err := enums.ParseProductType(w.ProductType); err == nil {
		product.Type = pt
	} else if w.Battery != nil {
		product.Type = enums.ProductTypeBattery
	} else {
		product.Type = enums.ProductTypeVehicle
	}

	return types.Listing{
		ID:              id,
		Title:           w.Title,
		Description:     w.Description,
		Price:           w.Price,
		BrandID:         w.BrandID,
		CategoryID:      w.CategoryID,
		Status:          enums.NormalizeListingStatus(status),
		RejectionReason: w.Reason,
		Images:          types.NormalizeImages(images),
		Product:         product,
		Seller:          seller,
		CreatedAt:       w.CreatedAt,
		ExpiryDate:      w.ExpiryDate,
	}
}

// listingCollection tolerates both paging envelopes and bare arrays.
type listingCollection struct {
	items []wireListing
}

func (l *listingCollection) UnmarshalJSON(data []byte) error {
	var bare []wireListing
	if err := json.Unmarshal(data, &bare); err == nil {
		l.items = bare
		return nil
	}
	var envelope struct {
		Content []wireListing `json:"content"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}
	l.items = envelope.Content
	return nil
}

func (l listingCollection) toDomain() []types.Listing {
	out := make([]types.Listing, 0, len(l.items))
	for _, item := range l.items {
		out = append(out, item.toDomain())
	}
	return out
}

type wireTransaction struct {
	TransactionID int64           `json:"transactionId"`
	ID            int64           `json:"id"`
	ListingID     int64           `json:"listingId"`
	TotalAmount   decimal.Decimal `json:"totalAmount"`
	PaidAmount    decimal.Decimal `json:"paidAmount"`
	Status        string          `json:"status"`
	ExpiredAt     time.Time       `json:"expiredAt"`
}

func (w wireTransaction) toDomain() types.Transaction {
	id := w.TransactionID
	if id == 0 {
		id = w.ID
	}
	return types.Transaction{
		ID:          id,
		ListingID:   w.ListingID,
		TotalAmount: w.TotalAmount,
		PaidAmount:  w.PaidAmount,
		Status:      enums.NormalizeTransactionStatus(w.Status),
		ExpiredAt:   w.ExpiredAt,
	}
}

type wireOrder struct {
	OrderID   int64     `json:"orderId"`
	ID        int64     `json:"id"`
	ListingID int64     `json:"listingId"`
	BuyerID   int64     `json:"buyerId"`
	Quantity  int       `json:"quantity"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func (w wireOrder) toDomain() types.Order {
	id := w.OrderID
	if id == 0 {
		id = w.ID
	}
	return types.Order{
		ID:        id,
		ListingID: w.ListingID,
		BuyerID:   w.BuyerID,
		Quantity:  w.Quantity,
		Status:    enums.OrderStatus(w.Status),
		CreatedAt: w.CreatedAt,
	}
}

type wirePayment struct {
	PaymentID     int64           `json:"paymentId"`
	ID            int64           `json:"id"`
	TransactionID int64           `json:"transactionId"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	Provider      string          `json:"provider"`
	Status        string          `json:"status"`
	PaidAt        *time.Time      `json:"paidAt"`
}

func (w wirePayment) toDomain() types.Payment {
	id := w.PaymentID
	if id == 0 {
		id = w.ID
	}
	return types.Payment{
		ID:            id,
		TransactionID: w.TransactionID,
		Amount:        w.Amount,
		Method:        w.Method,
		Provider:      w.Provider,
		Status:        enums.PaymentStatus(w.Status),
		PaidAt:        w.PaidAt,
	}
}

type wireUser struct {
	UserID    int64     `json:"userId"`
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	FullName  string    `json:"fullName"`
	AvatarURL string    `json:"avatarUrl"`
	Role      any       `json:"role"`
	Roles     any       `json:"roles"`
	CreatedAt time.Time `json:"createdAt"`
}

func (w wireUser) toDomain() types.User {
	id := w.UserID
	if id == 0 {
		id = w.ID
	}
	role := w.Role
	if role == nil {
		role = w.Roles
	}
	return types.User{
		ID:        id,
		Username:  w.Username,
		Email:     w.Email,
		Phone:     w.Phone,
		FullName:  w.FullName,
		AvatarURL: w.AvatarURL,
		Role:      auth.NormalizeRole(role),
		CreatedAt: w.CreatedAt,
	}
}
