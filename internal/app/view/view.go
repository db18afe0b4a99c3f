// Package view holds the JSON projections returned by the API. Each
// projection is built explicitly from a model; nested entities use the
// short form.
package view

import (
	"time"

	"github.com/ikkim/emporium-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

const (
	priceScale  = 2
	ratingScale = 1
)

func fixed(d decimal.Decimal, places int32) string {
	return d.StringFixed(places)
}

type UserShort struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func NewUserShort(u *model.User) *UserShort {
	if u == nil {
		return nil
	}
	return &UserShort{ID: u.ID, Name: u.Name}
}

// User is the account projection; the password hash never leaves the server.
type User struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

func NewUser(u *model.User) User {
	return User{ID: u.ID, Email: u.Email, Name: u.Name}
}

type Token struct {
	Token string `json:"token"`
}

type ShopShort struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

func NewShopShort(s *model.Shop) *ShopShort {
	if s == nil {
		return nil
	}
	return &ShopShort{ID: s.ID, Name: s.Name}
}

type Shop struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	User        uint      `json:"user"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewShop(s *model.Shop) Shop {
	return Shop{
		ID:          s.ID,
		Name:        s.Name,
		Description: s.Description,
		User:        s.UserID,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func NewShops(shops []model.Shop) []Shop {
	out := make([]Shop, 0, len(shops))
	for i := range shops {
		out = append(out, NewShop(&shops[i]))
	}
	return out
}

type ProductShort struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price string  `json:"price"`
	Image *string `json:"image"`
}

func NewProductShort(p *model.Product) *ProductShort {
	if p == nil {
		return nil
	}
	return &ProductShort{ID: p.ID, Name: p.Name, Price: fixed(p.Price, priceScale), Image: p.Image}
}

// Product is the listing projection; Shop is nil when it was not loaded.
type Product struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Price     string     `json:"price"`
	Quantity  int        `json:"quantity"`
	Shop      *ShopShort `json:"shop"`
	Image     *string    `json:"image"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func NewProduct(p *model.Product) Product {
	return Product{
		ID:        p.ID,
		Name:      p.Name,
		Price:     fixed(p.Price, priceScale),
		Quantity:  p.Quantity,
		Shop:      NewShopShort(p.Shop),
		Image:     p.Image,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func NewProducts(products []model.Product) []Product {
	out := make([]Product, 0, len(products))
	for i := range products {
		out = append(out, NewProduct(&products[i]))
	}
	return out
}

// ProductDetail adds the catalog attributes shown on a single product page.
type ProductDetail struct {
	Product
	Variations []string `json:"variations"`
	Rating     string   `json:"rating"`
	Category   string   `json:"category"`
}

func NewProductDetail(p *model.Product) ProductDetail {
	variations := []string(p.Variations)
	if variations == nil {
		variations = []string{}
	}
	return ProductDetail{
		Product:    NewProduct(p),
		Variations: variations,
		Rating:     fixed(p.Rating, ratingScale),
		Category:   p.Category,
	}
}

type Cart struct {
	ID        uint          `json:"id"`
	User      uint          `json:"user"`
	Product   *ProductShort `json:"product"`
	Quantity  int           `json:"quantity"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func NewCart(c *model.Cart) Cart {
	return Cart{
		ID:        c.ID,
		User:      c.UserID,
		Product:   NewProductShort(c.Product),
		Quantity:  c.Quantity,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func NewCarts(carts []model.Cart) []Cart {
	out := make([]Cart, 0, len(carts))
	for i := range carts {
		out = append(out, NewCart(&carts[i]))
	}
	return out
}

type Review struct {
	ID        uint          `json:"id"`
	Message   string        `json:"message"`
	Rating    string        `json:"rating"`
	Product   *ProductShort `json:"product"`
	User      *UserShort    `json:"user"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

func NewReview(r *model.Review) Review {
	return Review{
		ID:        r.ID,
		Message:   r.Message,
		Rating:    fixed(r.Rating, ratingScale),
		Product:   NewProductShort(r.Product),
		User:      NewUserShort(r.User),
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func NewReviews(reviews []model.Review) []Review {
	out := make([]Review, 0, len(reviews))
	for i := range reviews {
		out = append(out, NewReview(&reviews[i]))
	}
	return out
}

type Transaction struct {
	ID                  uint          `json:"id"`
	Product             *ProductShort `json:"product"`
	Quantity            int           `json:"quantity"`
	ItemPriceAtPurchase string        `json:"item_price_at_purchase"`
	Total               string        `json:"total"`
	CreatedAt           time.Time     `json:"created_at"`
}

func NewTransaction(t *model.Transaction) Transaction {
	return Transaction{
		ID:                  t.ID,
		Product:             NewProductShort(t.Product),
		Quantity:            t.Quantity,
		ItemPriceAtPurchase: fixed(t.ItemPriceAtPurchase, priceScale),
		Total:               fixed(t.Total, priceScale),
		CreatedAt:           t.CreatedAt,
	}
}

func NewTransactions(txns []model.Transaction) []Transaction {
	out := make([]Transaction, 0, len(txns))
	for i := range txns {
		out = append(out, NewTransaction(&txns[i]))
	}
	return out
}

// Message is the body of a successful delete
type Message struct {
	Message string `json:"message"`
}

func Deleted(entity string) Message {
	return Message{Message: entity + " successfully deleted"}
}
