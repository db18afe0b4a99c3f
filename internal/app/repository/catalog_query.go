package repository

import (
	"strings"

	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching value anywhere, with
// wildcard characters in value taken literally.
func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(value)) + "%"
}

// ProductQuery filters the public product listing. Every listing is limited
// to products in stock; each optional predicate that is set narrows it
// further. Zero values mean "no constraint".
type ProductQuery struct {
	ShopID   *uint
	Search   string
	Category string
}

const productOrder = "products.id ASC"

// Apply conjoins the predicates onto db
func (q ProductQuery) Apply(db *gorm.DB) *gorm.DB {
	db = db.Where("products.quantity > ?", 0)
	if q.ShopID != nil {
		db = db.Where("products.shop_id = ?", *q.ShopID)
	}
	if q.Search != "" {
		db = db.Where(`LOWER(products.name) LIKE ? ESCAPE '\'`, containsPattern(q.Search))
	}
	if q.Category != "" {
		db = db.Where("LOWER(products.category) = ?", strings.ToLower(q.Category))
	}
	return db
}

// ShopQuery filters the shop listing by a case-insensitive name substring.
type ShopQuery struct {
	NameContains string
}

const shopOrder = "shops.id ASC"

func (q ShopQuery) Apply(db *gorm.DB) *gorm.DB {
	if q.NameContains != "" {
		db = db.Where(`LOWER(shops.name) LIKE ? ESCAPE '\'`, containsPattern(q.NameContains))
	}
	return db
}

// ReviewQuery lists reviews newest first, optionally for one product.
type ReviewQuery struct {
	ProductID *uint
}

const reviewOrder = "reviews.created_at DESC, reviews.id DESC"

func (q ReviewQuery) Apply(db *gorm.DB) *gorm.DB {
	if q.ProductID != nil {
		db = db.Where("reviews.product_id = ?", *q.ProductID)
	}
	return db
}
