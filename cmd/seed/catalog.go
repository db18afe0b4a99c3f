package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/ikkim/emporium-backend/internal/app/model"
	"github.com/ikkim/emporium-backend/internal/db"
	"github.com/ikkim/emporium-backend/internal/validation"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// Sheet columns, matched case-insensitively against the header row.
const (
	colShop        = "shop"
	colDescription = "shop_description"
	colName        = "name"
	colPrice       = "price"
	colQuantity    = "quantity"
	colCategory    = "category"
	colVariations  = "variations"
	colImage       = "image"
)

var requiredColumns = []string{colShop, colName, colPrice, colQuantity}

type catalogRow struct {
	Line            int
	Shop            string
	ShopDescription string
	Name            string
	Price           decimal.Decimal
	Quantity        int
	Category        string
	Variations      []string
	Image           *string
}

type skippedRow struct {
	Line   int
	Reason string
}

// readCatalog parses the first sheet. Rows failing validation are skipped
// and reported, not fatal.
func readCatalog(f *excelize.File) ([]catalogRow, []skippedRow, error) {
	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("no data found in XLSX file")
	}

	columns := make(map[string]int, len(rows[0]))
	for i, header := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(header))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			return nil, nil, fmt.Errorf("missing required column %q", col)
		}
	}

	cell := func(row []string, col string) string {
		i, ok := columns[col]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var (
		catalog []catalogRow
		skipped []skippedRow
	)
	for i, row := range rows[1:] {
		line := i + 2
		parsed, reason := parseCatalogRow(line, func(col string) string { return cell(row, col) })
		if reason != "" {
			skipped = append(skipped, skippedRow{Line: line, Reason: reason})
			continue
		}
		catalog = append(catalog, parsed)
	}
	return catalog, skipped, nil
}

func parseCatalogRow(line int, cell func(string) string) (catalogRow, string) {
	row := catalogRow{
		Line:            line,
		Shop:            cell(colShop),
		ShopDescription: cell(colDescription),
		Name:            cell(colName),
		Category:        cell(colCategory),
	}

	if fe := validation.Name(colShop, row.Shop, ""); fe != nil {
		return row, "shop: " + fe.Message
	}
	if fe := validation.MaxLength(colShop, row.Shop, validation.MaxShopNameLength); fe != nil {
		return row, "shop: " + fe.Message
	}
	if fe := validation.Name(colName, row.Name, "Product name is invalid"); fe != nil {
		return row, "name: " + fe.Message
	}

	price, err := decimal.NewFromString(cell(colPrice))
	if err != nil {
		return row, "price: A valid number is required."
	}
	if fe := validation.Price(colPrice, price); fe != nil {
		return row, "price: " + fe.Message
	}
	row.Price = price

	quantity, err := strconv.Atoi(cell(colQuantity))
	if err != nil {
		return row, "quantity: A valid integer is required."
	}
	if fe := validation.Quantity(colQuantity, quantity); fe != nil {
		return row, "quantity: " + fe.Message
	}
	row.Quantity = quantity

	if fe := validation.MaxLength(colCategory, row.Category, validation.MaxCategoryLength); fe != nil {
		return row, "category: " + fe.Message
	}

	row.Variations = []string{}
	if raw := cell(colVariations); raw != "" {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				row.Variations = append(row.Variations, v)
			}
		}
	}
	if fe := validation.Variations(colVariations, row.Variations); fe != nil {
		return row, "variations: " + fe.Message
	}

	if image := cell(colImage); image != "" {
		row.Image = &image
	}
	return row, ""
}

type importResult struct {
	ShopsCreated int
	Products     int
}

// importCatalog writes every row in one transaction, creating shops owned
// by owner the first time their name appears. Existing shops are reused.
func importCatalog(ctx context.Context, database *gorm.DB, owner *model.User, rows []catalogRow, batchSize int) (importResult, error) {
	var result importResult

	err := db.WithTransaction(ctx, database, func(tx *gorm.DB) error {
		shopIDs := make(map[string]uint)
		products := make([]model.Product, 0, len(rows))

		for _, row := range rows {
			shopID, ok := shopIDs[row.Shop]
			if !ok {
				var shop model.Shop
				err := tx.Where("name = ?", row.Shop).First(&shop).Error
				if errors.Is(err, gorm.ErrRecordNotFound) {
					shop = model.Shop{
						Name:        row.Shop,
						Description: row.ShopDescription,
						UserID:      owner.ID,
						Entity:      model.Entity{CreatedByID: owner.ID},
					}
					err = tx.Create(&shop).Error
					if err == nil {
						result.ShopsCreated++
					}
				}
				if err != nil {
					return fmt.Errorf("line %d: shop %q: %w", row.Line, row.Shop, err)
				}
				shopID = shop.ID
				shopIDs[row.Shop] = shopID
			}

			products = append(products, model.Product{
				Name:       row.Name,
				Price:      row.Price,
				Quantity:   row.Quantity,
				ShopID:     shopID,
				Image:      row.Image,
				Variations: model.Variations(row.Variations),
				Rating:     decimal.Zero,
				Category:   row.Category,
				Entity:     model.Entity{CreatedByID: owner.ID},
			})
		}

		if len(products) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(products, batchSize).Error; err != nil {
			return fmt.Errorf("failed to insert products: %w", err)
		}
		result.Products = len(products)
		return nil
	})
	return result, err
}
