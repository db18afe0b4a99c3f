package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/ikkim/emporium-backend/config"
	"github.com/ikkim/emporium-backend/internal/app/repository"
	"github.com/ikkim/emporium-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

func main() {
	owner := flag.String("owner", "", "email of the existing user who will own imported shops")
	batchSize := flag.Int("batch", 500, "products inserted per batch")
	yes := flag.Bool("yes", false, "skip the confirmation prompt")
	flag.Parse()

	if flag.NArg() < 1 || *owner == "" {
		log.Fatal("Usage: go run ./cmd/seed -owner <email> [-batch n] [-yes] <xlsx_file_path>")
	}
	filePath := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	ctx := context.Background()
	user, err := repository.NewUserRepository(db.GetDB()).FindByEmail(ctx, *owner)
	if err != nil {
		log.Fatalf("Owner %s not found: %v", *owner, err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		log.Fatal("Failed to open XLSX:", err)
	}
	rows, skipped, err := readCatalog(f)
	_ = f.Close()
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Valid products: %d\n", len(rows))
	fmt.Printf("  Skipped rows: %d\n", len(skipped))
	for _, s := range skipped {
		fmt.Printf("    line %d: %s\n", s.Line, s.Reason)
	}
	if len(rows) == 0 {
		fmt.Println("Nothing to import.")
		return
	}

	if !*yes {
		fmt.Print("Do you want to proceed with the import? (yes/no): ")
		var confirm string
		fmt.Scanln(&confirm)
		if confirm != "yes" && confirm != "y" {
			fmt.Println("Import cancelled.")
			return
		}
	}

	result, err := importCatalog(ctx, db.GetDB(), user, rows, *batchSize)
	if err != nil {
		log.Fatal("Import failed:", err)
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("  Shops created: %d\n", result.ShopsCreated)
	fmt.Printf("  Products imported: %d\n", result.Products)
}
