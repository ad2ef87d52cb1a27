//go:build ignore

package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gofresh/internal/model"
)

func won(v int64) *int64 {
	return &v
}

// generateSampleCatalog creates sample product files for local runs.
// products.jsonl.gz holds the regular catalogue; deals.jsonl.gz holds
// time-limited deals, one of which has already ended.
func main() {
	dataDir := "data/catalog"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	now := time.Now().UTC()
	tomorrow := now.Add(24 * time.Hour)
	yesterday := now.Add(-24 * time.Hour)

	files := map[string][]model.Product{
		"products.jsonl.gz": {
			{ID: "P001", Name: "제주 감귤 3kg", Img: "/img/tangerine.jpg", Category: "fruit", Flag: "🇰🇷", Price: 15900, Rocket: true, Rating: 4.8, ReviewCount: 2311},
			{ID: "P002", Name: "부사 사과 2kg", Img: "/img/apple.jpg", Category: "fruit", Flag: "🇰🇷", Price: 12900, Rocket: true, Rating: 4.6, ReviewCount: 985},
			{ID: "P003", Name: "한우 등심 1++ 300g", Img: "/img/hanwoo.jpg", Category: "meat", Flag: "🇰🇷", Price: 45000, Rocket: true, Rating: 4.9, ReviewCount: 412},
			{ID: "P004", Name: "호주산 척롤 500g", Img: "/img/chuck.jpg", Category: "meat", Flag: "🇦🇺", Price: 18900, Rating: 4.3, ReviewCount: 208},
			{ID: "P005", Name: "서울우유 1L", Img: "/img/milk.jpg", Category: "dairy", Price: 2980, Rocket: true, Rating: 4.7, ReviewCount: 5120},
			{ID: "P006", Name: "무항생제 유정란 30구", Img: "/img/eggs.jpg", Category: "dairy", Price: 9980, Rating: 4.5, ReviewCount: 1733},
			{ID: "P007", Name: "제주 삼다수 2L x 6", Img: "/img/water.jpg", Category: "drinks", Price: 6480, Rocket: true, Rating: 4.9, ReviewCount: 10234},
			{ID: "P008", Name: "노르웨이 생연어 400g", Img: "/img/salmon.jpg", Category: "seafood", Flag: "🇳🇴", Price: 21900, Rating: 4.4, ReviewCount: 377},
		},
		"deals.jsonl.gz": {
			{ID: "D001", Name: "성주 참외 2kg", Img: "/img/melon.jpg", Category: "fruit", Flag: "🇰🇷", Price: 19900, SalePrice: won(13900), OriginalPrice: won(19900), DiscountRate: 30, Rocket: true, DealEndsAt: &tomorrow},
			{ID: "D002", Name: "국산 삼겹살 1kg", Img: "/img/porkbelly.jpg", Category: "meat", Flag: "🇰🇷", Price: 32000, SalePrice: won(24900), OriginalPrice: won(32000), DiscountRate: 22, DealEndsAt: &tomorrow},
			{ID: "D003", Name: "그릭요거트 450g x 2", Img: "/img/yogurt.jpg", Category: "dairy", Price: 15800, SalePrice: won(9900), OriginalPrice: won(15800), DiscountRate: 37, Rocket: true, DealEndsAt: &yesterday},
			{ID: "D004", Name: "콜드브루 원액 1L", Img: "/img/coldbrew.jpg", Category: "drinks", Price: 12000, SalePrice: won(8900), OriginalPrice: won(12000), DiscountRate: 25},
		},
	}

	for filename, products := range files {
		filePath := filepath.Join(dataDir, filename)

		if err := createProductFile(filePath, products); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d products\n", filePath, len(products))
	}

	fmt.Println("\nSample catalog files created successfully!")
	fmt.Println("\nLoad both with:")
	fmt.Println("  CATALOG_FILES=data/catalog/products.jsonl.gz,data/catalog/deals.jsonl.gz")
	fmt.Println("\nDeals:")
	fmt.Println("  - D001, D002 end tomorrow")
	fmt.Println("  - D003 ended yesterday and is hidden from /api/deals")
	fmt.Println("  - D004 has no end time")
}

func createProductFile(filePath string, products []model.Product) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	encoder := json.NewEncoder(gzipWriter)
	for _, product := range products {
		if err := encoder.Encode(product); err != nil {
			return fmt.Errorf("failed to write product %s: %w", product.ID, err)
		}
	}

	return nil
}
