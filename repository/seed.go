package repository

import (
	"context"
	"fmt"

	"product-catalog/models"
)

// SeedProducts returns the startup catalog.
func SeedProducts() []models.ProductDraft {
	return []models.ProductDraft{
		{Name: "Wireless Headphones", Description: "Over-ear, noise cancelling", Price: 129.99, Stock: 25, Category: models.CategoryElectronics, Vendor: "SoundHub", Image: "assets/headphones.png", IsActive: true},
		{Name: "USB Cable", Description: "USB-C to USB-C, 1m", Price: 9.99, Stock: 200, Category: models.CategoryElectronics, Vendor: "CableCo", Image: "assets/usb-cable.png", IsActive: true},
		{Name: "Cotton T-Shirt", Description: "Plain white, unisex", Price: 15, Stock: 80, Category: models.CategoryClothing, Vendor: "BasicWear", Image: "assets/tshirt.png", IsActive: true},
		{Name: "Denim Jacket", Price: 79.5, Stock: 12, Category: models.CategoryClothing, Vendor: "BasicWear", Image: "assets/jacket.png", IsActive: true},
		{Name: "The Go Programming Language", Description: "Donovan & Kernighan", Price: 39.9, Stock: 40, Category: models.CategoryBooks, Vendor: "PageTurner", Image: "assets/gopl.png", IsActive: true},
		{Name: "Ceramic Coffee Mug", Price: 12.5, Stock: 60, Category: models.CategoryHome, Vendor: "HomeNest", Image: "assets/mug.png", IsActive: true},
		{Name: "Yoga Mat", Description: "6mm, non-slip", Price: 29.99, Stock: 35, Category: models.CategorySports, Vendor: "FitGear", Image: "assets/yoga-mat.png", IsActive: true},
		{Name: "Running Shoes", Price: 95, Stock: 18, Category: models.CategorySports, Vendor: "FitGear", Image: "assets/shoes.png", IsActive: true},
		{Name: "Face Moisturizer", Price: 22, Stock: 45, Category: models.CategoryBeauty, Vendor: "GlowLab", Image: "assets/moisturizer.png", IsActive: true},
		{Name: "Organic Honey", Description: "500g jar", Price: 8.75, Stock: 90, Category: models.CategoryFood, Vendor: "BeeFarm", Image: "assets/honey.png", IsActive: true},
		{Name: "Car Phone Mount", Price: 19.99, Stock: 70, Category: models.CategoryAutomotive, Vendor: "DriveTech", Image: "assets/mount.png", IsActive: true},
		{Name: "Building Blocks Set", Description: "500 pieces", Price: 49.99, Stock: 0, Category: models.CategoryToys, Vendor: "PlayWorks", Image: "assets/blocks.png", IsActive: false},
		{Name: "Vitamin C Tablets", Price: 11.2, Stock: 150, Category: models.CategoryHealth, Vendor: "VitaPlus", Image: "assets/vitamin-c.png", IsActive: true},
		{Name: "Bluetooth Speaker", Price: 59, Stock: 30, Category: models.CategoryElectronics, Vendor: "SoundHub", Image: "assets/speaker.png", IsActive: true},
	}
}

// Seed adds the startup catalog to repo.
func Seed(ctx context.Context, repo ProductRepo) (int, error) {
	drafts := SeedProducts()
	for i, d := range drafts {
		if _, err := repo.Add(ctx, d); err != nil {
			return i, fmt.Errorf("failed to seed product %q: %w", d.Name, err)
		}
	}
	return len(drafts), nil
}
