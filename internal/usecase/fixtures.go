package usecase

import (
	"time"

	"chatmarket/internal/domain/entity"
)

const (
	DemoSellerID = "seller-001"
	DemoBuyerID  = "buyer-001"
	DemoPassword = "demo123"
)

const day = 24 * time.Hour

func demoAccounts(now time.Time) []entity.Account {
	return []entity.Account{
		{
			ID:        DemoSellerID,
			Email:     "seller@demo.com",
			Name:      "Alex Rivera",
			Avatar:    "A",
			Role:      entity.RoleSeller,
			CreatedAt: now.Add(-30 * day),
		},
		{
			ID:        DemoBuyerID,
			Email:     "buyer@demo.com",
			Name:      "Sarah Chen",
			Avatar:    "S",
			Role:      entity.RoleBuyer,
			CreatedAt: now.Add(-7 * day),
		},
	}
}

func demoStorefronts(now time.Time) []entity.Storefront {
	return []entity.Storefront{
		{
			ID:            "store-001",
			SellerID:      DemoSellerID,
			Name:          "Sneaker Haven",
			Description:   "Premium sneakers for every style. Curated collection of the best kicks from around the world.",
			Logo:          "S",
			Banner:        "https://images.unsplash.com/photo-1556906781-9a412961c28c?auto=format&fit=crop&q=80&w=1200",
			Currency:      "$",
			Categories:    []string{"All", "High Tops", "Running", "Casual", "Limited Edition"},
			SetupComplete: true,
			SetupAnswers: entity.SetupAnswers{
				BusinessType:      entity.BusinessPhysical,
				PrimaryCategory:   "fashion",
				TargetAudience:    entity.AudienceGeneral,
				ShippingType:      entity.ShippingNational,
				EstimatedProducts: entity.CatalogMedium,
			},
			Rating:     4.8,
			TotalSales: 234,
			CreatedAt:  now.Add(-30 * day),
		},
		{
			ID:            "store-002",
			SellerID:      "seller-002",
			Name:          "Coffee Roast Co.",
			Description:   "Artisanal coffee beans roasted fresh every week. From single-origin to custom blends.",
			Logo:          "C",
			Banner:        "https://images.unsplash.com/photo-1447933601403-56dc2df6e394?auto=format&fit=crop&q=80&w=1200",
			Currency:      "$",
			Categories:    []string{"All", "Single Origin", "Blends", "Equipment"},
			SetupComplete: true,
			SetupAnswers: entity.SetupAnswers{
				BusinessType:      entity.BusinessPhysical,
				PrimaryCategory:   "food",
				TargetAudience:    entity.AudienceLuxury,
				ShippingType:      entity.ShippingNational,
				EstimatedProducts: entity.CatalogMedium,
			},
			Rating:     4.6,
			TotalSales: 589,
			CreatedAt:  now.Add(-60 * day),
		},
		{
			ID:            "store-003",
			SellerID:      "seller-003",
			Name:          "TechPulse",
			Description:   "Cutting-edge gadgets and accessories. If it has a chip, we have it.",
			Logo:          "T",
			Banner:        "https://images.unsplash.com/photo-1518770660439-4636190af475?auto=format&fit=crop&q=80&w=1200",
			Currency:      "$",
			Categories:    []string{"All", "Audio", "Keyboards", "Cameras", "Accessories"},
			SetupComplete: true,
			SetupAnswers: entity.SetupAnswers{
				BusinessType:      entity.BusinessPhysical,
				PrimaryCategory:   "electronics",
				TargetAudience:    entity.AudienceGeneral,
				ShippingType:      entity.ShippingInternational,
				EstimatedProducts: entity.CatalogLarge,
			},
			Rating:     4.9,
			TotalSales: 1023,
			CreatedAt:  now.Add(-90 * day),
		},
	}
}

func demoListing(id, storeID, name string, price float64, description, category, photo string, stock, ageDays int, now time.Time) entity.Listing {
	return entity.Listing{
		ID:           id,
		StorefrontID: storeID,
		Name:         name,
		Price:        price,
		Currency:     "$",
		Description:  description,
		Category:     category,
		Image:        "https://images.unsplash.com/" + photo + "?auto=format&fit=crop&q=80&w=800",
		Stock:        stock,
		Variants:     []entity.Variant{},
		Active:       true,
		CreatedAt:    now.Add(-time.Duration(ageDays) * day),
	}
}

func demoListings(now time.Time) []entity.Listing {
	return []entity.Listing{
		demoListing("prod-001", "store-001", "Retro High Tops", 120,
			"Classic vibe sneakers with premium leather finish. Ultra-comfortable sole for all-day wear.",
			"High Tops", "photo-1549298916-b41d501d3772", 12, 20, now),
		demoListing("prod-002", "store-001", "Air Runner Pro", 180,
			"Lightweight running shoes with responsive cushioning. Perfect for marathon training.",
			"Running", "photo-1542291026-7eec264c27ff", 8, 18, now),
		demoListing("prod-003", "store-001", "Canvas Classic", 65,
			"Timeless canvas sneakers. Goes with everything from jeans to chinos.",
			"Casual", "photo-1525966222134-fcfa99b8ae77", 25, 15, now),
		demoListing("prod-004", "store-001", "Limited Gold Edition", 350,
			"Only 100 pairs made. Gold-threaded upper with premium box packaging.",
			"Limited Edition", "photo-1460353581641-37baddab0fa2", 3, 5, now),
		demoListing("prod-005", "store-001", "Street Walker", 95,
			"Urban style meets comfort. Padded ankle collar and grippy outsole.",
			"Casual", "photo-1595950653106-6c9ebd614d3a", 18, 10, now),
		demoListing("prod-006", "store-001", "Trail Blazer X", 145,
			"All-terrain trail running shoes. Waterproof membrane with aggressive tread pattern.",
			"Running", "photo-1606107557195-0e29a4b5b4aa", 7, 8, now),

		demoListing("prod-101", "store-002", "Ethiopian Yirgacheffe", 24,
			"Bright, fruity, and wine-like. Single-origin from the birthplace of coffee.",
			"Single Origin", "photo-1559056199-641a0ac8b55e", 40, 25, now),
		demoListing("prod-102", "store-002", "House Blend", 18,
			"Our signature blend. Smooth, chocolatey, with a hint of caramel. Perfect everyday coffee.",
			"Blends", "photo-1514432324607-a09d9b4aefda", 60, 30, now),
		demoListing("prod-103", "store-002", "Ceramic Pour-Over Set", 45,
			"Hand-crafted ceramic dripper with carafe. The perfect manual brewing setup.",
			"Equipment", "photo-1572196284554-d9c252723702", 15, 20, now),

		demoListing("prod-201", "store-003", "Noise-Cancel Buds Pro", 199,
			"Silence the world. 24h battery life with ANC and transparency mode.",
			"Audio", "photo-1590658268037-6bf12165a8df", 22, 15, now),
		demoListing("prod-202", "store-003", "Mechanical Keyboard K75", 129,
			"Wireless mechanical keyboard with RGB and hot-swappable switches.",
			"Keyboards", "photo-1595225476474-87563907a212", 14, 12, now),
		demoListing("prod-203", "store-003", "Vintage Film Camera", 350,
			"Fully restored 35mm film camera. Perfect for analog photography enthusiasts.",
			"Cameras", "photo-1516035069371-29a1b244cc32", 4, 10, now),
	}
}
