package domain

import "time"

type Product struct {
	ID            int64          `json:"id"`
	Name          string         `json:"name"`
	Slug          string         `json:"slug"`
	Description   string         `json:"description,omitempty"`
	Price         float64        `json:"price"`
	OldPrice      *float64       `json:"oldPrice,omitempty"`
	StockQuantity int            `json:"stockQuantity"`
	Material      string         `json:"material,omitempty"`
	CategoryID    *int64         `json:"categoryId,omitempty"`
	IsActive      bool           `json:"isActive"`
	Rating        float64        `json:"rating"`
	ReviewCount   int            `json:"reviewCount"`
	Images        []ProductImage `json:"images,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type ProductImage struct {
	ID           int64  `json:"id"`
	ProductID    int64  `json:"productId"`
	URL          string `json:"url"`
	URLThumbnail string `json:"urlThumbnail,omitempty"`
	IsMain       bool   `json:"isMain"`
	SortOrder    int    `json:"sortOrder"`
}

// MainImage returns the primary image URL, falling back to the first one.
func (p Product) MainImage() string {
	for _, img := range p.Images {
		if img.IsMain {
			if img.URLThumbnail != "" {
				return img.URLThumbnail
			}
			return img.URL
		}
	}
	if len(p.Images) > 0 {
		if p.Images[0].URLThumbnail != "" {
			return p.Images[0].URLThumbnail
		}
		return p.Images[0].URL
	}
	return ""
}

type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortPopular   ProductSort = "popular"
)

type ProductFilter struct {
	CategorySlug string
	Search       string
	MinPrice     *float64
	MaxPrice     *float64
	Material     string
	Sort         ProductSort
	OnlyActive   bool
	Page         int
	Limit        int
}
