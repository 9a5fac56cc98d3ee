package entity

const (
	ListingStatusActive    = "ACTIVE"
	ListingStatusPending   = "PENDING"
	ListingStatusSold      = "SOLD"
	ListingStatusCancelled = "CANCELLED"
)

type ListingImage struct {
	ID      int64  `json:"id"`
	URL     string `json:"imageUrl"`
	Primary bool   `json:"primary"`
}

type Listing struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Price       float64        `json:"price"`
	Category    string         `json:"category"`
	Status      string         `json:"status"`
	Seller      User           `json:"seller"`
	Images      []ListingImage `json:"images"`
	CreatedAt   Timestamp      `json:"createdAt"`
	UpdatedAt   Timestamp      `json:"updatedAt"`
}

// ValidListingStatus reports whether s is one of the predefined statuses.
func ValidListingStatus(s string) bool {
	switch s {
	case ListingStatusActive, ListingStatusPending, ListingStatusSold, ListingStatusCancelled:
		return true
	}
	return false
}

// PrimaryImage returns the image flagged primary, falling back to the first
// one in display order.
func (l *Listing) PrimaryImage() string {
	for _, img := range l.Images {
		if img.Primary {
			return img.URL
		}
	}
	if len(l.Images) > 0 {
		return l.Images[0].URL
	}
	return ""
}
