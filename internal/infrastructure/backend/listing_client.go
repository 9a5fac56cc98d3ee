package backend

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/url"
	"strconv"

	"campusmarket/internal/domain/entity"
	apperrors "campusmarket/pkg/errors"
)

// ListingPage is the backend's list envelope. TotalElements is the sole
// source of truth for page-count math.
type ListingPage struct {
	Content       []entity.Listing `json:"content"`
	TotalElements int64            `json:"totalElements"`
}

// ImageUpload is one listing photo in display order.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

type CreateListingInput struct {
	Title       string
	Description string
	Price       float64
	Category    string
	Status      string
	Images      []ImageUpload
}

type UpdateListingInput struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
}

// CreateListing posts the multipart payload: text fields plus the ordered
// image files under the repeated "images" part.
func (c *Client) CreateListing(ctx context.Context, input CreateListingInput) (*entity.Listing, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":       input.Title,
		"description": input.Description,
		"price":       strconv.FormatFloat(input.Price, 'f', -1, 64),
		"category":    input.Category,
		"status":      input.Status,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, apperrors.Internal("Failed to encode listing form", err)
		}
	}

	for _, img := range input.Images {
		part, err := writer.CreateFormFile("images", img.Filename)
		if err != nil {
			return nil, apperrors.Internal("Failed to encode listing image", err)
		}
		if _, err := part.Write(img.Data); err != nil {
			return nil, apperrors.Internal("Failed to encode listing image", err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, apperrors.Internal("Failed to encode listing form", err)
	}

	var listing entity.Listing
	if err := c.do(ctx, "POST", "/listings", nil, &buf, writer.FormDataContentType(), &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

// ListListings fetches the browse feed. Page is the backend's zero-based
// page index; search is optional.
func (c *Client) ListListings(ctx context.Context, page, size int, search string) (*ListingPage, error) {
	query := pageQuery(page, size)
	if search != "" {
		query.Set("search", search)
	}

	var result ListingPage
	if err := c.get(ctx, "/listings", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetListing(ctx context.Context, id int64) (*entity.Listing, error) {
	var listing entity.Listing
	if err := c.get(ctx, fmt.Sprintf("/listings/%d", id), nil, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *Client) SearchListings(ctx context.Context, keyword string, page, size int) (*ListingPage, error) {
	query := pageQuery(page, size)
	query.Set("keyword", keyword)

	var result ListingPage
	if err := c.get(ctx, "/listings/search", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListingsByCategory(ctx context.Context, category string, page, size int) (*ListingPage, error) {
	var result ListingPage
	path := "/listings/category/" + url.PathEscape(category)
	if err := c.get(ctx, path, pageQuery(page, size), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ListingsByPriceRange(ctx context.Context, minPrice, maxPrice float64, page, size int) (*ListingPage, error) {
	query := pageQuery(page, size)
	query.Set("minPrice", strconv.FormatFloat(minPrice, 'f', -1, 64))
	query.Set("maxPrice", strconv.FormatFloat(maxPrice, 'f', -1, 64))

	var result ListingPage
	if err := c.get(ctx, "/listings/price-range", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// OwnListings fetches the authenticated seller's listings.
func (c *Client) OwnListings(ctx context.Context, page, size int) (*ListingPage, error) {
	var result ListingPage
	if err := c.get(ctx, "/listings/user", pageQuery(page, size), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) UpdateListingStatus(ctx context.Context, id int64, status string) (*entity.Listing, error) {
	query := url.Values{}
	query.Set("status", status)

	var listing entity.Listing
	if err := c.putJSON(ctx, fmt.Sprintf("/listings/%d/status", id), query, nil, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *Client) UpdateListing(ctx context.Context, id int64, input UpdateListingInput) (*entity.Listing, error) {
	var listing entity.Listing
	if err := c.putJSON(ctx, fmt.Sprintf("/listings/%d", id), nil, input, &listing); err != nil {
		return nil, err
	}
	return &listing, nil
}

func (c *Client) DeleteListing(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/listings/%d", id))
}

func pageQuery(page, size int) url.Values {
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("size", strconv.Itoa(size))
	return query
}
