package models

// Page is the paginated list envelope returned by the backend's collection
// endpoints. Next and Previous are absolute URLs of the neighbouring pages,
// empty when absent.
type Page[T any] struct {
	// Count is the total number of results across all pages.
	Count int `json:"count"`

	// Next is the URL of the next page, or empty on the last page.
	Next string `json:"next"`

	// Previous is the URL of the previous page, or empty on the first page.
	Previous string `json:"previous"`

	// Results holds this page's items.
	Results []T `json:"results"`
}
