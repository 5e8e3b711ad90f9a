package models

// TenderInfo is the resolved description of one procurement notice.
type TenderInfo struct {
	RegNumber string         `json:"regNumber"`
	Name      string         `json:"name"`
	Customer  string         `json:"customer"`
	Price     string         `json:"price"`
	Region    string         `json:"region"`
	EndDate   string         `json:"endDate"`
	Platform  string         `json:"platform"`
	URL       string         `json:"url"`
	Info      string         `json:"info,omitempty"` // provider HTML blob with the product table
	Documents []DocumentLink `json:"documents,omitempty"`
}

// DocumentLink is one downloadable attachment of a tender.
type DocumentLink struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ProductItem is one row of the tender's product table.
type ProductItem struct {
	Name  string  `json:"name"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"`
	Total float64 `json:"total"`
}
