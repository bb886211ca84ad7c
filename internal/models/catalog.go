package models

// Company is a retail trading company owned by a supplier account.
type Company struct {
	ID          uint64
	Name        string
	URL         string
	StateOrders bool
	OwnerID     uint64
}

// Category groups products; a category may be served by many companies.
type Category struct {
	ID   uint64
	Name string
}

// Product is a catalog position offered by a company.
type Product struct {
	ID          uint64
	Name        string
	Description string
	Article     uint64
	Quantity    uint32
	Price       uint64
	CategoryID  uint64
	CompanyID   uint64
	Properties  []ProductProperty
}

// ProductProperty is one named characteristic of a product, e.g. "weight" =
// "1.5" with unit "kg".
type ProductProperty struct {
	Name  string
	Unit  string
	Value string
}
