package repository

// Factory describes access to the different domain repositories.
type Factory interface {
	Users() UserRepository
	Orders() OrderRepository
	Catalog() ProductCatalog
	Stock() StockLedger
}
