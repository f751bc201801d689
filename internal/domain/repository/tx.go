package repository

// TxRepos agrupa los repositorios atados a una misma transacción.
type TxRepos struct {
	Products   ProductRepository
	Movements  StockMovementRepository
	Sales      SaleRepository
	Categories CategoryRepository
	Users      UserRepository
}
