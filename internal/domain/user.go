package domain

// Principal - аутентифицированный участник запроса.
type Principal struct {
	ID      string
	IsAdmin bool
	// Address используется как адрес доставки по умолчанию.
	Address string
}

// User - профиль пользователя, на который ссылаются заказы.
type User struct {
	ID        string
	FirstName string
	LastName  string
	Address   string
	Phone     string
	IsAdmin   bool
}
