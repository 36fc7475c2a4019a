package entities

// Actor аутентифицированный вызывающий, приходит из auth middleware.
type Actor struct {
	UserID  int64
	IsAdmin bool
}

func (a Actor) CanAccess(order *Order) bool {
	return a.IsAdmin || order.IsOwnedBy(a.UserID)
}
