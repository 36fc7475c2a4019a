package product

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

type ProductDB struct {
	ID        int64
	Name      string
	Price     pgtype.Numeric
	Stock     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
