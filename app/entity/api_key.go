package entity

import "time"

// UnlimitedQueries is the sentinel stored in TotalQueries for keys without
// a query quota. The quota is recorded but not enforced anywhere.
const UnlimitedQueries int64 = -1

type APIKey struct {
	ID           uint64
	Key          string
	Name         string
	IsActive     bool
	NeverExpire  bool
	TotalQueries int64
	CreatedAt    time.Time
}
