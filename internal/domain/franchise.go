package domain

import "time"

// Franchise is a tenant owning a set of stores. AdminIDs is the ownership
// relation: the user ids permitted to administer the franchise.
type Franchise struct {
	ID        int64
	Name      string
	AdminIDs  []int64
	Stores    []Store
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Store is a single location belonging to a franchise.
type Store struct {
	ID          int64
	FranchiseID int64
	Name        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
