package dto

import "time"

// CreateFranchiseRequest payload for new franchises.
type CreateFranchiseRequest struct {
	Name   string   `json:"name"`
	Admins []string `json:"admins"`
}

// CreateStoreRequest payload for new stores.
type CreateStoreRequest struct {
	Name string `json:"name"`
}

// StoreResponse is the public view of a store.
type StoreResponse struct {
	ID          int64  `json:"id"`
	FranchiseID int64  `json:"franchise_id"`
	Name        string `json:"name"`
}

// FranchiseResponse is the public view of a franchise.
type FranchiseResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	AdminIDs  []int64         `json:"admin_ids,omitempty"`
	Stores    []StoreResponse `json:"stores"`
	CreatedAt time.Time       `json:"created_at"`
}
