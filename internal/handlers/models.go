package handlers

import "github.com/spolyanaa/MyBarKeeperBot/internal/ledger"

// StatsResponse represents statistics response
type StatsResponse struct {
	Status string         `json:"status" example:"ok"`
	Stats  map[string]int `json:"stats"`
}

// DatabaseStatusResponse represents database status response
type DatabaseStatusResponse struct {
	Status   string `json:"status" example:"ok"`
	Database struct {
		Connected bool   `json:"connected" example:"true"`
		Type      string `json:"type" example:"sqlite"`
	} `json:"database"`
}

// VerifyResponse is the result of replaying the movement log.
type VerifyResponse struct {
	Status string              `json:"status" example:"ok"`
	Report ledger.VerifyReport `json:"report"`
}

type ShortfallItem struct {
	Product  string `json:"product"`
	Quantity string `json:"quantity"`
}

type ShortfallResponse struct {
	Mode  string          `json:"mode"`
	Items []ShortfallItem `json:"items"`
}
