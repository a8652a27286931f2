package domain

import "time"

type Machine struct {
	ID          int64
	MachineNo   string
	MachineType string
	Factory     string
}

type PurchaseOrder struct {
	ID           int64
	PONumber     string
	ProductID    int64
	Quantity     int64
	DeliveryDate time.Time
	ReceivedDate time.Time
	Delivered    bool
}

// FinishedProduct is stock already produced. Unshipped stock counts
// against open demand.
type FinishedProduct struct {
	ID           int64
	ProductID    int64
	Quantity     int64
	FinishedDate time.Time
	Shipped      bool
}

type Holiday struct {
	Date time.Time
	Kind string
}
