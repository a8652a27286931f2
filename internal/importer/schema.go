package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// PlantSchema is the top-level structure of a plant master-data file.
type PlantSchema struct {
	Products         []ProductImport  `json:"products" yaml:"products"`
	Machines         []MachineImport  `json:"machines" yaml:"machines"`
	PurchaseOrders   []OrderImport    `json:"purchase_orders" yaml:"purchase_orders"`
	FinishedProducts []FinishedImport `json:"finished_products,omitempty" yaml:"finished_products,omitempty"`
	Holidays         []HolidayImport  `json:"holidays,omitempty" yaml:"holidays,omitempty"`
}

type ProductImport struct {
	ID       int64  `json:"id" yaml:"id"`
	Code     string `json:"code" yaml:"code"`
	Name     string `json:"name" yaml:"name"`
	Customer string `json:"customer,omitempty" yaml:"customer,omitempty"`
	// Active defaults to true when omitted.
	Active    *bool           `json:"active,omitempty" yaml:"active,omitempty"`
	Processes []ProcessImport `json:"processes" yaml:"processes"`
}

type ProcessImport struct {
	ID           int64   `json:"id" yaml:"id"`
	StepNo       int     `json:"step_no" yaml:"step_no"`
	Name         string  `json:"name" yaml:"name"`
	Kind         string  `json:"kind" yaml:"kind"`
	Rate         float64 `json:"rate,omitempty" yaml:"rate,omitempty"`
	BatchSize    int64   `json:"batch_size,omitempty" yaml:"batch_size,omitempty"`
	CycleDays    float64 `json:"cycle_days,omitempty" yaml:"cycle_days,omitempty"`
	SetupMinutes float64 `json:"setup_minutes,omitempty" yaml:"setup_minutes,omitempty"`
	MachineType  string  `json:"machine_type,omitempty" yaml:"machine_type,omitempty"`
}

type MachineImport struct {
	ID          int64  `json:"id" yaml:"id"`
	MachineNo   string `json:"machine_no" yaml:"machine_no"`
	MachineType string `json:"machine_type" yaml:"machine_type"`
	Factory     string `json:"factory,omitempty" yaml:"factory,omitempty"`
}

type OrderImport struct {
	ID           int64   `json:"id" yaml:"id"`
	PONumber     string  `json:"po_number" yaml:"po_number"`
	ProductID    int64   `json:"product_id" yaml:"product_id"`
	Quantity     int64   `json:"quantity" yaml:"quantity"`
	DeliveryDate string  `json:"delivery_date" yaml:"delivery_date"`
	ReceivedDate *string `json:"received_date,omitempty" yaml:"received_date,omitempty"`
	Delivered    bool    `json:"delivered,omitempty" yaml:"delivered,omitempty"`
}

type FinishedImport struct {
	ID           int64   `json:"id" yaml:"id"`
	ProductID    int64   `json:"product_id" yaml:"product_id"`
	Quantity     int64   `json:"quantity" yaml:"quantity"`
	FinishedDate *string `json:"finished_date,omitempty" yaml:"finished_date,omitempty"`
	Shipped      bool    `json:"shipped,omitempty" yaml:"shipped,omitempty"`
}

type HolidayImport struct {
	Date string `json:"date" yaml:"date"`
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// LoadPlantSchema reads a plant file. Files ending in .yaml or .yml are
// parsed as YAML, everything else as JSON.
func LoadPlantSchema(path string) (*PlantSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParsePlantSchema(data, filepath.Ext(path))
}

// ParsePlantSchema decodes data according to the file extension ext.
func ParsePlantSchema(data []byte, ext string) (*PlantSchema, error) {
	var schema PlantSchema
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing plant file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &schema); err != nil {
			return nil, fmt.Errorf("parsing plant file: %w", err)
		}
	}
	return &schema, nil
}
