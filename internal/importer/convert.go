package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/prodsched/internal/domain"
)

// Plant is a validated plant file converted to domain values.
type Plant struct {
	Products []*domain.Product
	Machines []*domain.Machine
	Orders   []*domain.PurchaseOrder
	Finished []*domain.FinishedProduct
	Holidays []domain.Holiday
}

// Convert maps a validated schema to domain values. Machine types and
// process kinds are upper-cased.
func Convert(schema *PlantSchema) (*Plant, error) {
	plant := &Plant{}

	for _, p := range schema.Products {
		product := &domain.Product{
			ID:           p.ID,
			Code:         p.Code,
			Name:         p.Name,
			CustomerName: p.Customer,
			Active:       p.Active == nil || *p.Active,
		}
		for _, proc := range p.Processes {
			product.Processes = append(product.Processes, domain.Process{
				ID:           proc.ID,
				ProductID:    p.ID,
				StepNo:       proc.StepNo,
				Name:         proc.Name,
				Kind:         domain.ProcessKind(strings.ToUpper(proc.Kind)),
				Rate:         proc.Rate,
				BatchSize:    proc.BatchSize,
				CycleDays:    proc.CycleDays,
				SetupMinutes: proc.SetupMinutes,
				MachineType:  strings.ToUpper(proc.MachineType),
			})
		}
		product.SortProcesses()
		plant.Products = append(plant.Products, product)
	}

	for _, m := range schema.Machines {
		plant.Machines = append(plant.Machines, &domain.Machine{
			ID:          m.ID,
			MachineNo:   m.MachineNo,
			MachineType: strings.ToUpper(m.MachineType),
			Factory:     m.Factory,
		})
	}

	for _, o := range schema.PurchaseOrders {
		delivery, err := time.Parse(dateLayout, o.DeliveryDate)
		if err != nil {
			return nil, fmt.Errorf("purchase order %s: parsing delivery date: %w", o.PONumber, err)
		}
		order := &domain.PurchaseOrder{
			ID:           o.ID,
			PONumber:     o.PONumber,
			ProductID:    o.ProductID,
			Quantity:     o.Quantity,
			DeliveryDate: delivery,
			Delivered:    o.Delivered,
		}
		if d := parseOptionalDate(o.ReceivedDate); d != nil {
			order.ReceivedDate = *d
		}
		plant.Orders = append(plant.Orders, order)
	}

	for _, f := range schema.FinishedProducts {
		fp := &domain.FinishedProduct{
			ID:        f.ID,
			ProductID: f.ProductID,
			Quantity:  f.Quantity,
			Shipped:   f.Shipped,
		}
		if d := parseOptionalDate(f.FinishedDate); d != nil {
			fp.FinishedDate = *d
		}
		plant.Finished = append(plant.Finished, fp)
	}

	for _, h := range schema.Holidays {
		d, err := time.Parse(dateLayout, h.Date)
		if err != nil {
			return nil, fmt.Errorf("holiday %q: %w", h.Date, err)
		}
		plant.Holidays = append(plant.Holidays, domain.Holiday{Date: d, Kind: h.Kind})
	}

	return plant, nil
}

func parseOptionalDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}
