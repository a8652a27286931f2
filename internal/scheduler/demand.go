package scheduler

import (
	"math"
	"sort"
	"time"

	"github.com/alexanderramin/prodsched/internal/calendar"
	"github.com/alexanderramin/prodsched/internal/domain"
)

// Snapshot is the master data a run reads, loaded once before planning.
type Snapshot struct {
	Products []domain.Product
	Orders   []domain.PurchaseOrder
	Machines []domain.Machine
	// Unshipped is finished stock not yet shipped, keyed by product ID.
	Unshipped map[int64]int64
}

// Demand is one product's aggregated production target.
type Demand struct {
	Product   *domain.Product
	Anchor    domain.PurchaseOrder
	POTotal   int64
	Unshipped int64
	Quantity  int64
	// TotalMinutes is setup plus processing over the full routing.
	TotalMinutes float64
	Deadline     time.Time
}

// DemandResult carries aggregated demands plus warnings about steps whose
// duration could not be computed.
type DemandResult struct {
	Demands  []*Demand
	Warnings []string
}

// AggregateDemand collapses open orders into one production target per
// active product. Products are returned in ID order.
func AggregateDemand(snap *Snapshot, cal *calendar.Calendar, durations *DurationCalculator, windowDays int) DemandResult {
	ordersByProduct := make(map[int64][]domain.PurchaseOrder)
	for _, o := range snap.Orders {
		if o.Delivered || o.Quantity <= 0 {
			continue
		}
		ordersByProduct[o.ProductID] = append(ordersByProduct[o.ProductID], o)
	}

	var res DemandResult
	warned := make(map[int64]bool)

	for i := range snap.Products {
		product := &snap.Products[i]
		if !product.Active || len(product.Processes) == 0 {
			continue
		}
		orders := ordersByProduct[product.ID]
		if len(orders) == 0 {
			continue
		}

		sort.SliceStable(orders, func(a, b int) bool {
			if !orders[a].DeliveryDate.Equal(orders[b].DeliveryDate) {
				return orders[a].DeliveryDate.Before(orders[b].DeliveryDate)
			}
			return orders[a].ID < orders[b].ID
		})
		anchor := orders[0]
		windowEnd := anchor.DeliveryDate.AddDate(0, 0, windowDays)

		var poTotal int64
		for _, o := range orders {
			if o.DeliveryDate.After(windowEnd) {
				break
			}
			poTotal += o.Quantity
		}

		unshipped := snap.Unshipped[product.ID]
		quantity := poTotal - unshipped
		if quantity <= 0 {
			continue
		}

		var total float64
		for _, p := range product.Processes {
			setup, processing, err := durations.StepMinutes(p, quantity)
			if err != nil {
				if !warned[p.ID] {
					warned[p.ID] = true
					res.Warnings = append(res.Warnings, product.Code+": "+err.Error())
				}
				continue
			}
			total += setup + processing
		}

		res.Demands = append(res.Demands, &Demand{
			Product:      product,
			Anchor:       anchor,
			POTotal:      poTotal,
			Unshipped:    unshipped,
			Quantity:     quantity,
			TotalMinutes: total,
			Deadline:     DeadlineFor(cal, anchor.DeliveryDate, total),
		})
	}

	sort.SliceStable(res.Demands, func(a, b int) bool {
		return res.Demands[a].Product.ID < res.Demands[b].Product.ID
	})
	return res
}

// DeadlineFor subtracts the working days needed for minutes of work from
// the delivery date.
func DeadlineFor(cal *calendar.Calendar, delivery time.Time, minutes float64) time.Time {
	if minutes <= 0 {
		return delivery
	}
	days := int(math.Ceil(minutes / float64(cal.DailyMinutes())))
	return cal.SubtractWorkingDays(delivery, days)
}
