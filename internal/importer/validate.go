package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/prodsched/internal/domain"
)

const dateLayout = "2006-01-02"

// ValidatePlantSchema checks the plant file for errors before conversion.
// Returns a slice of all validation errors found.
func ValidatePlantSchema(schema *PlantSchema) []error {
	var errs []error

	productIDs := make(map[int64]bool)
	errs = append(errs, validateProducts(schema.Products, productIDs)...)
	errs = append(errs, validateMachines(schema.Machines)...)
	errs = append(errs, validateOrders(schema.PurchaseOrders, productIDs)...)
	errs = append(errs, validateFinished(schema.FinishedProducts, productIDs)...)
	errs = append(errs, validateHolidays(schema.Holidays)...)

	return errs
}

func validateProducts(products []ProductImport, productIDs map[int64]bool) []error {
	var errs []error
	codes := make(map[string]bool)
	processIDs := make(map[int64]bool)

	for i, p := range products {
		prefix := fmt.Sprintf("products[%d]", i)
		if p.ID <= 0 {
			errs = append(errs, fmt.Errorf("%s.id must be positive", prefix))
		} else if productIDs[p.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %d", prefix, p.ID))
		}
		productIDs[p.ID] = true

		if p.Code == "" {
			errs = append(errs, fmt.Errorf("%s.code is required", prefix))
		} else if codes[p.Code] {
			errs = append(errs, fmt.Errorf("%s.code: duplicate code %q", prefix, p.Code))
		}
		codes[p.Code] = true

		if p.Name == "" {
			errs = append(errs, fmt.Errorf("%s.name is required", prefix))
		}

		steps := make(map[int]bool)
		for j, proc := range p.Processes {
			errs = append(errs, validateProcess(fmt.Sprintf("%s.processes[%d]", prefix, j), proc, steps, processIDs)...)
		}
	}
	return errs
}

func validateProcess(prefix string, p ProcessImport, steps map[int]bool, processIDs map[int64]bool) []error {
	var errs []error

	if p.ID <= 0 {
		errs = append(errs, fmt.Errorf("%s.id must be positive", prefix))
	} else if processIDs[p.ID] {
		errs = append(errs, fmt.Errorf("%s.id: duplicate id %d", prefix, p.ID))
	}
	processIDs[p.ID] = true

	if p.StepNo <= 0 {
		errs = append(errs, fmt.Errorf("%s.step_no must be positive", prefix))
	} else if steps[p.StepNo] {
		errs = append(errs, fmt.Errorf("%s.step_no: duplicate step %d", prefix, p.StepNo))
	}
	steps[p.StepNo] = true

	if p.Name == "" {
		errs = append(errs, fmt.Errorf("%s.name is required", prefix))
	}
	if !domain.ValidProcessKinds[strings.ToUpper(p.Kind)] {
		errs = append(errs, fmt.Errorf("%s.kind: invalid value %q (expected SPM or DAY)", prefix, p.Kind))
	}
	if p.Rate < 0 {
		errs = append(errs, fmt.Errorf("%s.rate must not be negative", prefix))
	}
	if p.BatchSize < 0 {
		errs = append(errs, fmt.Errorf("%s.batch_size must not be negative", prefix))
	}
	if p.CycleDays < 0 {
		errs = append(errs, fmt.Errorf("%s.cycle_days must not be negative", prefix))
	}
	if p.SetupMinutes < 0 {
		errs = append(errs, fmt.Errorf("%s.setup_minutes must not be negative", prefix))
	}
	return errs
}

func validateMachines(machines []MachineImport) []error {
	var errs []error
	ids := make(map[int64]bool)
	for i, m := range machines {
		prefix := fmt.Sprintf("machines[%d]", i)
		if m.ID <= 0 {
			errs = append(errs, fmt.Errorf("%s.id must be positive", prefix))
		} else if ids[m.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %d", prefix, m.ID))
		}
		ids[m.ID] = true
		if m.MachineNo == "" {
			errs = append(errs, fmt.Errorf("%s.machine_no is required", prefix))
		}
		if m.MachineType == "" {
			errs = append(errs, fmt.Errorf("%s.machine_type is required", prefix))
		}
	}
	return errs
}

func validateOrders(orders []OrderImport, productIDs map[int64]bool) []error {
	var errs []error
	ids := make(map[int64]bool)
	for i, o := range orders {
		prefix := fmt.Sprintf("purchase_orders[%d]", i)
		if o.ID <= 0 {
			errs = append(errs, fmt.Errorf("%s.id must be positive", prefix))
		} else if ids[o.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %d", prefix, o.ID))
		}
		ids[o.ID] = true
		if o.PONumber == "" {
			errs = append(errs, fmt.Errorf("%s.po_number is required", prefix))
		}
		if !productIDs[o.ProductID] {
			errs = append(errs, fmt.Errorf("%s.product_id: unknown product %d", prefix, o.ProductID))
		}
		if o.Quantity <= 0 {
			errs = append(errs, fmt.Errorf("%s.quantity must be positive", prefix))
		}
		errs = append(errs, validateRequiredDate(prefix+".delivery_date", o.DeliveryDate)...)
		errs = append(errs, validateOptionalDate(prefix+".received_date", o.ReceivedDate)...)
	}
	return errs
}

func validateFinished(items []FinishedImport, productIDs map[int64]bool) []error {
	var errs []error
	ids := make(map[int64]bool)
	for i, f := range items {
		prefix := fmt.Sprintf("finished_products[%d]", i)
		if f.ID <= 0 {
			errs = append(errs, fmt.Errorf("%s.id must be positive", prefix))
		} else if ids[f.ID] {
			errs = append(errs, fmt.Errorf("%s.id: duplicate id %d", prefix, f.ID))
		}
		ids[f.ID] = true
		if !productIDs[f.ProductID] {
			errs = append(errs, fmt.Errorf("%s.product_id: unknown product %d", prefix, f.ProductID))
		}
		if f.Quantity < 0 {
			errs = append(errs, fmt.Errorf("%s.quantity must not be negative", prefix))
		}
		errs = append(errs, validateOptionalDate(prefix+".finished_date", f.FinishedDate)...)
	}
	return errs
}

func validateHolidays(holidays []HolidayImport) []error {
	var errs []error
	seen := make(map[string]bool)
	for i, h := range holidays {
		field := fmt.Sprintf("holidays[%d].date", i)
		if dErrs := validateRequiredDate(field, h.Date); len(dErrs) > 0 {
			errs = append(errs, dErrs...)
			continue
		}
		if seen[h.Date] {
			errs = append(errs, fmt.Errorf("%s: duplicate date %q", field, h.Date))
		}
		seen[h.Date] = true
	}
	return errs
}

func validateRequiredDate(field, value string) []error {
	if value == "" {
		return []error{fmt.Errorf("%s is required", field)}
	}
	if _, err := time.Parse(dateLayout, value); err != nil {
		return []error{fmt.Errorf("%s: invalid date format %q (expected YYYY-MM-DD)", field, value)}
	}
	return nil
}

func validateOptionalDate(field string, value *string) []error {
	if value == nil || *value == "" {
		return nil
	}
	return validateRequiredDate(field, *value)
}
