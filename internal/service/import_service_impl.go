package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/prodsched/internal/contract"
	"github.com/alexanderramin/prodsched/internal/db"
	"github.com/alexanderramin/prodsched/internal/importer"
)

type importService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewImportService(uow db.UnitOfWork, observers ...UseCaseObserver) ImportService {
	return &importService{
		uow:      uow,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *importService) ImportPlant(ctx context.Context, filePath string) (*contract.ImportResponse, error) {
	schema, err := importer.LoadPlantSchema(filePath)
	if err != nil {
		return nil, fmt.Errorf("loading plant file: %w", err)
	}
	return s.ImportPlantFromSchema(ctx, schema)
}

func (s *importService) ImportPlantFromSchema(ctx context.Context, schema *importer.PlantSchema) (resp *contract.ImportResponse, err error) {
	startedAt := time.Now()
	defer func() {
		fields := map[string]any{}
		if resp != nil {
			fields["products"] = resp.Products
			fields["purchase_orders"] = resp.PurchaseOrders
		}
		s.observer.ObserveUseCase(ctx, UseCaseEvent{
			Name:      "import-plant",
			StartedAt: startedAt,
			Duration:  time.Since(startedAt),
			Success:   err == nil,
			Err:       err,
			Fields:    fields,
		})
	}()

	if errs := importer.ValidatePlantSchema(schema); len(errs) > 0 {
		return nil, formatValidationErrors(errs)
	}

	plant, err := importer.Convert(schema)
	if err != nil {
		return nil, fmt.Errorf("converting plant file: %w", err)
	}

	resp = &contract.ImportResponse{
		Products:       len(plant.Products),
		Machines:       len(plant.Machines),
		PurchaseOrders: len(plant.Orders),
		Finished:       len(plant.Finished),
		Holidays:       len(plant.Holidays),
	}

	// Upsert order follows foreign keys: products before the orders and
	// stock that reference them.
	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		repos := NewRepos(tx)

		for _, p := range plant.Products {
			if err := repos.Products.Upsert(ctx, p); err != nil {
				return err
			}
			resp.Processes += len(p.Processes)
		}
		for _, m := range plant.Machines {
			if err := repos.Machines.Upsert(ctx, m); err != nil {
				return err
			}
		}
		for _, o := range plant.Orders {
			if err := repos.Orders.Upsert(ctx, o); err != nil {
				return err
			}
		}
		for _, f := range plant.Finished {
			if err := repos.Inventory.Upsert(ctx, f); err != nil {
				return err
			}
		}
		for i := range plant.Holidays {
			if err := repos.Holidays.Upsert(ctx, &plant.Holidays[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("importing plant: %w", err)
	}
	return resp, nil
}
