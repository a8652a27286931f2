package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/prodsched/internal/domain"
	"github.com/alexanderramin/prodsched/internal/repository"
)

type holidayService struct {
	holidays repository.HolidayRepo
}

func NewHolidayService(holidays repository.HolidayRepo) HolidayService {
	return &holidayService{holidays: holidays}
}

func (s *holidayService) List(ctx context.Context) ([]domain.Holiday, error) {
	return s.holidays.List(ctx)
}

// Add records date as a non-working day. Adding an existing date updates
// its kind.
func (s *holidayService) Add(ctx context.Context, date time.Time, kind string) error {
	if date.IsZero() {
		return fmt.Errorf("holiday date is required")
	}
	y, m, d := date.Date()
	h := &domain.Holiday{Date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Kind: kind}
	if err := s.holidays.Upsert(ctx, h); err != nil {
		return fmt.Errorf("adding holiday: %w", err)
	}
	return nil
}

func (s *holidayService) Delete(ctx context.Context, date time.Time) error {
	return s.holidays.Delete(ctx, date)
}
