package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/m04kA/PC-ReservationService/internal/config"
	"github.com/m04kA/PC-ReservationService/internal/domain"
	productRepo "github.com/m04kA/PC-ReservationService/internal/infra/storage/product"
	timeslotRepo "github.com/m04kA/PC-ReservationService/internal/infra/storage/timeslot"
	"github.com/m04kA/PC-ReservationService/pkg/logger"
	"github.com/m04kA/PC-ReservationService/pkg/ptr"
	"github.com/m04kA/PC-ReservationService/pkg/types"
)

// Начальная загрузка каталога и сетки слотов.
// Каталог обновляется upsert-ом по имени; сетка слотов пересоздается
// от сегодняшнего дня, поэтому запуск на живой базе сбрасывает занятость
func main() {
	cfg, err := config.Load("config.toml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Seeding PC-ReservationService database...")

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("Failed to set goose dialect: %v", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatal("Failed to apply migrations: %v", err)
	}

	ctx := context.Background()
	products := productRepo.NewRepository(db)
	slots := timeslotRepo.NewRepository(db)

	// Каталог проката
	for _, p := range catalog() {
		if err := products.Upsert(ctx, p); err != nil {
			log.Fatal("Failed to upsert product %q: %v", p.Name, err)
		}
		log.Info("Product %q ready (id=%d, price=%.2f)", p.Name, p.ID, p.Price)
	}

	// Сетка слотов на неделю вперед
	today := domain.NormalizeDate(time.Now().UTC())

	if err := slots.DeleteFromDate(ctx, today); err != nil {
		log.Fatal("Failed to clear slots from %s: %v", today.Format(domain.DateFormat), err)
	}

	grid := slotGrid(today)
	if err := slots.BulkCreate(ctx, grid); err != nil {
		log.Fatal("Failed to create slots: %v", err)
	}

	log.Info("Created %d slots for %d days starting %s",
		len(grid), domain.SeedDays, today.Format(domain.DateFormat))
	log.Info("Seeding complete")
}

func catalog() []*domain.Product {
	return []*domain.Product{
		{
			Name:                domain.ProductJetSky,
			Price:               100,
			RequiresHelmet:      true,
			RequiresVest:        true,
			MaxPeople:           2,
			MaxConsecutiveSlots: 3,
			Description:         ptr.Ptr("Moto acuática, hasta 2 personas"),
		},
		{
			Name:                domain.ProductATV,
			Price:               80,
			RequiresHelmet:      true,
			RequiresVest:        false,
			MaxPeople:           2,
			MaxConsecutiveSlots: 3,
			Description:         ptr.Ptr("Cuatriciclo de playa, hasta 2 personas"),
		},
		{
			Name:                domain.ProductDivingGear,
			Price:               40,
			RequiresHelmet:      false,
			RequiresVest:        true,
			MaxPeople:           1,
			MaxConsecutiveSlots: 2,
			Description:         ptr.Ptr("Equipo de buceo individual"),
		},
		{
			Name:                domain.ProductSurfboard,
			Price:               25,
			MaxPeople:           1,
			MaxConsecutiveSlots: 3,
		},
		{
			Name:                domain.ProductKidsSurfboard,
			Price:               15,
			MaxPeople:           1,
			MaxConsecutiveSlots: 3,
		},
	}
}

// slotGrid строит сетку слотов: SeedDays дней, с SeedStartHour до SeedEndHour,
// шаг DefaultSlotDurationMinutes, вместимость DefaultSlotCapacity
func slotGrid(from time.Time) []domain.TimeSlot {
	slotsPerDay := (domain.SeedEndHour - domain.SeedStartHour) * 60 / domain.DefaultSlotDurationMinutes
	grid := make([]domain.TimeSlot, 0, domain.SeedDays*slotsPerDay)

	for day := 0; day < domain.SeedDays; day++ {
		date := from.AddDate(0, 0, day)

		for i := 0; i < slotsPerDay; i++ {
			minutes := domain.SeedStartHour*60 + i*domain.DefaultSlotDurationMinutes
			start := time.Date(date.Year(), date.Month(), date.Day(), 0, minutes, 0, 0, time.UTC)

			grid = append(grid, domain.TimeSlot{
				Date:                date,
				StartTime:           types.NewTimeString(start),
				DurationMinutes:     domain.DefaultSlotDurationMinutes,
				MaxCapacity:         domain.DefaultSlotCapacity,
				CurrentReservations: 0,
				IsAvailable:         true,
			})
		}
	}

	return grid
}
