package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medagenda/hospital-appointment-scheduling/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	if err := seedSpecialties(context.Background(), pool); err != nil {
		log.Fatalf("seed specialties: %v", err)
	}
	doctorIDs, err := seedDoctors(context.Background(), pool, 60)
	if err != nil {
		log.Fatalf("seed doctors: %v", err)
	}
	if err := seedSchedules(context.Background(), pool, doctorIDs); err != nil {
		log.Fatalf("seed schedules: %v", err)
	}
	if err := seedPatients(context.Background(), pool, 2000); err != nil {
		log.Fatalf("seed patients: %v", err)
	}

	log.Println("seed complete")
}

var specialties = map[int64]string{
	23:  "Dermatology",
	25:  "Cardiology",
	29:  "General Practice",
	32:  "Orthopedics",
	33:  "Endocrinology",
	133: "Neurology",
}

func seedSpecialties(ctx context.Context, pool *pgxpool.Pool) error {
	log.Printf("seeding %d specialties", len(specialties))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for id, name := range specialties {
		_, err := tx.Exec(ctx, `
			INSERT INTO specialties (id, name)
			VALUES ($1, $2)
			ON CONFLICT (id) DO NOTHING
		`, id, name)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("specialties seeded")
	return nil
}

func seedDoctors(ctx context.Context, pool *pgxpool.Pool, count int) ([]int64, error) {
	log.Printf("seeding %d doctors", count)

	ids := make([]int64, 0, len(specialties))
	for id := range specialties {
		ids = append(ids, id)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	doctorIDs := make([]int64, 0, count)
	for i := 0; i < count; i++ {
		name := "Dr. " + gofakeit.Name()
		spec := ids[gofakeit.Number(0, len(ids)-1)]

		// Roughly half the doctors carry the legacy specialty column only
		var id int64
		if gofakeit.Bool() {
			err = tx.QueryRow(ctx, `
				INSERT INTO doctors (name, specialty_id, primary_specialty_id)
				VALUES ($1, $2, NULL)
				RETURNING id
			`, name, spec).Scan(&id)
		} else {
			err = tx.QueryRow(ctx, `
				INSERT INTO doctors (name, specialty_id, primary_specialty_id)
				VALUES ($1, NULL, $2)
				RETURNING id
			`, name, spec).Scan(&id)
		}
		if err != nil {
			return nil, err
		}
		doctorIDs = append(doctorIDs, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("doctors seeded")
	return doctorIDs, nil
}

func seedSchedules(ctx context.Context, pool *pgxpool.Pool, doctorIDs []int64) error {
	log.Printf("seeding schedules for %d doctors", len(doctorIDs))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	today := time.Now().UTC().Truncate(24 * time.Hour)

	for _, doctorID := range doctorIDs {
		start := today.AddDate(0, 0, gofakeit.Number(0, 20))
		end := start.AddDate(0, gofakeit.Number(6, 14), 0)
		duration := []int{15, 20, 30, 45}[gofakeit.Number(0, 3)]

		var periodID int64
		err := tx.QueryRow(ctx, `
			INSERT INTO schedule_periods (doctor_id, start_date, end_date, slot_minutes, active)
			VALUES ($1, $2, $3, $4, TRUE)
			RETURNING id
		`, doctorID, start, end, duration).Scan(&periodID)
		if err != nil {
			return err
		}

		// Two to four weekday blocks per period. Historical rows mix ISO
		// Monday=0 and platform Sunday=0 codings, so the seed does too.
		blockCount := gofakeit.Number(2, 4)
		for b := 0; b < blockCount; b++ {
			weekday := gofakeit.Number(0, 6)
			startMinute := 8*60 + 30*gofakeit.Number(0, 4)
			endMinute := startMinute + 60*gofakeit.Number(2, 5)
			if endMinute > 18*60 {
				endMinute = 18 * 60
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO working_blocks (period_id, weekday, start_minute, end_minute)
				VALUES ($1, $2, $3, $4)
			`, periodID, weekday, startMinute, endMinute)
			if err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("schedules seeded")
	return nil
}

func seedPatients(ctx context.Context, pool *pgxpool.Pool, count int) error {
	log.Printf("seeding %d patients", count)

	const batchSize = 500

	for offset := 0; offset < count; offset += batchSize {
		end := offset + batchSize
		if end > count {
			end = count
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return err
		}

		for i := offset; i < end; i++ {
			nationalID := gofakeit.DigitN(10)
			name := gofakeit.Name()
			birthDate := gofakeit.DateRange(
				time.Date(1940, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2007, 12, 31, 0, 0, 0, 0, time.UTC),
			)

			_, err := tx.Exec(ctx, `
				INSERT INTO patients (national_id, name, birth_date, created_at, updated_at)
				VALUES ($1, $2, $3, now(), now())
			`, nationalID, name, birthDate)
			if err != nil {
				_ = tx.Rollback(ctx)
				return err
			}
		}

		if err := tx.Commit(ctx); err != nil {
			return err
		}

		log.Printf("patients seeded: %d/%d", end, count)
	}

	log.Println("patients seeded")
	return nil
}
