package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/medagenda/hospital-appointment-scheduling/internal/config"
	"github.com/medagenda/hospital-appointment-scheduling/internal/db"
)

// The simulator hammers the booking endpoint with many workers aimed at a
// small set of doctors on a single date, so that overlapping candidates race
// each other. Afterwards it audits the ledger: a correct service admits at
// most one appointment per doctor per overlapping interval.

type SimConfig struct {
	APIBaseURL   string
	Duration     time.Duration
	Workers      int
	BookingRatio float64
	ReadRatio    float64
	PatientLimit int
	DoctorLimit  int
	LeadDays     int
	PostgresDSN  string
}

type DataPool struct {
	Patients []int64
	Doctors  []int64
	mu       sync.RWMutex
	booked   []uuid.UUID
}

func (dp *DataPool) AddBooked(id uuid.UUID) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.booked = append(dp.booked, id)
}

func (dp *DataPool) BookedCount() int {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	return len(dp.booked)
}

type OperationMetrics struct {
	Total     int64
	Success   int64
	Conflict  int64
	Error     int64
	Latencies []time.Duration
	mu        sync.Mutex
}

func (om *OperationMetrics) Record(latency time.Duration, success bool, conflict bool) {
	atomic.AddInt64(&om.Total, 1)
	if success {
		atomic.AddInt64(&om.Success, 1)
	} else if conflict {
		atomic.AddInt64(&om.Conflict, 1)
	} else {
		atomic.AddInt64(&om.Error, 1)
	}

	om.mu.Lock()
	om.Latencies = append(om.Latencies, latency)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (avg, min, max, p50, p95 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()

	if len(om.Latencies) == 0 {
		return 0, 0, 0, 0, 0
	}

	latencies := make([]time.Duration, len(om.Latencies))
	copy(latencies, om.Latencies)

	sort.Slice(latencies, func(i, j int) bool {
		return latencies[i] < latencies[j]
	})

	var sum time.Duration
	for _, l := range latencies {
		sum += l
	}

	avg = sum / time.Duration(len(latencies))
	min = latencies[0]
	max = latencies[len(latencies)-1]

	p50Idx := len(latencies) * 50 / 100
	if p50Idx >= len(latencies) {
		p50Idx = len(latencies) - 1
	}
	p50 = latencies[p50Idx]

	p95Idx := len(latencies) * 95 / 100
	if p95Idx >= len(latencies) {
		p95Idx = len(latencies) - 1
	}
	p95 = latencies[p95Idx]

	return avg, min, max, p50, p95
}

type Metrics struct {
	Booking   OperationMetrics
	DaySlots  OperationMetrics
	ListAppts OperationMetrics
}

type Simulator struct {
	config     SimConfig
	pool       *DataPool
	client     *http.Client
	metrics    Metrics
	targetDate string
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("simulator starting")

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	log.Printf("config: duration=%s workers=%d booking=%.2f read=%.2f",
		cfg.Duration, cfg.Workers, cfg.BookingRatio, cfg.ReadRatio)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pgPool, err := db.ConnectPostgres(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pgPool.Close()

	dataPool, err := loadDataPool(ctx, pgPool, cfg)
	if err != nil {
		log.Fatalf("load data pool: %v", err)
	}

	log.Printf("loaded: %d patients, %d doctors", len(dataPool.Patients), len(dataPool.Doctors))

	sim := &Simulator{
		config: cfg,
		pool:   dataPool,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		targetDate: time.Now().UTC().AddDate(0, 0, cfg.LeadDays).Format("2006-01-02"),
	}

	sim.Run()
	sim.PrintReport()

	if err := auditLedger(context.Background(), pgPool); err != nil {
		log.Fatalf("ledger audit: %v", err)
	}
}

func loadConfig() SimConfig {
	baseCfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load base config: %v", err)
	}

	cfg := SimConfig{
		APIBaseURL:   getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:     getDurationEnv("SIM_DURATION", 30*time.Second),
		Workers:      getIntEnv("SIM_WORKERS", 10),
		BookingRatio: getFloatEnv("SIM_BOOKING_RATIO", 0.7),
		ReadRatio:    getFloatEnv("SIM_READ_RATIO", 0.3),
		PatientLimit: getIntEnv("SIM_PATIENT_LIMIT", 2000),
		DoctorLimit:  getIntEnv("SIM_DOCTOR_LIMIT", 5),
		LeadDays:     baseCfg.BookingMinLeadDays,
		PostgresDSN:  baseCfg.PostgresDSN,
	}

	total := cfg.BookingRatio + cfg.ReadRatio
	if total > 0 {
		cfg.BookingRatio /= total
		cfg.ReadRatio /= total
	}

	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.PostgresDSN == "" {
		return fmt.Errorf("POSTGRES_DSN is required (set in .env or environment)")
	}
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	return nil
}

func loadDataPool(ctx context.Context, pool *pgxpool.Pool, cfg SimConfig) (*DataPool, error) {
	dataPool := &DataPool{}

	rows, err := pool.Query(ctx, `
		SELECT id FROM patients LIMIT $1
	`, cfg.PatientLimit)
	if err != nil {
		return nil, fmt.Errorf("load patients: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		dataPool.Patients = append(dataPool.Patients, id)
	}

	// A small doctor set keeps contention high
	rows, err = pool.Query(ctx, `
		SELECT id FROM doctors ORDER BY id LIMIT $1
	`, cfg.DoctorLimit)
	if err != nil {
		return nil, fmt.Errorf("load doctors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		dataPool.Doctors = append(dataPool.Doctors, id)
	}

	if len(dataPool.Patients) == 0 {
		return nil, fmt.Errorf("no patients loaded")
	}
	if len(dataPool.Doctors) == 0 {
		return nil, fmt.Errorf("no doctors loaded")
	}

	return dataPool, nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	log.Printf("starting simulation for %s with %d workers, target date %s",
		s.config.Duration, s.config.Workers, s.targetDate)

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}

	wg.Wait()
	log.Println("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	rng := rand.New(rand.NewSource(time.Now().UnixNano() + int64(workerID)))

	for {
		select {
		case <-ctx.Done():
			return
		default:
			if rng.Float64() < s.config.BookingRatio {
				s.doBooking(ctx, rng)
			} else if rng.Intn(2) == 0 {
				s.doDaySlots(ctx, rng)
			} else {
				s.doListAppointments(ctx, rng)
			}
		}
	}
}

func (s *Simulator) doBooking(ctx context.Context, rng *rand.Rand) {
	doctorID := s.pool.Doctors[rng.Intn(len(s.pool.Doctors))]
	patientID := s.pool.Patients[rng.Intn(len(s.pool.Patients))]

	// Half-hour grid between 08:00 and 17:30
	startMinute := 8*60 + 30*rng.Intn(20)
	startTime := fmt.Sprintf("%02d:%02d", startMinute/60, startMinute%60)

	start := time.Now()

	reqBody := map[string]any{
		"patient_id":   patientID,
		"doctor_id":    doctorID,
		"specialty_id": 29,
		"date":         s.targetDate,
		"start_time":   startTime,
	}
	body, _ := json.Marshal(reqBody)

	req, _ := http.NewRequestWithContext(ctx, "POST", s.config.APIBaseURL+"/appointments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := false
	conflict := false

	if err == nil {
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusCreated {
			success = true
			var apptResp struct {
				ID uuid.UUID `json:"id"`
			}
			bodyBytes, _ := io.ReadAll(resp.Body)
			if len(bodyBytes) > 0 {
				_ = json.Unmarshal(bodyBytes, &apptResp)
				if apptResp.ID != uuid.Nil {
					s.pool.AddBooked(apptResp.ID)
				}
			}
		} else if resp.StatusCode == http.StatusConflict {
			conflict = true
		}
	}

	s.metrics.Booking.Record(latency, success, conflict)
}

func (s *Simulator) doDaySlots(ctx context.Context, rng *rand.Rand) {
	doctorID := s.pool.Doctors[rng.Intn(len(s.pool.Doctors))]

	start := time.Now()
	url := fmt.Sprintf("%s/availability/slots?doctor_id=%d&date=%s", s.config.APIBaseURL, doctorID, s.targetDate)
	req, _ := http.NewRequestWithContext(ctx, "GET", url, nil)

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := err == nil && resp.StatusCode == http.StatusOK
	if err == nil {
		resp.Body.Close()
	}

	s.metrics.DaySlots.Record(latency, success, false)
}

func (s *Simulator) doListAppointments(ctx context.Context, rng *rand.Rand) {
	patientID := s.pool.Patients[rng.Intn(len(s.pool.Patients))]

	start := time.Now()
	url := fmt.Sprintf("%s/appointments?patient_id=%d", s.config.APIBaseURL, patientID)
	req, _ := http.NewRequestWithContext(ctx, "GET", url, nil)

	resp, err := s.client.Do(req)
	latency := time.Since(start)

	success := err == nil && resp.StatusCode == http.StatusOK
	if err == nil {
		resp.Body.Close()
	}

	s.metrics.ListAppts.Record(latency, success, false)
}

func (s *Simulator) PrintReport() {
	log.Println("=== simulation report ===")
	printOp("booking", &s.metrics.Booking)
	printOp("day-slots", &s.metrics.DaySlots)
	printOp("list-appointments", &s.metrics.ListAppts)
	log.Printf("appointments created: %d", s.pool.BookedCount())
}

func printOp(name string, om *OperationMetrics) {
	avg, min, max, p50, p95 := om.Stats()
	log.Printf("%s: total=%d success=%d conflict=%d error=%d avg=%s min=%s max=%s p50=%s p95=%s",
		name,
		atomic.LoadInt64(&om.Total),
		atomic.LoadInt64(&om.Success),
		atomic.LoadInt64(&om.Conflict),
		atomic.LoadInt64(&om.Error),
		avg, min, max, p50, p95,
	)
}

// auditLedger verifies the write invariant: no two appointments for the same
// doctor and date may have overlapping half-open intervals.
func auditLedger(ctx context.Context, pool *pgxpool.Pool) error {
	auditCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()

	var overlaps int
	err := pool.QueryRow(auditCtx, `
		SELECT COUNT(*)
		FROM appointments a
		JOIN appointments b
		  ON a.doctor_id = b.doctor_id
		 AND a.date = b.date
		 AND a.id < b.id
		 AND a.start_minute < b.start_minute + b.duration_minutes
		 AND b.start_minute < a.start_minute + a.duration_minutes
	`).Scan(&overlaps)
	if err != nil {
		return err
	}

	if overlaps > 0 {
		return fmt.Errorf("found %d overlapping appointment pairs", overlaps)
	}

	log.Println("ledger audit passed: no overlapping appointments")
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getIntEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloatEnv(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getDurationEnv(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
