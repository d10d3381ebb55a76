package services

import (
	"context"
	"log"
	"time"

	"github.com/ferreirogomes/fracoes/storage"
)

// ServiceName identifica a API nas respostas de saúde.
const ServiceName = "fracoes"

// Estados de saúde.
const (
	HealthOK       = "ok"
	HealthError    = "error"
	HealthDegraded = "degraded"
)

// pingTimeout limita a espera pelo banco numa verificação de saúde.
const pingTimeout = 2 * time.Second

// HealthService responde às verificações de saúde da API.
type HealthService struct {
	DB      *storage.DB
	Version string
	started time.Time
}

// NewHealthService cria uma nova instância do serviço de saúde.
func NewHealthService(db *storage.DB, version string) *HealthService {
	return &HealthService{DB: db, Version: version, started: time.Now()}
}

// DatabaseHealth é o resultado do ping no banco.
type DatabaseHealth struct {
	Status    string `json:"status"` // connected ou disconnected
	Driver    string `json:"driver"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// PoolHealth resume o pool de conexões.
type PoolHealth struct {
	MaxOpen int `json:"max_open"`
	Open    int `json:"open"`
	InUse   int `json:"in_use"`
	Idle    int `json:"idle"`
}

// HealthReport é o corpo das respostas de saúde. Os campos opcionais só aparecem nas
// verificações que os calculam.
type HealthReport struct {
	Status    string          `json:"status"`
	Timestamp time.Time       `json:"timestamp"`
	Service   string          `json:"service,omitempty"`
	Version   string          `json:"version,omitempty"`
	Uptime    string          `json:"uptime,omitempty"`
	Database  *DatabaseHealth `json:"database,omitempty"`
	Pool      *PoolHealth     `json:"pool,omitempty"`
}

// Healthy indica se a API pode atender requisições.
func (r HealthReport) Healthy() bool {
	return r.Status == HealthOK
}

// Basic informa apenas que o processo está de pé.
func (s *HealthService) Basic() HealthReport {
	return HealthReport{
		Status:    HealthOK,
		Timestamp: time.Now().UTC(),
		Service:   ServiceName,
		Version:   s.Version,
	}
}

// Database pinga o banco; o status é error se ele não responder.
func (s *HealthService) Database(ctx context.Context) HealthReport {
	db := s.ping(ctx)
	status := HealthOK
	if db.Status != "connected" {
		status = HealthError
	}
	return HealthReport{Status: status, Timestamp: time.Now().UTC(), Database: &db}
}

// Detailed junta o ping, o pool de conexões e o tempo no ar; sem banco o status é degraded.
func (s *HealthService) Detailed(ctx context.Context) HealthReport {
	report := s.Basic()
	db := s.ping(ctx)
	stats := s.DB.Stats()
	report.Database = &db
	report.Pool = &PoolHealth{
		MaxOpen: stats.MaxOpenConnections,
		Open:    stats.OpenConnections,
		InUse:   stats.InUse,
		Idle:    stats.Idle,
	}
	report.Uptime = time.Since(s.started).Round(time.Second).String()
	if db.Status != "connected" {
		report.Status = HealthDegraded
	}
	return report
}

func (s *HealthService) ping(ctx context.Context) DatabaseHealth {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	h := DatabaseHealth{Driver: string(s.DB.Dialect())}
	start := time.Now()
	err := s.DB.PingContext(ctx)
	h.LatencyMS = time.Since(start).Milliseconds()
	if err != nil {
		log.Printf("Verificação de saúde: banco não respondeu: %v", err)
		h.Status = "disconnected"
		h.Error = "banco de dados não respondeu"
		return h
	}
	h.Status = "connected"
	return h
}
