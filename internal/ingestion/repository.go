package ingestion

import (
	"lab-quality-monitor/internal/domain/device"
	"lab-quality-monitor/internal/domain/mapping"
	"lab-quality-monitor/internal/domain/temperature"
	"lab-quality-monitor/internal/domain/transmission"
	"lab-quality-monitor/internal/infrastructure/database/postgres"
)

// Repositories groups the storage ports the pipeline reads and writes.
type Repositories struct {
	Devices       device.Repository
	Mappings      mapping.Repository
	Records       temperature.RecordRepository
	Transmissions transmission.Repository
}

// NewRepositories builds the postgres-backed ports over one shared handle.
func NewRepositories(db *postgres.DB) *Repositories {
	return &Repositories{
		Devices:       postgres.NewDeviceRepository(db),
		Mappings:      postgres.NewMappingRepository(db),
		Records:       postgres.NewRecordRepository(db),
		Transmissions: postgres.NewTransmissionRepository(db),
	}
}
