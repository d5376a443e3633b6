package postgres

import (
	"context"
	"fmt"
	"time"

	"lab-quality-monitor/internal/logger"

	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Migration rules:
//
//  1. IDs are YYYYMMDD-HHMM timestamps and must sort ascending.
//  2. Models are declared inline so that later changes to the runtime models
//     cannot alter what an old migration creates on a clean install.
//  3. Never edit an applied migration; append a new one.

type sensorDevice20240601 struct {
	ID             uuid.UUID  `gorm:"type:uuid;primary_key"`
	Identifier     string     `gorm:"column:device_identifier;type:varchar(128);not null;uniqueIndex:idx_sensor_devices_identifier"`
	IPAddress      *string    `gorm:"type:varchar(64);index:idx_sensor_devices_ip_address"`
	FacilityID     *uuid.UUID `gorm:"type:uuid;index:idx_sensor_devices_facility"`
	DepartmentID   *uuid.UUID `gorm:"type:uuid"`
	Name           *string    `gorm:"type:varchar(255)"`
	AuthTokenHash  *string    `gorm:"type:varchar(255)"`
	BatteryVoltage *float64   `gorm:"type:double precision"`
	IsActive       bool       `gorm:"not null"`
	LastSeenAt     *time.Time `gorm:"type:timestamptz"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
}

func (sensorDevice20240601) TableName() string { return "sensor_devices" }

type temperatureItem20240601 struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	FacilityID   uuid.UUID  `gorm:"type:uuid;not null;index:idx_temperature_items_facility"`
	DepartmentID *uuid.UUID `gorm:"type:uuid"`
	Name         string     `gorm:"type:varchar(255);not null"`
	Unit         string     `gorm:"type:varchar(32);not null"`
	MinValue     *float64   `gorm:"type:double precision"`
	MaxValue     *float64   `gorm:"type:double precision"`
	IsActive     bool       `gorm:"not null"`
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

func (temperatureItem20240601) TableName() string { return "temperature_items" }

type sensorMapping20240601 struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	DeviceID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_sensor_mappings_device_channel"`
	Channel   string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_sensor_mappings_device_channel"`
	ItemID    uuid.UUID `gorm:"type:uuid;not null;index:idx_sensor_mappings_item"`
	Offset    float64   `gorm:"column:offset_value;type:double precision;not null;default:0"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (sensorMapping20240601) TableName() string { return "sensor_mappings" }

type temperatureRecord20240601 struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key"`
	FacilityID   uuid.UUID  `gorm:"type:uuid;not null"`
	DepartmentID *uuid.UUID `gorm:"type:uuid"`
	RecordDate   time.Time  `gorm:"type:date;not null"`
	CreatedAt    time.Time  `gorm:"not null"`
	UpdatedAt    time.Time  `gorm:"not null"`
}

func (temperatureRecord20240601) TableName() string { return "temperature_records" }

type temperatureRecordDetail20240601 struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key"`
	RecordID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_record_details_record_item"`
	ItemID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_record_details_record_item"`
	Value      float64    `gorm:"type:double precision;not null"`
	Provenance string     `gorm:"type:varchar(16);not null"`
	DeviceID   *uuid.UUID `gorm:"type:uuid"`
	RecordedAt time.Time  `gorm:"type:timestamptz;not null"`
	CreatedAt  time.Time  `gorm:"not null"`
	UpdatedAt  time.Time  `gorm:"not null"`
}

func (temperatureRecordDetail20240601) TableName() string { return "temperature_record_details" }

type sensorTransmissionLog20240601 struct {
	ID               int64      `gorm:"primaryKey;autoIncrement"`
	DeviceID         *uuid.UUID `gorm:"type:uuid;index:idx_transmission_logs_device"`
	DeviceIdentifier *string    `gorm:"type:varchar(128)"`
	Payload          string     `gorm:"type:text;not null"`
	RemoteAddr       string     `gorm:"type:varchar(64)"`
	Transport        string     `gorm:"type:varchar(16);not null"`
	ReceivedAt       time.Time  `gorm:"type:timestamptz;not null;index:idx_transmission_logs_received_at"`
}

func (sensorTransmissionLog20240601) TableName() string { return "sensor_transmission_logs" }

func migrateCreateTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "20240601-0000",
		Migrate: func(tx *gorm.DB) error {
			return tx.AutoMigrate(
				&sensorDevice20240601{},
				&temperatureItem20240601{},
				&sensorMapping20240601{},
				&temperatureRecord20240601{},
				&temperatureRecordDetail20240601{},
				&sensorTransmissionLog20240601{},
			)
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Migrator().DropTable(
				"sensor_transmission_logs",
				"temperature_record_details",
				"temperature_records",
				"sensor_mappings",
				"temperature_items",
				"sensor_devices",
			)
		},
	}
}

// department_id is nullable, so the daily uniqueness needs an expression
// index: a plain unique constraint treats NULLs as distinct.
func migrateConstraints() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "20240601-0100",
		Migrate: func(tx *gorm.DB) error {
			statements := []string{
				`CREATE UNIQUE INDEX IF NOT EXISTS idx_temperature_records_daily
					ON temperature_records (facility_id, COALESCE(department_id, '00000000-0000-0000-0000-000000000000'::uuid), record_date)`,
				`ALTER TABLE sensor_mappings
					ADD CONSTRAINT fk_sensor_mappings_device FOREIGN KEY (device_id) REFERENCES sensor_devices (id) ON DELETE CASCADE`,
				`ALTER TABLE sensor_mappings
					ADD CONSTRAINT fk_sensor_mappings_item FOREIGN KEY (item_id) REFERENCES temperature_items (id) ON DELETE CASCADE`,
				`ALTER TABLE temperature_record_details
					ADD CONSTRAINT fk_record_details_record FOREIGN KEY (record_id) REFERENCES temperature_records (id) ON DELETE CASCADE`,
				`ALTER TABLE temperature_record_details
					ADD CONSTRAINT fk_record_details_item FOREIGN KEY (item_id) REFERENCES temperature_items (id) ON DELETE RESTRICT`,
			}
			for _, stmt := range statements {
				if err := tx.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			statements := []string{
				`ALTER TABLE temperature_record_details DROP CONSTRAINT IF EXISTS fk_record_details_item`,
				`ALTER TABLE temperature_record_details DROP CONSTRAINT IF EXISTS fk_record_details_record`,
				`ALTER TABLE sensor_mappings DROP CONSTRAINT IF EXISTS fk_sensor_mappings_item`,
				`ALTER TABLE sensor_mappings DROP CONSTRAINT IF EXISTS fk_sensor_mappings_device`,
				`DROP INDEX IF EXISTS idx_temperature_records_daily`,
			}
			for _, stmt := range statements {
				if err := tx.Exec(stmt).Error; err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// Detail writes of one transmission run concurrently, so no two channels of a
// device may target the same item.
func migrateMappingItemUniqueness() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "20240715-0000",
		Migrate: func(tx *gorm.DB) error {
			return tx.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_sensor_mappings_device_item
				ON sensor_mappings (device_id, item_id)`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`DROP INDEX IF EXISTS idx_sensor_mappings_device_item`).Error
		},
	}
}

func migrations() []*gormigrate.Migration {
	return []*gormigrate.Migration{
		migrateCreateTables(),
		migrateConstraints(),
		migrateMappingItemUniqueness(),
	}
}

// Migrate applies every pending migration inside its own transaction.
func Migrate(ctx context.Context, db *DB) error {
	options := *gormigrate.DefaultOptions
	options.UseTransaction = true

	m := gormigrate.New(db.DB.WithContext(ctx), &options, migrations())
	if err := m.Migrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migrations applied", zap.Int("migrations", len(migrations())))
	return nil
}
