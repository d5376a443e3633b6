package ingestion

import (
	"context"
	"fmt"
	"sync"

	"lab-quality-monitor/internal/domain/device"
	"lab-quality-monitor/internal/domain/mapping"
	"lab-quality-monitor/internal/domain/temperature"
	"lab-quality-monitor/internal/domain/transmission"

	"github.com/google/uuid"
)

// fakeDevices lookups wait for ctx to end when stall is set.
type fakeDevices struct {
	mu        sync.Mutex
	devices   []*device.Device
	lookupErr error
	stall     bool
	touched   []device.Seen
	created   []*device.Device
}

func (f *fakeDevices) add(d *device.Device) *device.Device {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	f.devices = append(f.devices, d)
	return d
}

func (f *fakeDevices) Create(_ context.Context, d *device.Device) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.devices {
		if existing.Identifier == d.Identifier {
			return device.ErrDeviceAlreadyExists
		}
	}
	d.ID = uuid.New()
	f.devices = append(f.devices, d)
	f.created = append(f.created, d)
	return nil
}

func (f *fakeDevices) GetByID(_ context.Context, id uuid.UUID) (*device.Device, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.devices {
		if d.ID == id {
			return d, nil
		}
	}
	return nil, device.ErrDeviceNotFound
}

func (f *fakeDevices) GetByIdentifier(ctx context.Context, identifier string) (*device.Device, error) {
	if f.stall {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, d := range f.devices {
		if d.Identifier == identifier {
			return d, nil
		}
	}
	return nil, device.ErrDeviceNotFound
}

func (f *fakeDevices) GetByIPAddress(ctx context.Context, ip string) (*device.Device, error) {
	if f.stall {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, d := range f.devices {
		if d.IPAddress != nil && *d.IPAddress == ip {
			return d, nil
		}
	}
	return nil, device.ErrDeviceNotFound
}

func (f *fakeDevices) Update(context.Context, *device.Device) error { return nil }

func (f *fakeDevices) SetAuthTokenHash(context.Context, uuid.UUID, *string) error { return nil }

func (f *fakeDevices) Deactivate(context.Context, uuid.UUID) error { return nil }

func (f *fakeDevices) Touch(_ context.Context, _ uuid.UUID, seen device.Seen) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.touched = append(f.touched, seen)
	return nil
}

func (f *fakeDevices) List(context.Context, *device.Filter) ([]*device.Device, int64, error) {
	return nil, 0, nil
}

func (f *fakeDevices) touchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.touched)
}

type fakeMappings struct {
	byDevice map[uuid.UUID][]mapping.Mapping
	err      error
}

func (f *fakeMappings) ListByDevice(_ context.Context, deviceID uuid.UUID) ([]mapping.Mapping, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byDevice[deviceID], nil
}

func (f *fakeMappings) GetByID(context.Context, uuid.UUID) (*mapping.Mapping, error) {
	return nil, mapping.ErrMappingNotFound
}

func (f *fakeMappings) Create(context.Context, *mapping.Mapping) error { return nil }

func (f *fakeMappings) Update(context.Context, *mapping.Mapping) error { return nil }

func (f *fakeMappings) Delete(context.Context, uuid.UUID) error { return nil }

type detailKey struct {
	recordID uuid.UUID
	itemID   uuid.UUID
}

// fakeRecords enforces the same uniqueness rules as the database: one record
// per daily key and one detail per (record, item). Details pointing at items
// outside knownItems fail like a foreign-key violation. stallFind and
// stallUpsert make the matching calls wait for ctx to end.
type fakeRecords struct {
	mu          sync.Mutex
	records     map[string]*temperature.Record
	details     map[detailKey]*temperature.Detail
	knownItems  map[uuid.UUID]bool
	findErr     error
	stallFind   bool
	stallUpsert bool
	createCalls int
}

func newFakeRecords(items ...uuid.UUID) *fakeRecords {
	known := make(map[uuid.UUID]bool, len(items))
	for _, id := range items {
		known[id] = true
	}
	return &fakeRecords{
		records:    make(map[string]*temperature.Record),
		details:    make(map[detailKey]*temperature.Detail),
		knownItems: known,
	}
}

func dailyKeyString(key temperature.DailyKey) string {
	department := "none"
	if key.DepartmentID != nil {
		department = key.DepartmentID.String()
	}
	return fmt.Sprintf("%s|%s|%s", key.FacilityID, department, key.Date.Format("2006-01-02"))
}

func (f *fakeRecords) FindDaily(ctx context.Context, key temperature.DailyKey) (*temperature.Record, error) {
	if f.stallFind {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	if r, ok := f.records[dailyKeyString(key)]; ok {
		return r, nil
	}
	return nil, temperature.ErrRecordNotFound
}

func (f *fakeRecords) CreateDaily(_ context.Context, key temperature.DailyKey) (*temperature.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	k := dailyKeyString(key)
	if _, ok := f.records[k]; ok {
		return nil, temperature.ErrRecordAlreadyExists
	}
	r := &temperature.Record{
		ID:           uuid.New(),
		FacilityID:   key.FacilityID,
		DepartmentID: key.DepartmentID,
		RecordDate:   key.Date,
	}
	f.records[k] = r
	return r, nil
}

func (f *fakeRecords) UpsertDetail(ctx context.Context, detail *temperature.Detail) error {
	if f.stallUpsert {
		<-ctx.Done()
		return ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.knownItems[detail.ItemID] {
		return temperature.ErrItemReference
	}
	copied := *detail
	key := detailKey{recordID: detail.RecordID, itemID: detail.ItemID}
	if existing, ok := f.details[key]; ok {
		copied.ID = existing.ID
	} else {
		copied.ID = uuid.New()
	}
	f.details[key] = &copied
	return nil
}

func (f *fakeRecords) seedDetail(detail temperature.Detail) {
	f.mu.Lock()
	defer f.mu.Unlock()
	detail.ID = uuid.New()
	f.details[detailKey{recordID: detail.RecordID, itemID: detail.ItemID}] = &detail
}

func (f *fakeRecords) recordCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

func (f *fakeRecords) detail(recordID, itemID uuid.UUID) (*temperature.Detail, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.details[detailKey{recordID: recordID, itemID: itemID}]
	return d, ok
}

func (f *fakeRecords) detailCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.details)
}

type fakeLogs struct {
	mu      sync.Mutex
	entries []transmission.Log
	err     error
}

func (f *fakeLogs) Append(_ context.Context, log *transmission.Log) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, *log)
	return f.err
}

func (f *fakeLogs) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

func (f *fakeLogs) last() transmission.Log {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.entries[len(f.entries)-1]
}

func ptr[T any](v T) *T {
	return &v
}
