// Package store provides in-memory implementations of the trip engine's
// persistence interfaces, for tests and dev mode.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/timbrature/trip-engine/trip"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements trip.WorkDayStore, trip.AbsenceStore, trip.SettingsStore
// and trip.LedgerStore with mutex-guarded maps.
type Memory struct {
	mu sync.RWMutex

	workDays map[trip.EmployeeID][]trip.WorkDayRecord
	absences map[trip.EmployeeID][]trip.AbsenceRecord

	companySettings  map[trip.EmployeeID]*trip.SettingsRecord
	employeeSettings map[trip.EmployeeID][]trip.SettingsRecord

	ledgers map[ledgerKey]trip.ConversionLedger
}

type ledgerKey struct {
	Employee trip.EmployeeID
	Month    string // canonical "YYYY-MM-01"
}

func NewMemory() *Memory {
	return &Memory{
		workDays:         make(map[trip.EmployeeID][]trip.WorkDayRecord),
		absences:         make(map[trip.EmployeeID][]trip.AbsenceRecord),
		companySettings:  make(map[trip.EmployeeID]*trip.SettingsRecord),
		employeeSettings: make(map[trip.EmployeeID][]trip.SettingsRecord),
		ledgers:          make(map[ledgerKey]trip.ConversionLedger),
	}
}

// Compile-time interface checks.
var (
	_ trip.WorkDayStore  = (*Memory)(nil)
	_ trip.AbsenceStore  = (*Memory)(nil)
	_ trip.SettingsStore = (*Memory)(nil)
	_ trip.LedgerStore   = (*Memory)(nil)
)

// =============================================================================
// SEEDING (tests/dev)
// =============================================================================

func (m *Memory) AddWorkDay(r trip.WorkDayRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workDays[r.EmployeeID] = append(m.workDays[r.EmployeeID], r)
}

func (m *Memory) AddAbsence(a trip.AbsenceRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.absences[a.EmployeeID] = append(m.absences[a.EmployeeID], a)
}

// SetCompanySettings sets the company defaults visible to an employee.
func (m *Memory) SetCompanySettings(id trip.EmployeeID, r trip.SettingsRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.companySettings[id] = &r
}

func (m *Memory) AddEmployeeSettings(id trip.EmployeeID, r trip.SettingsRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employeeSettings[id] = append(m.employeeSettings[id], r)
}

// =============================================================================
// READS
// =============================================================================

func (m *Memory) ListWorkDays(_ context.Context, id trip.EmployeeID, month trip.Month) ([]trip.WorkDayRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []trip.WorkDayRecord
	for _, r := range m.workDays[id] {
		if month.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *Memory) ListAbsences(_ context.Context, id trip.EmployeeID, month trip.Month) ([]trip.AbsenceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []trip.AbsenceRecord
	for _, a := range m.absences[id] {
		if month.Contains(a.Date) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *Memory) CompanySettings(_ context.Context, id trip.EmployeeID) (*trip.SettingsRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.companySettings[id]
	if !ok {
		return nil, nil
	}
	cp := *r
	return &cp, nil
}

func (m *Memory) EmployeeSettings(_ context.Context, id trip.EmployeeID) ([]trip.SettingsRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]trip.SettingsRecord, len(m.employeeSettings[id]))
	copy(out, m.employeeSettings[id])
	return out, nil
}

// =============================================================================
// LEDGER - Atomic read-modify-write under the store mutex
// =============================================================================

func (m *Memory) GetOrCreate(_ context.Context, id trip.EmployeeID, month trip.Month) (trip.ConversionLedger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.getOrCreateLocked(id, month), nil
}

func (m *Memory) getOrCreateLocked(id trip.EmployeeID, month trip.Month) trip.ConversionLedger {
	k := ledgerKey{Employee: id, Month: month.Key()}
	if l, ok := m.ledgers[k]; ok {
		return l
	}
	now := time.Now().UTC()
	l := trip.ConversionLedger{
		EmployeeID: id,
		Month:      month,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	m.ledgers[k] = l
	return l
}

func (m *Memory) SetAutomaticHours(_ context.Context, id trip.EmployeeID, month trip.Month, hours decimal.Decimal) (trip.ConversionLedger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := m.getOrCreateLocked(id, month)
	l.AutomaticHours = hours
	l.UpdatedAt = time.Now().UTC()
	m.ledgers[ledgerKey{Employee: id, Month: month.Key()}] = l
	return l, nil
}

func (m *Memory) ApplyManualDelta(_ context.Context, id trip.EmployeeID, month trip.Month, deltaHours decimal.Decimal, note string) (trip.ConversionLedger, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := m.getOrCreateLocked(id, month)

	manual := l.ManualHours.Add(deltaHours)
	if manual.IsNegative() {
		manual = decimal.Zero
	}
	l.ManualHours = manual
	if note != "" {
		if l.Notes != "" {
			l.Notes += "\n"
		}
		l.Notes += note
	}
	l.UpdatedAt = time.Now().UTC()
	m.ledgers[ledgerKey{Employee: id, Month: month.Key()}] = l
	return l, nil
}
