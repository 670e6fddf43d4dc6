// Package orderstore persists submitted orders to a local JSON file so the
// status command can find them later without re-entering hashes.
package orderstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"cross-swap/pkg/types"
)

const DefaultStorageFileName = ".cross-swap-orders.json"

// Record is one submitted order as remembered locally. Secrets are never
// stored; they live only in the submitting session.
type Record struct {
	OrderHash string            `json:"order_hash"`
	QuoteID   string            `json:"quote_id"`
	SrcChain  string            `json:"src_chain"`
	DstChain  string            `json:"dst_chain"`
	SrcToken  string            `json:"src_token"`
	DstToken  string            `json:"dst_token"`
	SrcAmount string            `json:"src_amount"`
	MinDst    string            `json:"min_dst_amount"`
	Preset    string            `json:"preset"`
	Status    types.OrderStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// Store handles persistence of order records.
type Store struct {
	filePath string
	mu       sync.Mutex
	orders   map[string]*Record
}

type fileLayout struct {
	Orders map[string]*Record `json:"orders"`
}

// NewStore opens (or prepares to create) a store at filePath. Empty filePath
// defaults to the home directory.
func NewStore(filePath string) (*Store, error) {
	if filePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		filePath = filepath.Join(home, DefaultStorageFileName)
	}

	store := &Store{
		filePath: filePath,
		orders:   make(map[string]*Record),
	}

	if err := store.load(); err != nil {
		// Missing file is fine; it is created on first save.
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load orders: %w", err)
		}
	}

	return store, nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var layout fileLayout
	if err := json.Unmarshal(data, &layout); err != nil {
		return fmt.Errorf("failed to unmarshal orders: %w", err)
	}

	s.orders = layout.Orders
	if s.orders == nil {
		s.orders = make(map[string]*Record)
	}
	return nil
}

// save writes the records out via a temp-file rename so a crash mid-write
// never truncates the history.
func (s *Store) save() error {
	data, err := json.MarshalIndent(fileLayout{Orders: s.orders}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal orders: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write orders: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Save adds or replaces a record and persists the store.
func (s *Store) Save(record *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.OrderHash == "" {
		return fmt.Errorf("order hash is required")
	}
	s.orders[record.OrderHash] = record
	return s.save()
}

// Get retrieves a record by order hash.
func (s *Store) Get(orderHash string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.orders[orderHash]
	if !exists {
		return nil, fmt.Errorf("order '%s' not found", orderHash)
	}
	return record, nil
}

// UpdateStatus records a status change for an order.
func (s *Store) UpdateStatus(orderHash string, status types.OrderStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.orders[orderHash]
	if !exists {
		return fmt.Errorf("order '%s' not found", orderHash)
	}

	record.Status = status
	record.UpdatedAt = time.Now()
	return s.save()
}

// List returns all records, newest first.
func (s *Store) List() []*Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]*Record, 0, len(s.orders))
	for _, record := range s.orders {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	return records
}

// Latest returns the most recently created record.
func (s *Store) Latest() (*Record, error) {
	records := s.List()
	if len(records) == 0 {
		return nil, fmt.Errorf("no orders recorded yet")
	}
	return records[0], nil
}

// Count returns the number of stored orders.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}
