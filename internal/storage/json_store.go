package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"

	"vehicle-catalog/internal/model"
)

// JSONStore implements the VehicleStore interface using flat JSON files.
// Each vehicle is stored as an individual <id>.json file under BasePath.
type JSONStore struct {
	// BasePath is the directory where vehicle record files (*.json) live.
	BasePath string

	// mu serializes id allocation with the subsequent write, so concurrent
	// Inserts cannot observe the same max id.
	mu sync.Mutex
}

// NewJSONStore creates a new JSONStore instance.
// It ensures the base storage directory exists.
func NewJSONStore(basePath string) (*JSONStore, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %q: %w", basePath, err)
	}
	return &JSONStore{BasePath: basePath}, nil
}

func (js *JSONStore) recordPath(id int64) string {
	return filepath.Join(js.BasePath, strconv.FormatInt(id, 10)+".json")
}

// Insert allocates the next id (max of existing ids plus one, or 1 for an
// empty store) and writes the record. The allocation and the write happen
// under one lock, which is the duplicate-id guarantee for this backend.
func (js *JSONStore) Insert(v *model.Vehicle) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	ids, err := js.scanIDs()
	if err != nil {
		return err
	}
	var maxID int64
	for _, id := range ids {
		if id > maxID {
			maxID = id
		}
	}
	v.ID = maxID + 1

	return js.writeRecord(v)
}

// writeRecord marshals the vehicle and writes it via a uniquely named temp
// file plus rename, so a crash mid-write never leaves a truncated record.
func (js *JSONStore) writeRecord(v *model.Vehicle) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal vehicle %d: %w", v.ID, err)
	}

	tmpPath := filepath.Join(js.BasePath, ".tmp-"+uuid.New().String())
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write vehicle file %q: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, js.recordPath(v.ID)); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to place vehicle file for id %d: %w", v.ID, err)
	}
	return nil
}

// Get retrieves a vehicle record from its JSON file.
func (js *JSONStore) Get(id int64) (*model.Vehicle, error) {
	data, err := os.ReadFile(js.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read vehicle file for id %d: %w", id, err)
	}

	var v model.Vehicle
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal vehicle %d: %w", id, err)
	}
	return &v, nil
}

// scanIDs lists the ids of all stored records by scanning *.json filenames.
func (js *JSONStore) scanIDs() ([]int64, error) {
	files, err := os.ReadDir(js.BasePath)
	if err != nil {
		// A missing base path means an empty store, not a failure.
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read storage directory %q: %w", js.BasePath, err)
	}

	var ids []int64
	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".json") {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSuffix(file.Name(), ".json"), 10, 64)
		if err != nil {
			// Not a record file (temp leftovers, stray files); skip it.
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// List retrieves all vehicles sorted ascending by id.
func (js *JSONStore) List() ([]*model.Vehicle, error) {
	ids, err := js.scanIDs()
	if err != nil {
		return nil, err
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	vehicles := make([]*model.Vehicle, 0, len(ids))
	for _, id := range ids {
		v, err := js.Get(id)
		if err != nil {
			// A delete may race the directory scan; skip records that
			// vanished between the scan and the read.
			if err == model.ErrNotFound {
				continue
			}
			return nil, fmt.Errorf("failed to load vehicle %d during List: %w", id, err)
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, nil
}

// Delete removes the vehicle's JSON record file.
func (js *JSONStore) Delete(id int64) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	err := os.Remove(js.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to delete vehicle file for id %d: %w", id, err)
	}
	return nil
}

// Close is a no-op for the file-backed store.
func (js *JSONStore) Close() error {
	return nil
}
