package storage

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"vehicle-catalog/internal/model"
)

var vehiclesBucket = []byte("vehicles")

// BoltStore implements the VehicleStore interface on top of a bbolt database
// file. Records live in a single bucket keyed by big-endian id, so a cursor
// walk yields them in ascending id order.
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore opens (or creates) the database file and ensures the vehicles
// bucket exists.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt database %q: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(vehiclesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create vehicles bucket: %w", err)
	}
	return &BoltStore{db: db}, nil
}

func idKey(id int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}

// Insert allocates the next id and writes the record inside one read-write
// transaction. bbolt serializes writers, so concurrent Inserts cannot
// allocate the same id.
func (bs *BoltStore) Insert(v *model.Vehicle) error {
	err := bs.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(vehiclesBucket)

		var maxID int64
		if last, _ := b.Cursor().Last(); last != nil {
			maxID = int64(binary.BigEndian.Uint64(last))
		}
		v.ID = maxID + 1

		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal vehicle %d: %w", v.ID, err)
		}
		return b.Put(idKey(v.ID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to insert vehicle: %w", err)
	}
	return nil
}

// Get retrieves a vehicle by id.
func (bs *BoltStore) Get(id int64) (*model.Vehicle, error) {
	var v *model.Vehicle
	err := bs.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(vehiclesBucket).Get(idKey(id))
		if data == nil {
			return model.ErrNotFound
		}
		v = &model.Vehicle{}
		return json.Unmarshal(data, v)
	})
	if err != nil {
		if err == model.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load vehicle %d: %w", id, err)
	}
	return v, nil
}

// List retrieves all vehicles sorted ascending by id.
func (bs *BoltStore) List() ([]*model.Vehicle, error) {
	vehicles := make([]*model.Vehicle, 0)
	err := bs.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(vehiclesBucket).ForEach(func(_, data []byte) error {
			var v model.Vehicle
			if err := json.Unmarshal(data, &v); err != nil {
				return err
			}
			vehicles = append(vehicles, &v)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}
	return vehicles, nil
}

// Delete removes a vehicle record.
func (bs *BoltStore) Delete(id int64) error {
	err := bs.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(vehiclesBucket)
		key := idKey(id)
		if b.Get(key) == nil {
			return model.ErrNotFound
		}
		return b.Delete(key)
	})
	if err == model.ErrNotFound {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to delete vehicle %d: %w", id, err)
	}
	return nil
}

// Close closes the underlying database file.
func (bs *BoltStore) Close() error {
	return bs.db.Close()
}
