package storage

import "vehicle-catalog/internal/model"

// VehicleStore defines the operations needed for persisting vehicle records.
// This allows swapping implementations (JSON files vs. an embedded document
// store) at startup via configuration.
type VehicleStore interface {
	// Insert assigns the next free id to the vehicle and persists it.
	// Id allocation and the write happen atomically with respect to
	// concurrent Inserts, so two racing creates never share an id.
	Insert(v *model.Vehicle) error

	// Get retrieves a vehicle by id. Returns model.ErrNotFound if absent.
	Get(id int64) (*model.Vehicle, error)

	// List retrieves all vehicles sorted ascending by id.
	List() ([]*model.Vehicle, error)

	// Delete removes a vehicle record. Returns model.ErrNotFound if absent.
	Delete(id int64) error

	// Close releases any resources held by the store.
	Close() error
}
