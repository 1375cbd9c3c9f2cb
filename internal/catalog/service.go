package catalog

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cast"

	"vehicle-catalog/internal/images"
	"vehicle-catalog/internal/model"
	"vehicle-catalog/internal/storage"
)

// Service provides the vehicle CRUD operations (list, create, delete).
// It orchestrates validation, image ingestion and the persistence store.
type Service struct {
	store  storage.VehicleStore
	images *images.Ingestor
	logger *slog.Logger
}

// NewService creates a new Service instance.
func NewService(store storage.VehicleStore, ingestor *images.Ingestor, logger *slog.Logger) *Service {
	if logger == nil {
		// Provide a default discard logger if none is provided.
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		store:  store,
		images: ingestor,
		logger: logger,
	}
}

// List returns all vehicles sorted ascending by id.
func (s *Service) List() ([]*model.Vehicle, error) {
	vehicles, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("listing vehicles failed: %w", err)
	}
	return vehicles, nil
}

// validate checks required fields and coerces the numeric ones. Numerics
// arrive as JSON numbers or numeric strings; values that fail to parse are
// rejected rather than stored as nulls.
func validate(input model.VehicleInput) (*model.Vehicle, error) {
	v := &model.Vehicle{
		Make:        input.Make,
		Model:       input.Model,
		Description: input.Description,
		Featured:    input.Featured,
	}

	var bad []string
	if input.Make == "" {
		bad = append(bad, "make")
	}
	if input.Model == "" {
		bad = append(bad, "model")
	}
	if input.Description == "" {
		bad = append(bad, "description")
	}

	// cast treats nil as zero, so absence has to be checked explicitly.
	if input.Year == nil {
		bad = append(bad, "year")
	} else if year, err := cast.ToIntE(input.Year); err != nil {
		bad = append(bad, "year")
	} else {
		v.Year = year
	}

	if input.Price == nil {
		bad = append(bad, "price")
	} else if price, err := cast.ToFloat64E(input.Price); err != nil || price < 0 {
		bad = append(bad, "price")
	} else {
		v.Price = price
	}

	if input.Mileage == nil {
		bad = append(bad, "mileage")
	} else if mileage, err := cast.ToFloat64E(input.Mileage); err != nil || mileage < 0 {
		bad = append(bad, "mileage")
	} else {
		v.Mileage = mileage
	}

	if len(input.Images) > model.MaxImages {
		bad = append(bad, fmt.Sprintf("images (at most %d allowed)", model.MaxImages))
	}

	if len(bad) > 0 {
		return nil, &model.ValidationError{Fields: bad}
	}
	return v, nil
}

// Create validates the input, resolves its image references and persists the
// record. The id is assigned by the store. Create is all-or-nothing: if the
// insert fails after payload files were written, those files are removed.
func (s *Service) Create(input model.VehicleInput) (*model.Vehicle, error) {
	v, err := validate(input)
	if err != nil {
		return nil, err
	}

	refs, err := s.images.ResolveAll(input.Images)
	if err != nil {
		return nil, err
	}
	v.Images = refs

	if err := s.store.Insert(v); err != nil {
		s.images.RemoveAll(refs)
		return nil, fmt.Errorf("storing vehicle failed: %w", err)
	}

	s.logger.Info("vehicle created", "id", v.ID, "make", v.Make, "model", v.Model, "images", len(v.Images))
	return v, nil
}

// Delete removes a vehicle record and the locally persisted payload files it
// owned. Payload files belonging to external URL references are untouched,
// and a payload file that is already gone is not an error.
func (s *Service) Delete(id int64) error {
	v, err := s.store.Get(id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(id); err != nil {
		return err
	}

	for _, ref := range v.Images {
		if err := s.images.Remove(ref); err != nil {
			s.logger.Warn("failed to remove payload file for deleted vehicle", "id", id, "ref", ref, "error", err)
		}
	}

	s.logger.Info("vehicle deleted", "id", id)
	return nil
}
