package model

import "encoding/json"

// MaxImages is the server-side cap on image references per vehicle.
const MaxImages = 5

// Vehicle represents one catalog listing as persisted by the store.
// The ID is assigned by the store on insert and is never client-supplied.
type Vehicle struct {
	ID          int64    `json:"id"`
	Make        string   `json:"make"`
	Model       string   `json:"model"`
	Year        int      `json:"year"`
	Price       float64  `json:"price"`
	Mileage     float64  `json:"mileage"`
	Description string   `json:"description"`
	Featured    bool     `json:"featured"`
	Images      []string `json:"images"` // display order; external URLs or /uploads/... paths
}

// VehicleInput is the create-request payload before validation.
// Numeric fields are declared as `any` because clients send them either as
// JSON numbers or as numeric strings (admin form submissions); the catalog
// service coerces and validates them.
type VehicleInput struct {
	Make        string       `json:"make"`
	Model       string       `json:"model"`
	Year        any          `json:"year"`
	Price       any          `json:"price"`
	Mileage     any          `json:"mileage"`
	Description string       `json:"description"`
	Featured    bool         `json:"featured"`
	Images      []ImageInput `json:"images"`
}

// ImageInput is one element of the incoming images sequence. Clients send
// either a bare string (external URL or inline data URL) or the richer
// preview shape {src, cropOffsetX, cropOffsetY}. Crop offsets are
// presentation metadata and are not persisted.
type ImageInput struct {
	Src         string  `json:"src"`
	CropOffsetX float64 `json:"cropOffsetX"`
	CropOffsetY float64 `json:"cropOffsetY"`
}

// UnmarshalJSON accepts both the bare-string and the object form.
func (in *ImageInput) UnmarshalJSON(data []byte) error {
	var src string
	if err := json.Unmarshal(data, &src); err == nil {
		*in = ImageInput{Src: src}
		return nil
	}

	// Alias avoids recursing back into this method.
	type imageInputAlias ImageInput
	var obj imageInputAlias
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*in = ImageInput(obj)
	return nil
}
