package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"vehicle-catalog/internal/catalog"
	"vehicle-catalog/internal/images"
	"vehicle-catalog/internal/model"
	"vehicle-catalog/internal/storage"
)

// Helper to create a minimal valid application instance for testing,
// backed by a JSON store and uploads dir under t.TempDir().
func newTestApplication(t *testing.T) *application {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := storage.NewJSONStore(filepath.Join(t.TempDir(), "vehicles"))
	if err != nil {
		t.Fatalf("Failed to create test store: %v", err)
	}
	uploadsDir := filepath.Join(t.TempDir(), "uploads")
	ingestor, err := images.NewIngestor(uploadsDir, logger)
	if err != nil {
		t.Fatalf("Failed to create test ingestor: %v", err)
	}

	return &application{
		logger:     logger,
		catalog:    catalog.NewService(store, ingestor, logger),
		uploadsDir: uploadsDir,
	}
}

// failingStore stubs storage.VehicleStore with a backend that is unreachable.
type failingStore struct{}

var errStoreOffline = errors.New("store offline")

func (failingStore) Insert(*model.Vehicle) error       { return errStoreOffline }
func (failingStore) Get(int64) (*model.Vehicle, error) { return nil, errStoreOffline }
func (failingStore) List() ([]*model.Vehicle, error)   { return nil, errStoreOffline }
func (failingStore) Delete(int64) error                { return errStoreOffline }
func (failingStore) Close() error                      { return nil }

// Helper to create an application whose store fails every operation.
func newFailingApplication(t *testing.T, legacyEmptyList bool) *application {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uploadsDir := filepath.Join(t.TempDir(), "uploads")
	ingestor, err := images.NewIngestor(uploadsDir, logger)
	if err != nil {
		t.Fatalf("Failed to create test ingestor: %v", err)
	}

	return &application{
		logger:          logger,
		catalog:         catalog.NewService(failingStore{}, ingestor, logger),
		uploadsDir:      uploadsDir,
		legacyEmptyList: legacyEmptyList,
	}
}

func doRequest(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeVehicle(t *testing.T, rr *httptest.ResponseRecorder) model.Vehicle {
	t.Helper()
	var v model.Vehicle
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("Failed to decode vehicle response %q: %v", rr.Body.String(), err)
	}
	return v
}

func vehiclePayload() map[string]any {
	return map[string]any{
		"make":        "Ford",
		"model":       "EcoSport",
		"year":        2019,
		"price":       4200000,
		"mileage":     60000,
		"description": "test",
		"featured":    true,
		"images":      []any{},
	}
}

func TestListVehicles_EmptyCatalog(t *testing.T) {
	app := newTestApplication(t)
	router := app.routes()

	rr := doRequest(t, router, "GET", "/api/vehicles", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("GET /api/vehicles returned status %d, want %d", rr.Code, http.StatusOK)
	}
	if ctype := rr.Header().Get("Content-Type"); ctype != "application/json" {
		t.Errorf("GET /api/vehicles Content-Type = %q, want application/json", ctype)
	}
	// An empty catalog must serialize as [], never null
	if body := bytes.TrimSpace(rr.Body.Bytes()); string(body) != "[]" {
		t.Errorf("GET /api/vehicles on empty catalog = %q, want []", body)
	}
}

func TestListVehicles_StoreFailure(t *testing.T) {
	app := newFailingApplication(t, false)
	router := app.routes()

	rr := doRequest(t, router, "GET", "/api/vehicles", nil)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("GET /api/vehicles with failing store returned status %d, want %d", rr.Code, http.StatusInternalServerError)
	}
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode error body %q: %v", rr.Body.String(), err)
	}
	if body["error"] == "" {
		t.Errorf("error response %q missing human-readable message", rr.Body.String())
	}
}

func TestListVehicles_StoreFailureLegacyEmptyList(t *testing.T) {
	app := newFailingApplication(t, true)
	router := app.routes()

	rr := doRequest(t, router, "GET", "/api/vehicles", nil)

	// The compatibility switch masks the failure as an empty catalog
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /api/vehicles with legacy masking returned status %d, want %d", rr.Code, http.StatusOK)
	}
	if body := bytes.TrimSpace(rr.Body.Bytes()); string(body) != "[]" {
		t.Errorf("GET /api/vehicles with legacy masking = %q, want []", body)
	}
}

func TestCreateVehicle(t *testing.T) {
	app := newTestApplication(t)
	router := app.routes()

	rr := doRequest(t, router, "POST", "/api/vehicles", vehiclePayload())
	if rr.Code != http.StatusCreated {
		t.Fatalf("POST /api/vehicles returned status %d, want %d (body %q)", rr.Code, http.StatusCreated, rr.Body.String())
	}

	v := decodeVehicle(t, rr)
	if v.ID != 1 {
		t.Errorf("created vehicle id = %d, want 1", v.ID)
	}
	if v.Make != "Ford" || v.Model != "EcoSport" || v.Year != 2019 {
		t.Errorf("created vehicle = %+v, fields do not match payload", v)
	}
	if v.Images == nil || len(v.Images) != 0 {
		t.Errorf("created vehicle images = %v, want empty array", v.Images)
	}
}

func TestCreateVehicle_MissingFields(t *testing.T) {
	app := newTestApplication(t)
	router := app.routes()

	payload := vehiclePayload()
	delete(payload, "make")
	payload["model"] = ""

	rr := doRequest(t, router, "POST", "/api/vehicles", payload)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("POST with missing fields returned status %d, want %d", rr.Code, http.StatusBadRequest)
	}

	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode error body: %v", err)
	}
	if body["error"] == "" {
		t.Errorf("error response %q missing human-readable message", rr.Body.String())
	}

	// The rejected vehicle must not appear in the listing
	rr = doRequest(t, router, "GET", "/api/vehicles", nil)
	if body := bytes.TrimSpace(rr.Body.Bytes()); string(body) != "[]" {
		t.Errorf("catalog after rejected create = %q, want []", body)
	}
}

func TestCreateVehicle_InvalidJSONBody(t *testing.T) {
	app := newTestApplication(t)
	router := app.routes()

	req := httptest.NewRequest("POST", "/api/vehicles", bytes.NewReader([]byte("{not json")))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("POST with invalid JSON returned status %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestCreateVehicle_InlineImageServedUnderUploads(t *testing.T) {
	app := newTestApplication(t)
	router := app.routes()

	original := []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x01, 0x02, 0x03}
	payload := vehiclePayload()
	payload["images"] = []any{
		"https://cdn.example.com/exterior.jpg",
		"image/jpeg;base64," + base64.StdEncoding.EncodeToString(original),
	}

	rr := doRequest(t, router, "POST", "/api/vehicles", payload)
	if rr.Code != http.StatusCreated {
		t.Fatalf("POST returned status %d, want %d (body %q)", rr.Code, http.StatusCreated, rr.Body.String())
	}
	v := decodeVehicle(t, rr)
	if len(v.Images) != 2 {
		t.Fatalf("created vehicle has %d images, want 2", len(v.Images))
	}
	if v.Images[0] != "https://cdn.example.com/exterior.jpg" {
		t.Errorf("external URL image = %q, want it stored verbatim", v.Images[0])
	}

	// The decoded payload must be reachable at the returned reference path
	rr = doRequest(t, router, "GET", v.Images[1], nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET %s returned status %d, want %d", v.Images[1], rr.Code, http.StatusOK)
	}
	if !bytes.Equal(rr.Body.Bytes(), original) {
		t.Errorf("served payload bytes differ from the original source bytes")
	}
}

func TestCreateVehicle_ObjectImageInput(t *testing.T) {
	app := newTestApplication(t)
	router := app.routes()

	payload := vehiclePayload()
	payload["images"] = []any{
		map[string]any{
			"src":         "https://cdn.example.com/cropped.jpg",
			"cropOffsetX": 12.5,
			"cropOffsetY": -3,
		},
	}

	rr := doRequest(t, router, "POST", "/api/vehicles", payload)
	if rr.Code != http.StatusCreated {
		t.Fatalf("POST returned status %d, want %d (body %q)", rr.Code, http.StatusCreated, rr.Body.String())
	}
	v := decodeVehicle(t, rr)
	if len(v.Images) != 1 || v.Images[0] != "https://cdn.example.com/cropped.jpg" {
		t.Errorf("object image input resolved to %v, want the src URL verbatim", v.Images)
	}
}

func TestCreateVehicle_MalformedInlineImage(t *testing.T) {
	app := newTestApplication(t)
	router := app.routes()

	payload := vehiclePayload()
	payload["images"] = []any{"data:definitely-not-an-image"}

	rr := doRequest(t, router, "POST", "/api/vehicles", payload)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("POST with malformed inline image returned status %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestDeleteVehicle_NonNumericID(t *testing.T) {
	app := newTestApplication(t)
	router := app.routes()

	rr := doRequest(t, router, "DELETE", "/api/vehicles/abc", nil)
	if rr.Code != http.StatusBadRequest {
		t.Errorf("DELETE /api/vehicles/abc returned status %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

// TestCatalogLifecycle walks the create/list/delete flow end to end:
// two identical creates get ids 1 and 2, the list comes back ordered,
// deleting id 1 removes it, and a repeated delete is a 404.
func TestCatalogLifecycle(t *testing.T) {
	app := newTestApplication(t)
	router := app.routes()

	first := decodeVehicle(t, doRequest(t, router, "POST", "/api/vehicles", vehiclePayload()))
	if first.ID != 1 {
		t.Fatalf("first create assigned id %d, want 1", first.ID)
	}
	second := decodeVehicle(t, doRequest(t, router, "POST", "/api/vehicles", vehiclePayload()))
	if second.ID != 2 {
		t.Fatalf("second create assigned id %d, want 2", second.ID)
	}

	rr := doRequest(t, router, "GET", "/api/vehicles", nil)
	var listed []model.Vehicle
	if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
		t.Fatalf("Failed to decode list response: %v", err)
	}
	if len(listed) != 2 || listed[0].ID != 1 || listed[1].ID != 2 {
		t.Fatalf("list = %+v, want vehicles ordered [1, 2]", listed)
	}

	rr = doRequest(t, router, "DELETE", fmt.Sprintf("/api/vehicles/%d", first.ID), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("DELETE returned status %d, want %d", rr.Code, http.StatusOK)
	}
	var ack map[string]bool
	if err := json.Unmarshal(rr.Body.Bytes(), &ack); err != nil {
		t.Fatalf("Failed to decode delete acknowledgment: %v", err)
	}
	if !ack["success"] {
		t.Errorf("delete acknowledgment = %q, want {\"success\":true}", rr.Body.String())
	}

	rr = doRequest(t, router, "GET", "/api/vehicles", nil)
	listed = nil
	if err := json.Unmarshal(rr.Body.Bytes(), &listed); err != nil {
		t.Fatalf("Failed to decode list response: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != 2 {
		t.Fatalf("list after delete = %+v, want only vehicle 2", listed)
	}

	// Deleting the same id again must be a 404
	rr = doRequest(t, router, "DELETE", fmt.Sprintf("/api/vehicles/%d", first.ID), nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("repeated DELETE returned status %d, want %d", rr.Code, http.StatusNotFound)
	}
}
