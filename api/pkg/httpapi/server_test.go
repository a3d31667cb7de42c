package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MuneebAzher/smart-parking-allocator/api/pkg/parking"
	"github.com/MuneebAzher/smart-parking-allocator/api/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	engine := parking.NewEngine()
	engine.AddZone(types.Zone{
		ID: "zone-a",
		Areas: []types.Area{
			{ID: "area-a1", Slots: []types.Slot{{ID: "slot-a1-1", Available: true}}},
		},
	})
	return NewServer(engine, "test")
}

func TestServer_CreateRequestAndAllocate(t *testing.T) {
	s := newTestServer(t)

	body, _ := json.Marshal(map[string]string{"vehicleId": "vehicle-1", "requestedZoneId": "zone-a"})
	req := httptest.NewRequest(http.MethodPost, "/requests", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created types.Request
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))

	allocReq := httptest.NewRequest(http.MethodPost, "/requests/"+created.ID+"/allocate", nil)
	allocRec := httptest.NewRecorder()
	s.ServeHTTP(allocRec, allocReq)
	require.Equal(t, http.StatusOK, allocRec.Code)

	var result types.Result
	require.NoError(t, json.NewDecoder(allocRec.Body).Decode(&result))
	assert.Equal(t, "slot-a1-1", result.Request.AllocatedSlotID)
}

func TestServer_AllocateUnknownRequestIsNotFound(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/requests/ghost/allocate", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_CreateRequestMalformedBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/requests", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_RollbackRejectsNegativeK(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/rollback?k=-1", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_ZonesAndAnalytics(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/zones", nil)
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var zones []types.Zone
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&zones))
	require.Len(t, zones, 1)

	analyticsReq := httptest.NewRequest(http.MethodGet, "/analytics", nil)
	analyticsRec := httptest.NewRecorder()
	s.ServeHTTP(analyticsRec, analyticsReq)
	assert.Equal(t, http.StatusOK, analyticsRec.Code)
}
