package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"trellis/internal/models"
	"trellis/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEntriesPassesFilters(t *testing.T) {
	srv, app := newTestServer(t)

	var captured service.ListFilter
	srv.entryService = &entryServiceStub{
		listFn: func(_ context.Context, ownerID uint, filter service.ListFilter) ([]service.EntryView, error) {
			assert.Equal(t, uint(7), ownerID)
			captured = filter
			return []service.EntryView{
				{ID: 3, Date: "2026-08-28", Title: "Water tomatoes", Type: "todo", Tags: []string{"tomatoes"}},
			}, nil
		},
	}

	req := authedRequest(t, http.MethodGet, "/api/entries/?type=next7&tag=toma&bed=North+Bed", "")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, "next7", captured.Type)
	assert.Equal(t, "toma", captured.TagQuery)
	assert.Equal(t, "North Bed", captured.Bed)

	var views []service.EntryView
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &views))
	require.Len(t, views, 1)
	assert.Equal(t, "Water tomatoes", views[0].Title)
}

func TestGetEntriesRequiresAuth(t *testing.T) {
	_, app := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/entries/", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCreateEntryValidationError(t *testing.T) {
	srv, app := newTestServer(t)
	srv.entryService = &entryServiceStub{
		createFn: func(_ context.Context, _ uint, _ service.EntryInput) (*service.EntryView, error) {
			return nil, models.NewValidationError("title is required")
		},
	}

	req := authedRequest(t, http.MethodPost, "/api/entries/", `{"date":"2026-08-28"}`)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateEntryCreated(t *testing.T) {
	srv, app := newTestServer(t)
	srv.entryService = &entryServiceStub{
		createFn: func(_ context.Context, ownerID uint, input service.EntryInput) (*service.EntryView, error) {
			assert.Equal(t, "Sow carrots", input.Title)
			assert.Equal(t, []string{"carrots", "seeds"}, input.Tags)
			return &service.EntryView{ID: 9, Date: input.Date, Title: input.Title, Type: "todo", Tags: input.Tags}, nil
		},
	}

	req := authedRequest(t, http.MethodPost, "/api/entries/",
		`{"date":"2026-09-01","title":"Sow carrots","type":"todo","tags":["carrots","seeds"]}`)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var view service.EntryView
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, uint(9), view.ID)
}

func TestGetEntryNotFound(t *testing.T) {
	srv, app := newTestServer(t)
	srv.entryService = &entryServiceStub{
		getFn: func(_ context.Context, id, ownerID uint) (*service.EntryView, error) {
			return nil, models.NewNotFoundError("entry", "42")
		},
	}

	req := authedRequest(t, http.MethodGet, "/api/entries/42", "")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetEntryInvalidID(t *testing.T) {
	srv, app := newTestServer(t)
	srv.entryService = &entryServiceStub{
		getFn: func(_ context.Context, id, ownerID uint) (*service.EntryView, error) {
			t.Fatal("service should not be called for an invalid ID")
			return nil, nil
		},
	}

	req := authedRequest(t, http.MethodGet, "/api/entries/abc", "")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestToggleEntry(t *testing.T) {
	srv, app := newTestServer(t)
	srv.entryService = &entryServiceStub{
		toggleFn: func(_ context.Context, id, ownerID uint) (bool, error) {
			assert.Equal(t, uint(5), id)
			assert.Equal(t, uint(7), ownerID)
			return true, nil
		},
	}

	req := authedRequest(t, http.MethodPatch, "/api/entries/5/toggle", "")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]bool
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &out))
	assert.True(t, out["completed"])
}

func TestDeleteEntry(t *testing.T) {
	srv, app := newTestServer(t)

	deleted := false
	srv.entryService = &entryServiceStub{
		deleteFn: func(_ context.Context, id, ownerID uint) error {
			deleted = true
			return nil
		},
	}

	req := authedRequest(t, http.MethodDelete, "/api/entries/5", "")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, deleted)
}

func TestUpdateEntryNotFound(t *testing.T) {
	srv, app := newTestServer(t)
	srv.entryService = &entryServiceStub{
		updateFn: func(_ context.Context, id, ownerID uint, input service.EntryInput) (*service.EntryView, error) {
			return nil, models.NewNotFoundError("entry", "99")
		},
	}

	req := authedRequest(t, http.MethodPut, "/api/entries/99",
		`{"date":"2026-09-01","title":"Moved","type":"note"}`)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
