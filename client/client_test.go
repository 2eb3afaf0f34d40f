package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchReports_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/reports", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"success","reports":[{"report_id":1,"latitude":37.78825,"longitude":-122.4324,"descriptor":"Car swerving between lanes","confirm_bool":null,"probability":68}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("test-token"))
	reports, err := c.FetchReports(context.Background())

	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, int64(1), reports[0].ID)
	assert.Equal(t, "Car swerving between lanes", reports[0].Descriptor)
	assert.Nil(t, reports[0].Confirm)
}

func TestFetchReports_MissingReportsArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.FetchReports(context.Background())

	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestFetchReports_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"status":"error","message":"database unavailable"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.FetchReports(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Contains(t, err.Error(), "database unavailable")
}

func TestFetchReports_EmptyListIsNotMalformed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","reports":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	reports, err := c.FetchReports(context.Background())

	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestCreateReport_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/reports/", r.URL.Path)

		var got Report
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, "Truck drifting onto shoulder", got.Descriptor)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(got)
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("test-token"))
	created, err := c.CreateReport(context.Background(), &Report{
		ID:          1756468800000,
		Latitude:    37.71,
		Longitude:   -122.41,
		Descriptor:  "Truck drifting onto shoulder",
		Probability: 55,
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1756468800000), created.ID)
}

func TestConfirmReport_SendsFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/reports/confirm/42", r.URL.Path)

		var payload struct {
			ConfirmBool bool `json:"confirm_bool"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.True(t, payload.ConfirmBool)

		w.Write([]byte(`{"status":"success"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("test-token"))
	assert.NoError(t, c.ConfirmReport(context.Background(), 42, true))
}

func TestDeleteReport_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status":"error","message":"report not found"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithToken("test-token"))
	err := c.DeleteReport(context.Background(), 999)

	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestLogin_StoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			assert.Empty(t, r.Header.Get("Authorization"))
			w.Write([]byte(`{"status":"success","user":{"id":"u-1","name":"Dana","email":"dana@example.com","role":"community"},"token":"issued-token"}`))
		case "/api/reports":
			assert.Equal(t, "Bearer issued-token", r.Header.Get("Authorization"))
			w.Write([]byte(`{"status":"success","reports":[]}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	user, err := c.Login(context.Background(), "dana@example.com", "hunter22")

	require.NoError(t, err)
	assert.Equal(t, "u-1", user.ID)
	assert.Equal(t, "community", user.Role)

	_, err = c.FetchReports(context.Background())
	assert.NoError(t, err)
}

func TestLogin_MissingToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"success","user":{"id":"u-1"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	_, err := c.Login(context.Background(), "dana@example.com", "hunter22")

	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestRegister_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/register", r.URL.Path)

		var payload struct {
			Role string `json:"role"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "officer", payload.Role)

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"status":"success","user":{"id":"u-2","name":"Riley","email":"riley@example.com","role":"officer"},"token":"issued-token"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	user, err := c.Register(context.Background(), "Riley", "riley@example.com", "hunter22", "officer")

	require.NoError(t, err)
	assert.Equal(t, "officer", user.Role)
}
