package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChEMBLLookupByName(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "aspirin", r.URL.Query().Get("q"))
		w.Write([]byte(`{"molecules":[{
			"molecule_chembl_id":"CHEMBL25",
			"pref_name":"ASPIRIN",
			"max_phase":"4",
			"indication_class":"Analgesic",
			"molecule_properties":{"full_molformula":"C9H8O4","full_mwt":"180.16"}
		}]}`))
	}))
	defer server.Close()

	client := NewChEMBLClient(server.URL, testLogger())

	record, err := client.LookupByName(context.Background(), "aspirin")
	require.NoError(t, err)
	assert.Equal(t, "CHEMBL25", record.ChEMBLID)
	assert.Equal(t, "ASPIRIN", record.PreferredName)
	require.NotNil(t, record.MaxPhase)
	assert.Equal(t, 4, *record.MaxPhase)
	assert.Equal(t, "C9H8O4", record.MolecularFormula)
	require.NotNil(t, record.MolecularWeight)
	assert.InDelta(t, 180.16, *record.MolecularWeight, 0.001)
	assert.Equal(t, "Analgesic", record.Description)
}

func TestChEMBLOptionalFieldsDroppedNotFatal(t *testing.T) {
	// Unknown phase and missing properties still yield a valid record.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"molecules":[{
			"molecule_chembl_id":"CHEMBL277500",
			"pref_name":"BENZENE",
			"max_phase":""
		}]}`))
	}))
	defer server.Close()

	client := NewChEMBLClient(server.URL, testLogger())

	record, err := client.LookupByName(context.Background(), "benzene")
	require.NoError(t, err)
	assert.Equal(t, "CHEMBL277500", record.ChEMBLID)
	assert.Nil(t, record.MaxPhase, "unparseable phase means unknown, not zero")
	assert.Nil(t, record.MolecularWeight)
}

func TestChEMBLFailureModesFoldIntoNotFound(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"no match", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"molecules":[]}`))
		}},
		{"missing id", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"molecules":[{"pref_name":"X"}]}`))
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`not json`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.handler)
			defer server.Close()

			client := NewChEMBLClient(server.URL, testLogger())
			_, err := client.LookupByName(context.Background(), "whatever")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}

	t.Run("empty name", func(t *testing.T) {
		client := NewChEMBLClient("http://unused", testLogger())
		_, err := client.LookupByName(context.Background(), "  ")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
