package dhis2_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthstack/lmis-facility-api/internal/infrastructure/dhis2"
)

func newClient(srv *httptest.Server) *dhis2.Client {
	return dhis2.NewClient(dhis2.Config{
		BaseURL:  srv.URL + "/api",
		Username: "lmis-sync",
		Password: "secreto",
	})
}

var sampleSet = &dhis2.DataValueSet{
	DataValues: []dhis2.DataValue{
		{DataElement: "de-1", Period: "20260828", OrgUnit: "OU-KAILAHUN", Value: "12"},
	},
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests PostDataValueSet
// ──────────────────────────────────────────────────────────────────────────────

func TestPostDataValueSet_EnviaLoteConBasicAuth(t *testing.T) {
	var gotPath, gotUser, gotPass string
	var gotBody dhis2.DataValueSet
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotUser, gotPass, _ = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(dhis2.PushResponse{
			Status:      "SUCCESS",
			ImportCount: dhis2.ImportCount{Imported: 1},
		})
	}))
	defer srv.Close()

	resp, err := newClient(srv).PostDataValueSet(context.Background(), sampleSet)
	require.NoError(t, err)

	assert.Equal(t, "/api/dataValueSets", gotPath)
	assert.Equal(t, "lmis-sync", gotUser, "el push viaja con la cuenta de servicio")
	assert.Equal(t, "secreto", gotPass)
	require.Len(t, gotBody.DataValues, 1)
	assert.Equal(t, "12", gotBody.DataValues[0].Value)

	assert.True(t, resp.Success())
	assert.Equal(t, 1, resp.ImportCount.Imported)
}

func TestPostDataValueSet_StatusDistintoDeSuccessNoEsExito(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(dhis2.PushResponse{Status: "WARNING", Description: "conflicts"})
	}))
	defer srv.Close()

	resp, err := newClient(srv).PostDataValueSet(context.Background(), sampleSet)
	require.NoError(t, err, "un rechazo lógico no es un error de transporte")
	assert.False(t, resp.Success())
}

func TestPostDataValueSet_HTTPNo2xxEsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newClient(srv).PostDataValueSet(context.Background(), sampleSet)
	assert.ErrorContains(t, err, "HTTP 500")
}

func TestPostDataValueSet_RespuestaMalformadaEsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := newClient(srv).PostDataValueSet(context.Background(), sampleSet)
	assert.ErrorContains(t, err, "malformada")
}

func TestPostDataValueSet_ServidorCaido(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newClient(srv).PostDataValueSet(context.Background(), sampleSet)
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests FetchCatalog
// ──────────────────────────────────────────────────────────────────────────────

func TestFetchCatalog_DescargaElCatalogoDelEstablecimiento(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/catalog", r.URL.Path)
		assert.Equal(t, "OU-KAILAHUN", r.URL.Query().Get("orgUnit"))
		json.NewEncoder(w).Encode(dhis2.Catalog{
			Categories: []dhis2.CatalogCategory{{
				Name: "Malaria",
				Commodities: []dhis2.CatalogCommodity{{
					Name:            "Coartem",
					MinimumQuantity: 10,
					MaximumQuantity: 200,
					Activities: []dhis2.CatalogActivity{{
						ID:           "de-1",
						Name:         "Coartem DISPENSE",
						ActivityType: "DISPENSE",
						DataSet:      dhis2.CatalogDataSet{ID: "ds-1", Name: "Daily", PeriodType: "Daily"},
					}},
				}},
			}},
		})
	}))
	defer srv.Close()

	catalog, err := newClient(srv).FetchCatalog(context.Background(), "OU-KAILAHUN")
	require.NoError(t, err)

	require.Len(t, catalog.Categories, 1)
	require.Len(t, catalog.Categories[0].Commodities, 1)
	insumo := catalog.Categories[0].Commodities[0]
	assert.Equal(t, "Coartem", insumo.Name)
	require.Len(t, insumo.Activities, 1)
	assert.Equal(t, "de-1", insumo.Activities[0].ID)
}

func TestFetchCatalog_HTTPNo200EsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := newClient(srv).FetchCatalog(context.Background(), "OU-X")
	assert.ErrorContains(t, err, "HTTP 403")
}
