package dhis2

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ── Puerto (interfaz) ─────────────────────────────────────────────────────────

// Submitter define el puerto de salida hacia el servidor de reporte remoto.
// La implementación concreta usa HTTP/JSON; para tests se inyecta un fake.
type Submitter interface {
	// PostDataValueSet envía el lote de dataValues. Un error o una respuesta
	// con Status != SUCCESS significan que el lote NO fue aplicado y debe
	// reintentarse completo más adelante.
	PostDataValueSet(ctx context.Context, set *DataValueSet) (*PushResponse, error)
}

// CatalogFetcher define el puerto de entrada de catálogo (importación).
type CatalogFetcher interface {
	FetchCatalog(ctx context.Context, orgUnit string) (*Catalog, error)
}

// ── Implementación HTTP ───────────────────────────────────────────────────────

// Client implementa Submitter y CatalogFetcher contra la API REST de DHIS2.
type Client struct {
	baseURL    string
	username   string
	password   string
	httpClient *http.Client
}

// Config credenciales y endpoint del servidor remoto.
type Config struct {
	BaseURL  string // ej: https://dhis.ejemplo.org/api
	Username string
	Password string
	Timeout  time.Duration
}

// NewClient construye el cliente. El timeout por defecto es generoso (60 s):
// los servidores nacionales de reporte suelen responder lento.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		username:   cfg.Username,
		password:   cfg.Password,
		httpClient: &http.Client{Timeout: timeout},
	}
}

var _ Submitter = (*Client)(nil)
var _ CatalogFetcher = (*Client)(nil)

// PostDataValueSet envía el lote a POST {base}/dataValueSets con basic auth.
// Trata por igual error de red, status HTTP no-2xx y respuesta malformada:
// en los tres casos el lote se considera no aplicado.
func (c *Client) PostDataValueSet(ctx context.Context, set *DataValueSet) (*PushResponse, error) {
	body, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("dhis2: serializar dataValueSet: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/dataValueSets", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("dhis2: construir request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dhis2: enviar dataValueSet: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("dhis2: leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("dhis2: push rechazado con HTTP %d: %s", resp.StatusCode, truncate(raw, 200))
	}

	var pushResp PushResponse
	if err := json.Unmarshal(raw, &pushResp); err != nil {
		return nil, fmt.Errorf("dhis2: respuesta malformada: %w", err)
	}
	return &pushResp, nil
}

// FetchCatalog descarga el catálogo de insumos del establecimiento desde
// GET {base}/catalog?orgUnit=...
func (c *Client) FetchCatalog(ctx context.Context, orgUnit string) (*Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/catalog?orgUnit="+orgUnit, nil)
	if err != nil {
		return nil, fmt.Errorf("dhis2: construir request: %w", err)
	}
	req.SetBasicAuth(c.username, c.password)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dhis2: descargar catálogo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("dhis2: catálogo no disponible, HTTP %d: %s", resp.StatusCode, truncate(raw, 200))
	}
	var catalog Catalog
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("dhis2: catálogo malformado: %w", err)
	}
	return &catalog, nil
}

func truncate(b []byte, n int) string {
	s := string(b)
	if len(s) > n {
		return s[:n] + "…"
	}
	return s
}
