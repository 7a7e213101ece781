// Package etims implementa el cliente HTTP/JSON de la API OSCU de la KRA y la caché
// de catálogos de referencia.
package etims

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

// Client cliente OSCU. Un error de transporte (red, timeout, cuerpo ilegible) envuelve
// domain.ErrUpstreamTransport; un resultCd distinto de 000 NO es error a este nivel.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *Metrics
}

// NewClient construye el cliente. baseURL ej. https://etims-api-sbx.kra.go.ke/etims-api
func NewClient(baseURL string, timeout time.Duration, metrics *Metrics) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
	}
}

// InitDevice llama selectInitOsdcInfo. Aún no hay cmcKey: solo viajan tin y bhfId.
func (c *Client) InitDevice(ctx context.Context, req kra.InitRequest) (*kra.Exchange, error) {
	return c.post(ctx, kra.PathInitDevice, entity.Credential{TIN: req.Tin, BhfID: req.BhfID}, req)
}

// SaveSales envía una venta o nota crédito.
func (c *Client) SaveSales(ctx context.Context, cred entity.Credential, req kra.SalesRequest) (*kra.Exchange, error) {
	return c.post(ctx, kra.PathSaveSales, cred, req)
}

// InsertStockIO registra un movimiento de stock.
func (c *Client) InsertStockIO(ctx context.Context, cred entity.Credential, req kra.StockIORequest) (*kra.Exchange, error) {
	return c.post(ctx, kra.PathInsertStockIO, cred, req)
}

// SaveStockMaster informa el saldo de un artículo.
func (c *Client) SaveStockMaster(ctx context.Context, cred entity.Credential, req kra.StockMasterRequest) (*kra.Exchange, error) {
	return c.post(ctx, kra.PathSaveStockMaster, cred, req)
}

// SaveItem registra un artículo.
func (c *Client) SaveItem(ctx context.Context, cred entity.Credential, req kra.ItemRequest) (*kra.Exchange, error) {
	return c.post(ctx, kra.PathSaveItem, cred, req)
}

// SelectItemClasses consulta el catálogo de clasificaciones de artículos.
func (c *Client) SelectItemClasses(ctx context.Context, cred entity.Credential, req kra.ItemClassRequest) (*kra.Exchange, error) {
	return c.post(ctx, kra.PathItemClassList, cred, req)
}

// SelectCustomer consulta un contribuyente por PIN.
func (c *Client) SelectCustomer(ctx context.Context, cred entity.Credential, req kra.CustomerRequest) (*kra.Exchange, error) {
	return c.post(ctx, kra.PathCustomer, cred, req)
}

func (c *Client) post(ctx context.Context, path string, cred entity.Credential, body any) (*kra.Exchange, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("kra: serializar %s: %w", path, err)
	}
	res := &kra.Exchange{RawRequest: payload}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("kra: crear request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("tin", cred.TIN)
	req.Header.Set("bhfId", cred.BhfID)
	if cred.CmcKey != "" {
		req.Header.Set("cmcKey", cred.CmcKey)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.observe(path, "transport_error", time.Since(start).Seconds())
		if ctx.Err() != nil {
			return res, fmt.Errorf("%w: timeout o cancelación en %s: %v", domain.ErrUpstreamTransport, path, ctx.Err())
		}
		return res, fmt.Errorf("%w: %s: %v", domain.ErrUpstreamTransport, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		c.metrics.observe(path, "transport_error", time.Since(start).Seconds())
		return res, fmt.Errorf("%w: leer respuesta de %s: %v", domain.ErrUpstreamTransport, path, err)
	}
	res.RawResponse = raw

	if err := json.Unmarshal(raw, &res.Response); err != nil || res.Response.ResultCd == "" {
		c.metrics.observe(path, "transport_error", time.Since(start).Seconds())
		return res, fmt.Errorf("%w: %s respondió HTTP %d sin resultCd: %s",
			domain.ErrUpstreamTransport, path, resp.StatusCode, truncate(raw, 200))
	}
	c.metrics.observe(path, res.Response.ResultCd, time.Since(start).Seconds())
	return res, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
