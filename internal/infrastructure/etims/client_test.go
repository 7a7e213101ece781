package etims_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cafeteria-api/internal/domain"
	"github.com/jhoicas/Cafeteria-api/internal/domain/entity"
	"github.com/jhoicas/Cafeteria-api/internal/infrastructure/etims"
	"github.com/jhoicas/Cafeteria-api/pkg/kra"
)

var cred = entity.Credential{TIN: "P051234567Q", BhfID: "00", CmcKey: "SECRET"}

func TestClient_SaveSales_EnviaHeadersYDecodifica(t *testing.T) {
	var gotPath string
	var gotHeaders http.Header
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotHeaders = r.Header.Clone()
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"resultCd":"000","resultMsg":"It is succeeded","resultDt":"20240305143015",
			"data":{"rcptNo":12,"intrlData":"INTR","rcptSign":"ABC123","totRcptNo":40,"vsdcRcptPbctDate":"20240305143016","sdcId":"KRACU01","mrcNo":"WIS01"}}`))
	}))
	defer srv.Close()

	c := etims.NewClient(srv.URL+"/etims-api/", 5*time.Second, etims.NewMetrics(nil))
	res, err := c.SaveSales(context.Background(), cred, kra.SalesRequest{Tin: cred.TIN, InvcNo: 3})
	require.NoError(t, err)

	assert.Equal(t, "/etims-api"+kra.PathSaveSales, gotPath)
	assert.Equal(t, "P051234567Q", gotHeaders.Get("tin"))
	assert.Equal(t, "00", gotHeaders.Get("bhfId"))
	assert.Equal(t, "SECRET", gotHeaders.Get("cmcKey"))
	assert.EqualValues(t, 3, gotBody["invcNo"])

	assert.True(t, res.Response.OK())
	var receipt kra.SalesReceipt
	require.NoError(t, res.Response.DecodeData(&receipt))
	assert.Equal(t, "ABC123", receipt.RcptSign)
	assert.Equal(t, int64(12), receipt.RcptNo)
	assert.Equal(t, int64(40), receipt.TotRcptNo)
	assert.NotEmpty(t, res.RawRequest)
	assert.NotEmpty(t, res.RawResponse)
}

func TestClient_ResultadoDistintoDe000NoEsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"resultCd":"910","resultMsg":"Request parameter error","data":null}`))
	}))
	defer srv.Close()

	c := etims.NewClient(srv.URL, 5*time.Second, nil)
	res, err := c.SaveItem(context.Background(), cred, kra.ItemRequest{})
	require.NoError(t, err)
	assert.False(t, res.Response.OK())
	assert.Equal(t, "Request parameter error", res.Response.ResultMsg)
}

func TestClient_RespuestaIlegible_ErrorDeTransporte(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer srv.Close()

	c := etims.NewClient(srv.URL, 5*time.Second, nil)
	_, err := c.InsertStockIO(context.Background(), cred, kra.StockIORequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstreamTransport))
	assert.Contains(t, err.Error(), "502")
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := etims.NewClient(srv.URL, 50*time.Millisecond, nil)
	_, err := c.InitDevice(context.Background(), kra.InitRequest{Tin: cred.TIN, BhfID: "00", DvcSrlNo: "dvc"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUpstreamTransport))
}

func TestRedisCache_SinClienteNuncaAcierta(t *testing.T) {
	cache := etims.NewRedisCache(nil, time.Hour, nil)
	var v []kra.ItemClass
	hit, err := cache.Get(context.Background(), "item_classes", &v)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NoError(t, cache.Set(context.Background(), "item_classes", v))
}
