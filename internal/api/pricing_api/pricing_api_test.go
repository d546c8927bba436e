package pricing_api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	result *models.PricingResult
	zone   models.ZoneResult
	err    error

	lastReq models.PricingRequest
}

func (f *fakeService) CalculatePricing(ctx context.Context, req models.PricingRequest) (*models.PricingResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeService) ResolveZone(ctx context.Context, from, to string) (models.ZoneResult, error) {
	if f.err != nil {
		return models.ZoneResult{}, f.err
	}
	return f.zone, nil
}

type fakeLimiter struct {
	allowed bool
	err     error
	key     string
}

func (f *fakeLimiter) Allow(ctx context.Context, key string, limit int64, window time.Duration) (bool, int64, error) {
	f.key = key
	return f.allowed, 1, f.err
}

type fakePinger struct{ err error }

func (f *fakePinger) Ping(ctx context.Context) error { return f.err }

func okResult() *models.PricingResult {
	return &models.PricingResult{
		Subtotal: 100,
		Tax:      models.TaxBreakup{CGST: 9, SGST: 9, TotalGST: 18},
		Total:    118,
		Metadata: models.PricingMetadata{RateCardID: "rc1", Zone: models.ZoneA},
	}
}

func calculateBody(t *testing.T) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(models.PricingRequest{
		CompanyID:   "c1",
		FromPincode: "110001",
		ToPincode:   "110092",
		Weight:      1.5,
		Carrier:     "delhivery",
		ServiceType: "surface",
	})
	require.NoError(t, err)
	return bytes.NewReader(b)
}

func TestCalculate_OK(t *testing.T) {
	svc := &fakeService{result: okResult()}
	srv := httptest.NewServer(New(svc, Options{}).Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/pricing/calculate", "application/json", calculateBody(t))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var got models.PricingResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Equal(t, 118.0, got.Total)
	require.Equal(t, "rc1", got.Metadata.RateCardID)
	require.Equal(t, "c1", svc.lastReq.CompanyID)
	require.Equal(t, 1.5, svc.lastReq.Weight)
}

func TestCalculate_BadBody(t *testing.T) {
	srv := httptest.NewServer(New(&fakeService{result: okResult()}, Options{}).Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/pricing/calculate", "application/json", bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/v1/pricing/calculate", "application/json", bytes.NewReader([]byte(`{"weight":1}`)))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCalculate_ErrorMapping(t *testing.T) {
	cases := []struct {
		code models.ErrorCode
		want int
	}{
		{models.ErrCodeInvalidPincode, http.StatusBadRequest},
		{models.ErrCodeNoRateForCarrierService, http.StatusUnprocessableEntity},
		{models.ErrCodeNoDefaultRateCard, http.StatusUnprocessableEntity},
		{models.ErrCodeRateCardNotActive, http.StatusUnprocessableEntity},
		{models.ErrCodeNoWeightSlab, http.StatusUnprocessableEntity},
		{models.ErrCodeAmbiguousRateCard, http.StatusConflict},
		{models.ErrCodeUpstreamUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			svc := &fakeService{err: models.NewError(tc.code, "boom")}
			srv := httptest.NewServer(New(svc, Options{}).Router())
			defer srv.Close()

			resp, err := http.Post(srv.URL+"/v1/pricing/calculate", "application/json", calculateBody(t))
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, tc.want, resp.StatusCode)

			var b errorBody
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&b))
			require.Equal(t, string(tc.code), b.Error.Code)
		})
	}
}

func TestCalculate_UntypedErrorIs400(t *testing.T) {
	svc := &fakeService{err: errors.New("weight must be positive")}
	srv := httptest.NewServer(New(svc, Options{}).Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/pricing/calculate", "application/json", calculateBody(t))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCalculate_QuoteLimit(t *testing.T) {
	lim := &fakeLimiter{allowed: false}
	srv := httptest.NewServer(New(&fakeService{result: okResult()}, Options{
		QuoteLimit: 10,
		Limiter:    lim,
	}).Router())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/pricing/calculate", "application/json", calculateBody(t))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	require.Equal(t, "quota:quote:c1", lim.key)

	// лимитер лежит — запрос проходит
	lim.err = errors.New("redis down")
	resp, err = http.Post(srv.URL+"/v1/pricing/calculate", "application/json", calculateBody(t))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestZonePreview(t *testing.T) {
	svc := &fakeService{zone: models.ZoneResult{Zone: models.ZoneC, Source: models.ZoneSourceLocal}}
	srv := httptest.NewServer(New(svc, Options{}).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/zones/110001/400001")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got models.ZoneResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	require.Equal(t, models.ZoneC, got.Zone)
}

func TestHealthAndReady(t *testing.T) {
	p := &fakePinger{}
	srv := httptest.NewServer(New(&fakeService{}, Options{Ready: p}).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	p.err = errors.New("pg down")
	resp, err = http.Get(srv.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := httptest.NewServer(New(&fakeService{}, Options{}).Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
