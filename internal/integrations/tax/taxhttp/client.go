package taxhttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/models"
	"github.com/pkg/errors"
)

// Client ходит в центральный налоговый сервис. Контракт тот же, что у
// gstlocal; выбирается конфигом.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

func New(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:9100"
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

type respBody struct {
	CGST     float64 `json:"cgst"`
	SGST     float64 `json:"sgst"`
	IGST     float64 `json:"igst"`
	TotalGST float64 `json:"total_gst"`
}

func (c *Client) Calculate(ctx context.Context, originState, destState string, amount float64) (models.TaxBreakup, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return models.TaxBreakup{}, errors.Wrap(err, "parse base url")
	}
	u.Path = "/v1/gst/calculate"
	q := u.Query()
	q.Set("originState", originState)
	q.Set("destState", destState)
	q.Set("amount", strconv.FormatFloat(amount, 'f', 2, 64))
	if c.apiKey != "" {
		q.Set("apiKey", c.apiKey)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return models.TaxBreakup{}, errors.Wrap(err, "new request")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return models.TaxBreakup{}, errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return models.TaxBreakup{}, fmt.Errorf("tax service http %d", resp.StatusCode)
	}

	var rb respBody
	if err := json.NewDecoder(resp.Body).Decode(&rb); err != nil {
		return models.TaxBreakup{}, errors.Wrap(err, "decode")
	}

	return models.TaxBreakup{
		CGST:     rb.CGST,
		SGST:     rb.SGST,
		IGST:     rb.IGST,
		TotalGST: rb.TotalGST,
	}, nil
}
