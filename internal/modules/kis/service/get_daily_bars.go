package service

import (
	"context"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
)

// DailyBars returns up to count daily candles for the symbol, oldest
// first. KIS responds newest-first; the slice is reversed here.
func (c *Client) DailyBars(ctx context.Context, code string, count int) ([]models.Bar, error) {
	raw, err := c.call(ctx, http.MethodGet,
		"/uapi/domestic-stock/v1/quotations/inquire-daily-price",
		"FHKST01010400",
		map[string]string{
			"fid_cond_mrkt_div_code": "J",
			"fid_input_iscd":         code,
			"fid_org_adj_prc":        "0",
			"fid_period_div_code":    "D",
		}, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "daily bars %s", code)
	}

	var dr dailyPriceResponse
	if err := sonic.Unmarshal(raw, &dr); err != nil {
		return nil, errors.Wrapf(err, "decode daily bars %s", code)
	}
	if dr.ReturnCode != "0" {
		return nil, errors.Wrapf(models.ErrDataUnavailable, "daily bars %s: %s %s", code, dr.MsgCode, dr.Msg)
	}
	if len(dr.Output) == 0 {
		return nil, errors.Wrapf(models.ErrDataUnavailable, "daily bars %s: empty output", code)
	}

	bars := make([]models.Bar, 0, len(dr.Output))
	// Newest first on the wire; reverse into chronological order.
	for i := len(dr.Output) - 1; i >= 0; i-- {
		row := dr.Output[i]
		date, err := time.Parse("20060102", row.Date)
		if err != nil {
			continue
		}
		bars = append(bars, models.Bar{
			Date:   date,
			Open:   parseFloat(row.Open),
			High:   parseFloat(row.High),
			Low:    parseFloat(row.Low),
			Close:  parseFloat(row.Close),
			Volume: parseFloat(row.Volume),
		})
	}
	if count > 0 && len(bars) > count {
		bars = bars[len(bars)-count:]
	}
	return bars, nil
}
