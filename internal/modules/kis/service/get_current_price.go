package service

import (
	"context"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
)

// CurrentPrice returns the last traded price for the symbol.
func (c *Client) CurrentPrice(ctx context.Context, code string) (float64, error) {
	raw, err := c.call(ctx, http.MethodGet,
		"/uapi/domestic-stock/v1/quotations/inquire-price",
		"FHKST01010100",
		map[string]string{
			"fid_cond_mrkt_div_code": "J",
			"fid_input_iscd":         code,
		}, nil)
	if err != nil {
		return 0, errors.Wrapf(err, "current price %s", code)
	}

	var pr currentPriceResponse
	if err := sonic.Unmarshal(raw, &pr); err != nil {
		return 0, errors.Wrapf(err, "decode current price %s", code)
	}
	if pr.ReturnCode != "0" {
		return 0, errors.Wrapf(models.ErrDataUnavailable, "current price %s: %s %s", code, pr.MsgCode, pr.Msg)
	}

	price := parseFloat(pr.Output.Price)
	if price <= 0 {
		return 0, errors.Wrapf(models.ErrDataUnavailable, "current price %s: non-positive", code)
	}
	return price, nil
}
