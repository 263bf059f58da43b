package service

import (
	"context"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
	"github.com/HyunWoo9930/AutoTrade/pkg/logger"
)

const (
	trOrderBuy  = "VTTC0802U"
	trOrderSell = "VTTC0801U"
)

func (c *Client) placeOrder(ctx context.Context, trID, code string, qty int) (string, error) {
	cano, prdtCd := c.accountParts()
	raw, err := c.call(ctx, http.MethodPost,
		"/uapi/domestic-stock/v1/trading/order-cash",
		trID,
		nil,
		map[string]string{
			"CANO":         cano,
			"ACNT_PRDT_CD": prdtCd,
			"PDNO":         code,
			"ORD_DVSN":     "01", // market order
			"ORD_QTY":      strconv.Itoa(qty),
			"ORD_UNPR":     "0",
		})
	if err != nil {
		return "", errors.Wrapf(err, "order %s qty=%d", code, qty)
	}

	var or orderResponse
	if err := sonic.Unmarshal(raw, &or); err != nil {
		return "", errors.Wrapf(err, "decode order %s", code)
	}
	if or.ReturnCode != "0" {
		return "", errors.Wrapf(models.ErrOrderRejected, "order %s qty=%d: %s %s", code, qty, or.MsgCode, or.Msg)
	}
	return or.Output.OrderNo, nil
}

// PlaceBuy submits a market buy. Returns the broker order number.
func (c *Client) PlaceBuy(ctx context.Context, code string, qty int) (string, error) {
	if qty <= 0 {
		return "", errors.Wrapf(models.ErrOrderRejected, "buy %s: non-positive quantity %d", code, qty)
	}
	no, err := c.placeOrder(ctx, trOrderBuy, code, qty)
	if err != nil {
		return "", err
	}
	logger.Info("buy order accepted: %s x%d (order %s)", code, qty, no)
	return no, nil
}

// PlaceSell submits a market sell. Returns the broker order number.
func (c *Client) PlaceSell(ctx context.Context, code string, qty int) (string, error) {
	if qty <= 0 {
		return "", errors.Wrapf(models.ErrOrderRejected, "sell %s: non-positive quantity %d", code, qty)
	}
	no, err := c.placeOrder(ctx, trOrderSell, code, qty)
	if err != nil {
		return "", err
	}
	logger.Info("sell order accepted: %s x%d (order %s)", code, qty, no)
	return no, nil
}
