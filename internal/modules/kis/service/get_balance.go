package service

import (
	"context"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/pkg/errors"

	"github.com/HyunWoo9930/AutoTrade/internal/models"
)

func (c *Client) accountParts() (cano, prdtCd string) {
	if i := strings.Index(c.accountNo, "-"); i >= 0 {
		return c.accountNo[:i], c.accountNo[i+1:]
	}
	return c.accountNo, "01"
}

func (c *Client) inquireBalance(ctx context.Context) (*balanceResponse, error) {
	cano, prdtCd := c.accountParts()
	raw, err := c.call(ctx, http.MethodGet,
		"/uapi/domestic-stock/v1/trading/inquire-balance",
		"VTTC8434R",
		map[string]string{
			"CANO":                  cano,
			"ACNT_PRDT_CD":          prdtCd,
			"AFHR_FLPR_YN":          "N",
			"OFL_YN":                "",
			"INQR_DVSN":             "02",
			"UNPR_DVSN":             "01",
			"FUND_STTL_ICLD_YN":     "N",
			"FNCG_AMT_AUTO_RDPT_YN": "N",
			"PRCS_DVSN":             "01",
			"CTX_AREA_FK100":        "",
			"CTX_AREA_NK100":        "",
		}, nil)
	if err != nil {
		return nil, errors.Wrap(err, "inquire balance")
	}

	var br balanceResponse
	if err := sonic.Unmarshal(raw, &br); err != nil {
		return nil, errors.Wrap(err, "decode balance")
	}
	if br.ReturnCode != "0" {
		return nil, errors.Wrapf(models.ErrDataUnavailable, "balance: %s %s", br.MsgCode, br.Msg)
	}
	return &br, nil
}

// Balance returns the free cash and total account equity.
func (c *Client) Balance(ctx context.Context) (models.AccountBalance, error) {
	br, err := c.inquireBalance(ctx)
	if err != nil {
		return models.AccountBalance{}, err
	}
	if len(br.Output2) == 0 {
		return models.AccountBalance{}, errors.Wrap(models.ErrDataUnavailable, "balance: empty summary")
	}
	sum := br.Output2[0]
	return models.AccountBalance{
		Cash:        parseFloat(sum.Cash),
		TotalEquity: parseFloat(sum.TotalEquity),
	}, nil
}

// OpenPositions returns the holdings with non-zero quantity.
func (c *Client) OpenPositions(ctx context.Context) ([]models.Holding, error) {
	br, err := c.inquireBalance(ctx)
	if err != nil {
		return nil, err
	}

	holdings := make([]models.Holding, 0, len(br.Output1))
	for _, row := range br.Output1 {
		qty := parseInt(row.Quantity)
		if qty <= 0 {
			continue
		}
		holdings = append(holdings, models.Holding{
			Code:          row.Code,
			Name:          row.Name,
			Quantity:      qty,
			AvgPrice:      parseFloat(row.AvgPrice),
			UnrealizedPct: parseFloat(row.UnrealizedPct),
		})
	}
	return holdings, nil
}
