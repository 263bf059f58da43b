package service

// Typed wire records for the KIS OpenAPI. The engine never sees these;
// every response is converted to a domain model at this boundary.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

type apiHeader struct {
	ReturnCode string `json:"rt_cd"`
	MsgCode    string `json:"msg_cd"`
	Msg        string `json:"msg1"`
}

type dailyPriceRow struct {
	Date   string `json:"stck_bsop_date"`
	Open   string `json:"stck_oprc"`
	High   string `json:"stck_hgpr"`
	Low    string `json:"stck_lwpr"`
	Close  string `json:"stck_clpr"`
	Volume string `json:"acml_vol"`
}

type dailyPriceResponse struct {
	apiHeader
	Output []dailyPriceRow `json:"output"`
}

type currentPriceResponse struct {
	apiHeader
	Output struct {
		Price string `json:"stck_prpr"`
	} `json:"output"`
}

type holdingRow struct {
	Code          string `json:"pdno"`
	Name          string `json:"prdt_name"`
	Quantity      string `json:"hldg_qty"`
	AvgPrice      string `json:"pchs_avg_pric"`
	CurrentPrice  string `json:"prpr"`
	UnrealizedPct string `json:"evlu_pfls_rt"`
}

type balanceSummaryRow struct {
	Cash        string `json:"dnca_tot_amt"`
	TotalEquity string `json:"tot_evlu_amt"`
}

type balanceResponse struct {
	apiHeader
	Output1 []holdingRow        `json:"output1"`
	Output2 []balanceSummaryRow `json:"output2"`
}

type orderResponse struct {
	apiHeader
	Output struct {
		OrderNo string `json:"ODNO"`
	} `json:"output"`
}
