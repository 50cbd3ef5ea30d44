package bitget

// coinsResponse is the envelope of GET /api/v2/spot/public/coins. Bitget
// returns "00000" as the success code; everything, including booleans, is a
// string on the wire.
type coinsResponse struct {
	Code string     `json:"code"`
	Msg  string     `json:"msg"`
	Data []coinInfo `json:"data"`
}

type coinInfo struct {
	CoinID string      `json:"coinId"`
	Coin   string      `json:"coin"`
	Chains []chainInfo `json:"chains"`
}

type chainInfo struct {
	Chain             string `json:"chain"`
	Withdrawable      string `json:"withdrawable"`
	Rechargeable      string `json:"rechargeable"`
	WithdrawFee       string `json:"withdrawFee"`
	MinWithdrawAmount string `json:"minWithdrawAmount"`
	BrowserURL        string `json:"browserUrl"`
	ContractAddress   string `json:"contractAddress"`
	Congestion        string `json:"congestion"`
}
