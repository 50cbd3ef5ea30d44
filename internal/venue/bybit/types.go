package bybit

// coinInfoResponse is the envelope of GET /v5/asset/coin/query-info.
type coinInfoResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		Rows []coinRow `json:"rows"`
	} `json:"result"`
}

type coinRow struct {
	Name         string      `json:"name"`
	Coin         string      `json:"coin"`
	RemainAmount string      `json:"remainAmount"`
	Chains       []chainInfo `json:"chains"`
}

// chainInfo carries one chain's terms. Amounts are decimal strings;
// ChainDeposit and ChainWithdraw are "1"/"0" flags. An empty WithdrawFee
// means the chain does not support withdrawals at all, as opposed to "0"
// which means free withdrawals.
type chainInfo struct {
	Chain           string `json:"chain"`
	ChainType       string `json:"chainType"`
	ContractAddress string `json:"contractAddress"`
	WithdrawFee     string `json:"withdrawFee"`
	WithdrawMin     string `json:"withdrawMin"`
	DepositMin      string `json:"depositMin"`
	ChainDeposit    string `json:"chainDeposit"`
	ChainWithdraw   string `json:"chainWithdraw"`
	Confirmation    string `json:"confirmation"`
}
