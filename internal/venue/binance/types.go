package binance

// coinInfo is one entry of the /sapi/v1/capital/config/getall response.
// Numeric amounts arrive as strings on the wire.
type coinInfo struct {
	Coin        string        `json:"coin"`
	Name        string        `json:"name"`
	NetworkList []networkInfo `json:"networkList"`
}

type networkInfo struct {
	Network         string `json:"network"`
	Name            string `json:"name"`
	ContractAddress string `json:"contractAddress"`
	WithdrawMin     string `json:"withdrawMin"`
	WithdrawFee     string `json:"withdrawFee"`
	DepositEnable   bool   `json:"depositEnable"`
	WithdrawEnable  bool   `json:"withdrawEnable"`
}

// apiError is the error envelope Binance returns with non-2xx statuses.
type apiError struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}
