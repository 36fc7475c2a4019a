package alipay

type pagePayBizContent struct {
	OutTradeNo     string `json:"out_trade_no"`
	ProductCode    string `json:"product_code"`
	TotalAmount    string `json:"total_amount"`
	Subject        string `json:"subject"`
	Body           string `json:"body,omitempty"`
	TimeoutExpress string `json:"timeout_express,omitempty"`
}

type tradeBizContent struct {
	OutTradeNo string `json:"out_trade_no"`
}

type refundBizContent struct {
	OutTradeNo   string `json:"out_trade_no"`
	RefundAmount string `json:"refund_amount"`
	RefundReason string `json:"refund_reason,omitempty"`
	OutRequestNo string `json:"out_request_no"`
}

type commonResponse struct {
	Code    string `json:"code"`
	Msg     string `json:"msg"`
	SubCode string `json:"sub_code"`
	SubMsg  string `json:"sub_msg"`
}

type queryResponse struct {
	commonResponse
	TradeNo     string `json:"trade_no"`
	OutTradeNo  string `json:"out_trade_no"`
	TradeStatus string `json:"trade_status"`
	TotalAmount string `json:"total_amount"`
}

type refundResponse struct {
	commonResponse
	TradeNo    string `json:"trade_no"`
	OutTradeNo string `json:"out_trade_no"`
	RefundFee  string `json:"refund_fee"`
	FundChange string `json:"fund_change"`
}
