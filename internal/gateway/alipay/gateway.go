package alipay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"shop/internal/entities"
	"shop/internal/service/payment"
	retrierconfig "shop/pkg/retrier"
	"shop/pkg/retrier/backoff_adapter"
)

const (
	serviceName = "alipay"
)

const (
	methodPagePay = "alipay.trade.page.pay"
	methodQuery   = "alipay.trade.query"
	methodClose   = "alipay.trade.close"
	methodRefund  = "alipay.trade.refund"

	productCode    = "FAST_INSTANT_TRADE_PAY"
	timeoutExpress = "30m"

	codeSuccess     = "10000"
	codeUnavailable = "20000"

	subCodeTradeNotExist    = "ACQ.TRADE_NOT_EXIST"
	subCodeTradeStatusError = "ACQ.TRADE_STATUS_ERROR"
	subCodeSystemError      = "ACQ.SYSTEM_ERROR"

	timestampLayout = "2006-01-02 15:04:05"
	maxResponseSize = 1 << 20
)

const (
	initialInterval = 100 * time.Millisecond
	maxInterval     = 2 * time.Second
	maxElapsedTime  = 3 * time.Second
	randomization   = 0.5
	multiplier      = 2.0
	maxRetries      = 3
)

// провайдер ждёт timestamp по пекинскому времени
var providerZone = time.FixedZone("CST", 8*60*60)

type Config struct {
	AppID             string
	PrivateKey        string
	ProviderPublicKey string
	GatewayURL        string
	NotifyURL         string
	ReturnURL         string
}

type Gateway struct {
	cfg     Config
	signer  *signer
	client  httpDoer
	retrier retrier
	now     func() time.Time
}

func New(cfg Config, client httpDoer) (*Gateway, error) {
	privateKey, err := ParsePrivateKey(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("gateway alipay: %w", err)
	}

	publicKey, err := ParsePublicKey(cfg.ProviderPublicKey)
	if err != nil {
		return nil, fmt.Errorf("gateway alipay: %w", err)
	}

	retryConfig := retrierconfig.Config{
		InitialInterval: initialInterval,
		MaxInterval:     maxInterval,
		MaxElapsedTime:  maxElapsedTime,
		Randomization:   randomization,
		Multiplier:      multiplier,
		MaxRetries:      maxRetries,
		ShouldRetry:     isTransient,
	}

	return &Gateway{
		cfg:     cfg,
		signer:  &signer{privateKey: privateKey, publicKey: publicKey},
		client:  client,
		retrier: backoff_adapter.New(retryConfig),
		now:     time.Now,
	}, nil
}

// PagePayURL строит подписанную ссылку на страницу оплаты. Сеть не используется.
func (g *Gateway) PagePayURL(_ context.Context, req entities.PagePayRequest) (string, error) {
	biz := pagePayBizContent{
		OutTradeNo:     outTradeNo(req.OrderID),
		ProductCode:    productCode,
		TotalAmount:    req.Amount.StringFixed(2),
		Subject:        req.Subject,
		Body:           "order " + outTradeNo(req.OrderID),
		TimeoutExpress: timeoutExpress,
	}

	params, err := g.signedParams(methodPagePay, biz, true)
	if err != nil {
		return "", fmt.Errorf("gateway alipay, page pay: %w", err)
	}

	return g.cfg.GatewayURL + "?" + params.Encode(), nil
}

func (g *Gateway) QueryTrade(ctx context.Context, orderID int64) (*entities.TradeQueryResult, error) {
	var resp queryResponse

	err := g.execute(ctx, methodQuery, tradeBizContent{OutTradeNo: outTradeNo(orderID)}, &resp)
	if err != nil {
		return nil, fmt.Errorf("gateway alipay, query trade %d: %w", orderID, err)
	}

	switch {
	case resp.Code == codeSuccess:
		return toTradeQueryResult(&resp)
	case resp.SubCode == subCodeTradeNotExist:
		// покупатель ещё не открывал страницу оплаты
		return &entities.TradeQueryResult{Found: false}, nil
	default:
		return nil, fmt.Errorf("gateway alipay, query trade %d: %w: %s", orderID, payment.ErrGatewayUnavailable, describe(resp.commonResponse))
	}
}

func (g *Gateway) CloseTrade(ctx context.Context, orderID int64) error {
	var resp commonResponse

	err := g.execute(ctx, methodClose, tradeBizContent{OutTradeNo: outTradeNo(orderID)}, &resp)
	if err != nil {
		return fmt.Errorf("gateway alipay, close trade %d: %w", orderID, err)
	}

	switch {
	case resp.Code == codeSuccess, resp.SubCode == subCodeTradeNotExist:
		return nil
	case resp.SubCode == subCodeTradeStatusError:
		return fmt.Errorf("gateway alipay, close trade %d: %w: %s", orderID, payment.ErrTradeNotClosable, describe(resp))
	default:
		return fmt.Errorf("gateway alipay, close trade %d: %w: %s", orderID, payment.ErrGatewayUnavailable, describe(resp))
	}
}

func (g *Gateway) Refund(ctx context.Context, req entities.RefundRequest) (*entities.RefundResult, error) {
	biz := refundBizContent{
		OutTradeNo:   outTradeNo(req.OrderID),
		RefundAmount: req.Amount.StringFixed(2),
		RefundReason: req.Reason,
		OutRequestNo: req.RequestNo,
	}

	var resp refundResponse

	err := g.execute(ctx, methodRefund, biz, &resp)
	if err != nil {
		return nil, fmt.Errorf("gateway alipay, refund %d: %w", req.OrderID, err)
	}

	if resp.Code != codeSuccess {
		return nil, fmt.Errorf("gateway alipay, refund %d: %w: %s", req.OrderID, payment.ErrRefundRejected, describe(resp.commonResponse))
	}

	return toRefundResult(&resp)
}

// VerifyNotification проверяет подпись асинхронного уведомления и разбирает его.
// sign и sign_type в подписываемую строку не входят.
func (g *Gateway) VerifyNotification(values url.Values) (*entities.PaymentNotification, error) {
	signature := values.Get("sign")
	if signature == "" {
		return nil, fmt.Errorf("%w: missing sign", payment.ErrInvalidSignature)
	}

	err := g.signer.verify(canonicalString(values, "sign", "sign_type"), signature)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", payment.ErrInvalidSignature, err)
	}

	if appID := values.Get("app_id"); appID != "" && appID != g.cfg.AppID {
		return nil, fmt.Errorf("%w: foreign app_id %q", payment.ErrInvalidSignature, appID)
	}

	return toNotification(values)
}

func (g *Gateway) signedParams(method string, biz any, withRedirects bool) (url.Values, error) {
	bizContent, err := json.Marshal(biz)
	if err != nil {
		return nil, fmt.Errorf("marshal biz_content: %w", err)
	}

	params := url.Values{}
	params.Set("app_id", g.cfg.AppID)
	params.Set("method", method)
	params.Set("format", "JSON")
	params.Set("charset", "utf-8")
	params.Set("sign_type", "RSA2")
	params.Set("timestamp", g.now().In(providerZone).Format(timestampLayout))
	params.Set("version", "1.0")
	params.Set("biz_content", string(bizContent))

	if withRedirects {
		params.Set("notify_url", g.cfg.NotifyURL)
		params.Set("return_url", g.cfg.ReturnURL)
	}

	signature, err := g.signer.sign(canonicalString(params, "sign"))
	if err != nil {
		return nil, err
	}
	params.Set("sign", signature)

	return params, nil
}

// execute отправляет подписанный запрос, проверяет подпись ответа и раскладывает
// узел <method>_response в out. Бизнес-код ответа разбирает вызывающий.
func (g *Gateway) execute(ctx context.Context, method string, biz any, out any) error {
	params, err := g.signedParams(method, biz, false)
	if err != nil {
		return err
	}

	var node json.RawMessage

	err = g.executeWithMetrics(ctx, method, func(ctx context.Context) error {
		var err error
		node, err = g.post(ctx, method, params)
		return err
	})
	if err != nil {
		return err
	}

	if err := json.Unmarshal(node, out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", payment.ErrGatewayUnavailable, method, err)
	}
	return nil
}

func (g *Gateway) post(ctx context.Context, method string, params url.Values) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.GatewayURL, strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded;charset=utf-8")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, transient(fmt.Errorf("%w: %w", payment.ErrGatewayUnavailable, err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, transient(fmt.Errorf("%w: read body: %w", payment.ErrGatewayUnavailable, err))
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, transient(fmt.Errorf("%w: http status %d", payment.ErrGatewayUnavailable, resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: http status %d", payment.ErrGatewayUnavailable, resp.StatusCode)
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode envelope: %w", payment.ErrGatewayUnavailable, err)
	}

	node, ok := envelope[responseKey(method)]
	if !ok {
		node, ok = envelope["error_response"]
	}
	if !ok {
		return nil, fmt.Errorf("%w: no %s in response", payment.ErrGatewayUnavailable, responseKey(method))
	}

	// ошибки шлюза приходят без подписи, успешные ответы подписаны всегда
	var sign string
	if raw, ok := envelope["sign"]; ok {
		if err := json.Unmarshal(raw, &sign); err != nil {
			return nil, fmt.Errorf("%w: decode sign: %w", payment.ErrGatewayUnavailable, err)
		}
	}

	var common commonResponse
	if err := json.Unmarshal(node, &common); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", payment.ErrGatewayUnavailable, method, err)
	}

	if sign == "" && common.Code == codeSuccess {
		return nil, fmt.Errorf("%w: unsigned response", payment.ErrInvalidSignature)
	}
	if sign != "" {
		if err := g.signer.verify(string(node), sign); err != nil {
			return nil, fmt.Errorf("%w: response: %w", payment.ErrInvalidSignature, err)
		}
	}

	if common.Code == codeUnavailable || common.SubCode == subCodeSystemError {
		return nil, transient(fmt.Errorf("%w: %s", payment.ErrGatewayUnavailable, describe(common)))
	}

	return node, nil
}

func (g *Gateway) executeWithMetrics(ctx context.Context, method string, fn func(context.Context) error) error {
	var attempt uint64
	start := time.Now()

	err := g.retrier.ExecuteWithContext(ctx, func(ctx context.Context) error {
		attempt++
		return fn(ctx)
	})

	code := resultCode(err)
	GatewayRequestDuration.WithLabelValues(serviceName, method, code).Observe(time.Since(start).Seconds())

	if attempt > 1 {
		GatewayRetriesTotal.WithLabelValues(serviceName, method, code).Inc()
	}

	return err
}

type transientError struct {
	err error
}

func (e *transientError) Error() string {
	return e.err.Error()
}

func (e *transientError) Unwrap() error {
	return e.err
}

func transient(err error) error {
	return &transientError{err: err}
}

func isTransient(err error) bool {
	var t *transientError
	return errors.As(err, &t)
}

func resultCode(err error) string {
	switch {
	case err == nil:
		return "OK"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "CANCELLED"
	case errors.Is(err, payment.ErrInvalidSignature):
		return "INVALID_SIGNATURE"
	case isTransient(err):
		return "UNAVAILABLE"
	default:
		return "UNKNOWN"
	}
}

func responseKey(method string) string {
	return strings.ReplaceAll(method, ".", "_") + "_response"
}

func describe(resp commonResponse) string {
	parts := []string{"code=" + resp.Code}
	if resp.SubCode != "" {
		parts = append(parts, "sub_code="+resp.SubCode)
	}
	if msg := resp.SubMsg; msg != "" {
		parts = append(parts, "msg="+strconv.Quote(msg))
	} else if resp.Msg != "" {
		parts = append(parts, "msg="+strconv.Quote(resp.Msg))
	}
	return strings.Join(parts, " ")
}
