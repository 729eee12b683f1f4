package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	vnpVersion    = "2.1.0"
	vnpCommand    = "pay"
	vnpCurrency   = "VND"
	vnpOrderType  = "other"
	vnpDateLayout = "20060102150405"
	vnpExpiry     = 15 * time.Minute

	ResponseSuccess = "00"
)

var (
	ErrInvalidSignature = errors.New("invalid vnpay signature")
	ErrInvalidTxnRef    = errors.New("invalid vnpay transaction reference")
	ErrNotConfigured    = errors.New("vnpay is not configured")
)

// gateway timestamps are always Vietnam local time
var vnLocation = time.FixedZone("ICT", 7*60*60)

// Config holds merchant credentials issued by VNPay.
type Config struct {
	TmnCode    string
	HashSecret string
	PayURL     string
	ReturnURL  string
}

// VNPay builds signed hosted-payment URLs and verifies return callbacks.
type VNPay struct {
	cfg    Config
	now    func() time.Time
	newRef func() string
}

func NewVNPay(cfg Config) *VNPay {
	return &VNPay{
		cfg: cfg,
		now: time.Now,
		newRef: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		},
	}
}

// URLRequest describes the order being paid.
type URLRequest struct {
	OrderID  int
	Amount   int64
	Language string
	ClientIP string
}

// BuildURL returns the gateway URL the customer is redirected to.
func (v *VNPay) BuildURL(req URLRequest) (string, error) {
	if v.cfg.TmnCode == "" || v.cfg.HashSecret == "" {
		return "", ErrNotConfigured
	}
	if req.OrderID <= 0 || req.Amount <= 0 {
		return "", fmt.Errorf("build vnpay url: order %d amount %d", req.OrderID, req.Amount)
	}
	ip := req.ClientIP
	if ip == "" {
		ip = "127.0.0.1"
	}

	now := v.now().In(vnLocation)
	params := url.Values{}
	params.Set("vnp_Version", vnpVersion)
	params.Set("vnp_Command", vnpCommand)
	params.Set("vnp_TmnCode", v.cfg.TmnCode)
	params.Set("vnp_Amount", strconv.FormatInt(req.Amount*100, 10))
	params.Set("vnp_CurrCode", vnpCurrency)
	params.Set("vnp_TxnRef", fmt.Sprintf("%d-%s", req.OrderID, v.newRef()))
	params.Set("vnp_OrderInfo", fmt.Sprintf("Thanh toan don hang %d", req.OrderID))
	params.Set("vnp_OrderType", vnpOrderType)
	params.Set("vnp_Locale", Locale(req.Language))
	params.Set("vnp_ReturnUrl", v.cfg.ReturnURL)
	params.Set("vnp_IpAddr", ip)
	params.Set("vnp_CreateDate", now.Format(vnpDateLayout))
	params.Set("vnp_ExpireDate", now.Add(vnpExpiry).Format(vnpDateLayout))

	query := params.Encode()
	return v.cfg.PayURL + "?" + query + "&vnp_SecureHash=" + v.sign(query), nil
}

// ReturnResult is the verified outcome reported by the gateway.
type ReturnResult struct {
	OrderID      int
	TxnRef       string
	Amount       int64
	ResponseCode string
	Success      bool
}

// VerifyReturn checks vnp_SecureHash over every other vnp_ parameter.
func (v *VNPay) VerifyReturn(q url.Values) (ReturnResult, error) {
	given := q.Get("vnp_SecureHash")
	if given == "" {
		return ReturnResult{}, ErrInvalidSignature
	}

	signed := url.Values{}
	for k, vals := range q {
		if !strings.HasPrefix(k, "vnp_") || k == "vnp_SecureHash" || k == "vnp_SecureHashType" {
			continue
		}
		signed[k] = vals
	}
	want := v.sign(signed.Encode())
	if !hmac.Equal([]byte(strings.ToLower(given)), []byte(want)) {
		return ReturnResult{}, ErrInvalidSignature
	}

	res := ReturnResult{
		TxnRef:       q.Get("vnp_TxnRef"),
		ResponseCode: q.Get("vnp_ResponseCode"),
	}
	orderPart, _, _ := strings.Cut(res.TxnRef, "-")
	id, err := strconv.Atoi(orderPart)
	if err != nil || id <= 0 {
		return ReturnResult{}, ErrInvalidTxnRef
	}
	res.OrderID = id

	if raw := q.Get("vnp_Amount"); raw != "" {
		amount, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return ReturnResult{}, fmt.Errorf("parse vnp_Amount: %w", err)
		}
		res.Amount = amount / 100
	}

	status := q.Get("vnp_TransactionStatus")
	res.Success = res.ResponseCode == ResponseSuccess && (status == "" || status == ResponseSuccess)
	return res, nil
}

func (v *VNPay) sign(data string) string {
	mac := hmac.New(sha512.New, []byte(v.cfg.HashSecret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

// Locale maps a UI language to the gateway locale; Vietnamese is "vn".
func Locale(lang string) string {
	switch strings.ToLower(lang) {
	case "", "vi", "vn":
		return "vn"
	default:
		return "en"
	}
}
