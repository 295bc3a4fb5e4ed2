package submitpayment

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mkamau/daraja-gateway/internal/domain/auth"
	"github.com/mkamau/daraja-gateway/internal/domain/credentials"
	"github.com/mkamau/daraja-gateway/internal/domain/payment"
	"github.com/mkamau/daraja-gateway/internal/infrastructure/observability"
)

// msisdnPattern is the provider's international phone format: country code
// 254 followed by nine digits, no plus sign.
var msisdnPattern = regexp.MustCompile(`^254[0-9]{9}$`)

const (
	defaultAccountReference = "gateway"
	defaultTransactionDesc  = "Push payment"
)

type Request struct {
	PhoneNumber            string
	Amount                 int64
	AccountReference       string
	TransactionDescription string
}

type Response struct {
	MerchantRequestID   string
	CheckoutRequestID   string
	ResponseCode        string
	ResponseDescription string
	CustomerMessage     string
	Accepted            bool
}

// Config carries the merchant-side constants every submission needs.
// Now is the injected clock; it defaults to time.Now.
type Config struct {
	ShortCode   string
	Passkey     string
	CallbackURL string
	Now         func() time.Time
}

type UseCase struct {
	tokens  auth.Source
	pusher  payment.Pusher
	cfg     Config
	logger  *zap.Logger
	metrics *observability.Metrics
}

func NewUseCase(tokens auth.Source, pusher payment.Pusher, cfg Config, logger *zap.Logger, metrics *observability.Metrics) *UseCase {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &UseCase{
		tokens:  tokens,
		pusher:  pusher,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
	}
}

// Execute validates the request, then acquires a token, derives fresh
// credentials, and issues exactly one push call. Validation happens before
// any network traffic; the timestamp is taken after the token is in hand so
// the staleness window between derivation and arrival stays small.
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	if err := validate(req); err != nil {
		uc.metrics.SubmissionObserved(observability.OutcomeValidationError)
		return nil, err
	}

	log := uc.logger.With(
		zap.String("submission_id", uuid.New().String()),
		zap.String("phone", maskPhone(req.PhoneNumber)),
		zap.Int64("amount", req.Amount),
	)

	token, err := uc.tokens.Token(ctx)
	if err != nil {
		uc.metrics.SubmissionObserved(observability.OutcomeAuthError)
		log.Error("token acquisition failed", zap.Error(err))
		return nil, err
	}

	creds, err := credentials.Build(uc.cfg.ShortCode, uc.cfg.Passkey, uc.cfg.Now())
	if err != nil {
		return nil, err
	}

	accountRef := req.AccountReference
	if accountRef == "" {
		accountRef = defaultAccountReference
	}
	desc := req.TransactionDescription
	if desc == "" {
		desc = defaultTransactionDesc
	}

	result, err := uc.pusher.Push(ctx, token.Value, payment.Payload{
		BusinessShortCode: creds.ShortCode,
		Password:          creds.Password,
		Timestamp:         creds.Timestamp,
		TransactionType:   payment.TransactionTypePayBill,
		Amount:            req.Amount,
		PartyA:            req.PhoneNumber,
		PartyB:            creds.ShortCode,
		PhoneNumber:       req.PhoneNumber,
		CallBackURL:       uc.cfg.CallbackURL,
		AccountReference:  accountRef,
		TransactionDesc:   desc,
	})
	if err != nil {
		uc.metrics.SubmissionObserved(observability.OutcomeSubmissionError)
		log.Error("push submission failed", zap.Error(err))
		return nil, err
	}

	outcome := observability.OutcomeAccepted
	if !result.Accepted() {
		outcome = observability.OutcomeRejected
	}
	uc.metrics.SubmissionObserved(outcome)
	log.Info("push submitted",
		zap.String("checkout_request_id", result.CheckoutRequestID),
		zap.String("response_code", result.ResponseCode),
	)

	return &Response{
		MerchantRequestID:   result.MerchantRequestID,
		CheckoutRequestID:   result.CheckoutRequestID,
		ResponseCode:        result.ResponseCode,
		ResponseDescription: result.ResponseDescription,
		CustomerMessage:     result.CustomerMessage,
		Accepted:            result.Accepted(),
	}, nil
}

func validate(req Request) error {
	if req.PhoneNumber == "" {
		return &payment.ValidationError{Field: "phoneNumber", Reason: "is required"}
	}
	if !msisdnPattern.MatchString(req.PhoneNumber) {
		return &payment.ValidationError{Field: "phoneNumber", Reason: "must be in MSISDN format 254XXXXXXXXX"}
	}
	if req.Amount <= 0 {
		return &payment.ValidationError{Field: "amount", Reason: "must be a positive number"}
	}
	return nil
}

// maskPhone keeps enough of the number to correlate log lines without
// writing the full MSISDN to logs.
func maskPhone(phone string) string {
	if len(phone) < 6 {
		return "***"
	}
	return phone[:3] + "******" + phone[len(phone)-3:]
}
