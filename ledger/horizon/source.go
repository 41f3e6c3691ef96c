package horizon

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stellar/go/amount"
	"github.com/stellar/go/clients/horizonclient"
	hProtocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/protocols/horizon/base"
	"github.com/stellar/go/protocols/horizon/operations"

	"github.com/clearlane/paysettle/models"
)

const defaultHorizonURL = "https://horizon-testnet.stellar.org"

// horizonAPI is the slice of the Horizon client this source needs; narrowing
// it keeps the test double small.
type horizonAPI interface {
	TransactionDetail(txHash string) (hProtocol.Transaction, error)
	Payments(request horizonclient.OperationRequest) (operations.OperationsPage, error)
}

type Config struct {
	HorizonURL string
	Timeout    time.Duration
	Logger     *logrus.Entry
}

// Source reads transaction status from a Stellar Horizon server. Stellar
// consensus is immediately final, so a successful transaction maps straight
// to finalized and a committed state never appears. Horizon offers no push
// stream for a single transaction, so this source leaves the subscription
// capability unclaimed and callers poll.
type Source struct {
	client horizonAPI
	logger *logrus.Entry
}

func New(cfg Config) *Source {
	url := cfg.HorizonURL
	if url == "" {
		url = defaultHorizonURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.WithField("service", "horizon-source")
	}
	return &Source{
		client: &horizonclient.Client{
			HorizonURL: url,
			HTTP:       &http.Client{Timeout: timeout},
		},
		logger: logger,
	}
}

func (s *Source) GetStatus(ctx context.Context, txID string) (*models.TransactionSnapshot, error) {
	// The Horizon client carries its own HTTP timeout; honor cancellation at
	// the boundary.
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tx, err := s.client.TransactionDetail(txID)
	if err != nil {
		if horizonclient.IsNotFoundError(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch transaction %s: %w", txID, err)
	}

	snap := &models.TransactionSnapshot{
		TransactionID: txID,
		BlockID:       strconv.FormatInt(int64(tx.Ledger), 10),
		Sender:        tx.Account,
	}
	if !tx.Successful {
		snap.State = models.StateFailed
		snap.ErrorDetail = "transaction rejected by the network"
		return snap, nil
	}
	snap.State = models.StateFinalized

	payment, err := s.firstPayment(txID)
	if err != nil {
		return nil, err
	}
	if payment != nil {
		if payment.From != "" {
			snap.Sender = payment.From
		}
		snap.Recipient = payment.To
		if stroops, err := amount.ParseInt64(payment.Amount); err == nil {
			snap.Amount = strconv.FormatInt(stroops, 10)
		}
		snap.Asset = assetDescriptor(payment.Asset)
	}
	return snap, nil
}

// firstPayment returns the transaction's first payment operation, or nil
// when it carries none.
func (s *Source) firstPayment(txID string) (*operations.Payment, error) {
	page, err := s.client.Payments(horizonclient.OperationRequest{ForTransaction: txID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch payments for %s: %w", txID, err)
	}
	for _, record := range page.Embedded.Records {
		if p, ok := record.(operations.Payment); ok {
			return &p, nil
		}
	}
	return nil, nil
}

// assetDescriptor renders a Horizon asset in the engine's descriptor form:
// "" for lumens and CODE:ISSUER for issued assets.
func assetDescriptor(a base.Asset) string {
	if a.Type == "native" || a.Type == "" {
		return ""
	}
	return a.Code + ":" + a.Issuer
}
