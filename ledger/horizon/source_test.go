package horizon

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stellar/go/clients/horizonclient"
	hProtocol "github.com/stellar/go/protocols/horizon"
	"github.com/stellar/go/protocols/horizon/base"
	"github.com/stellar/go/protocols/horizon/operations"
	"github.com/stellar/go/support/render/problem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clearlane/paysettle/models"
)

type fakeHorizon struct {
	tx     hProtocol.Transaction
	txErr  error
	ops    []operations.Operation
	opsErr error
}

func (f *fakeHorizon) TransactionDetail(txHash string) (hProtocol.Transaction, error) {
	return f.tx, f.txErr
}

func (f *fakeHorizon) Payments(request horizonclient.OperationRequest) (operations.OperationsPage, error) {
	if f.opsErr != nil {
		return operations.OperationsPage{}, f.opsErr
	}
	var page operations.OperationsPage
	page.Embedded.Records = f.ops
	return page, nil
}

func newTestSource(fake *fakeHorizon) *Source {
	return &Source{client: fake, logger: logrus.WithField("service", "horizon-source")}
}

func nativePayment(from, to, amt string) operations.Payment {
	return operations.Payment{
		Base:   operations.Base{Type: "payment", TransactionSuccessful: true},
		Asset:  base.Asset{Type: "native"},
		From:   from,
		To:     to,
		Amount: amt,
	}
}

func TestGetStatusSuccessfulNativePayment(t *testing.T) {
	fake := &fakeHorizon{
		tx: hProtocol.Transaction{
			Hash:       "stellar-tx",
			Ledger:     123456,
			Account:    "GSENDER",
			Successful: true,
		},
		ops: []operations.Operation{nativePayment("GSENDER", "GMERCHANT", "125.0000000")},
	}
	s := newTestSource(fake)

	snap, err := s.GetStatus(context.Background(), "stellar-tx")
	require.NoError(t, err)
	require.NotNil(t, snap)

	// Stellar consensus is immediately final.
	assert.Equal(t, models.StateFinalized, snap.State)
	assert.Equal(t, "123456", snap.BlockID)
	assert.Equal(t, "GSENDER", snap.Sender)
	assert.Equal(t, "GMERCHANT", snap.Recipient)
	assert.Equal(t, "1250000000", snap.Amount, "display amounts convert to stroops")
	assert.Empty(t, snap.Asset, "lumens map to the native descriptor")
}

func TestGetStatusIssuedAsset(t *testing.T) {
	payment := nativePayment("GSENDER", "GMERCHANT", "10.0000000")
	payment.Asset = base.Asset{
		Type:   "credit_alphanum4",
		Code:   "USDC",
		Issuer: "GISSUER",
	}
	fake := &fakeHorizon{
		tx:  hProtocol.Transaction{Ledger: 7, Account: "GSENDER", Successful: true},
		ops: []operations.Operation{payment},
	}
	s := newTestSource(fake)

	snap, err := s.GetStatus(context.Background(), "stellar-tx")
	require.NoError(t, err)
	assert.Equal(t, "USDC:GISSUER", snap.Asset)
	assert.Equal(t, "100000000", snap.Amount)
}

func TestGetStatusFailedTransaction(t *testing.T) {
	fake := &fakeHorizon{
		tx: hProtocol.Transaction{Ledger: 9, Account: "GSENDER", Successful: false},
	}
	s := newTestSource(fake)

	snap, err := s.GetStatus(context.Background(), "stellar-tx")
	require.NoError(t, err)
	assert.Equal(t, models.StateFailed, snap.State)
	assert.NotEmpty(t, snap.ErrorDetail)
}

func TestGetStatusNotFound(t *testing.T) {
	fake := &fakeHorizon{
		txErr: &horizonclient.Error{
			Problem: problem.P{
				Type:   "https://stellar.org/horizon-errors/not_found",
				Title:  "Resource Missing",
				Status: 404,
			},
		},
	}
	s := newTestSource(fake)

	snap, err := s.GetStatus(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestGetStatusTransportError(t *testing.T) {
	fake := &fakeHorizon{txErr: errors.New("horizon unreachable")}
	s := newTestSource(fake)

	_, err := s.GetStatus(context.Background(), "stellar-tx")
	require.Error(t, err)
}

func TestGetStatusWithoutPaymentOperation(t *testing.T) {
	fake := &fakeHorizon{
		tx: hProtocol.Transaction{Ledger: 11, Account: "GSENDER", Successful: true},
	}
	s := newTestSource(fake)

	snap, err := s.GetStatus(context.Background(), "stellar-tx")
	require.NoError(t, err)
	assert.Equal(t, models.StateFinalized, snap.State)
	assert.Equal(t, "GSENDER", snap.Sender)
	assert.Empty(t, snap.Recipient)
	assert.Empty(t, snap.Amount)
}

func TestGetStatusHonorsCancelledContext(t *testing.T) {
	s := newTestSource(&fakeHorizon{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetStatus(ctx, "stellar-tx")
	require.ErrorIs(t, err, context.Canceled)
}
