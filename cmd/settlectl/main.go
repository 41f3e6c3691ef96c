package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/subosito/gotenv"

	"github.com/clearlane/paysettle/config"
	"github.com/clearlane/paysettle/db"
	"github.com/clearlane/paysettle/exact"
	"github.com/clearlane/paysettle/journal"
	"github.com/clearlane/paysettle/ledger"
	"github.com/clearlane/paysettle/ledger/gridnode"
	"github.com/clearlane/paysettle/ledger/horizon"
	"github.com/clearlane/paysettle/models"
	"github.com/clearlane/paysettle/registry"
)

func main() {
	environment := flag.String("e", "development", "configuration environment")
	requirementPath := flag.String("requirement", "", "path to the payment requirement JSON")
	claimPath := flag.String("claim", "", "path to the payment claim JSON")
	flag.Usage = func() {
		fmt.Println("Usage: settlectl -requirement req.json -claim claim.json [-e mode] <verify|settle>")
		flag.PrintDefaults()
		os.Exit(1)
	}
	flag.Parse()

	command := flag.Arg(0)
	if command != "verify" && command != "settle" {
		flag.Usage()
	}
	if *requirementPath == "" || *claimPath == "" {
		flag.Usage()
	}

	gotenv.Load()
	config.Init(*environment)
	settings := config.Load(config.GetConfig())

	logger := logrus.WithField("service", "settlectl")

	var requirement models.PaymentRequirement
	readJSON(logger, *requirementPath, &requirement)
	var claim models.PaymentClaim
	readJSON(logger, *claimPath, &claim)

	normalizeAmount(registry.Defaults(), &requirement, logger)

	source := buildSource(settings, logger)
	scheme := exact.New(source,
		exact.WithNetwork(settings.Engine.Network),
		exact.WithRequireFinality(settings.Engine.RequireFinality),
		exact.WithFinalityTimeout(settings.Engine.FinalityTimeout),
		exact.WithPollInterval(settings.Engine.PollInterval),
		exact.WithLogger(logger),
	)

	ctx := context.Background()
	switch command {
	case "verify":
		verdict := scheme.Verify(ctx, requirement, claim)
		printJSON(logger, verdict)
		if !verdict.IsValid {
			os.Exit(1)
		}
	case "settle":
		outcome := settle(ctx, settings, scheme, logger, requirement, claim)
		printJSON(logger, outcome)
		if !outcome.Success {
			os.Exit(1)
		}
	}
}

func settle(ctx context.Context, settings config.Settings, scheme *exact.Scheme, logger *logrus.Entry, requirement models.PaymentRequirement, claim models.PaymentClaim) models.SettlementOutcome {
	store := buildJournal(settings, logger)
	if store == nil {
		return scheme.Settle(ctx, requirement, claim)
	}
	return journal.NewSettler(scheme, store, logger).Settle(ctx, requirement, claim)
}

// normalizeAmount lets requirement files carry display amounts such as
// "10.5"; anything with a decimal point is converted to the asset's base
// units before verification. Integer strings pass through untouched.
func normalizeAmount(reg *registry.Registry, req *models.PaymentRequirement, logger *logrus.Entry) {
	if !strings.Contains(req.Amount, ".") {
		return
	}
	asset, ok := reg.AssetByDescriptor(req.Network, req.Asset)
	if !ok {
		logger.Fatalf("cannot convert display amount %q: unknown asset %q on network %q", req.Amount, req.Asset, req.Network)
	}
	base, err := registry.ToBaseUnits(req.Amount, asset.Decimals)
	if err != nil {
		logger.WithError(err).Fatal("invalid requirement amount")
	}
	req.Amount = base
}

func buildSource(settings config.Settings, logger *logrus.Entry) ledger.StatusSource {
	switch settings.Ledger.Backend {
	case "horizon":
		return horizon.New(horizon.Config{
			HorizonURL: settings.Ledger.HorizonURL,
			Logger:     logger,
		})
	case "gridnode", "":
		return gridnode.New(gridnode.Config{
			RPCURL: settings.Ledger.RPCURL,
			WSURL:  settings.Ledger.WSURL,
			Logger: logger,
		})
	default:
		logger.Fatalf("unknown ledger backend %q", settings.Ledger.Backend)
		return nil
	}
}

func buildJournal(settings config.Settings, logger *logrus.Entry) journal.Store {
	switch settings.Journal.Backend {
	case "none", "":
		return nil
	case "memory":
		return journal.NewMemoryStore(settings.Journal.TTL)
	case "postgres":
		dbConn, err := db.Connect(settings.Database.URL)
		if err != nil {
			logger.WithError(err).Fatal("failed to connect to journal database")
		}
		return journal.NewPostgresStore(dbConn)
	default:
		logger.Fatalf("unknown journal backend %q", settings.Journal.Backend)
		return nil
	}
}

func readJSON(logger *logrus.Entry, path string, v interface{}) {
	data, err := os.ReadFile(path)
	if err != nil {
		logger.WithError(err).Fatalf("failed to read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.WithError(err).Fatalf("failed to parse %s", path)
	}
}

func printJSON(logger *logrus.Entry, v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		logger.WithError(err).Fatal("failed to render result")
	}
	fmt.Println(string(out))
}
