package config

import (
	"time"

	"github.com/spf13/viper"
)

// Settings is the typed view of the merged configuration tree.
type Settings struct {
	Engine   EngineSettings
	Ledger   LedgerSettings
	Journal  JournalSettings
	Database DatabaseSettings
}

type EngineSettings struct {
	Network         string
	RequireFinality bool
	FinalityTimeout time.Duration
	PollInterval    time.Duration
}

type LedgerSettings struct {
	// Backend selects the status source: "gridnode" or "horizon".
	Backend    string
	RPCURL     string
	WSURL      string
	HorizonURL string
}

type JournalSettings struct {
	// Backend selects the settlement journal: "none", "memory" or "postgres".
	Backend string
	TTL     time.Duration
}

type DatabaseSettings struct {
	URL string
}

// Load extracts typed settings from a viper tree, filling in engine defaults
// where the files are silent.
func Load(v *viper.Viper) Settings {
	v.SetDefault("engine.require_finality", true)
	v.SetDefault("engine.finality_timeout", "60s")
	v.SetDefault("engine.poll_interval", "2s")
	v.SetDefault("ledger.backend", "gridnode")
	v.SetDefault("journal.backend", "none")
	v.SetDefault("journal.ttl", "10m")

	return Settings{
		Engine: EngineSettings{
			Network:         v.GetString("engine.network"),
			RequireFinality: v.GetBool("engine.require_finality"),
			FinalityTimeout: v.GetDuration("engine.finality_timeout"),
			PollInterval:    v.GetDuration("engine.poll_interval"),
		},
		Ledger: LedgerSettings{
			Backend:    v.GetString("ledger.backend"),
			RPCURL:     v.GetString("ledger.rpc_url"),
			WSURL:      v.GetString("ledger.ws_url"),
			HorizonURL: v.GetString("ledger.horizon_url"),
		},
		Journal: JournalSettings{
			Backend: v.GetString("journal.backend"),
			TTL:     v.GetDuration("journal.ttl"),
		},
		Database: DatabaseSettings{
			URL: v.GetString("database.url"),
		},
	}
}
