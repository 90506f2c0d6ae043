package clients

import (
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/clients/explorer"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/clients/ledger"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/config"
)

type Clients struct {
	Ledger   ledger.Dialer
	Explorer explorer.Client
}

func New(cfg *config.Config) *Clients {
	ledgerDialer := ledger.NewRpcDialer(&cfg.Source)
	explorerClient := explorer.NewHttpClient(&cfg.Destination)

	return &Clients{
		Ledger:   ledgerDialer,
		Explorer: explorerClient,
	}
}
