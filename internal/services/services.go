package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/vriveraPeersyst/xrplevm-faucet/internal/clients"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/config"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/db"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/events"
	"github.com/vriveraPeersyst/xrplevm-faucet/internal/reconciler"
)

// Service layer contains the business logic and is used to interact with
// the database, the reconciliation engine and the external chain clients.
type Services struct {
	DbClient    db.DBClient
	Reconciler  *reconciler.Reconciler
	Broadcaster *events.Broadcaster
	cfg         *config.Config
}

func New(ctx context.Context, cfg *config.Config, clients *clients.Clients) (*Services, error) {
	dbClient, err := db.New(ctx, cfg.Db)
	if err != nil {
		log.Ctx(ctx).Fatal().Err(err).Msg("error while creating db client")
		return nil, err
	}

	var publisher events.QueuePublisher
	if cfg.Events.Enabled() {
		amqpPublisher, err := events.NewAmqpPublisher(&cfg.Events)
		if err != nil {
			log.Ctx(ctx).Fatal().Err(err).Msg("error while creating event publisher")
			return nil, err
		}
		publisher = amqpPublisher
	}
	broadcaster := events.NewBroadcaster(publisher)

	engine := reconciler.New(cfg, dbClient, clients.Ledger, clients.Explorer, broadcaster)

	return &Services{
		DbClient:    dbClient,
		Reconciler:  engine,
		Broadcaster: broadcaster,
		cfg:         cfg,
	}, nil
}

// DoHealthCheck checks the health of the services by pinging the database
// and the event broker connection.
func (s *Services) DoHealthCheck(ctx context.Context) error {
	if err := s.DbClient.Ping(ctx); err != nil {
		return err
	}
	return s.Broadcaster.Ping()
}

// Shutdown stops the reconciliation engine and releases the event broker
// connection. Outstanding pollers are canceled before the broadcaster goes
// away so no event is published into a closed connection.
func (s *Services) Shutdown() {
	s.Reconciler.Stop()
	if err := s.Broadcaster.Stop(); err != nil {
		log.Error().Err(err).Msg("error while stopping broadcaster")
	}
}
