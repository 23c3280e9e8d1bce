package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ruteri/rwa-id-gateway/api"
	"github.com/ruteri/rwa-id-gateway/cmd/flags"
	"github.com/ruteri/rwa-id-gateway/common"
	"github.com/ruteri/rwa-id-gateway/cryptoutils"
	"github.com/ruteri/rwa-id-gateway/httpserver"
	"github.com/ruteri/rwa-id-gateway/metrics"
	"github.com/ruteri/rwa-id-gateway/registry"
	"github.com/ruteri/rwa-id-gateway/resolver"
	"github.com/urfave/cli/v2"
)

var gatewayFlags = append([]cli.Flag{
	flags.RpcAddrFlag,
	flags.RegistryAddrFlag,
	flags.SignerKeyFlag,
	flags.ListenAddrFlag,
	flags.QueryTimeoutFlag,
	flags.AddrMethodFlag,
	flags.SignatureFormatFlag,
	flags.LogServiceFlagFn(api.ServiceName),
}, flags.CommonFlags...)

func main() {
	app := &cli.App{
		Name:  "rwaid-gateway",
		Usage: "Serve signed RWA-ID name resolutions over HTTP and EIP-3668 CCIP-Read",
		Flags: gatewayFlags,
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			// Required inputs are validated before anything is dialed or bound
			cfg, err := flags.ParseGatewayConfig(cCtx)
			if err != nil {
				logger.Error("Invalid configuration", "err", err)
				return err
			}

			signer, err := cryptoutils.NewAttestationSignerFromHex(cfg.SignerKey, cfg.SignatureFormat)
			if err != nil {
				logger.Error("Failed to load signer key", "err", err)
				return err
			}
			logger.Info("Loaded gateway signer", "address", signer.Address().Hex(), "format", cfg.SignatureFormat.StringID)

			logger.Info("Connecting to Ethereum RPC", "address", cfg.RPCAddr)
			ethClient, err := ethclient.Dial(cfg.RPCAddr)
			if err != nil {
				logger.Error("Failed to dial RPC", "err", err)
				return err
			}
			defer ethClient.Close()

			m := metrics.NewMetrics(common.PackageName)

			onchain, err := registry.NewOnchainNameRegistry(ethClient, cfg.RegistryAddress, cfg.AddrMethod, cfg.QueryTimeout)
			if err != nil {
				logger.Error("Failed to bind registry", "err", err)
				return err
			}
			nameRegistry := registry.NewInstrumentedNameRegistry(onchain, m)

			logger.Info("Using RWA-ID registry",
				"registry", cfg.RegistryAddress.Hex(),
				"addrMethod", string(cfg.AddrMethod),
				"queryTimeout", cfg.QueryTimeout)

			service := resolver.NewService(nameRegistry, cfg.RegistryAddress, signer, logger)
			handler := httpserver.NewHandler(service, ethClient, m, logger)

			server, err := httpserver.New(flags.ConfigureServer(cCtx, logger, m), handler)
			if err != nil {
				logger.Error("Failed to create server", "err", err)
				return err
			}

			server.RunInBackground()

			// Wait for termination signal
			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)

			<-exit
			logger.Info("Shutdown signal received")

			server.Shutdown()
			logger.Info("Server shutdown complete")

			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
