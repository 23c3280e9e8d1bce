package flags

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/ruteri/rwa-id-gateway/api"
	rwacommon "github.com/ruteri/rwa-id-gateway/common"
	"github.com/ruteri/rwa-id-gateway/cryptoutils"
	"github.com/ruteri/rwa-id-gateway/interfaces"
	"github.com/ruteri/rwa-id-gateway/metrics"
	"github.com/ruteri/rwa-id-gateway/registry"
	"github.com/urfave/cli/v2"
)

func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJsonFlag.Name)
	logDebug := cCtx.Bool(LogDebugFlag.Name)
	logUID := cCtx.Bool(LogUidFlag.Name)
	logService := cCtx.String("log-service")

	logger := rwacommon.SetupLogger(&rwacommon.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: logService,
		Version: rwacommon.Version,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

// ListenAddr returns --listen-addr, or ":$PORT" when only PORT is set.
func ListenAddr(cCtx *cli.Context) string {
	if !cCtx.IsSet(ListenAddrFlag.Name) {
		if port := os.Getenv("PORT"); port != "" {
			return ":" + port
		}
	}
	return cCtx.String(ListenAddrFlag.Name)
}

func ConfigureServer(cCtx *cli.Context, logger *slog.Logger, m *metrics.Metrics) *api.HTTPServerConfig {
	metricsAddr := cCtx.String(MetricsAddrFlag.Name)
	enablePprof := cCtx.Bool(PprofFlag.Name)
	drainDuration := time.Duration(cCtx.Int64(DrainSecondsFlag.Name)) * time.Second

	return &api.HTTPServerConfig{
		ListenAddr:               ListenAddr(cCtx),
		MetricsAddr:              metricsAddr,
		Metrics:                  m,
		Log:                      logger,
		EnablePprof:              enablePprof,
		DrainDuration:            drainDuration,
		GracefulShutdownDuration: 30 * time.Second,
		ReadTimeout:              60 * time.Second,
		WriteTimeout:             30 * time.Second,
	}
}

// GatewayConfig holds the validated startup inputs of the gateway.
type GatewayConfig struct {
	RPCAddr         string
	RegistryAddress common.Address
	SignerKey       string
	QueryTimeout    time.Duration
	AddrMethod      registry.AddrMethod
	SignatureFormat cryptoutils.SignatureFormat
}

// ParseGatewayConfig reads and validates the required gateway inputs.
// The signer key is never included in returned errors.
func ParseGatewayConfig(cCtx *cli.Context) (*GatewayConfig, error) {
	rpcAddr := cCtx.String(RpcAddrFlag.Name)
	if rpcAddr == "" {
		return nil, errors.New("missing RPC URL: set --rpc-addr or ETH_RPC_URL")
	}

	registryHex := cCtx.String(RegistryAddrFlag.Name)
	if registryHex == "" {
		return nil, errors.New("missing registry address: set --registry-address or RWA_ID_REGISTRY")
	}
	registryAddr, err := interfaces.NewContractAddressFromHex(registryHex)
	if err != nil {
		return nil, fmt.Errorf("invalid registry address: %w", err)
	}

	signerKey := cCtx.String(SignerKeyFlag.Name)
	if signerKey == "" {
		return nil, errors.New("missing signer key: set --signer-key or GATEWAY_SIGNER_PRIVATE_KEY")
	}

	addrMethod, err := registry.AddrMethodFromString(cCtx.String(AddrMethodFlag.Name))
	if err != nil {
		return nil, err
	}

	sigFormat, err := cryptoutils.SignatureFormatFromString(cCtx.String(SignatureFormatFlag.Name))
	if err != nil {
		return nil, err
	}

	queryTimeout := cCtx.Duration(QueryTimeoutFlag.Name)
	if queryTimeout <= 0 {
		return nil, fmt.Errorf("invalid query timeout: %s", queryTimeout)
	}

	return &GatewayConfig{
		RPCAddr:         rpcAddr,
		RegistryAddress: registryAddr.Address(),
		SignerKey:       signerKey,
		QueryTimeout:    queryTimeout,
		AddrMethod:      addrMethod,
		SignatureFormat: sigFormat,
	}, nil
}

var RpcAddrFlag = &cli.StringFlag{
	Name:    "rpc-addr",
	EnvVars: []string{"ETH_RPC_URL", "LINEA_RPC_URL"},
	Usage:   "RPC endpoint of the chain hosting the registry",
}

var RegistryAddrFlag = &cli.StringFlag{
	Name:    "registry-address",
	EnvVars: []string{"RWA_ID_REGISTRY"},
	Usage:   "RWA-ID registry contract address",
}

var SignerKeyFlag = &cli.StringFlag{
	Name:    "signer-key",
	EnvVars: []string{"GATEWAY_SIGNER_PRIVATE_KEY"},
	Usage:   "hex-encoded secp256k1 private key used to sign resolutions",
}

var ListenAddrFlag = &cli.StringFlag{
	Name:  "listen-addr",
	Value: "127.0.0.1:8080",
	Usage: "address to listen on for API (PORT is used as :PORT when this flag is not set)",
}

var QueryTimeoutFlag = &cli.DurationFlag{
	Name:  "query-timeout",
	Value: registry.DefaultQueryTimeout,
	Usage: "timeout applied to each registry read",
}

var AddrMethodFlag = &cli.StringFlag{
	Name:  "addr-method",
	Value: string(registry.ResolveAddrMethod),
	Usage: "registry method used to read a node's address: 'resolveAddr' or 'nodeAddr'",
}

var SignatureFormatFlag = &cli.StringFlag{
	Name:  "signature-format",
	Value: cryptoutils.EthereumSignature.StringID,
	Usage: "signature recovery indicator: 'eth' (v=27/28) or 'raw' (v=0/1)",
}

var ServerAddrFlag = &cli.StringFlag{
	Name:  "gateway-addr",
	Value: "http://127.0.0.1:8080",
	Usage: "gateway base URL to request",
}

var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}

var LogServiceFlagFn = func(service string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "log-service",
		Value: service,
		Usage: "add 'service' tag to logs",
	}
}

var PprofFlag = &cli.BoolFlag{
	Name:  "pprof",
	Value: false,
	Usage: "enable pprof debug endpoint",
}
var DrainSecondsFlag = &cli.Int64Flag{
	Name:  "drain-seconds",
	Value: 45,
	Usage: "seconds to wait in drain HTTP request",
}
var MetricsAddrFlag = &cli.StringFlag{
	Name:  "metrics-addr",
	Value: "127.0.0.1:8090",
	Usage: "address to listen on for Prometheus metrics",
}

var CommonFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
	PprofFlag,
	DrainSecondsFlag,
	MetricsAddrFlag,
}
