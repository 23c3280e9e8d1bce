package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ruteri/rwa-id-gateway/api/clients"
	"github.com/ruteri/rwa-id-gateway/cmd/flags"
	"github.com/ruteri/rwa-id-gateway/cryptoutils"
	"github.com/ruteri/rwa-id-gateway/interfaces"
	"github.com/urfave/cli/v2"
)

var flagName = &cli.StringFlag{
	Name:     "name",
	Required: true,
	Usage:    "name to resolve, e.g. alice.acme.rwa-id.eth",
}

var flagSender = &cli.StringFlag{
	Name:  "sender",
	Value: "0x0000000000000000000000000000000000000000",
	Usage: "resolver contract address reported as the CCIP-Read sender",
}

var flagPost = &cli.BoolFlag{
	Name:  "post",
	Usage: "use POST /ccip instead of GET /{sender}/{data}.json",
}

var flagTrustedRegistry = &cli.StringFlag{
	Name:  "trusted-registry",
	Usage: "registry address to verify against (default: reported by /health)",
}

var flagTrustedSigner = &cli.StringFlag{
	Name:  "trusted-signer",
	Usage: "signer address to verify against (default: reported by /signer)",
}

var flagTimeout = &cli.DurationFlag{
	Name:  "timeout",
	Value: 30 * time.Second,
	Usage: "request timeout",
}

func newClient(cCtx *cli.Context) *clients.GatewayClient {
	return &clients.GatewayClient{ServerAddr: cCtx.String(flags.ServerAddrFlag.Name)}
}

func requestContext(cCtx *cli.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cCtx.Context, cCtx.Duration(flagTimeout.Name))
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	app := &cli.App{
		Name:  "gateway-client",
		Usage: "Query an RWA-ID gateway and verify its signed answers",
		Flags: []cli.Flag{
			flags.ServerAddrFlag,
			flagTimeout,
		},
		Commands: []*cli.Command{
			{
				Name:  "signer",
				Usage: "print the gateway signing address",
				Action: func(cCtx *cli.Context) error {
					ctx, cancel := requestContext(cCtx)
					defer cancel()

					resp, err := newClient(cCtx).Signer(ctx)
					if err != nil {
						return err
					}
					return printJSON(resp)
				},
			},
			{
				Name:  "health",
				Usage: "print the gateway health report",
				Action: func(cCtx *cli.Context) error {
					ctx, cancel := requestContext(cCtx)
					defer cancel()

					resp, err := newClient(cCtx).Health(ctx)
					if err != nil {
						return err
					}
					return printJSON(resp)
				},
			},
			{
				Name:  "resolve",
				Usage: "resolve a name through GET /resolve and verify the signature",
				Flags: []cli.Flag{flagName, flagTrustedRegistry, flagTrustedSigner},
				Action: func(cCtx *cli.Context) error {
					ctx, cancel := requestContext(cCtx)
					defer cancel()

					client := newClient(cCtx)
					resp, err := client.Resolve(ctx, cCtx.String(flagName.Name))
					if err != nil {
						return err
					}

					registryAddr, signerAddr, err := trustedAddresses(ctx, cCtx, client)
					if err != nil {
						return err
					}
					if err := verifyResolveResponse(resp.Node, resp.Address, resp.MessageHash, resp.Signature, registryAddr, signerAddr); err != nil {
						return err
					}
					return printJSON(resp)
				},
			},
			{
				Name:  "ccip",
				Usage: "perform the CCIP-Read callback for a name and verify the answer",
				Flags: []cli.Flag{flagName, flagSender, flagPost, flagTrustedRegistry, flagTrustedSigner},
				Action: func(cCtx *cli.Context) error {
					ctx, cancel := requestContext(cCtx)
					defer cancel()

					client := newClient(cCtx)
					client.UsePost = cCtx.Bool(flagPost.Name)

					result, err := client.CCIPRead(ctx, cCtx.String(flagSender.Name), cCtx.String(flagName.Name))
					if err != nil {
						return err
					}

					registryAddr, signerAddr, err := trustedAddresses(ctx, cCtx, client)
					if err != nil {
						return err
					}
					if err := result.Verify(registryAddr, signerAddr); err != nil {
						return err
					}

					return printJSON(map[string]string{
						"node":        result.Response.Node.Hex(),
						"address":     result.Response.Resolved.Hex(),
						"messageHash": result.Response.MessageHash.Hex(),
						"signature":   hexutil.Encode(result.Response.Signature),
						"signer":      signerAddr.Hex(),
					})
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// trustedAddresses returns the registry and signer to verify against, asking
// the gateway for any that were not pinned on the command line.
func trustedAddresses(ctx context.Context, cCtx *cli.Context, client *clients.GatewayClient) (common.Address, common.Address, error) {
	registryHex := cCtx.String(flagTrustedRegistry.Name)
	signerHex := cCtx.String(flagTrustedSigner.Name)

	if registryHex == "" || signerHex == "" {
		health, err := client.Health(ctx)
		if err != nil {
			return common.Address{}, common.Address{}, fmt.Errorf("could not fetch gateway identity: %w", err)
		}
		if registryHex == "" {
			registryHex = health.Registry
		}
		if signerHex == "" {
			signerHex = health.Signer
		}
	}

	registryAddr, err := interfaces.NewContractAddressFromHex(registryHex)
	if err != nil {
		return common.Address{}, common.Address{}, fmt.Errorf("invalid registry address: %w", err)
	}
	signerAddr, err := interfaces.NewContractAddressFromHex(signerHex)
	if err != nil {
		return common.Address{}, common.Address{}, fmt.Errorf("invalid signer address: %w", err)
	}
	return registryAddr.Address(), signerAddr.Address(), nil
}

func verifyResolveResponse(nodeHex, addressHex, messageHashHex, signatureHex string, registryAddr, signerAddr common.Address) error {
	nodeBytes, err := hexutil.Decode(nodeHex)
	if err != nil || len(nodeBytes) != 32 {
		return errors.New("invalid node in response")
	}
	sigBytes, err := hexutil.Decode(signatureHex)
	if err != nil || len(sigBytes) != interfaces.SignatureLength {
		return errors.New("invalid signature in response")
	}
	if !common.IsHexAddress(addressHex) {
		return errors.New("invalid address in response")
	}

	var node interfaces.Node
	copy(node[:], nodeBytes)
	var sig interfaces.Signature
	copy(sig[:], sigBytes)

	att := interfaces.Attestation{MessageHash: common.HexToHash(messageHashHex), Signature: sig}
	return cryptoutils.VerifyAttestation(att, registryAddr, node, common.HexToAddress(addressHex), signerAddr)
}
