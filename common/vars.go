package common

// Version is overridden at build time with -ldflags "-X github.com/ruteri/rwa-id-gateway/common.Version=..."
var Version = "dev"

const PackageName = "rwaid_gateway"
