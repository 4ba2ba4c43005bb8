package pkey

import (
	"log/slog"
	"os"
	"strconv"
	"sync"

	"github.com/glinharesb/tlskey/internal/provider"
)

// DisableRSAPSSEnv turns RSA-PSS off for the whole process when set to a true
// value. A value that is not a boolean also turns it off.
const DisableRSAPSSEnv = "TLSKEY_DISABLE_RSA_PSS"

var rsaPSSSupported = newRSAPSSGate()

func newRSAPSSGate() func() bool {
	return sync.OnceValue(func() bool {
		return computeRSAPSSSupported(rsaPSSBuild, os.Getenv(DisableRSAPSSEnv))
	})
}

func computeRSAPSSSupported(build bool, disable string) bool {
	if !build {
		return false
	}
	if disable == "" {
		return true
	}
	disabled, err := strconv.ParseBool(disable)
	if err != nil {
		slog.Warn("unrecognized rsa-pss switch, disabling rsa-pss", "env", DisableRSAPSSEnv, "value", disable)
		return false
	}
	return !disabled
}

// IsRSAPSSSupported reports whether RSA-PSS keys and signatures are usable in
// this process. The answer is computed on first use and never changes.
func IsRSAPSSSupported() bool {
	return rsaPSSSupported()
}

// rsaPSSAvailable additionally requires the provider to implement PSS.
func rsaPSSAvailable(p provider.Provider) bool {
	return IsRSAPSSSupported() && p != nil && p.SupportsRSAPSS()
}
