package params

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Ledger holds single-node block-pacing knobs, mirroring the devnet
// throttle a real multi-validator ledger substrate would otherwise
// provide for free.
type Ledger struct {
	SingleNode bool
	// MinBlockTime is loaded from LEDGER_MIN_BLOCK_TIME_MS; nothing in
	// this repository reads it, so instruction acceptance is not
	// throttled.
	MinBlockTime time.Duration
}

// Protocol holds event-policy defaults and resale-cap bounds loaded from
// the environment. pkg/program does not read them: create_event and
// update_event validate against that package's own constants (which
// equal the defaults here), and no default max_supply is applied.
type Protocol struct {
	MinResaleCapBps   uint32
	MaxResaleCapBps   uint32
	DefaultMaxSupply  uint32
	RentExemptResidue uint64
}

type Config struct {
	Ledger   Ledger
	Protocol Protocol
}

func Default() Config {
	return Config{
		Ledger: Ledger{
			SingleNode:   true,
			MinBlockTime: 200 * time.Millisecond,
		},
		Protocol: Protocol{
			MinResaleCapBps:   10_000,
			MaxResaleCapBps:   100_000,
			DefaultMaxSupply:  1000,
			RentExemptResidue: 890_880,
		},
	}
}

// LoadFromEnv loads configuration from .env file (if exists) and
// environment variables. Priority: ENV > .env file > defaults.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if minBlock := os.Getenv("LEDGER_MIN_BLOCK_TIME_MS"); minBlock != "" {
		if ms, err := strconv.Atoi(minBlock); err == nil {
			cfg.Ledger.MinBlockTime = time.Duration(ms) * time.Millisecond
		}
	}
	if singleNode := os.Getenv("LEDGER_SINGLE_NODE"); singleNode != "" {
		cfg.Ledger.SingleNode = singleNode == "true"
	}

	if minCap := os.Getenv("PROTOCOL_MIN_RESALE_CAP_BPS"); minCap != "" {
		if v, err := strconv.ParseUint(minCap, 10, 32); err == nil {
			cfg.Protocol.MinResaleCapBps = uint32(v)
		}
	}
	if maxCap := os.Getenv("PROTOCOL_MAX_RESALE_CAP_BPS"); maxCap != "" {
		if v, err := strconv.ParseUint(maxCap, 10, 32); err == nil {
			cfg.Protocol.MaxResaleCapBps = uint32(v)
		}
	}
	if maxSupply := os.Getenv("PROTOCOL_DEFAULT_MAX_SUPPLY"); maxSupply != "" {
		if v, err := strconv.ParseUint(maxSupply, 10, 32); err == nil {
			cfg.Protocol.DefaultMaxSupply = uint32(v)
		}
	}
	if residue := os.Getenv("PROTOCOL_RENT_EXEMPT_RESIDUE"); residue != "" {
		if v, err := strconv.ParseUint(residue, 10, 64); err == nil {
			cfg.Protocol.RentExemptResidue = v
		}
	}

	return cfg
}
