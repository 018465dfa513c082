package ledger

import (
	"github.com/Fantom-foundation/lachesis-base/utils/cachescale"
)

type (
	// StoreCacheConfig sizes the in-memory caches of the ledger store.
	StoreCacheConfig struct {
		// RecordsSize is the audit record cache limit in bytes
		RecordsSize uint
		// RecordsNum is the audit record cache limit in records
		RecordsNum int
	}

	// StoreConfig is the configuration of the ledger store.
	StoreConfig struct {
		Cache StoreCacheConfig
	}
)

// DefaultStoreConfig returns the production store configuration,
// scaled by the cache ratio from the node configuration.
func DefaultStoreConfig(scale cachescale.Func) StoreConfig {
	return StoreConfig{
		Cache: StoreCacheConfig{
			RecordsSize: scale.U(10 * 1024 * 1024),
			RecordsNum:  scale.I(5000),
		},
	}
}

// LiteStoreConfig is for tests or inmem databases.
func LiteStoreConfig() StoreConfig {
	return DefaultStoreConfig(cachescale.Ratio{Base: 10, Target: 1})
}
