package logger

import (
	"github.com/ethereum/go-ethereum/log"
)

// Instance is embedded into long-lived components to give them a named
// logger. The zero value logs through the root logger.
type Instance struct {
	Log log.Logger
}

// MakeInstance returns an unnamed logger instance.
func MakeInstance() Instance {
	return Instance{
		Log: log.New(),
	}
}

// New returns a logger instance tagged with the component name.
func New(name ...string) Instance {
	if len(name) == 0 {
		return MakeInstance()
	}
	return Instance{
		Log: log.New("module", name[0]),
	}
}
