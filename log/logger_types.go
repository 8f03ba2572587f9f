package log

import (
	"io"
	"os"
	"sync"
)

const (
	timestampFormat = "02/01/2006 15:04:05"
	spacer          = " | "
)

// Headers prepended to every staged log line
const (
	infoHeader  = "[INFO]"
	warnHeader  = "[WARN]"
	debugHeader = "[DEBUG]"
	errorHeader = "[ERROR]"
)

// SubLogger is a handle for one subsystem of the backtester; each subsystem
// can have its levels toggled independently of the others
type SubLogger struct {
	name  string
	info  bool
	warn  bool
	debug bool
	err   bool
}

var (
	// mu guards the registry and output writer
	mu         sync.RWMutex
	registry             = map[string]*SubLogger{}
	output     io.Writer = os.Stdout
	showDebug  bool
	timeSource = timestampNow

	// Global covers messages that do not belong to a dedicated subsystem
	Global = NewSubLogger("BACKTEST")
	// Setup covers configuration loading and wiring
	Setup = NewSubLogger("SETUP")
	// Account covers simulated exchange account activity
	Account = NewSubLogger("ACCOUNT")
	// History covers price-history cleaning and resampling
	History = NewSubLogger("HISTORY")
	// Eval covers evaluation runs and batch tasks
	Eval = NewSubLogger("EVAL")
	// Storage covers file and database persistence
	Storage = NewSubLogger("STORAGE")
)
