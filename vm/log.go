package vm

import "github.com/walletauth/tplscript/logger"

var log = logger.RegisterSubSystem("TPVM")
