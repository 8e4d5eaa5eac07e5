package tplscript

import "github.com/walletauth/tplscript/logger"

var log = logger.RegisterSubSystem("TPLC")
