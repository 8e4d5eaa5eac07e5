package main

import (
	"github.com/walletauth/tplscript/logger"
)

var log = logger.RegisterSubSystem("GKEY")
