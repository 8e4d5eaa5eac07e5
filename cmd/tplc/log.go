package main

import (
	"github.com/walletauth/tplscript/logger"
	"github.com/walletauth/tplscript/util/panics"
)

var log = logger.RegisterSubSystem("TCLI")
var spawn = panics.GoroutineWrapperFunc(log)
