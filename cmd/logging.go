package cmd

import (
	"github.com/rmazur/go-whitted/log"
	"github.com/urfave/cli"
)

var logger = log.New("go-whitted")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
