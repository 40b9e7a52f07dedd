package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/warped-finance/backend/pkg/config"
	"github.com/warped-finance/backend/pkg/models"
	"github.com/warped-finance/backend/pkg/router"
)

// @title			Warped Finance
// @version		0.0.0
// @description	The backend for Warped Finance, a personal finance tracker for transactions imported from Mint and EveryDollar.
// @license.name	MIT
// @BasePath		/api
func main() {
	c, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// gin uses debug as the default mode, we use release for
	// security reasons
	gin.SetMode(c.GinMode)

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	output := io.Writer(os.Stdout)
	if (c.LogFormat == "" && gin.IsDebugging()) || c.LogFormat == "human" {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	err = models.Open(c.Database)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	url := c.URL()
	opts := router.Options{
		CORSAllowOrigins: c.AllowedOrigins(),
		EnablePprof:      c.EnablePprof,
	}

	r, teardown, err := router.Config(url, opts)
	defer teardown()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	router.AttachRoutes(r.Group(url.Path), opts)

	if err := r.Run(fmt.Sprintf(":%d", c.Port)); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
