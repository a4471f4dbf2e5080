// The charter command polls a remote data source and serves
// a web page that charts the samples live.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/juju/loggo"
	"github.com/prometheus/client_golang/prometheus"
	"gopkg.in/errgo.v1"

	"github.com/rogpeppe/charter/chart"
	"github.com/rogpeppe/charter/charterconfig"
	"github.com/rogpeppe/charter/charterserver"
	"github.com/rogpeppe/charter/collector"
	"github.com/rogpeppe/charter/datasource"
)

var logger = loggo.GetLogger("charter")

var (
	configFlag = flag.String("config", "", "configuration file (.yaml, .yml or relaxed JSON)")
	addrFlag   = flag.String("addr", "", "listen address (overrides listen-addr in the configuration)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: charter [-config <file>] [-addr <listenaddr>]\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	flag.Parse()
	if flag.NArg() > 0 {
		flag.Usage()
	}
	if err := main1(); err != nil {
		fmt.Fprintf(os.Stderr, "charter: %v\n", err)
		os.Exit(1)
	}
}

func main1() error {
	cfg := charterconfig.Default()
	if *configFlag != "" {
		var err error
		cfg, err = charterconfig.Load(*configFlag)
		if err != nil {
			return errgo.Mask(err)
		}
	}
	if *addrFlag != "" {
		cfg.ListenAddr = *addrFlag
	}
	if err := loggo.ConfigureLoggers(cfg.LogConfig); err != nil {
		return errgo.Notef(err, "bad log configuration")
	}
	hub := chart.NewHub(0)
	defer hub.Close()
	status := charterserver.NewStatusValue()
	defer status.Close()
	coll, err := collector.New(collector.Params{
		Source:     datasource.NewClient(cfg.SourceURL),
		Sink:       hub,
		Channels:   cfg.Channels,
		Interval:   cfg.Interval,
		Horizon:    cfg.Horizon,
		Updater:    status,
		Registerer: prometheus.DefaultRegisterer,
	})
	if err != nil {
		return errgo.Notef(err, "cannot create collector")
	}
	defer coll.Close()
	if err := coll.Init(cfg.Chart); err != nil {
		return errgo.Mask(err)
	}
	h, err := charterserver.New(charterserver.Params{
		Collector: coll,
		Hub:       hub,
		Status:    status,
		Horizon:   cfg.Horizon,
		ExportDir: cfg.ExportDir,
	})
	if err != nil {
		return errgo.Mask(err)
	}
	defer h.Close()
	logger.Infof("polling %s every %v; listening on %s", cfg.SourceURL, cfg.Interval, cfg.ListenAddr)
	return errgo.Mask(http.ListenAndServe(cfg.ListenAddr, h))
}
