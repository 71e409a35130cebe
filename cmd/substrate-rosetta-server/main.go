// Copyright 2021 Optakt Labs OÜ
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not
// use this file except in compliance with the License. You may obtain a copy of
// the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS, WITHOUT
// WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the
// License for the specific language governing permissions and limitations under
// the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/ziflex/lecho/v2"

	"github.com/optakt/substrate-rosetta/api/rosetta"
	"github.com/optakt/substrate-rosetta/network"
	"github.com/optakt/substrate-rosetta/networks"
	"github.com/optakt/substrate-rosetta/rosetta/configuration"
	"github.com/optakt/substrate-rosetta/rosetta/translator"
	"github.com/optakt/substrate-rosetta/rosetta/validator"
	"github.com/optakt/substrate-rosetta/service/metrics"
	"github.com/optakt/substrate-rosetta/service/node"
)

const (
	success = 0
	failure = 1
)

func main() {
	os.Exit(run())
}

func run() int {

	// Signal catching for clean shutdown.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)

	// Command line parameter initialization.
	var (
		flagCacheSize     uint64
		flagEmissionCache int
		flagLevel         string
		flagMetrics       string
		flagNetworks      []string
		flagOffline       bool
		flagPort          uint16
		flagSmart         bool
	)

	pflag.Uint64Var(&flagCacheSize, "cache-size", node.DefaultConfig.CacheSize, "maximum cache size for node responses in bytes")
	pflag.IntVar(&flagEmissionCache, "emission-cache", translator.DefaultConfig.EmissionCacheSize, "number of epochs for which to cache the emission amount")
	pflag.StringVarP(&flagLevel, "level", "l", "info", "log output level")
	pflag.StringVarP(&flagMetrics, "metrics", "m", "", "address on which to expose metrics (no metrics are exposed when left empty)")
	pflag.StringSliceVarP(&flagNetworks, "networks", "n", nil, "paths to network files (uses the local development node when left empty)")
	pflag.BoolVar(&flagOffline, "offline", false, "run without node access, serving only offline construction endpoints")
	pflag.Uint16VarP(&flagPort, "port", "p", 8080, "port to host Rosetta API on")
	pflag.BoolVarP(&flagSmart, "smart-codes", "s", false, "enable smart non-500 HTTP status codes for Rosetta API errors")

	pflag.Parse()

	// Logger initialization.
	zerolog.TimestampFunc = func() time.Time { return time.Now().UTC() }
	log := zerolog.New(os.Stderr).With().Timestamp().Logger().Level(zerolog.DebugLevel)
	level, err := zerolog.ParseLevel(flagLevel)
	if err != nil {
		log.Error().Str("level", flagLevel).Err(err).Msg("could not parse log level")
		return failure
	}
	log = log.Level(level)
	elog := lecho.From(log)

	if flagSmart {
		rosetta.EnableSmartCodes()
	}

	// Load the network files; without any, we serve the development node.
	var files []*networks.File
	for _, path := range flagNetworks {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Error().Str("path", path).Err(err).Msg("could not read network file")
			return failure
		}
		file, err := networks.Parse(data)
		if err != nil {
			log.Error().Str("path", path).Err(err).Msg("could not parse network file")
			return failure
		}
		files = append(files, file)
	}
	if len(files) == 0 {
		file, err := networks.Parse(networks.DevNode())
		if err != nil {
			log.Error().Err(err).Msg("could not parse development node network file")
			return failure
		}
		files = append(files, file)
	}

	// Metrics initialization. Metrics are always collected, but only exposed
	// if an address was given.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Network initialization. Each network gets its own node connection,
	// unless we run in offline mode.
	manager := network.NewManager(log, flagOffline)
	defer func() {
		err := manager.Close()
		if err != nil {
			log.Error().Err(err).Msg("could not close networks")
		}
	}()
	for _, file := range files {

		label := fmt.Sprintf("%s/%s", file.Blockchain, file.Network)
		options := []translator.Option{
			translator.WithEmissionCacheSize(flagEmissionCache),
			translator.WithRecorder(metrics.NewRecorder(registry, label)),
		}

		if flagOffline {
			net, err := network.Bootstrap(log, file, nil, options...)
			if err != nil {
				log.Error().Str("network", label).Err(err).Msg("could not bootstrap network")
				return failure
			}
			err = manager.Add(net)
			if err != nil {
				log.Error().Str("network", label).Err(err).Msg("could not add network")
				return failure
			}
			continue
		}

		conn, err := node.Connect(log, file.NodeAddress, node.WithCacheSize(flagCacheSize))
		if err != nil {
			log.Error().Str("network", label).Str("address", file.NodeAddress).Err(err).Msg("could not connect to node")
			return failure
		}
		timed := metrics.NewNode(conn, metrics.NewTime(registry, label))
		net, err := network.Bootstrap(log, file, timed, options...)
		if err != nil {
			_ = conn.Close()
			log.Error().Str("network", label).Err(err).Msg("could not bootstrap network")
			return failure
		}
		net.Closer = conn
		err = manager.Add(net)
		if err != nil {
			_ = conn.Close()
			log.Error().Str("network", label).Err(err).Msg("could not add network")
			return failure
		}
	}

	// Rosetta API initialization.
	nodeVersion := fmt.Sprintf("%s-%d", files[0].SpecName, files[0].SpecVersion)
	config := configuration.New(nodeVersion)
	validate := validator.New()
	data := rosetta.NewData(config, validate, manager)
	construct := rosetta.NewConstruction(validate, manager)

	server := echo.New()
	server.HideBanner = true
	server.HidePort = true
	server.Logger = elog
	server.Use(lecho.Middleware(lecho.Config{Logger: elog}))

	server.POST("/network/list", data.Networks)
	server.POST("/network/options", data.Options)
	server.POST("/network/status", data.Status)
	server.POST("/account/balance", data.Balance)
	server.POST("/block", data.Block)
	server.POST("/block/transaction", data.Transaction)

	server.POST("/construction/preprocess", construct.Preprocess)
	server.POST("/construction/metadata", construct.Metadata)
	server.POST("/construction/payloads", construct.Payloads)
	server.POST("/construction/combine", construct.Combine)
	server.POST("/construction/parse", construct.Parse)
	server.POST("/construction/hash", construct.Hash)
	server.POST("/construction/submit", construct.Submit)
	server.POST("/construction/derive", construct.Derive)

	var mserver *metrics.Server
	if flagMetrics != "" {
		mserver = metrics.NewServer(log, flagMetrics, registry)
	}

	// This section launches the main executing components in their own
	// goroutine, so they can run concurrently. Afterwards, we wait for an
	// interrupt signal in order to proceed with the next section.
	done := make(chan struct{})
	failed := make(chan struct{})
	go func() {
		log.Info().Uint16("port", flagPort).Bool("offline", flagOffline).Msg("Substrate Rosetta Server starting")
		err := server.Start(fmt.Sprint(":", flagPort))
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn().Err(err).Msg("Substrate Rosetta Server failed")
			close(failed)
		} else {
			close(done)
		}
		log.Info().Msg("Substrate Rosetta Server stopped")
	}()
	if mserver != nil {
		go func() {
			err := mserver.Start()
			if err != nil {
				log.Warn().Err(err).Msg("metrics server failed")
			}
		}()
	}

	select {
	case <-sig:
		log.Info().Msg("Substrate Rosetta Server stopping")
	case <-done:
		log.Info().Msg("Substrate Rosetta Server done")
	case <-failed:
		log.Warn().Msg("Substrate Rosetta Server aborted")
		return failure
	}
	go func() {
		<-sig
		log.Warn().Msg("forcing exit")
		os.Exit(1)
	}()

	// The following code starts a shut down with a certain timeout and makes
	// sure that the main executing components are shutting down within the
	// allocated shutdown time. Otherwise, we will force the shutdown and log
	// an error. We then wait for shutdown on each component to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if mserver != nil {
		err = mserver.Stop(ctx)
		if err != nil {
			log.Error().Err(err).Msg("could not shut down metrics server")
		}
	}
	err = server.Shutdown(ctx)
	if err != nil {
		log.Error().Err(err).Msg("could not shut down Substrate Rosetta Server")
		return failure
	}

	return success
}
