package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/broker/messages"
	"github.com/dhirajgiri3/Shipcrowd-sub015/internal/pricing"
)

type pricingAPIOpts struct {
	httpAddr string

	topic         string
	consumerGroup string

	onListen func(httpAddr string)
}

type kafkaConsumer interface {
	Consume(ctx context.Context, handler func(key, value []byte) error) error
}

func runPricingAPI(ctx context.Context, opts pricingAPIOpts, svc *pricing.Service, handler http.Handler, consumer kafkaConsumer) error {
	if opts.httpAddr == "" {
		opts.httpAddr = ":8080"
	}

	lis, err := net.Listen("tcp", opts.httpAddr)
	if err != nil {
		return err
	}
	if opts.onListen != nil {
		opts.onListen(lis.Addr().String())
	}

	go func() {
		slog.Info("kafka consumer started", "topic", opts.topic, "group", opts.consumerGroup)
		_ = consumer.Consume(ctx, func(_key, value []byte) error {
			var m messages.RateCardUpdated
			if err := json.Unmarshal(value, &m); err != nil {
				return err
			}
			return svc.ApplyRateCardUpdate(ctx, m)
		})
	}()

	srv := &http.Server{Handler: handler}
	httpErr := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "addr", lis.Addr().String())
		httpErr <- srv.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		_ = lis.Close()
		return ctx.Err()
	case err := <-httpErr:
		return err
	}
}
