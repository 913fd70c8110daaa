package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmagro/ethrpc-types/internal/config"
	"github.com/dmagro/ethrpc-types/internal/reports"
	"github.com/dmagro/ethrpc-types/internal/rpc"
)

var clients = rpc.NewClientPool()

func clientConfig(cfg *config.Config, p config.Provider) rpc.ClientConfig {
	return rpc.ClientConfig{
		Name:           p.Name,
		URL:            p.URL,
		Timeout:        p.Timeout,
		MaxRetries:     cfg.Defaults.MaxRetries,
		BackoffInitial: cfg.Defaults.BackoffInitial,
		BackoffMax:     cfg.Defaults.BackoffMax,
		Logger:         logger.With("module", "rpc"),
	}
}

// providerClient loads the config and returns the client for the selected provider.
func providerClient(gf *globalFlags) (*config.Config, *rpc.Client, error) {
	cfg, err := config.Load(gf.configPath)
	if err != nil {
		return nil, nil, err
	}
	p, err := cfg.Provider(gf.provider)
	if err != nil {
		return nil, nil, err
	}
	return cfg, clients.GetOrCreate(clientConfig(cfg, p)), nil
}

// rawCall is one request whose result is kept undecoded next to the decoded value,
// so a result the strict decoder rejects can still be shown.
type rawCall struct {
	method  string
	params  []interface{}
	raw     json.RawMessage
	latency time.Duration
}

func callDecode(ctx context.Context, client *rpc.Client, v interface{}, method string, params ...interface{}) (*rawCall, error) {
	rc := &rawCall{method: method, params: params}
	resp, latency, err := client.Call(ctx, method, params...)
	rc.latency = latency
	if err != nil {
		return rc, err
	}
	rc.raw = resp.Result
	if resp.IsNull() {
		return rc, errNotFound
	}
	if err := resp.Decode(v); err != nil {
		return rc, fmt.Errorf("%s: %w", method, err)
	}
	return rc, nil
}

var errNotFound = errors.New("not found")

func saveReport(dir, prefix string, data any) error {
	path, err := reports.Save(dir, prefix, data, time.Now())
	if err != nil {
		return err
	}
	logger.Info("report saved", "path", path)
	return nil
}
