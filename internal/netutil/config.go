package netutil

import (
	"context"
	"net"
	"syscall"
)

type Config struct {
	ReusePort bool `cli:"name=reuseport,env=GRAPHIQL_CONSOLE_REUSEPORT,help=set SO_REUSEPORT on the listening socket"`
}

func (cfg Config) ListenConfig() net.ListenConfig {
	return net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			if cfg.ReusePort {
				return ReusePortControl(network, address, c)
			}
			return nil
		},
	}
}

func (cfg Config) Listen(ctx context.Context, network, address string) (net.Listener, error) {
	listenCfg := cfg.ListenConfig()
	return listenCfg.Listen(ctx, network, address)
}
