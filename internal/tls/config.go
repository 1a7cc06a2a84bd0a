package tls

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/isobit/graphiql-console/internal/log"
)

type Config struct {
	TLSSkipVerify bool   `cli:"name=tls-skip-verify,env=GRAPHIQL_CONSOLE_TLS_SKIP_VERIFY,help=skip verification of upstream certificates"`
	TLSServerName string `cli:"name=tls-server-name,env=GRAPHIQL_CONSOLE_TLS_SERVER_NAME,help=server name to verify upstream certificates against"`

	TLSCert string `cli:"name=tls-cert,env=GRAPHIQL_CONSOLE_TLS_CERT,help=certificate file to serve HTTPS with"`
	TLSKey  string `cli:"name=tls-key,env=GRAPHIQL_CONSOLE_TLS_KEY,help=key file for --tls-cert"`

	TLSCACert     string   `cli:"name=tls-ca-cert,env=GRAPHIQL_CONSOLE_TLS_CA_CERT,help=extra root CA for upstream connections"`
	TLSExtraHosts []string `cli:"name=tls-extra-hosts,env=GRAPHIQL_CONSOLE_TLS_EXTRA_HOSTS,append,help=extra hosts for the generated certificate"`
}

// ClientConfig is used for outbound connections: override sources and the
// GraphQL proxy.
func (cfg Config) ClientConfig() (*tls.Config, error) {
	c := &tls.Config{
		InsecureSkipVerify: cfg.TLSSkipVerify,
		ServerName:         cfg.TLSServerName,
	}
	if cfg.TLSCACert != "" {
		log.Logf(1, "loading TLS root CA cert in %s", cfg.TLSCACert)
		pool, err := certPoolWith(cfg.TLSCACert)
		if err != nil {
			return nil, err
		}
		c.RootCAs = pool
	}
	if cfg.TLSCert != "" && cfg.TLSKey != "" {
		cert, err := cfg.loadKeyPair()
		if err != nil {
			return nil, err
		}
		c.Certificates = []tls.Certificate{cert}
	}
	return c, nil
}

// ServerConfig serves the configured key pair, or a freshly generated
// self-signed certificate for hosts when none is configured.
func (cfg Config) ServerConfig(hosts []string) (*tls.Config, error) {
	if cfg.TLSCert != "" && cfg.TLSKey != "" {
		cert, err := cfg.loadKeyPair()
		if err != nil {
			return nil, err
		}
		return &tls.Config{Certificates: []tls.Certificate{cert}}, nil
	}

	certHosts := append([]string{}, hosts...)
	certHosts = append(certHosts, cfg.TLSExtraHosts...)
	log.Logf(1, "generating self-signed TLS cert for %v", certHosts)
	cert, err := GenerateSelfSigned(certHosts)
	if err != nil {
		return nil, fmt.Errorf("error generating cert: %w", err)
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}}, nil
}

func (cfg Config) loadKeyPair() (tls.Certificate, error) {
	log.Logf(1, "loading TLS cert in %s and key in %s", cfg.TLSCert, cfg.TLSKey)
	cert, err := tls.LoadX509KeyPair(cfg.TLSCert, cfg.TLSKey)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("error loading cert: %w", err)
	}
	return cert, nil
}

func certPoolWith(filename string) (*x509.CertPool, error) {
	pool, err := x509.SystemCertPool()
	if err != nil {
		return nil, fmt.Errorf("error loading system cert pool: %w", err)
	}
	certBytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading cert %s: %w", filename, err)
	}
	if ok := pool.AppendCertsFromPEM(certBytes); !ok {
		return nil, fmt.Errorf("no certs were appended from %s", filename)
	}
	return pool, nil
}
