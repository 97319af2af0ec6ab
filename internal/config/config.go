// Package config defines the configuration of the storefront service.
package config

import (
	"fmt"
	"strings"

	"github.com/aurelia-labs/jewelstore/pkg/config"
	"github.com/aurelia-labs/jewelstore/pkg/config/configloader"
)

var _ configloader.Validator = (*Config)(nil)

// PricingConfig carries the externally supplied pricing parameters. The tax
// rate is expressed in basis points: 800 means 8%.
type PricingConfig struct {
	ShippingFeeCents int64  `koanf:"shippingFeeCents"`
	TaxRateBps       int64  `koanf:"taxRateBps"`
	Currency         string `koanf:"currency"`
}

func (c *PricingConfig) Validate() error {
	if c.ShippingFeeCents < 0 {
		return fmt.Errorf("shipping fee must not be negative: %d", c.ShippingFeeCents)
	}
	if c.TaxRateBps < 0 || c.TaxRateBps > 10000 {
		return fmt.Errorf("tax rate must be between 0 and 10000 bps: %d", c.TaxRateBps)
	}
	if c.Currency == "" {
		return fmt.Errorf("currency is not configured")
	}
	return nil
}

// CatalogConfig selects the catalog seed. An empty seed file means the
// embedded default catalog.
type CatalogConfig struct {
	SeedFile string `koanf:"seedFile"`
}

func (c *CatalogConfig) Validate() error {
	return nil
}

type Config struct {
	HTTPServer config.HTTPConfig     `koanf:"server"`
	Database   config.DatabaseConfig `koanf:"database"`
	Nats       config.NATSConfig     `koanf:"nats"`
	Log        config.LogConfig      `koanf:"log"`
	PProf      config.PProfConfig    `koanf:"pprof"`
	Shutdown   config.ShutdownConfig `koanf:"shutdown"`
	Pricing    PricingConfig         `koanf:"pricing"`
	Catalog    CatalogConfig         `koanf:"catalog"`
}

func (c *Config) String() string {
	var b strings.Builder

	b.WriteString("\n--- Server Configuration ---\n")
	b.WriteString(fmt.Sprintf("  server.port: %d\n", c.HTTPServer.Port))
	b.WriteString(fmt.Sprintf("  server.maxHeaderBytes: %d\n", c.HTTPServer.MaxHeaderBytes))
	b.WriteString(fmt.Sprintf("  server.timeout.read: %v\n", c.HTTPServer.Timeout.Read))
	b.WriteString(fmt.Sprintf("  server.timeout.write: %v\n", c.HTTPServer.Timeout.Write))
	b.WriteString(fmt.Sprintf("  server.timeout.idle: %v\n", c.HTTPServer.Timeout.Idle))
	b.WriteString(fmt.Sprintf("  server.timeout.readHeader: %v\n", c.HTTPServer.Timeout.ReadHeader))

	b.WriteString("\n--- Database Configuration ---\n")
	b.WriteString(fmt.Sprintf("  database.enabled: %t\n", c.Database.Enabled))
	b.WriteString(fmt.Sprintf("  database.url: %s\n", maskURL(c.Database.URL)))
	b.WriteString(fmt.Sprintf("  database.timeout: %s\n", c.Database.Timeout))

	b.WriteString("\n--- Events ---\n")
	b.WriteString(fmt.Sprintf("  nats.enabled: %t\n", c.Nats.Enabled))
	b.WriteString(fmt.Sprintf("  nats.url: %s\n", c.Nats.Url))
	b.WriteString(fmt.Sprintf("  nats.timeout: %s\n", c.Nats.Timeout))

	b.WriteString("\n--- Storefront ---\n")
	b.WriteString(fmt.Sprintf("  pricing.shippingFeeCents: %d\n", c.Pricing.ShippingFeeCents))
	b.WriteString(fmt.Sprintf("  pricing.taxRateBps: %d\n", c.Pricing.TaxRateBps))
	b.WriteString(fmt.Sprintf("  pricing.currency: %s\n", c.Pricing.Currency))
	b.WriteString(fmt.Sprintf("  catalog.seedFile: %s\n", c.Catalog.SeedFile))

	b.WriteString("\n--- Observability & Logging ---\n")
	b.WriteString(fmt.Sprintf("  log.level: %s\n", c.Log.Level))
	b.WriteString(fmt.Sprintf("  pprof.enabled: %t\n", c.PProf.Enabled))
	b.WriteString(fmt.Sprintf("  pprof.address: %s\n", c.PProf.Addr))

	b.WriteString("\n--- Application Behavior ---\n")
	b.WriteString(fmt.Sprintf("  shutdown.timeout: %s\n", c.Shutdown.Timeout))

	return b.String()
}

func maskURL(url string) string {
	if url == "" {
		return "<not configured>"
	}
	// Mask the URL by replacing the username and password with "****"
	parts := strings.Split(url, "@")
	if len(parts) == 2 {
		return "****@" + parts[1]
	}
	return "****"
}

// Validate checks if the configuration values are valid
func (c *Config) Validate() error {
	if err := c.HTTPServer.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Nats.Validate(); err != nil {
		return err
	}
	if err := c.Log.Validate(); err != nil {
		return err
	}
	if err := c.PProf.Validate(); err != nil {
		return err
	}
	if err := c.Shutdown.Validate(); err != nil {
		return err
	}
	if err := c.Pricing.Validate(); err != nil {
		return err
	}
	return c.Catalog.Validate()
}
