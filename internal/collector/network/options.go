package network

import "time"

// Option is a functional option for configuring the network Collector
type Option func(*Collector)

// WithPortRange sets the ports to scan.
// Format: "80,443,8080" or "1-1000" or "22,80-443,8080"
func WithPortRange(ports string) Option {
	return func(c *Collector) {
		if ports != "" {
			c.portRange = ports
		}
	}
}

// WithTimeout sets the timeout for one target's scan
func WithTimeout(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithServiceDetection enables or disables service version detection (-sV)
func WithServiceDetection(enabled bool) Option {
	return func(c *Collector) {
		c.serviceDetection = enabled
	}
}
