// Package network implements an nmap-backed network topology collector.
//
// Each configured target (a CIDR range or a single host) becomes a
// hierarchy node; every live host discovered inside it becomes an
// entity, with addresses, hostnames and open services attached as
// metadata. Unreachable targets are skipped so one dead network never
// blocks collection of the others.
package network

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	nmap "github.com/Ullaakut/nmap/v3"

	"netcollector/internal/builder"
	"netcollector/internal/collector"
	"netcollector/internal/domain"
)

const rootName = "network_root"

// Collector scans configured network targets with nmap.
type Collector struct {
	targets          []string
	portRange        string
	timeout          time.Duration
	serviceDetection bool
}

// New creates a network collector for the given CIDR ranges or hosts.
func New(targets []string, opts ...Option) *Collector {
	c := &Collector{
		targets:          targets,
		portRange:        "22,25,53,80,443,445,3389,5432,5900,8080,8443",
		timeout:          10 * time.Minute,
		serviceDetection: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Source describes the data source row for this collector.
func (c *Collector) Source() domain.DataSource {
	info, _ := json.Marshal(map[string]any{
		"targets":    c.targets,
		"port_range": c.portRange,
	})
	return domain.DataSource{
		Name:           "network",
		SourceType:     "network",
		Description:    "Nmap network topology collector",
		ConnectionInfo: info,
	}
}

// Collect scans every configured target. A target that cannot be
// scanned is logged and skipped; the collector fails only when no
// target produced a scan at all.
func (c *Collector) Collect(ctx context.Context, run *collector.Run) error {
	if len(c.targets) == 0 {
		log.Printf("network: no targets configured")
		return nil
	}

	b, err := run.NewTree(ctx, &domain.RootEntity{
		Name:       rootName,
		EntityType: "network",
		Path:       rootName,
	})
	if err != nil {
		return err
	}

	hostTypeID, err := run.Store().UpsertEntityType(ctx, &domain.EntityType{
		Name:     "host",
		Category: "network",
	})
	if err != nil {
		return err
	}

	var scanned int
	for _, target := range c.targets {
		if err := c.scanTarget(ctx, b, target, hostTypeID); err != nil {
			log.Printf("network: skipping target %s: %v", target, err)
			continue
		}
		scanned++
	}

	if scanned == 0 {
		return fmt.Errorf("no network target could be scanned (%d configured)", len(c.targets))
	}
	return nil
}

// Shutdown releases nothing; scans run within Collect.
func (c *Collector) Shutdown() error {
	return nil
}

// scanTarget runs one nmap scan and materializes its sub-tree.
func (c *Collector) scanTarget(ctx context.Context, b *builder.Builder, target string, hostTypeID int64) error {
	scanCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	opts := []nmap.Option{
		nmap.WithTargets(target),
		nmap.WithPorts(c.portRange),
	}
	if c.serviceDetection {
		opts = append(opts, nmap.WithServiceInfo())
	}

	scanner, err := nmap.NewScanner(scanCtx, opts...)
	if err != nil {
		return fmt.Errorf("create scanner: %w", err)
	}

	log.Printf("network: scanning %s", target)
	result, warnings, err := scanner.Run()
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if warnings != nil && len(*warnings) > 0 {
		log.Printf("network: warnings for %s: %v", target, *warnings)
	}

	nodePath := rootName + "/" + sanitizeTarget(target)
	props, _ := json.Marshal(map[string]any{"target": target})
	nodeID, err := b.AddNode(ctx, "", &domain.HierarchyNode{
		Path:       nodePath,
		Name:       target,
		NodeType:   "network",
		Properties: props,
	})
	if err != nil {
		return err
	}

	var up int
	for _, host := range result.Hosts {
		if host.Status.State != "up" || len(host.Addresses) == 0 {
			continue
		}
		if err := c.addHost(ctx, b, nodePath, host, hostTypeID); err != nil {
			return err
		}
		up++
	}

	return b.AddMetadata(ctx, domain.OwnerNode, nodeID, "hosts_up",
		strconv.Itoa(up), domain.DataTypeNumber)
}

// addHost materializes one live host as an entity with address, name
// and service facts.
func (c *Collector) addHost(ctx context.Context, b *builder.Builder, nodePath string, host nmap.Host, hostTypeID int64) error {
	ip := primaryAddress(host)
	if ip == "" {
		return nil
	}

	content, _ := json.Marshal(hostSummary(host))
	entID, err := b.AddEntity(ctx, nodePath, &domain.Entity{
		Path:         nodePath + "/" + ip,
		Name:         ip,
		EntityTypeID: &hostTypeID,
		ContentType:  "network_host",
		Content:      content,
	})
	if err != nil {
		return err
	}

	if err := b.AddMetadata(ctx, domain.OwnerEntity, entID, "ip_address", ip, domain.DataTypeString); err != nil {
		return err
	}

	if len(host.Hostnames) > 0 {
		if err := b.AddMetadata(ctx, domain.OwnerEntity, entID, "hostname",
			host.Hostnames[0].Name, domain.DataTypeString); err != nil {
			return err
		}
	}

	for _, addr := range host.Addresses {
		if addr.AddrType == "mac" {
			if err := b.AddMetadata(ctx, domain.OwnerEntity, entID, "mac_address",
				strings.ToUpper(addr.Addr), domain.DataTypeString); err != nil {
				return err
			}
		}
	}

	var open []string
	for _, port := range host.Ports {
		if port.State.State != "open" {
			continue
		}
		open = append(open, strconv.Itoa(int(port.ID)))

		if port.Service.Name != "" {
			if err := b.AddMetadata(ctx, domain.OwnerEntity, entID,
				fmt.Sprintf("service_%d", port.ID), serviceBanner(port), domain.DataTypeString); err != nil {
				return err
			}
		}
	}
	if len(open) > 0 {
		if err := b.AddMetadata(ctx, domain.OwnerEntity, entID, "open_ports",
			strings.Join(open, ","), domain.DataTypeString); err != nil {
			return err
		}
	}

	return nil
}

// primaryAddress picks the host's IPv4 address, falling back to the
// first address of any type.
func primaryAddress(host nmap.Host) string {
	for _, addr := range host.Addresses {
		if addr.AddrType == "ipv4" {
			return addr.Addr
		}
	}
	return host.Addresses[0].Addr
}

// hostSummary flattens the scan result for the entity content blob.
func hostSummary(host nmap.Host) map[string]any {
	summary := map[string]any{
		"state": host.Status.State,
	}
	if len(host.Hostnames) > 0 {
		summary["hostname"] = host.Hostnames[0].Name
	}

	var ports []map[string]any
	for _, port := range host.Ports {
		if port.State.State != "open" {
			continue
		}
		ports = append(ports, map[string]any{
			"port":     port.ID,
			"protocol": port.Protocol,
			"service":  port.Service.Name,
			"product":  port.Service.Product,
			"version":  port.Service.Version,
		})
	}
	if len(ports) > 0 {
		summary["ports"] = ports
	}
	return summary
}

// serviceBanner builds a one-line service description from detection
// results.
func serviceBanner(port nmap.Port) string {
	banner := port.Service.Name
	if port.Service.Product != "" {
		banner += " (" + port.Service.Product
		if port.Service.Version != "" {
			banner += " " + port.Service.Version
		}
		banner += ")"
	}
	return banner
}

// sanitizeTarget turns a CIDR or host target into a tree path segment.
func sanitizeTarget(target string) string {
	return strings.NewReplacer("/", "_", ":", "-").Replace(target)
}
