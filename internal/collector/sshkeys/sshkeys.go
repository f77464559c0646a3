// Package sshkeys implements an SSH key inventory collector.
//
// Configured key directories are scanned for public and private key
// material. Public keys are parsed and fingerprinted; private keys are
// identified and hashed without exposing their contents. Matching
// public/private pairs are cross-referenced through metadata.
package sshkeys

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/crypto/ssh"

	"netcollector/internal/builder"
	"netcollector/internal/collector"
	"netcollector/internal/domain"
)

const rootName = "ssh_root"

// Files in a key directory that are never key material.
var skipFiles = map[string]bool{
	"known_hosts":     true,
	"known_hosts.old": true,
	"config":          true,
	"authorized_keys": true,
	"environment":     true,
}

// Collector inventories SSH keys from the configured directories.
type Collector struct {
	dirs []string
}

// New creates an SSH key collector for the given directories.
func New(dirs []string) *Collector {
	return &Collector{dirs: dirs}
}

// Source describes the data source row for this collector.
func (c *Collector) Source() domain.DataSource {
	info, _ := json.Marshal(map[string]any{"dirs": c.dirs})
	return domain.DataSource{
		Name:           "ssh-keys",
		SourceType:     "security",
		Description:    "SSH key and fingerprint inventory",
		ConnectionInfo: info,
	}
}

// Collect scans every configured directory. An unreadable directory is
// logged and skipped; the collector fails only when none could be read.
func (c *Collector) Collect(ctx context.Context, run *collector.Run) error {
	if len(c.dirs) == 0 {
		log.Printf("sshkeys: no key directories configured")
		return nil
	}

	b, err := run.NewTree(ctx, &domain.RootEntity{
		Name:       rootName,
		EntityType: "security",
		Path:       rootName,
	})
	if err != nil {
		return err
	}

	publicTypeID, err := run.Store().UpsertEntityType(ctx, &domain.EntityType{
		Name:     "ssh_public_key",
		Category: "security",
	})
	if err != nil {
		return err
	}
	privateTypeID, err := run.Store().UpsertEntityType(ctx, &domain.EntityType{
		Name:     "ssh_private_key",
		Category: "security",
	})
	if err != nil {
		return err
	}

	var scanned int
	for _, dir := range c.dirs {
		if err := c.scanDir(ctx, b, dir, publicTypeID, privateTypeID); err != nil {
			log.Printf("sshkeys: skipping %s: %v", dir, err)
			continue
		}
		scanned++
	}

	if scanned == 0 {
		return fmt.Errorf("no key directory could be read (%d configured)", len(c.dirs))
	}
	return nil
}

// Shutdown releases nothing; the collector holds no resources.
func (c *Collector) Shutdown() error {
	return nil
}

// scanDir materializes one key directory as a node with one entity per
// key file found inside it.
func (c *Collector) scanDir(ctx context.Context, b *builder.Builder, dir string, publicTypeID, privateTypeID int64) error {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}

	entries, err := os.ReadDir(abs)
	if err != nil {
		return err
	}

	nodePath := rootName + "/" + sanitizePath(abs)
	nodeID, err := b.AddNode(ctx, "", &domain.HierarchyNode{
		Path:     nodePath,
		Name:     abs,
		NodeType: "key_directory",
	})
	if err != nil {
		return err
	}
	if err := b.AddMetadata(ctx, domain.OwnerNode, nodeID, "directory", abs, domain.DataTypeString); err != nil {
		return err
	}

	// name -> entity id, for pairing private keys with their .pub files.
	keyIDs := make(map[string]int64)

	for _, entry := range entries {
		if entry.IsDir() || skipFiles[entry.Name()] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		filePath := filepath.Join(abs, entry.Name())
		data, err := os.ReadFile(filePath)
		if err != nil {
			log.Printf("sshkeys: read %s: %v", filePath, err)
			continue
		}

		var entID int64
		if strings.HasSuffix(entry.Name(), ".pub") {
			entID, err = c.addPublicKey(ctx, b, nodePath, entry.Name(), filePath, data, publicTypeID)
		} else {
			entID, err = c.addPrivateKey(ctx, b, nodePath, entry.Name(), filePath, data, privateTypeID)
		}
		if err != nil {
			log.Printf("sshkeys: %s: %v", filePath, err)
			continue
		}
		if entID != 0 {
			keyIDs[entry.Name()] = entID
		}
	}

	return c.pairKeys(ctx, b, keyIDs)
}

// addPublicKey parses and fingerprints one authorized-keys formatted file.
func (c *Collector) addPublicKey(ctx context.Context, b *builder.Builder, nodePath, name, filePath string, data []byte, typeID int64) (int64, error) {
	pub, comment, _, _, err := ssh.ParseAuthorizedKey(data)
	if err != nil {
		return 0, fmt.Errorf("parse public key: %w", err)
	}

	content, _ := json.Marshal(map[string]any{"path": filePath})
	size := int64(len(data))

	entID, err := b.AddEntity(ctx, nodePath, &domain.Entity{
		Path:         nodePath + "/" + name,
		Name:         name,
		EntityTypeID: &typeID,
		Size:         &size,
		ContentType:  "ssh_public_key",
		Content:      content,
	})
	if err != nil {
		return 0, err
	}

	facts := map[string]string{
		"key_type":    pub.Type(),
		"fingerprint": ssh.FingerprintSHA256(pub),
	}
	if comment != "" {
		facts["comment"] = comment
	}
	for key, value := range facts {
		if err := b.AddMetadata(ctx, domain.OwnerEntity, entID, key, value, domain.DataTypeString); err != nil {
			return 0, err
		}
	}
	return entID, nil
}

// addPrivateKey records one private key file. The key material itself is
// never stored; only a digest and what the handshake layer can tell us
// without a passphrase.
func (c *Collector) addPrivateKey(ctx context.Context, b *builder.Builder, nodePath, name, filePath string, data []byte, typeID int64) (int64, error) {
	keyType := ""
	encrypted := false

	signer, err := ssh.ParsePrivateKey(data)
	if err == nil {
		keyType = signer.PublicKey().Type()
	} else {
		var missing *ssh.PassphraseMissingError
		if errors.As(err, &missing) {
			encrypted = true
		} else if !looksLikePrivateKey(data) {
			return 0, nil // not key material, ignore
		}
	}

	digest := sha256.Sum256(data)
	size := int64(len(data))
	content, _ := json.Marshal(map[string]any{"path": filePath})

	info, statErr := os.Stat(filePath)

	entID, err := b.AddEntity(ctx, nodePath, &domain.Entity{
		Path:         nodePath + "/" + name,
		Name:         name,
		EntityTypeID: &typeID,
		Size:         &size,
		ContentHash:  hex.EncodeToString(digest[:]),
		ContentType:  "ssh_key",
		Content:      content,
	})
	if err != nil {
		return 0, err
	}

	facts := []domain.MetadataEntry{
		{Key: "key_class", Value: "private", DataType: domain.DataTypeString},
		{Key: "size_bytes", Value: strconv.FormatInt(size, 10), DataType: domain.DataTypeNumber},
		{Key: "encrypted", Value: strconv.FormatBool(encrypted), DataType: domain.DataTypeBoolean},
	}
	if keyType != "" {
		facts = append(facts, domain.MetadataEntry{Key: "key_type", Value: keyType, DataType: domain.DataTypeString})
	}
	if statErr == nil {
		facts = append(facts, domain.MetadataEntry{
			Key: "permissions", Value: info.Mode().Perm().String(), DataType: domain.DataTypeString,
		})
	}
	for _, fact := range facts {
		if err := b.AddMetadata(ctx, domain.OwnerEntity, entID, fact.Key, fact.Value, fact.DataType); err != nil {
			return 0, err
		}
	}
	return entID, nil
}

// pairKeys cross-references id_x with id_x.pub in both directions.
func (c *Collector) pairKeys(ctx context.Context, b *builder.Builder, keyIDs map[string]int64) error {
	for name, privID := range keyIDs {
		if strings.HasSuffix(name, ".pub") {
			continue
		}
		pubID, ok := keyIDs[name+".pub"]
		if !ok {
			continue
		}
		if err := b.AddMetadata(ctx, domain.OwnerEntity, privID, "public_key", name+".pub", domain.DataTypeString); err != nil {
			return err
		}
		if err := b.AddMetadata(ctx, domain.OwnerEntity, pubID, "private_key", name, domain.DataTypeString); err != nil {
			return err
		}
	}
	return nil
}

// looksLikePrivateKey sniffs for a PEM private key header.
func looksLikePrivateKey(data []byte) bool {
	return strings.Contains(string(data), "PRIVATE KEY-----")
}

// sanitizePath turns an absolute path into a tree path segment.
func sanitizePath(p string) string {
	return strings.Trim(strings.ReplaceAll(p, string(os.PathSeparator), "_"), "_")
}
