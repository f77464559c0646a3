// Package fswalk implements a filesystem tree collector.
//
// Each configured root directory becomes one root entity; directories
// become hierarchy nodes and regular files become entities, with size
// and modification facts attached as metadata. The walk visits parents
// before children, so the builder's ordering requirements hold by
// construction.
package fswalk

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"time"

	"netcollector/internal/builder"
	"netcollector/internal/collector"
	"netcollector/internal/domain"
)

// Collector walks local directory trees into the store.
type Collector struct {
	roots []string
}

// New creates a filesystem collector for the given root directories.
func New(roots []string) *Collector {
	return &Collector{roots: roots}
}

// Source describes the data source row for this collector.
func (c *Collector) Source() domain.DataSource {
	info, _ := json.Marshal(map[string]any{"roots": c.roots})
	return domain.DataSource{
		Name:           "filesystem",
		SourceType:     "filesystem",
		Description:    "Local filesystem tree collector",
		ConnectionInfo: info,
	}
}

// Collect walks every configured root. An unreadable root is logged and
// skipped; the collector fails only when no root could be walked at all.
func (c *Collector) Collect(ctx context.Context, run *collector.Run) error {
	if len(c.roots) == 0 {
		log.Printf("fswalk: no roots configured")
		return nil
	}

	var walked int
	for _, root := range c.roots {
		if err := c.walkRoot(ctx, run, root); err != nil {
			log.Printf("fswalk: skipping root %s: %v", root, err)
			continue
		}
		walked++
	}

	if walked == 0 {
		return fmt.Errorf("no filesystem root could be walked (%d configured)", len(c.roots))
	}
	return nil
}

// Shutdown releases nothing; the collector holds no resources.
func (c *Collector) Shutdown() error {
	return nil
}

// walkRoot materializes one directory tree under its own root entity.
func (c *Collector) walkRoot(ctx context.Context, run *collector.Run, root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("resolve root: %w", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", abs)
	}

	// The tree path namespace uses the base name so re-mounting the same
	// data at another absolute location converges on the same rows.
	treeRoot := filepath.Base(abs)

	b, err := run.NewTree(ctx, &domain.RootEntity{
		Name:       treeRoot,
		EntityType: "filesystem",
		Path:       treeRoot,
	})
	if err != nil {
		return err
	}

	return filepath.WalkDir(abs, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			// Unreadable subtree: record nothing below it, keep going.
			log.Printf("fswalk: %s: %v", p, walkErr)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(abs, p)
		if err != nil {
			return err
		}

		treePath := treeRoot
		parentPath := ""
		if rel != "." {
			treePath = path.Join(treeRoot, filepath.ToSlash(rel))
			parentPath = path.Dir(treePath)
		}

		if d.IsDir() {
			return c.addDir(ctx, b, parentPath, treePath, d)
		}
		if !d.Type().IsRegular() {
			return nil // sockets, symlinks, devices
		}
		return c.addFile(ctx, run, b, parentPath, treePath, d)
	})
}

func (c *Collector) addDir(ctx context.Context, b *builder.Builder, parentPath, treePath string, d fs.DirEntry) error {
	node := &domain.HierarchyNode{
		Path:     treePath,
		Name:     d.Name(),
		NodeType: "directory",
	}
	if info, err := d.Info(); err == nil {
		props, _ := json.Marshal(map[string]any{
			"mode":     info.Mode().Perm().String(),
			"modified": info.ModTime().UTC(),
		})
		node.Properties = props
	}

	_, err := b.AddNode(ctx, parentPath, node)
	return err
}

func (c *Collector) addFile(ctx context.Context, run *collector.Run, b *builder.Builder, parentPath, treePath string, d fs.DirEntry) error {
	info, err := d.Info()
	if err != nil {
		log.Printf("fswalk: stat %s: %v", treePath, err)
		return nil
	}

	ent := &domain.Entity{
		Path:        treePath,
		Name:        d.Name(),
		ContentType: "file",
	}

	size := info.Size()
	ent.Size = &size

	if typeID, err := c.entityTypeFor(ctx, run, d.Name()); err == nil && typeID != 0 {
		ent.EntityTypeID = &typeID
	}

	entID, err := b.AddEntity(ctx, parentPath, ent)
	if err != nil {
		return err
	}

	facts := []domain.MetadataEntry{
		{Key: "size_bytes", Value: strconv.FormatInt(size, 10), DataType: domain.DataTypeNumber},
		{Key: "permissions", Value: info.Mode().Perm().String(), DataType: domain.DataTypeString},
		{Key: "modified", Value: info.ModTime().UTC().Format(time.RFC3339), DataType: domain.DataTypeString},
	}
	for _, fact := range facts {
		if err := b.AddMetadata(ctx, domain.OwnerEntity, entID, fact.Key, fact.Value, fact.DataType); err != nil {
			return err
		}
	}
	return nil
}

// entityTypeFor registers (or reuses) the entity type for a file's
// extension. Extensionless files share a single "file" type.
func (c *Collector) entityTypeFor(ctx context.Context, run *collector.Run, name string) (int64, error) {
	ext := path.Ext(name)
	typeName := "file"
	if ext != "" {
		typeName = ext[1:]
	}

	return run.Store().UpsertEntityType(ctx, &domain.EntityType{
		Name:     typeName,
		Category: "filesystem",
		MimeType: mime.TypeByExtension(ext),
	})
}
