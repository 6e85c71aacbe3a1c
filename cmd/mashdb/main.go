// Command mashdb is a single-file database with an interactive prompt.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"mash-db/internal/common"
	"mash-db/internal/config"
	"mash-db/internal/logger"
	"mash-db/pkg/btree"
	"mash-db/pkg/export"
	"mash-db/pkg/pager"
	"mash-db/pkg/repl"
	"mash-db/pkg/snapshot"
	"mash-db/pkg/table"
)

const version = "0.2.0"

// Globals are flags shared by every command
type Globals struct {
	Config   string `name:"config" short:"c" help:"Config file (default: ${default_config})" type:"path"`
	LogLevel string `name:"log-level" help:"Log level (debug, info, warn, error)"`

	cfg *config.Config `kong:"-"`
	log *zap.Logger    `kong:"-"`
}

// CLI defines the command-line interface for mashdb
type CLI struct {
	Globals

	Shell   ShellCmd   `cmd:"" default:"withargs" help:"Open a database and start the prompt"`
	Info    InfoCmd    `cmd:"" help:"Describe a database file"`
	Export  ExportCmd  `cmd:"" help:"Copy all rows into a SQLite database"`
	Backup  BackupCmd  `cmd:"" help:"Write a compressed snapshot of a database file"`
	Restore RestoreCmd `cmd:"" help:"Restore a database file from a snapshot"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// setup loads the config file and builds the logger
func (g *Globals) setup() error {
	var err error
	if g.Config != "" {
		g.cfg, err = config.Load(g.Config)
	} else {
		g.cfg, err = config.LoadOptional(config.DefaultPath)
	}
	if err != nil {
		return err
	}
	if g.LogLevel != "" {
		g.cfg.Logger.LogLevel = g.LogLevel
	}

	g.log, err = logger.New(g.cfg.Logger)
	return err
}

// dbPath picks the positional path, falling back to the config
func (g *Globals) dbPath(arg string) string {
	if arg != "" {
		return arg
	}
	return g.cfg.Database.Path
}

// ShellCmd runs the interactive prompt over stdin/stdout
type ShellCmd struct {
	Path string `arg:"" optional:"" help:"Database file" type:"path"`
}

func (c *ShellCmd) Run(g *Globals) error {
	path := g.dbPath(c.Path)

	t, err := table.Open(path, table.WithLogger(g.log))
	if err != nil {
		return err
	}

	// A fatal error returns with the table still open: nothing inserted in
	// this session reaches the file.
	return repl.NewSession(t, os.Stdin, os.Stdout, repl.WithLogger(g.log)).Run()
}

// InfoCmd prints the layout of a database file without modifying it
type InfoCmd struct {
	Path string `arg:"" optional:"" help:"Database file" type:"path"`
}

func (c *InfoCmd) Run(g *Globals) error {
	path := g.dbPath(c.Path)

	p, err := pager.Open(path, pager.WithLogger(g.log))
	if err != nil {
		return err
	}
	defer p.Close()

	fmt.Printf("Database: %s\n", path)
	fmt.Printf("Size:     %s\n", humanize.IBytes(uint64(p.FileLength())))
	fmt.Printf("Pages:    %d of %d (%s each)\n", p.NumPages(), common.MaxPages, humanize.IBytes(common.PageSize))

	if p.NumPages() == 0 {
		fmt.Println("Root:     none (empty file)")
		return nil
	}

	page, err := p.GetPage(common.RootPageNum)
	if err != nil {
		return err
	}
	node, err := btree.Open(page.Data[:])
	if err != nil {
		return err
	}
	leaf, ok := node.(*btree.LeafNode)
	if !ok {
		fmt.Printf("Root:     %s node\n", node.Kind())
		return nil
	}
	fmt.Printf("Root:     leaf, %d of %d cells\n", leaf.NumCells(), common.LeafNodeMaxCells)
	return nil
}

// ExportCmd copies rows into a SQLite database
type ExportCmd struct {
	Path   string `arg:"" help:"Database file" type:"existingfile"`
	Target string `arg:"" help:"SQLite database to write" type:"path"`
}

func (c *ExportCmd) Run(g *Globals) error {
	t, err := table.Open(c.Path, table.WithLogger(g.log))
	if err != nil {
		return err
	}
	defer t.Close()

	n, err := export.ToSQLite(context.Background(), t, c.Target, g.log)
	if err != nil {
		return err
	}
	fmt.Printf("Exported %d rows to %s\n", n, c.Target)
	return nil
}

// BackupCmd writes a snapshot and its digest sidecar
type BackupCmd struct {
	Path string `arg:"" help:"Database file" type:"existingfile"`
	Out  string `arg:"" help:"Snapshot file to write" type:"path"`
}

func (c *BackupCmd) Run(g *Globals) error {
	d, err := snapshot.Backup(c.Path, c.Out)
	if err != nil {
		return err
	}
	g.log.Info("backup written", zap.String("path", c.Path), zap.String("snapshot", c.Out), zap.Stringer("digest", d))
	fmt.Printf("%s  %s\n", d, c.Out)
	return nil
}

// RestoreCmd rebuilds a database file from a snapshot
type RestoreCmd struct {
	Snapshot string `arg:"" help:"Snapshot file" type:"existingfile"`
	Path     string `arg:"" help:"Database file to write" type:"path"`
	Force    bool   `help:"Replace an existing database file"`
}

func (c *RestoreCmd) Run(g *Globals) error {
	d, err := snapshot.Restore(c.Snapshot, c.Path, c.Force)
	if err != nil {
		return errors.Wrapf(err, "failed to restore %s", c.Snapshot)
	}
	fmt.Printf("Restored %s (%s)\n", c.Path, d)
	return nil
}

// VersionCmd prints version information
type VersionCmd struct{}

func (v *VersionCmd) Run() error {
	fmt.Printf("MashDB v%s\n", version)
	fmt.Println("A simple SQLite-like database in Go")
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("mashdb"),
		kong.Description("MashDB - A simple SQLite-like database in Go"),
		kong.UsageOnError(),
		kong.Vars{"default_config": config.DefaultPath},
	)

	if err := cli.Globals.setup(); err != nil {
		ctx.FatalIfErrorf(err)
	}
	defer cli.Globals.log.Sync()

	err := ctx.Run(&cli.Globals)
	if err != nil {
		cli.Globals.log.Error("command failed", zap.String("command", ctx.Command()), zap.Error(err))
		cli.Globals.log.Sync()
	}
	ctx.FatalIfErrorf(err)
}
