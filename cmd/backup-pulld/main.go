// Command backup-pulld serves the backup pull gRPC service out of a
// BoltDB metadata store and a blob store reachable over the network.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"path/filepath"

	"github.com/Wessie/appdirs"
	"github.com/tv42/jog"
	"google.golang.org/grpc"

	"backuppull.io/backuppb"
	"backuppull.io/blobstore/blobgrpc"
	"backuppull.io/cliutil/flagx"
	"backuppull.io/metadata"
	"backuppull.io/pullsvc"
)

const defaultChunkLimit = 4 * 1024 * 1024

type config struct {
	flag.FlagSet
	Listen     flagx.TCPAddr
	DataDir    flagx.AbsPath
	BlobAddr   string
	ChunkLimit int
	Debug      bool
}

func defaultDataDir() string {
	return filepath.Join(appdirs.UserDataDir("backup-pulld", "", "", false), "data")
}

func parseFlags(args []string) (*config, error) {
	cfg := &config{}
	cfg.FlagSet.Init("backup-pulld", flag.ExitOnError)
	cfg.Var(&cfg.Listen, "listen", "address to listen on for the pull gRPC service")
	cfg.Var(&cfg.DataDir, "data-dir", "directory for the metadata database")
	cfg.StringVar(&cfg.BlobAddr, "blob-addr", "", "address of the blob store service")
	cfg.IntVar(&cfg.ChunkLimit, "chunk-limit", defaultChunkLimit, "maximum payload bytes per pull response frame")
	cfg.BoolVar(&cfg.Debug, "debug", false, "log every pull call's frame count")
	if err := cfg.DataDir.Set(defaultDataDir()); err != nil {
		return nil, err
	}
	if err := cfg.Listen.Set(":0"); err != nil {
		return nil, err
	}
	if err := cfg.Parse(args); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cfg *config) error {
	if err := os.MkdirAll(cfg.DataDir.String(), 0700); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}
	dbPath := filepath.Join(cfg.DataDir.String(), "metadata.db")
	store, err := metadata.Open(dbPath, 0600)
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	defer store.Close()

	if cfg.BlobAddr == "" {
		return fmt.Errorf("missing -blob-addr")
	}
	conn, err := grpc.Dial(cfg.BlobAddr, grpc.WithInsecure())
	if err != nil {
		return fmt.Errorf("dialing blob store: %w", err)
	}
	defer conn.Close()
	blobs := blobgrpc.New(backuppb.NewBackupBlobClient(conn))

	svc := pullsvc.New(store, blobs, cfg.ChunkLimit)
	if cfg.Debug {
		svc.Log = jog.New(&jog.Config{Out: os.Stderr})
	}

	l, err := net.ListenTCP("tcp", cfg.Listen.Addr)
	if err != nil {
		return fmt.Errorf("listening on %v: %w", cfg.Listen.Addr, err)
	}
	log.Printf("backup-pulld: listening on %v", l.Addr())

	srv := grpc.NewServer()
	backuppb.RegisterBackupPullServer(srv, svc)
	return srv.Serve(l)
}

func main() {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		log.Fatalf("backup-pulld: %v", err)
	}
	if err := run(cfg); err != nil {
		log.Fatalf("backup-pulld: %v", err)
	}
}
