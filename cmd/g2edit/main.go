// Command g2edit connects to a Clavia Nord Modular G2, keeps an
// in-memory mirror of its four patch slots, and logs every indication
// it sees. It is the wiring entry point for the protocol/session/patchdb
// packages; a real GUI would replace the logging Observer with one that
// redraws a patch view.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chrispurusha/g2edit/internal/catalog"
	"github.com/chrispurusha/g2edit/internal/patchdb"
	"github.com/chrispurusha/g2edit/internal/protocol"
	"github.com/chrispurusha/g2edit/internal/queue"
	"github.com/chrispurusha/g2edit/internal/session"
	"github.com/chrispurusha/g2edit/internal/transport"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	queueCapacity := flag.Int("queue", 64, "outgoing edit-command queue capacity")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := patchdb.New()
	cat := catalog.Default()
	codec := protocol.NewCodec(cat, db, log)
	q := queue.New(*queueCapacity)

	t := transport.New(transport.DefaultConfig(), log)
	obs := &loggingObserver{log: log}
	m := session.New(t, codec, db, q, obs, log)

	log.Info("starting session", "state", m.State())
	if err := m.Run(ctx); err != nil {
		log.Info("session stopped", "err", err)
	}
}

// loggingObserver is the default Observer: it just logs. A GUI front
// end wires its own redraw calls in instead.
type loggingObserver struct {
	log *slog.Logger
}

func (o *loggingObserver) Wake() {
	o.log.Debug("wake")
}

func (o *loggingObserver) FullPatchChange() {
	o.log.Info("full patch change")
}
