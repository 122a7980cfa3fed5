// Command mtg runs mini-game modules on a terminal screen.
//
//	mtg -list
//	mtg -game counter -click left:10,10 -frames 3
//	mtg -game badapple -i
//	mtg -wasm ./counter.wasm -i
//
// Settings come from MTG_* environment variables; see package config.
package main

import (
	"bytes"
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/tardis-games/abi"
	"github.com/wippyai/tardis-games/catalog"
	"github.com/wippyai/tardis-games/config"
	"github.com/wippyai/tardis-games/errors"
	"github.com/wippyai/tardis-games/host"
	"github.com/wippyai/tardis-games/store"
	"github.com/wippyai/tardis-games/store/sqlite"
)

func main() {
	var (
		gamesDir    = flag.String("games", "", "Directory with game modules (overrides MTG_GAMES_DIR)")
		gameID      = flag.String("game", "", "Game id to run")
		wasmFile    = flag.String("wasm", "", "Path to a game module, bypassing the catalog")
		list        = flag.Bool("list", false, "List games and exit")
		frames      = flag.Int("frames", 1, "Frames to render before printing the screen")
		click       = flag.String("click", "", "Click to deliver before rendering (left:X,Y or right:X,Y)")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *gamesDir != "" {
		cfg.GamesDir = *gamesDir
	}

	if !*list && *gameID == "" && *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: mtg -list")
		fmt.Fprintln(os.Stderr, "       mtg -game <id> [-frames n] [-click left:X,Y]")
		fmt.Fprintln(os.Stderr, "       mtg -game <id> -i  (interactive mode)")
		fmt.Fprintln(os.Stderr, "       mtg -wasm <file.wasm> [-i]")
		os.Exit(1)
	}

	if err := run(cfg, *gameID, *wasmFile, *click, *frames, *list, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, gameID, wasmFile, clickSpec string, frames int, listOnly, interactive bool) error {
	ctx := context.Background()

	log, err := newLogger(cfg, interactive)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	host.SetLogger(log)

	if listOnly {
		return listGames(cfg.GamesDir)
	}

	st, closeStore, err := openStore(cfg.Store)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	sounds := &soundLog{}
	rt, err := host.NewRuntime(ctx, host.Options{
		Store:   st,
		OnSound: sounds.add,
		Width:   cfg.Width,
		Height:  cfg.Height,
		Seed:    cfg.Seed,
	})
	if err != nil {
		return fmt.Errorf("create runtime: %w", err)
	}
	defer rt.Close(ctx)

	g, err := loadGame(ctx, rt, cfg.GamesDir, gameID, wasmFile)
	if err != nil && !stderrors.Is(err, errors.ErrNotFound) {
		return err
	}

	if interactive {
		return runInteractive(ctx, g, cfg, sounds)
	}
	return dump(ctx, g, cfg, clickSpec, frames)
}

// loaded is a game ready to play. A nil session means the id is unknown and
// the missing game screen is shown instead.
type loaded struct {
	session *host.Session
	rt      *host.Runtime
	wasm    []byte
	id      string
	title   string
}

// reopen opens the screen. A session the game terminated is replaced by a
// freshly loaded instance, which reads its persistent data from the store
// again.
func (g *loaded) reopen(ctx context.Context) error {
	if g.session == nil {
		return errors.NotFound(errors.PhaseLoad, "game", g.id)
	}
	if g.session.Terminated() {
		if err := g.session.Unload(ctx); err != nil {
			host.Logger().Debug("unload terminated session", zap.String("app", g.id), zap.Error(err))
		}
		s, err := g.rt.Load(ctx, g.id, g.wasm)
		if err != nil {
			return fmt.Errorf("reload %s: %w", g.id, err)
		}
		g.session = s
	}
	return g.session.Open(ctx)
}

func loadGame(ctx context.Context, rt *host.Runtime, dir, id, wasmFile string) (*loaded, error) {
	var data []byte
	title := id

	if wasmFile != "" {
		b, err := os.ReadFile(wasmFile)
		if err != nil {
			return nil, fmt.Errorf("read file: %w", err)
		}
		if strings.HasSuffix(wasmFile, ".gz") {
			if b, err = catalog.Decompress(bytes.NewReader(b)); err != nil {
				return nil, err
			}
		}
		data = b
		if id == "" {
			id = strings.TrimSuffix(strings.TrimSuffix(baseName(wasmFile), ".gz"), ".wasm")
			title = id
		}
	} else {
		cat, err := catalog.Scan(dir)
		if err != nil {
			return nil, err
		}
		g, ok := cat.Lookup(id)
		if !ok {
			return &loaded{id: id, title: id}, errors.NotFound(errors.PhaseLoad, "game", id)
		}
		if data, err = cat.Read(id); err != nil {
			return nil, err
		}
		title = g.Title
	}

	s, err := rt.Load(ctx, id, data)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", id, err)
	}
	return &loaded{session: s, rt: rt, wasm: data, id: id, title: title}, nil
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}

func listGames(dir string) error {
	cat, err := catalog.Scan(dir)
	if err != nil {
		return err
	}
	ids := cat.IDs()
	if len(ids) == 0 {
		fmt.Printf("No games in %s\n", dir)
		return nil
	}
	fmt.Printf("Games in %s:\n", dir)
	for _, id := range ids {
		g, _ := cat.Lookup(id)
		if g.Title != id {
			fmt.Printf("  %s (%s)\n", id, g.Title)
		} else {
			fmt.Printf("  %s\n", id)
		}
	}
	return nil
}

func openStore(path string) (store.Store, func() error, error) {
	if path == "" {
		return store.NewMemory(), func() error { return nil }, nil
	}
	db, err := sqlite.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return db, db.Close, nil
}

// newLogger writes JSON logs to MTG_LOG_FILE. Without a file, headless runs
// log to stderr and the TUI stays quiet.
func newLogger(cfg *config.Config, interactive bool) (*zap.Logger, error) {
	if cfg.LogFile == "" && interactive {
		return zap.NewNop(), nil
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(cfg.LogLevel)
	zc.Sampling = nil
	if cfg.LogFile != "" {
		zc.OutputPaths = []string{cfg.LogFile}
		zc.ErrorOutputPaths = []string{cfg.LogFile}
	} else {
		zc.Encoding = "console"
		zc.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}
	log, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log, nil
}

type clickSpec struct {
	click abi.ClickType
	x, y  int
}

// parseClick parses "left:X,Y" or "right:X,Y".
func parseClick(s string) (clickSpec, error) {
	kind, pos, ok := strings.Cut(s, ":")
	if !ok {
		return clickSpec{}, errors.InvalidInput(errors.PhaseConfig, "click must look like left:X,Y")
	}
	var c clickSpec
	switch strings.ToLower(kind) {
	case "left":
		c.click = abi.ClickLeft
	case "right":
		c.click = abi.ClickRight
	default:
		return clickSpec{}, errors.InvalidInput(errors.PhaseConfig, "unknown click button "+kind)
	}
	xs, ys, ok := strings.Cut(pos, ",")
	if !ok {
		return clickSpec{}, errors.InvalidInput(errors.PhaseConfig, "click position must be X,Y")
	}
	var err error
	if c.x, err = strconv.Atoi(strings.TrimSpace(xs)); err != nil {
		return clickSpec{}, fmt.Errorf("click x: %w", err)
	}
	if c.y, err = strconv.Atoi(strings.TrimSpace(ys)); err != nil {
		return clickSpec{}, fmt.Errorf("click y: %w", err)
	}
	return c, nil
}
