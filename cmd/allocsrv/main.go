// Command allocsrv is a demo harness for a live heapcore.Allocator: the
// kind of driver spec.md §1 leaves out of the core's scope, wired here as
// a small HTTP surface instead of a libc shim so the allocator can be
// exercised interactively from a browser or curl.
package main

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"

	"github.com/climber/heapcore"
	"github.com/climber/heapcore/structured_logger"
)

// Config is loaded from the environment via heapcore.LoadConfig (spec §6
// ambient stack): ARENA_CAPACITY_BYTES, LISTEN_ADDR, LOG_LEVEL.
type Config struct {
	ArenaCapacity int64  `env:"ARENA_CAPACITY_BYTES" default:"1048576"`
	ListenAddr    string `env:"LISTEN_ADDR" default:":8090"`
	LogLevel      string `env:"LOG_LEVEL" default:"info"`
}

func main() {
	config := heapcore.LoadConfig[Config]()
	logger := structured_logger.NewLogger(config.LogLevel)

	heapcore.AppScope.Init(logger)

	arena := heapcore.NewArena(uintptr(config.ArenaCapacity))
	alloc := heapcore.Must(heapcore.NewAllocator(arena, logger))
	reg := newHandleRegistry()

	app := heapcore.Must(heapcore.NewFiber(func(app *fiber.App) error {
		app.Use(compress.New())
		registerRoutes(app, alloc, arena, reg)
		return nil
	}))

	heapcore.AppScope.GoWithClose(func() {
		if err := app.Start(heapcore.AppScope.Context, config.ListenAddr, 5*time.Second); err != nil {
			logger.Err().Msg(err.Error())
		}
	}, func() bool {
		return true
	})

	logger.Info().Value("addr", config.ListenAddr).Msg("allocsrv listening")
	heapcore.AppScope.Done(false)
}
