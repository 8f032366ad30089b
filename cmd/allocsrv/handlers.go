package main

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/bytebufferpool"

	"github.com/climber/heapcore"
)

// handleRegistry maps opaque handle ids to live payload pointers, and
// serializes every call into the Allocator behind it — heapcore.Allocator
// is not safe for concurrent use (spec §5), so every HTTP handler that
// touches it goes through this one mutex.
type handleRegistry struct {
	mu    sync.Mutex
	items map[string]unsafe.Pointer
}

func newHandleRegistry() *handleRegistry {
	return &handleRegistry{items: make(map[string]unsafe.Pointer)}
}

type allocRequest struct {
	Size uint64 `json:"size"`
}

type allocResponse struct {
	ID string `json:"id"`
}

type freeRequest struct {
	ID string `json:"id"`
}

type resizeRequest struct {
	ID   string `json:"id"`
	Size uint64 `json:"size"`
}

func registerRoutes(app *fiber.App, a *heapcore.Allocator, arena *heapcore.Arena, reg *handleRegistry) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/stats", func(c *fiber.Ctx) error {
		reg.mu.Lock()
		s := a.Stats()
		reg.mu.Unlock()

		buf := bytebufferpool.Get()
		defer bytebufferpool.Put(buf)

		fmt.Fprintf(buf, `{"session":%q,"live_bytes":%d,"live_blocks":%d,"free_blocks":%d,`+
			`"free_blocks_by_class":[`,
			a.ID().String(), s.LiveBytes, s.LiveBlocks, s.FreeBlocks())
		for i, n := range s.FreeBlocksByClass {
			if i > 0 {
				fmt.Fprint(buf, ",")
			}
			fmt.Fprintf(buf, "%d", n)
		}
		fmt.Fprintf(buf, `],"alloc_calls":%d,"release_calls":%d,"oom_count":%d,"extensions":%d,`+
			`"high_water_mark":%d,"capacity":%d}`,
			s.AllocCalls, s.ReleaseCalls, s.OOMCount, s.Extensions,
			s.HighWaterMark, arena.Capacity())

		c.Response().Header.SetContentType(fiber.MIMEApplicationJSON)
		return c.Send(buf.Bytes())
	})

	app.Post("/alloc", func(c *fiber.Ctx) error {
		var req allocRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}

		reg.mu.Lock()
		p := a.Alloc(req.Size)
		reg.mu.Unlock()

		if p == nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("heap exhausted")
		}

		id := uuid.New().String()
		reg.mu.Lock()
		reg.items[id] = p
		reg.mu.Unlock()

		return c.JSON(allocResponse{ID: id})
	})

	app.Post("/free", func(c *fiber.Ctx) error {
		var req freeRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}

		reg.mu.Lock()
		p, ok := reg.items[req.ID]
		if ok {
			delete(reg.items, req.ID)
		}
		if ok {
			a.Release(p)
		}
		reg.mu.Unlock()

		if !ok {
			return c.Status(fiber.StatusNotFound).SendString("unknown handle")
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	app.Post("/resize", func(c *fiber.Ctx) error {
		var req resizeRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).SendString(err.Error())
		}

		reg.mu.Lock()
		defer reg.mu.Unlock()

		p, ok := reg.items[req.ID]
		if !ok {
			return c.Status(fiber.StatusNotFound).SendString("unknown handle")
		}

		np := a.Resize(p, req.Size)
		if req.Size == 0 {
			delete(reg.items, req.ID)
			return c.SendStatus(fiber.StatusNoContent)
		}
		if np == nil {
			return c.Status(fiber.StatusServiceUnavailable).SendString("heap exhausted")
		}

		reg.items[req.ID] = np
		return c.SendStatus(fiber.StatusNoContent)
	})
}
