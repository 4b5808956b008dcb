package streamController

import (
	"bufio"
	"encoding/json"
	"fmt"
	"khatabook/database"
	"khatabook/ledger"
	"khatabook/middleware"
	"khatabook/realtime"
	"log"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

// HeartbeatInterval keeps idle connections open through proxies
var HeartbeatInterval = 25 * time.Second

// Stream sends the caller's ledger events as Server-Sent Events. customerId
// narrows the stream to one customer. Clients refetch what an event names.
func Stream(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var customerId uint
	if raw := c.Query("customerId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return middleware.ValidationErrorResponse(c, map[string]string{"customerId": "Invalid customer id!"})
		}
		customerId = uint(id)
	}
	if customerId > 0 {
		store := ledger.NewStore(database.Database.Db, realtime.Default)
		if _, err := store.GetCustomer(c.UserContext(), userId, customerId); err != nil {
			return middleware.LedgerError(c, err, "Failed to open stream!")
		}
	}

	sub := realtime.Default.Subscribe(userId, customerId)

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer sub.Close()
		if err := writeEvents(w, sub.Events(), HeartbeatInterval); err != nil {
			log.Printf("[REALTIME] stream of user %d closed: %v", userId, err)
		}
	}))
	return nil
}

// writeEvents copies events to w until the channel closes or a write fails
func writeEvents(w *bufio.Writer, events <-chan realtime.Event, heartbeat time.Duration) error {
	ticker := time.NewTicker(heartbeat)
	defer ticker.Stop()

	fmt.Fprint(w, "retry: 5000\n: connected\n\n")
	if err := w.Flush(); err != nil {
		return err
	}

	var seq uint64
	for {
		select {
		case e, ok := <-events:
			if !ok {
				return nil
			}
			payload, err := json.Marshal(e)
			if err != nil {
				return err
			}
			seq++
			fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", seq, e.Kind, payload)
		case <-ticker.C:
			fmt.Fprint(w, ": ping\n\n")
		}
		if err := w.Flush(); err != nil {
			return err
		}
	}
}
