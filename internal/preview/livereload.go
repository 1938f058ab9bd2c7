package preview

import (
	"bufio"
	"bytes"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"git.home.luguber.info/inful/bookbuilder/internal/metrics"
)

// LiveReloadHub manages SSE clients for rebuild broadcasts.
type LiveReloadHub struct {
	mu       sync.RWMutex
	nextID   int
	clients  map[int]*lrClient
	recorder metrics.Recorder
	closed   bool
	lastHash string
}

type lrClient struct {
	id   int
	ch   chan string
	done chan struct{}
}

// NewLiveReloadHub returns a hub seeded with a start-up hash, so pages opened
// before a restart reload once the server is back. A nil recorder disables
// client metrics.
func NewLiveReloadHub(recorder metrics.Recorder) *LiveReloadHub {
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &LiveReloadHub{
		clients:  map[int]*lrClient{},
		recorder: recorder,
		lastHash: strconv.FormatInt(time.Now().UnixNano(), 10),
	}
}

// ServeHTTP implements the SSE endpoint at /livereload.
func (h *LiveReloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, "livereload shutting down", http.StatusServiceUnavailable)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	client := &lrClient{ch: make(chan string, 8), done: make(chan struct{})}
	h.mu.Lock()
	client.id = h.nextID
	h.nextID++
	h.clients[client.id] = client
	current := h.lastHash
	count := len(h.clients)
	h.mu.Unlock()
	h.recorder.SetLiveReloadClients(count)

	// The first event carries the current hash so clients get a baseline.
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(": connected\n\n" + event(current)); err != nil {
		slog.Debug("livereload write", "error", err)
		h.removeClient(client.id)
		return
	}
	if err := bw.Flush(); err == nil {
		flusher.Flush()
	}

	hb := time.NewTicker(30 * time.Second)
	defer hb.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			h.removeClient(client.id)
			return
		case <-client.done:
			return
		case <-hb.C:
			if _, err := bw.WriteString(": ping\n\n"); err != nil {
				slog.Debug("livereload ping write", "error", err)
				continue
			}
			if err := bw.Flush(); err == nil {
				flusher.Flush()
			}
		case hash := <-client.ch:
			if _, err := bw.WriteString(event(hash)); err != nil {
				slog.Debug("livereload broadcast write", "error", err)
				continue
			}
			if err := bw.Flush(); err == nil {
				flusher.Flush()
			}
		}
	}
}

func event(hash string) string {
	return "data: {\"hash\":\"" + hash + "\"}\n\n"
}

func (h *LiveReloadHub) removeClient(id int) {
	h.mu.Lock()
	c, ok := h.clients[id]
	if ok {
		delete(h.clients, id)
		close(c.done)
	}
	count := len(h.clients)
	h.mu.Unlock()
	if ok {
		h.recorder.SetLiveReloadClients(count)
	}
}

// Clients returns the number of connected clients.
func (h *LiveReloadHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends hash to every client. Repeating the last hash is a no-op,
// and clients whose buffers are full are dropped.
func (h *LiveReloadHub) Broadcast(hash string) {
	h.mu.Lock()
	if h.closed || hash == "" || hash == h.lastHash {
		h.mu.Unlock()
		return
	}
	h.lastHash = hash
	snapshot := make([]*lrClient, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	dropped := 0
	for _, c := range snapshot {
		select {
		case c.ch <- hash:
		default:
			dropped++
			h.removeClient(c.id)
		}
	}
	slog.Debug("livereload broadcast", "hash", hash, "clients", len(snapshot), "dropped", dropped)
}

// Shutdown closes all clients and prevents future broadcasts.
func (h *LiveReloadHub) Shutdown() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = map[int]*lrClient{}
	h.mu.Unlock()
	for _, c := range clients {
		close(c.done)
	}
	h.recorder.SetLiveReloadClients(0)
}

// LiveReloadScript is served at /livereload.js. The first event only sets the
// baseline; any later hash reloads the page.
const LiveReloadScript = `(() => {
  if (window.__BOOKBUILDER_LR__) return;
  window.__BOOKBUILDER_LR__ = true;
  let current = null;
  function connect() {
    const es = new EventSource('/livereload');
    es.onmessage = (e) => {
      try {
        const p = JSON.parse(e.data);
        if (current === null) { current = p.hash; return; }
        if (p.hash && p.hash !== current) { location.reload(); }
      } catch (_) {}
    };
    es.onerror = () => { es.close(); setTimeout(connect, 2000); };
  }
  connect();
})();`

var scriptTag = []byte(`<script async src="/livereload.js"></script></body>`)

// injectScript adds the live reload script tag before the closing body tag.
// Pages without one are returned unchanged.
func injectScript(page []byte) []byte {
	i := bytes.LastIndex(page, []byte("</body>"))
	if i < 0 {
		return page
	}
	out := make([]byte, 0, len(page)+len(scriptTag))
	out = append(out, page[:i]...)
	out = append(out, scriptTag...)
	return append(out, page[i+len("</body>"):]...)
}
