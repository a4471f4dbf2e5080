// Package charterserver serves the charter web page, its control API
// and the live chart stream.
package charterserver

import (
	"bytes"
	"net/http"
	"sync"

	"github.com/NYTimes/gziphandler"
	"github.com/gorilla/websocket"
	"github.com/juju/loggo"
	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gopkg.in/errgo.v1"

	"github.com/rogpeppe/charter/asset"
	"github.com/rogpeppe/charter/chart"
	"github.com/rogpeppe/charter/chartimage"
	"github.com/rogpeppe/charter/collector"
	"github.com/rogpeppe/charter/exporter"
)

var logger = loggo.GetLogger("charter.charterserver")

// Params holds the parameters for a call to New.
type Params struct {
	// Collector is controlled by the API.
	Collector *collector.Collector

	// Hub holds the chart messages streamed to clients.
	// The collector should be rendering to it.
	Hub *chart.Hub

	// Status holds the collector status streamed to clients.
	// The collector should be updating it.
	Status *StatusValue

	// Horizon holds the number of samples shown before
	// the chart starts scrolling.
	Horizon int

	// ExportDir holds the directory that POST /api/export
	// writes to. If it's empty, the endpoint is disabled.
	ExportDir string

	// Gatherer is used to serve /metrics. If it's nil,
	// prometheus.DefaultGatherer is used.
	Gatherer prometheus.Gatherer
}

// Handler is the HTTP handler for the charter server.
type Handler struct {
	p        Params
	handler  http.Handler
	upgrader websocket.Upgrader

	mu     sync.Mutex
	closed bool
	conns  map[*websocket.Conn]bool
	wg     sync.WaitGroup
}

// New returns a new handler. It should be closed after use.
func New(p Params) (*Handler, error) {
	if p.Collector == nil || p.Hub == nil || p.Status == nil {
		return nil, errgo.New("collector, hub and status are all required")
	}
	if p.Gatherer == nil {
		p.Gatherer = prometheus.DefaultGatherer
	}
	h := &Handler{
		p:     p,
		conns: make(map[*websocket.Conn]bool),
	}
	router := httprouter.New()
	router.GET("/", h.serveIndex)
	router.GET("/index.html", h.serveIndex)
	router.Handler("GET", "/static/*path", http.StripPrefix("/static/", http.FileServer(http.FS(asset.Data()))))
	for _, rh := range reqServer.Handlers(h.apiHandler) {
		router.Handle(rh.Method, rh.Path, rh.Handle)
	}
	router.GET("/data.csv", h.serveCSV)
	router.GET("/chart.png", h.serveImage)
	router.Handler("GET", "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{
		DisableCompression: true,
	}))

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", h.serveWebsocket)
	mux.Handle("/", gziphandler.GzipHandler(router))
	h.handler = mux
	return h, nil
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	h.handler.ServeHTTP(w, req)
}

// Close closes all websocket connections and waits
// for their goroutines to finish.
func (h *Handler) Close() {
	h.mu.Lock()
	h.closed = true
	for conn := range h.conns {
		conn.Close()
	}
	h.mu.Unlock()
	h.wg.Wait()
}

func (h *Handler) serveIndex(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	var b bytes.Buffer
	err := indexTempl.Execute(&b, indexParams{
		Chart:     h.p.Collector.Status().Chart,
		Horizon:   h.p.Horizon,
		CanExport: h.p.ExportDir != "",
	})
	if err != nil {
		logger.Errorf("index template execution failed: %v", err)
		http.Error(w, "template execution failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(b.Bytes())
}

// serveCSV serves GET /data.csv by writing the accumulated
// data as a CSV attachment.
func (h *Handler) serveCSV(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	var b bytes.Buffer
	if err := exporter.Write(&b, h.p.Collector.Snapshot()); err != nil {
		if errgo.Cause(err) == exporter.ErrNoData {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		logger.Errorf("cannot export data: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exporter.FileName+`"`)
	w.Write(b.Bytes())
}

// serveImage serves GET /chart.png by rendering the
// accumulated data as a static image.
func (h *Handler) serveImage(w http.ResponseWriter, req *http.Request, _ httprouter.Params) {
	var b bytes.Buffer
	err := chartimage.Render(&b, h.p.Collector.Snapshot(), chartimage.Params{
		Title:   h.p.Collector.Status().Chart,
		Horizon: h.p.Horizon,
	})
	if err != nil {
		if errgo.Cause(err) == chartimage.ErrNoData {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		logger.Errorf("cannot render chart: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write(b.Bytes())
}
